package force

import (
	"math"
	"testing"

	"github.com/san-kum/pworld/internal/particle"
	"github.com/san-kum/pworld/internal/vecmath"
)

func closeTo(a, b vecmath.Vector3) bool {
	return a.Sub(b).Magnitude() < 1e-9
}

func TestRegistryUpdateForces(t *testing.T) {
	r := NewRegistry()
	p := particle.New(vecmath.Zero, 2)
	g := NewGravity(vecmath.New(0, -10, 0))

	r.Add(p, g)
	r.Add(p, g)
	r.UpdateForces(0.1)

	if !closeTo(p.Force(), vecmath.New(0, -40, 0)) {
		t.Errorf("force = %v, want (0,-40,0)", p.Force())
	}
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry()
	p := particle.New(vecmath.Zero, 1)
	g := NewGravity(vecmath.New(0, -10, 0))
	d := NewDrag(1, 0)

	r.Add(p, g)
	r.Add(p, d)

	if !r.Remove(p, g) {
		t.Fatal("expected gravity registration to be removed")
	}
	if r.Remove(p, g) {
		t.Error("second removal should report false")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}

	r.Clear()
	if r.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", r.Len())
	}
}

func TestGravity_SkipsImmovable(t *testing.T) {
	p := particle.New(vecmath.Zero, 0)
	NewGravity(vecmath.New(0, -10, 0)).UpdateForce(p, 1)
	if p.Force() != vecmath.Zero {
		t.Errorf("immovable particle received force %v", p.Force())
	}
}

func TestDrag(t *testing.T) {
	p := particle.New(vecmath.Zero, 1)
	p.Velocity = vecmath.New(2, 0, 0)

	NewDrag(1, 0.5).UpdateForce(p, 1)

	// 1*2 + 0.5*4 = 4 against motion
	if !closeTo(p.Force(), vecmath.New(-4, 0, 0)) {
		t.Errorf("drag force = %v, want (-4,0,0)", p.Force())
	}
}

func TestSprings(t *testing.T) {
	tests := []struct {
		name string
		gen  func(other *particle.Particle) Generator
		pos  vecmath.Vector3
		want vecmath.Vector3
	}{
		{
			name: "spring stretched",
			gen:  func(o *particle.Particle) Generator { return NewSpring(o, 10, 1) },
			pos:  vecmath.New(3, 0, 0),
			want: vecmath.New(-20, 0, 0),
		},
		{
			name: "spring compressed",
			gen:  func(o *particle.Particle) Generator { return NewSpring(o, 10, 1) },
			pos:  vecmath.New(0.5, 0, 0),
			want: vecmath.New(5, 0, 0),
		},
		{
			name: "bungee slack",
			gen:  func(o *particle.Particle) Generator { return NewBungee(o, 10, 1) },
			pos:  vecmath.New(0.5, 0, 0),
			want: vecmath.Zero,
		},
		{
			name: "bungee taut",
			gen:  func(o *particle.Particle) Generator { return NewBungee(o, 10, 1) },
			pos:  vecmath.New(0, 2, 0),
			want: vecmath.New(0, -10, 0),
		},
		{
			name: "anchored",
			gen:  func(*particle.Particle) Generator { return NewAnchoredSpring(vecmath.Zero, 2, 0) },
			pos:  vecmath.New(0, -3, 0),
			want: vecmath.New(0, 6, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			other := particle.New(vecmath.Zero, 1)
			p := particle.New(tt.pos, 1)
			tt.gen(other).UpdateForce(p, 0.1)
			if !closeTo(p.Force(), tt.want) {
				t.Errorf("force = %v, want %v", p.Force(), tt.want)
			}
		})
	}
}

func TestHooke_ZeroLength(t *testing.T) {
	f := hooke(vecmath.Zero, 5, 1)
	if f != vecmath.Zero || math.IsNaN(f.X) {
		t.Errorf("hooke at zero displacement = %v, want zero", f)
	}
}

package contact

import (
	"math"
	"testing"

	"github.com/san-kum/pworld/internal/particle"
	"github.com/san-kum/pworld/internal/vecmath"
)

func groundContact(p *particle.Particle) Contact {
	return Contact{
		Particles:   [2]*particle.Particle{p, nil},
		Normal:      vecmath.Up,
		Penetration: -p.Position.Y,
		Restitution: GroundRestitution,
	}
}

func TestResolveContacts_Bounce(t *testing.T) {
	p := particle.New(vecmath.New(0, -0.5, 0), 1)
	p.Velocity = vecmath.New(0, -10, 0)

	contacts := []Contact{groundContact(p)}
	r := NewResolver(4)
	r.ResolveContacts(contacts, 0.01)

	if math.Abs(p.Velocity.Y-2) > 1e-9 {
		t.Errorf("velocity.y = %v, want 2 (restitution 0.2)", p.Velocity.Y)
	}
	if math.Abs(p.Position.Y) > 1e-9 {
		t.Errorf("position.y = %v, want 0", p.Position.Y)
	}
	if r.IterationsUsed() != 1 {
		t.Errorf("IterationsUsed() = %d, want 1", r.IterationsUsed())
	}
}

func TestResolveContacts_RestingContact(t *testing.T) {
	dt := 0.1
	p := particle.New(vecmath.New(0, -0.01, 0), 1)
	p.Acceleration = vecmath.New(0, -10, 0)
	p.Velocity = vecmath.New(0, -1, 0) // exactly one frame of gravity

	NewResolver(2).ResolveContacts([]Contact{groundContact(p)}, dt)

	if math.Abs(p.Velocity.Y) > 1e-9 {
		t.Errorf("resting contact left velocity %v, want 0", p.Velocity.Y)
	}
}

func TestResolveContacts_IterationBudget(t *testing.T) {
	ps := []*particle.Particle{
		particle.New(vecmath.New(0, -1, 0), 1),
		particle.New(vecmath.New(1, -2, 0), 1),
		particle.New(vecmath.New(2, -3, 0), 1),
	}
	contacts := make([]Contact, len(ps))
	for i, p := range ps {
		p.Velocity = vecmath.New(0, -1, 0)
		contacts[i] = groundContact(p)
	}

	r := NewResolver(2)
	r.ResolveContacts(contacts, 0.01)
	if r.IterationsUsed() != 2 {
		t.Errorf("IterationsUsed() = %d, want 2", r.IterationsUsed())
	}
	unresolved := 0
	for _, p := range ps {
		if p.Position.Y < 0 {
			unresolved++
		}
	}
	if unresolved != 1 {
		t.Errorf("expected 1 particle left below ground, got %d", unresolved)
	}

	r.SetIterations(10)
	r.ResolveContacts(contacts, 0.01)
	if r.IterationsUsed() != 1 {
		t.Errorf("IterationsUsed() = %d, want 1 on second pass", r.IterationsUsed())
	}
	if r.Iterations() != 10 {
		t.Errorf("Iterations() = %d, want 10", r.Iterations())
	}
}

func TestResolveContacts_TwoBodies(t *testing.T) {
	a := particle.New(vecmath.Zero, 1)
	b := particle.New(vecmath.New(3, 0, 0), 3)
	a.Velocity = vecmath.New(-1, 0, 0)
	b.Velocity = vecmath.New(1, 0, 0)

	buf := make([]Contact, 1)
	NewCable(a, b, 2, 0).AddContact(buf)
	NewResolver(1).ResolveContacts(buf, 0.01)

	// inelastic: both end with the momentum-weighted velocity
	if math.Abs(a.Velocity.X-b.Velocity.X) > 1e-9 {
		t.Errorf("velocities differ after inelastic resolve: %v vs %v", a.Velocity.X, b.Velocity.X)
	}
	if math.Abs(a.Velocity.X-0.5) > 1e-9 {
		t.Errorf("common velocity = %v, want 0.5", a.Velocity.X)
	}
	dist := b.Position.Sub(a.Position).Magnitude()
	if math.Abs(dist-2) > 1e-9 {
		t.Errorf("separation after resolve = %v, want 2", dist)
	}
	// heavier particle moves less
	if math.Abs(a.Position.X-0.75) > 1e-9 || math.Abs(b.Position.X-2.75) > 1e-9 {
		t.Errorf("positions = %v, %v", a.Position.X, b.Position.X)
	}
}

func TestResolveContacts_Separating(t *testing.T) {
	p := particle.New(vecmath.New(0, 1, 0), 1)
	p.Velocity = vecmath.New(0, 5, 0)
	c := Contact{Particles: [2]*particle.Particle{p, nil}, Normal: vecmath.Up}

	r := NewResolver(5)
	r.ResolveContacts([]Contact{c}, 0.1)
	if r.IterationsUsed() != 0 {
		t.Errorf("separating contact consumed %d iterations", r.IterationsUsed())
	}
	if p.Velocity.Y != 5 {
		t.Errorf("velocity changed to %v", p.Velocity.Y)
	}
}

func TestResolveContacts_ImmovablePair(t *testing.T) {
	a := particle.New(vecmath.Zero, 0)
	b := particle.New(vecmath.New(3, 0, 0), 0)
	buf := make([]Contact, 1)
	NewRod(a, b, 2).AddContact(buf)

	NewResolver(3).ResolveContacts(buf, 0.1)
	if a.Position != vecmath.Zero || b.Position != vecmath.New(3, 0, 0) {
		t.Error("immovable particles were moved")
	}
}

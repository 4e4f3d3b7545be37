package force

import (
	"github.com/san-kum/pworld/internal/particle"
	"github.com/san-kum/pworld/internal/vecmath"
)

// Gravity applies a constant acceleration scaled by the particle's mass.
type Gravity struct {
	G vecmath.Vector3
}

func NewGravity(g vecmath.Vector3) *Gravity {
	return &Gravity{G: g}
}

func (g *Gravity) UpdateForce(p *particle.Particle, _ float64) {
	if !p.HasFiniteMass() {
		return
	}
	p.AddForce(g.G.Scale(p.Mass()))
}

// Drag opposes velocity with k1*|v| + k2*|v|^2.
type Drag struct {
	K1, K2 float64
}

func NewDrag(k1, k2 float64) *Drag {
	return &Drag{K1: k1, K2: k2}
}

func (d *Drag) UpdateForce(p *particle.Particle, _ float64) {
	speed := p.Velocity.Magnitude()
	if speed == 0 {
		return
	}
	coeff := d.K1*speed + d.K2*speed*speed
	p.AddForce(p.Velocity.Normalize().Scale(-coeff))
}

// Spring connects a particle to another particle.
type Spring struct {
	Other      *particle.Particle
	K          float64
	RestLength float64
}

func NewSpring(other *particle.Particle, k, rest float64) *Spring {
	return &Spring{Other: other, K: k, RestLength: rest}
}

func (s *Spring) UpdateForce(p *particle.Particle, _ float64) {
	p.AddForce(hooke(p.Position.Sub(s.Other.Position), s.K, s.RestLength))
}

// AnchoredSpring connects a particle to a fixed point.
type AnchoredSpring struct {
	Anchor     vecmath.Vector3
	K          float64
	RestLength float64
}

func NewAnchoredSpring(anchor vecmath.Vector3, k, rest float64) *AnchoredSpring {
	return &AnchoredSpring{Anchor: anchor, K: k, RestLength: rest}
}

func (s *AnchoredSpring) UpdateForce(p *particle.Particle, _ float64) {
	p.AddForce(hooke(p.Position.Sub(s.Anchor), s.K, s.RestLength))
}

// Bungee is a spring that only pulls.
type Bungee struct {
	Other      *particle.Particle
	K          float64
	RestLength float64
}

func NewBungee(other *particle.Particle, k, rest float64) *Bungee {
	return &Bungee{Other: other, K: k, RestLength: rest}
}

func (b *Bungee) UpdateForce(p *particle.Particle, _ float64) {
	d := p.Position.Sub(b.Other.Position)
	if d.Magnitude() <= b.RestLength {
		return
	}
	p.AddForce(hooke(d, b.K, b.RestLength))
}

// hooke returns the spring force for displacement d from the other end.
func hooke(d vecmath.Vector3, k, rest float64) vecmath.Vector3 {
	length := d.Magnitude()
	if length == 0 {
		return vecmath.Zero
	}
	return d.Normalize().Scale(-k * (length - rest))
}

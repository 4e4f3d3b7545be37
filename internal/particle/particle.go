// Package particle defines the point mass simulated by the particle world.
package particle

import (
	"math"

	"github.com/san-kum/pworld/internal/vecmath"
)

// DefaultDamping removes a small amount of energy each second to keep
// integration stable.
const DefaultDamping = 0.995

// Particle is a point mass. Mass is stored as its inverse so that immovable
// particles (infinite mass) have an inverse mass of zero.
type Particle struct {
	Position     vecmath.Vector3
	Velocity     vecmath.Vector3
	Acceleration vecmath.Vector3 // constant acceleration such as gravity
	Damping      float64

	inverseMass float64
	forceAccum  vecmath.Vector3
}

// New creates a particle at pos with the given mass. A non-positive mass
// makes the particle immovable.
func New(pos vecmath.Vector3, mass float64) *Particle {
	p := &Particle{Position: pos, Damping: DefaultDamping}
	p.SetMass(mass)
	return p
}

func (p *Particle) SetMass(mass float64) {
	if mass <= 0 || math.IsInf(mass, 1) {
		p.inverseMass = 0
		return
	}
	p.inverseMass = 1 / mass
}

func (p *Particle) Mass() float64 {
	if p.inverseMass == 0 {
		return math.Inf(1)
	}
	return 1 / p.inverseMass
}

func (p *Particle) InverseMass() float64 { return p.inverseMass }
func (p *Particle) HasFiniteMass() bool  { return p.inverseMass > 0 }

func (p *Particle) AddForce(f vecmath.Vector3) {
	p.forceAccum = p.forceAccum.Add(f)
}

func (p *Particle) Force() vecmath.Vector3 { return p.forceAccum }

func (p *Particle) ClearAccumulator() {
	p.forceAccum = vecmath.Zero
}

// Integrate advances the particle by duration seconds with a first-order
// Euler step and clears the force accumulator.
func (p *Particle) Integrate(duration float64) {
	if p.inverseMass <= 0 || duration <= 0 {
		return
	}

	p.Position = p.Position.AddScaled(p.Velocity, duration)

	acc := p.Acceleration.AddScaled(p.forceAccum, p.inverseMass)
	p.Velocity = p.Velocity.AddScaled(acc, duration)
	p.Velocity = p.Velocity.Scale(math.Pow(p.Damping, duration))

	p.ClearAccumulator()
}

func (p *Particle) KineticEnergy() float64 {
	if p.inverseMass == 0 {
		return 0
	}
	return 0.5 * p.Velocity.SquareMagnitude() / p.inverseMass
}

// Set is an ordered collection of particle handles.
type Set []*Particle

func (s *Set) Add(p ...*Particle) {
	*s = append(*s, p...)
}

func (s Set) Len() int { return len(s) }

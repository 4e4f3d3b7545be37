// Package effect implements particle effects: self-contained groups of
// particles that expire and are collected as a unit.
package effect

import (
	"math"
	"math/rand"

	"github.com/san-kum/pworld/internal/particle"
	"github.com/san-kum/pworld/internal/vecmath"
)

// Effect owns its particles for its whole lifetime. Once destroyable it is
// frozen and waits for the world's sweep to release it.
type Effect struct {
	Name string

	particles   []particle.Particle
	destroyable bool
	released    bool
	lifetime    float64
	age         float64
}

// New creates an effect owning copies of the given particles. A lifetime of
// zero means the effect only ends when MarkDestroyable is called.
func New(name string, lifetime float64, ps ...particle.Particle) *Effect {
	owned := make([]particle.Particle, len(ps))
	copy(owned, ps)
	return &Effect{Name: name, particles: owned, lifetime: lifetime}
}

// Particles returns the owned particles. Elements may be mutated in place.
func (e *Effect) Particles() []particle.Particle { return e.particles }

func (e *Effect) Len() int { return len(e.particles) }

func (e *Effect) Destroyable() bool { return e.destroyable }

func (e *Effect) MarkDestroyable() { e.destroyable = true }

func (e *Effect) Released() bool { return e.released }

func (e *Effect) Age() float64 { return e.age }

// Tick ages the effect by duration and marks it destroyable once its
// lifetime has elapsed.
func (e *Effect) Tick(duration float64) {
	if e.destroyable || e.lifetime <= 0 {
		return
	}
	e.age += duration
	if e.age >= e.lifetime {
		e.destroyable = true
	}
}

// Release drops the owned particles. The effect must not be used afterwards.
func (e *Effect) Release() {
	e.particles = nil
	e.released = true
}

// BurstConfig describes a spherical spray of particles from one point.
type BurstConfig struct {
	Origin   vecmath.Vector3
	Count    int
	Speed    float64
	Mass     float64
	Lifetime float64
	Gravity  vecmath.Vector3
	Damping  float64
}

// Burst builds a spark-style effect whose particles leave Origin in random
// directions of the upper hemisphere.
func Burst(name string, cfg BurstConfig, rng *rand.Rand) *Effect {
	ps := make([]particle.Particle, cfg.Count)
	for i := range ps {
		theta := rng.Float64() * 2 * math.Pi
		phi := rng.Float64() * math.Pi / 2
		dir := vecmath.New(math.Cos(theta)*math.Cos(phi), math.Sin(phi), math.Sin(theta)*math.Cos(phi))
		speed := cfg.Speed * (0.5 + 0.5*rng.Float64())

		p := particle.New(cfg.Origin, cfg.Mass)
		p.Velocity = dir.Scale(speed)
		p.Acceleration = cfg.Gravity
		if cfg.Damping > 0 {
			p.Damping = cfg.Damping
		}
		ps[i] = *p
	}
	return &Effect{Name: name, particles: ps, lifetime: cfg.Lifetime}
}

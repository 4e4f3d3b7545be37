package contact

import (
	"github.com/san-kum/pworld/internal/particle"
	"github.com/san-kum/pworld/internal/vecmath"
)

// GroundRestitution is the restitution of every ground contact.
const GroundRestitution = 0.2

// Generator detects contacts and writes them into buf. len(buf) is the
// remaining capacity of the shared contact buffer; AddContact returns the
// number of contacts written and never writes more than len(buf).
type Generator interface {
	AddContact(buf []Contact) int
}

// Ground emits a contact for every particle below the y = 0 plane.
type Ground struct {
	particles *particle.Set
}

func NewGround(particles *particle.Set) *Ground {
	return &Ground{particles: particles}
}

func (g *Ground) AddContact(buf []Contact) int {
	count := 0
	if g.particles == nil {
		return 0
	}
	for _, p := range *g.particles {
		if count >= len(buf) {
			break
		}
		y := p.Position.Y
		if y >= 0 {
			continue
		}
		buf[count] = Contact{
			Particles:   [2]*particle.Particle{p, nil},
			Normal:      vecmath.Up,
			Penetration: -y,
			Restitution: GroundRestitution,
		}
		count++
	}
	return count
}

// Cable keeps two particles from separating beyond MaxLength.
type Cable struct {
	Particles   [2]*particle.Particle
	MaxLength   float64
	Restitution float64
}

func NewCable(a, b *particle.Particle, maxLength, restitution float64) *Cable {
	return &Cable{Particles: [2]*particle.Particle{a, b}, MaxLength: maxLength, Restitution: restitution}
}

func (c *Cable) length() float64 {
	return c.Particles[0].Position.Sub(c.Particles[1].Position).Magnitude()
}

func (c *Cable) AddContact(buf []Contact) int {
	if len(buf) == 0 {
		return 0
	}
	length := c.length()
	if length < c.MaxLength || length == 0 {
		return 0
	}
	buf[0] = Contact{
		Particles:   c.Particles,
		Normal:      c.Particles[1].Position.Sub(c.Particles[0].Position).Normalize(),
		Penetration: length - c.MaxLength,
		Restitution: c.Restitution,
	}
	return 1
}

// Rod holds two particles at a fixed distance.
type Rod struct {
	Particles [2]*particle.Particle
	Length    float64
}

func NewRod(a, b *particle.Particle, length float64) *Rod {
	return &Rod{Particles: [2]*particle.Particle{a, b}, Length: length}
}

func (r *Rod) AddContact(buf []Contact) int {
	if len(buf) == 0 {
		return 0
	}
	d := r.Particles[1].Position.Sub(r.Particles[0].Position)
	current := d.Magnitude()
	if current == r.Length || current == 0 {
		return 0
	}

	c := Contact{Particles: r.Particles}
	if current > r.Length {
		c.Normal = d.Normalize()
		c.Penetration = current - r.Length
	} else {
		c.Normal = d.Normalize().Invert()
		c.Penetration = r.Length - current
	}
	buf[0] = c
	return 1
}

// Package contact describes particle contacts, the generators that detect
// them and the iterative resolver that corrects them.
package contact

import (
	"github.com/san-kum/pworld/internal/particle"
	"github.com/san-kum/pworld/internal/vecmath"
)

// Contact is one potential interpenetration. Particles[1] is nil when the
// contact is against an immovable surface such as the ground.
type Contact struct {
	Particles   [2]*particle.Particle
	Normal      vecmath.Vector3
	Penetration float64
	Restitution float64

	movement [2]vecmath.Vector3
}

// Movement returns how far each participant was moved by the last
// interpenetration resolution.
func (c *Contact) Movement() [2]vecmath.Vector3 { return c.movement }

// SeparatingVelocity is the closing speed along the normal. Negative means
// the participants are approaching.
func (c *Contact) SeparatingVelocity() float64 {
	rel := c.Particles[0].Velocity
	if c.Particles[1] != nil {
		rel = rel.Sub(c.Particles[1].Velocity)
	}
	return rel.Dot(c.Normal)
}

func (c *Contact) totalInverseMass() float64 {
	total := c.Particles[0].InverseMass()
	if c.Particles[1] != nil {
		total += c.Particles[1].InverseMass()
	}
	return total
}

// Resolve applies the impulse and the positional correction for this contact.
func (c *Contact) Resolve(duration float64) {
	c.resolveVelocity(duration)
	c.resolveInterpenetration()
}

func (c *Contact) resolveVelocity(duration float64) {
	sepVel := c.SeparatingVelocity()
	if sepVel > 0 {
		return
	}

	newSepVel := -sepVel * c.Restitution

	// Velocity gained from acceleration alone this frame is removed so that
	// resting contacts do not jitter.
	accVel := c.Particles[0].Acceleration
	if c.Particles[1] != nil {
		accVel = accVel.Sub(c.Particles[1].Acceleration)
	}
	accSepVel := accVel.Dot(c.Normal) * duration
	if accSepVel < 0 {
		newSepVel += c.Restitution * accSepVel
		if newSepVel < 0 {
			newSepVel = 0
		}
	}

	totalInv := c.totalInverseMass()
	if totalInv <= 0 {
		return
	}

	impulse := c.Normal.Scale((newSepVel - sepVel) / totalInv)

	p0 := c.Particles[0]
	p0.Velocity = p0.Velocity.AddScaled(impulse, p0.InverseMass())
	if p1 := c.Particles[1]; p1 != nil {
		p1.Velocity = p1.Velocity.AddScaled(impulse, -p1.InverseMass())
	}
}

func (c *Contact) resolveInterpenetration() {
	c.movement = [2]vecmath.Vector3{}
	if c.Penetration <= 0 {
		return
	}

	totalInv := c.totalInverseMass()
	if totalInv <= 0 {
		return
	}

	perInv := c.Normal.Scale(c.Penetration / totalInv)

	p0 := c.Particles[0]
	c.movement[0] = perInv.Scale(p0.InverseMass())
	p0.Position = p0.Position.Add(c.movement[0])
	if p1 := c.Particles[1]; p1 != nil {
		c.movement[1] = perInv.Scale(-p1.InverseMass())
		p1.Position = p1.Position.Add(c.movement[1])
	}
}

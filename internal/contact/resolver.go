package contact

import "math"

// Resolver corrects a batch of contacts, one at a time, always picking the
// contact with the largest closing velocity.
type Resolver struct {
	iterations     int
	iterationsUsed int
}

func NewResolver(iterations int) *Resolver {
	return &Resolver{iterations: iterations}
}

func (r *Resolver) SetIterations(n int) { r.iterations = n }
func (r *Resolver) Iterations() int     { return r.iterations }

// IterationsUsed reports how many passes the last ResolveContacts call took.
func (r *Resolver) IterationsUsed() int { return r.iterationsUsed }

func (r *Resolver) ResolveContacts(contacts []Contact, duration float64) {
	r.iterationsUsed = 0
	for r.iterationsUsed < r.iterations {
		worst := -1
		minSepVel := math.MaxFloat64
		for i := range contacts {
			sepVel := contacts[i].SeparatingVelocity()
			if sepVel < minSepVel && (sepVel < 0 || contacts[i].Penetration > 0) {
				minSepVel = sepVel
				worst = i
			}
		}
		if worst < 0 {
			break
		}

		contacts[worst].Resolve(duration)
		r.propagate(contacts, worst)
		r.iterationsUsed++
	}
}

// propagate updates the penetration of every contact that shares a
// participant with the one just resolved.
func (r *Resolver) propagate(contacts []Contact, resolved int) {
	moved := contacts[resolved].Particles
	move := contacts[resolved].movement

	for i := range contacts {
		c := &contacts[i]
		for k, m := range moved {
			if m == nil {
				continue
			}
			if c.Particles[0] == m {
				c.Penetration -= move[k].Dot(c.Normal)
			}
			if c.Particles[1] == m {
				c.Penetration += move[k].Dot(c.Normal)
			}
		}
	}
}

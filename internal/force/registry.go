// Package force holds the force generators applied to particles each frame
// and the registry that associates them with particles.
package force

import "github.com/san-kum/pworld/internal/particle"

// Generator adds a force to a single particle.
type Generator interface {
	UpdateForce(p *particle.Particle, duration float64)
}

type registration struct {
	p  *particle.Particle
	fg Generator
}

// Registry holds every (particle, generator) association.
type Registry struct {
	registrations []registration
}

func NewRegistry() *Registry {
	return &Registry{registrations: make([]registration, 0)}
}

func (r *Registry) Add(p *particle.Particle, fg Generator) {
	r.registrations = append(r.registrations, registration{p: p, fg: fg})
}

// Remove drops the association if present. It reports whether anything was removed.
func (r *Registry) Remove(p *particle.Particle, fg Generator) bool {
	for i, reg := range r.registrations {
		if reg.p == p && reg.fg == fg {
			r.registrations = append(r.registrations[:i], r.registrations[i+1:]...)
			return true
		}
	}
	return false
}

func (r *Registry) Clear()   { r.registrations = r.registrations[:0] }
func (r *Registry) Len() int { return len(r.registrations) }

func (r *Registry) UpdateForces(duration float64) {
	for _, reg := range r.registrations {
		reg.fg.UpdateForce(reg.p, duration)
	}
}

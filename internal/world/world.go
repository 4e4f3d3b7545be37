package world

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/san-kum/pworld/internal/contact"
	"github.com/san-kum/pworld/internal/effect"
	"github.com/san-kum/pworld/internal/force"
	"github.com/san-kum/pworld/internal/particle"
)

// DefaultCollectGap is the number of destroyable effects tolerated before a
// sweep compacts the effect list.
const DefaultCollectGap = 16

// ContactResolver corrects a batch of contacts within an iteration budget.
type ContactResolver interface {
	SetIterations(n int)
	ResolveContacts(contacts []contact.Contact, duration float64)
}

// FrameStats summarises the last frame.
type FrameStats struct {
	Contacts       int
	Truncated      bool    // the contact budget ran out; later contacts may be missing
	MaxPenetration float64 // deepest contact before resolution
	Iterations     int
	Swept          int
	Effects        int
}

type World struct {
	particles  particle.Set
	effects    []*effect.Effect
	generators []contact.Generator

	registry    *force.Registry
	resolver    ContactResolver
	contacts    []contact.Contact
	maxContacts int
	used        int

	calculateIterations bool
	iterations          int
	collectGap          int

	stats FrameStats
	log   *zap.Logger
}

type Option func(*World)

func WithLogger(log *zap.Logger) Option {
	return func(w *World) {
		if log != nil {
			w.log = log
		}
	}
}

func WithCollectGap(n int) Option {
	return func(w *World) {
		if n >= 0 {
			w.collectGap = n
		}
	}
}

func WithResolver(r ContactResolver) Option {
	return func(w *World) { w.resolver = r }
}

// New creates a world that resolves up to maxContacts contacts per frame.
// iterations is the resolver budget; zero selects twice the number of
// contacts found each frame.
func New(maxContacts, iterations int, opts ...Option) (*World, error) {
	if maxContacts <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, maxContacts)
	}
	if iterations < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidIterations, iterations)
	}

	w := &World{
		particles:           make(particle.Set, 0),
		effects:             make([]*effect.Effect, 0),
		generators:          make([]contact.Generator, 0),
		registry:            force.NewRegistry(),
		resolver:            contact.NewResolver(iterations),
		contacts:            make([]contact.Contact, maxContacts),
		maxContacts:         maxContacts,
		calculateIterations: iterations == 0,
		iterations:          iterations,
		collectGap:          DefaultCollectGap,
		log:                 zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.resolver.SetIterations(iterations)
	return w, nil
}

// StartFrame clears force accumulators and, once enough effects have
// expired, removes them.
func (w *World) StartFrame() {
	for _, p := range w.particles {
		p.ClearAccumulator()
	}

	destroyable := 0
	for _, e := range w.effects {
		if e.Destroyable() {
			destroyable++
			continue
		}
		ps := e.Particles()
		for i := range ps {
			ps[i].ClearAccumulator()
		}
	}

	w.stats = FrameStats{}
	if destroyable > w.collectGap {
		w.sweep()
		w.stats.Swept = destroyable
		w.log.Debug("collected particle effects",
			zap.Int("released", destroyable),
			zap.Int("remaining", len(w.effects)))
	}
	w.stats.Effects = len(w.effects)
}

// sweep compacts the effect list in place, keeping live effects in order
// and releasing the destroyable ones.
func (w *World) sweep() {
	kept := w.effects[:0]
	for _, e := range w.effects {
		if e.Destroyable() {
			e.Release()
			continue
		}
		kept = append(kept, e)
	}
	clear(w.effects[len(kept):])
	w.effects = kept
}

// Integrate advances tracked particles and the particles of live effects.
func (w *World) Integrate(duration float64) {
	for _, p := range w.particles {
		p.Integrate(duration)
	}
	for _, e := range w.effects {
		if e.Destroyable() {
			continue
		}
		ps := e.Particles()
		for i := range ps {
			ps[i].Integrate(duration)
		}
	}
}

// GenerateContacts refills the contact buffer from every generator and
// returns the number of contacts written.
func (w *World) GenerateContacts() int {
	limit := w.maxContacts
	next := 0

	for _, g := range w.generators {
		used := g.AddContact(w.contacts[next : next+limit])
		limit -= used
		next += used

		if limit <= 0 {
			break
		}
	}

	w.used = w.maxContacts - limit
	w.stats.Contacts = w.used
	w.stats.Truncated = limit <= 0
	w.stats.MaxPenetration = 0
	for i := 0; i < w.used; i++ {
		w.stats.MaxPenetration = max(w.stats.MaxPenetration, w.contacts[i].Penetration)
	}
	return w.used
}

// RunPhysics processes one frame: forces, integration, contact generation
// and resolution.
func (w *World) RunPhysics(duration float64) {
	w.registry.UpdateForces(duration)
	w.Integrate(duration)

	used := w.GenerateContacts()
	if used == 0 {
		w.stats.Iterations = 0
		return
	}

	if w.calculateIterations {
		w.iterations = used * 2
		w.resolver.SetIterations(w.iterations)
	}
	w.stats.Iterations = w.iterations
	w.resolver.ResolveContacts(w.contacts[:used], duration)
}

func (w *World) Particles() *particle.Set { return &w.particles }

func (w *World) ContactGenerators() *[]contact.Generator { return &w.generators }

func (w *World) ForceRegistry() *force.Registry { return w.registry }

func (w *World) Resolver() ContactResolver { return w.resolver }

func (w *World) AddParticleEffect(e *effect.Effect) {
	w.effects = append(w.effects, e)
}

// Effects returns the registered effects. The slice is owned by the world.
func (w *World) Effects() []*effect.Effect { return w.effects }

// Contacts returns the contacts written by the last GenerateContacts call.
func (w *World) Contacts() []contact.Contact { return w.contacts[:w.used] }

func (w *World) MaxContacts() int { return w.maxContacts }

// AutoIterations reports whether the resolver budget is derived per frame.
func (w *World) AutoIterations() bool { return w.calculateIterations }

func (w *World) Stats() FrameStats { return w.stats }

// Package scenario builds particle worlds from configuration and runs them
// frame by frame.
package scenario

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"go.uber.org/zap"

	"github.com/san-kum/pworld/internal/config"
	"github.com/san-kum/pworld/internal/contact"
	"github.com/san-kum/pworld/internal/effect"
	"github.com/san-kum/pworld/internal/force"
	"github.com/san-kum/pworld/internal/particle"
	"github.com/san-kum/pworld/internal/vecmath"
	"github.com/san-kum/pworld/internal/world"
)

// Runner owns a world built from a config and acts as its external driver:
// it spawns and ages effects and calls the per-frame methods in order.
type Runner struct {
	cfg       *config.Config
	world     *world.World
	rng       *rand.Rand
	metrics   []Metric
	observers []Observer
	frame     int
	t         float64
	log       *zap.Logger
}

func New(cfg *config.Config, log *zap.Logger) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	r := &Runner{
		cfg:       cfg,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		log:       log.With(zap.String("scenario", cfg.Name)),
	}
	if err := r.Reset(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) World() *world.World    { return r.world }
func (r *Runner) Config() *config.Config { return r.cfg }
func (r *Runner) Frame() int             { return r.frame }
func (r *Runner) Time() float64          { return r.t }

// Reset rebuilds the world from the config and rewinds the clock.
func (r *Runner) Reset() error {
	w, err := Build(r.cfg, r.log)
	if err != nil {
		return err
	}
	r.world = w
	r.rng = rand.New(rand.NewSource(r.cfg.Seed))
	r.frame = 0
	r.t = 0
	for _, m := range r.metrics {
		m.Reset()
	}
	return nil
}

// Build creates a world holding the config's particles, force
// associations and contact generators.
func Build(cfg *config.Config, log *zap.Logger) (*world.World, error) {
	w, err := world.New(cfg.MaxContacts, cfg.Iterations,
		world.WithLogger(log),
		world.WithCollectGap(cfg.CollectGap))
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", cfg.Name, err)
	}

	reg := w.ForceRegistry()
	gravity := force.NewGravity(vecmath.New(0, cfg.Gravity, 0))
	var drag *force.Drag
	if cfg.Drag.K1 != 0 || cfg.Drag.K2 != 0 {
		drag = force.NewDrag(cfg.Drag.K1, cfg.Drag.K2)
	}

	ps := w.Particles()
	for _, pc := range cfg.Particles {
		p := particle.New(vecmath.New(pc.X, pc.Y, pc.Z), pc.Mass)
		p.Velocity = vecmath.New(pc.VX, pc.VY, pc.VZ)
		if cfg.Damping > 0 {
			p.Damping = cfg.Damping
		}
		ps.Add(p)
		reg.Add(p, gravity)
		if drag != nil {
			reg.Add(p, drag)
		}
	}

	for _, s := range cfg.Springs {
		a, b := (*ps)[s.A], (*ps)[s.B]
		reg.Add(a, force.NewSpring(b, s.Stiffness, s.Length))
		reg.Add(b, force.NewSpring(a, s.Stiffness, s.Length))
	}

	gens := w.ContactGenerators()
	if cfg.Ground {
		*gens = append(*gens, contact.NewGround(ps))
	}
	for _, c := range cfg.Cables {
		*gens = append(*gens, contact.NewCable((*ps)[c.A], (*ps)[c.B], c.Length, c.Restitution))
	}
	for _, rod := range cfg.Rods {
		*gens = append(*gens, contact.NewRod((*ps)[rod.A], (*ps)[rod.B], rod.Length))
	}
	return w, nil
}

// Step advances the simulation by one frame.
func (r *Runner) Step() (Sample, error) {
	dt := r.cfg.Dt
	r.emit()
	for _, e := range r.world.Effects() {
		e.Tick(dt)
	}

	r.world.StartFrame()
	r.world.RunPhysics(dt)

	r.frame++
	r.t += dt

	s := r.sample()
	if math.IsNaN(s.LowestY) || math.IsInf(s.KineticEnergy, 0) || math.IsNaN(s.KineticEnergy) {
		return s, &FrameError{Frame: r.frame, Time: r.t, Wrapped: ErrUnstable}
	}

	for _, m := range r.metrics {
		m.Observe(s)
	}
	for _, o := range r.observers {
		o.OnFrame(s)
	}
	return s, nil
}

func (r *Runner) emit() {
	for i, em := range r.cfg.Emitters {
		if r.frame%em.Every != 0 {
			continue
		}
		name := fmt.Sprintf("burst-%d-%d", i, r.frame)
		r.world.AddParticleEffect(effect.Burst(name, effect.BurstConfig{
			Origin:   vecmath.New(em.X, em.Y, em.Z),
			Count:    em.Count,
			Speed:    em.Speed,
			Mass:     em.Mass,
			Lifetime: em.Lifetime,
			Gravity:  vecmath.New(0, r.cfg.Gravity, 0),
			Damping:  r.cfg.Damping,
		}, r.rng))
	}
}

func (r *Runner) sample() Sample {
	s := Sample{
		Frame:   r.frame,
		Time:    r.t,
		Stats:   r.world.Stats(),
		LowestY: math.Inf(1),
	}
	observe := func(p *particle.Particle) {
		s.Particles++
		s.KineticEnergy += p.KineticEnergy()
		if y := p.Position.Y; y < s.LowestY || math.IsNaN(y) {
			s.LowestY = y
		}
	}
	for _, p := range *r.world.Particles() {
		observe(p)
	}
	for _, e := range r.world.Effects() {
		if e.Destroyable() {
			continue
		}
		ps := e.Particles()
		for i := range ps {
			observe(&ps[i])
		}
	}
	if s.Particles == 0 {
		s.LowestY = 0
	}
	return s
}

// Run steps through the configured number of frames.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	result := &Result{
		Name:    r.cfg.Name,
		Dt:      r.cfg.Dt,
		Samples: make([]Sample, 0, r.cfg.Frames),
		Metrics: make(map[string]float64),
	}

	r.log.Info("run started",
		zap.Int("frames", r.cfg.Frames),
		zap.Float64("dt", r.cfg.Dt),
		zap.Int("max_contacts", r.cfg.MaxContacts))

	for i := 0; i < r.cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			r.log.Warn("run canceled", zap.Int("frame", r.frame))
			r.collect(result)
			return result, &FrameError{Frame: r.frame, Time: r.t, Wrapped: fmt.Errorf("%w: %w", ErrCanceled, ctx.Err())}
		default:
		}

		s, err := r.Step()
		if err != nil {
			r.log.Error("run aborted", zap.Error(err))
			r.collect(result)
			return result, err
		}
		result.Samples = append(result.Samples, s)
	}

	r.collect(result)
	r.log.Info("run finished", zap.Int("frames", r.frame), zap.Any("metrics", result.Metrics))
	return result, nil
}

func (r *Runner) collect(result *Result) {
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

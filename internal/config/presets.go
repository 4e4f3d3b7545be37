package config

import (
	"fmt"
	"sort"
)

var Presets = map[string]*Config{
	"drop": DefaultConfig(),
	"fountain": {
		Name: "fountain", Dt: 0.01, Frames: 1500, Seed: 1,
		MaxContacts: 32, CollectGap: 8, Gravity: -9.81, Damping: 0.99, Ground: true,
		Emitters: []EmitterConfig{
			{X: 0, Y: 0.5, Every: 20, Count: 24, Speed: 6, Mass: 0.05, Lifetime: 1.5},
		},
	},
	"chain": {
		Name: "chain", Dt: 0.005, Frames: 2000,
		MaxContacts: 16, Gravity: -9.81, Damping: 0.99, Ground: true,
		Particles: []ParticleConfig{
			{X: 0, Y: 6, Mass: 0}, {X: 1, Y: 6, Mass: 1}, {X: 2, Y: 6, Mass: 1}, {X: 3, Y: 6, Mass: 1},
		},
		Rods:   []LinkConfig{{A: 0, B: 1, Length: 1}},
		Cables: []LinkConfig{{A: 1, B: 2, Length: 1.2, Restitution: 0.3}, {A: 2, B: 3, Length: 1.2, Restitution: 0.3}},
	},
	"springs": {
		Name: "springs", Dt: 0.005, Frames: 2000,
		MaxContacts: 16, Gravity: -9.81, Damping: 0.995, Ground: true,
		Drag: DragConfig{K1: 0.1, K2: 0.01},
		Particles: []ParticleConfig{
			{X: -1, Y: 4, Mass: 1}, {X: 1, Y: 4, Mass: 1}, {X: 0, Y: 6, Mass: 1},
		},
		Springs: []LinkConfig{
			{A: 0, B: 1, Length: 2, Stiffness: 40},
			{A: 1, B: 2, Length: 2, Stiffness: 40},
			{A: 2, B: 0, Length: 2, Stiffness: 40},
		},
	},
	// Six particles land together on a budget of two contacts: the later
	// ones are starved and sink.
	"crowded": {
		Name: "crowded", Dt: 0.01, Frames: 600,
		MaxContacts: 2, Iterations: 4, Gravity: -9.81, Damping: 0.995, Ground: true,
		Particles: []ParticleConfig{
			{X: -5, Y: 1, Mass: 1}, {X: -3, Y: 1, Mass: 1}, {X: -1, Y: 1, Mass: 1},
			{X: 1, Y: 1, Mass: 1}, {X: 3, Y: 1, Mass: 1}, {X: 5, Y: 1, Mass: 1},
		},
	},
}

// GetPreset returns a copy of the named preset.
func GetPreset(name string) (*Config, error) {
	cfg, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownPreset, name, ListPresets())
	}
	c := *cfg
	c.Particles = append([]ParticleConfig(nil), cfg.Particles...)
	c.Springs = append([]LinkConfig(nil), cfg.Springs...)
	c.Cables = append([]LinkConfig(nil), cfg.Cables...)
	c.Rods = append([]LinkConfig(nil), cfg.Rods...)
	c.Emitters = append([]EmitterConfig(nil), cfg.Emitters...)
	return &c, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

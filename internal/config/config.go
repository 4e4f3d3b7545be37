package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt          = 0.01
	DefaultFrames      = 1000
	DefaultMaxContacts = 64
	DefaultGravity     = -9.81
	DefaultDamping     = 0.995
	DefaultCollectGap  = 16
)

type Config struct {
	Name        string           `yaml:"name" toml:"name"`
	Dt          float64          `yaml:"dt" toml:"dt"`
	Frames      int              `yaml:"frames" toml:"frames"`
	Seed        int64            `yaml:"seed" toml:"seed"`
	MaxContacts int              `yaml:"max_contacts" toml:"max_contacts"`
	Iterations  int              `yaml:"iterations" toml:"iterations"`
	CollectGap  int              `yaml:"collect_gap" toml:"collect_gap"`
	Gravity     float64          `yaml:"gravity" toml:"gravity"`
	Damping     float64          `yaml:"damping" toml:"damping"`
	Ground      bool             `yaml:"ground" toml:"ground"`
	Drag        DragConfig       `yaml:"drag" toml:"drag"`
	Particles   []ParticleConfig `yaml:"particles" toml:"particles"`
	Springs     []LinkConfig     `yaml:"springs" toml:"springs"`
	Cables      []LinkConfig     `yaml:"cables" toml:"cables"`
	Rods        []LinkConfig     `yaml:"rods" toml:"rods"`
	Emitters    []EmitterConfig  `yaml:"emitters" toml:"emitters"`
}

type DragConfig struct {
	K1 float64 `yaml:"k1" toml:"k1"`
	K2 float64 `yaml:"k2" toml:"k2"`
}

type ParticleConfig struct {
	X    float64 `yaml:"x" toml:"x"`
	Y    float64 `yaml:"y" toml:"y"`
	Z    float64 `yaml:"z" toml:"z"`
	VX   float64 `yaml:"vx" toml:"vx"`
	VY   float64 `yaml:"vy" toml:"vy"`
	VZ   float64 `yaml:"vz" toml:"vz"`
	Mass float64 `yaml:"mass" toml:"mass"`
}

// LinkConfig joins particles A and B by index. Springs use Stiffness and
// Length as rest length; cables use Length as maximum length.
type LinkConfig struct {
	A           int     `yaml:"a" toml:"a"`
	B           int     `yaml:"b" toml:"b"`
	Length      float64 `yaml:"length" toml:"length"`
	Stiffness   float64 `yaml:"stiffness" toml:"stiffness"`
	Restitution float64 `yaml:"restitution" toml:"restitution"`
}

// EmitterConfig spawns a burst effect every Every frames.
type EmitterConfig struct {
	X        float64 `yaml:"x" toml:"x"`
	Y        float64 `yaml:"y" toml:"y"`
	Z        float64 `yaml:"z" toml:"z"`
	Every    int     `yaml:"every" toml:"every"`
	Count    int     `yaml:"count" toml:"count"`
	Speed    float64 `yaml:"speed" toml:"speed"`
	Mass     float64 `yaml:"mass" toml:"mass"`
	Lifetime float64 `yaml:"lifetime" toml:"lifetime"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:        "drop",
		Dt:          DefaultDt,
		Frames:      DefaultFrames,
		MaxContacts: DefaultMaxContacts,
		CollectGap:  DefaultCollectGap,
		Gravity:     DefaultGravity,
		Damping:     DefaultDamping,
		Ground:      true,
		Particles: []ParticleConfig{
			{X: -2, Y: 5, Mass: 1},
			{X: 0, Y: 8, Mass: 2},
			{X: 2, Y: 3, VY: 4, Mass: 1},
		},
	}
}

// Load reads a scenario from a .yaml, .yml or .toml file. Missing fields
// keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Particles = nil

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return cfg, cfg.Validate()
}

func Save(path string, cfg *Config) error {
	var data []byte
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		data = out
	case ".toml":
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return err
		}
		data = buf.Bytes()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalid, c.Dt)
	}
	if c.Frames <= 0 {
		return fmt.Errorf("%w: frames must be positive, got %d", ErrInvalid, c.Frames)
	}
	if c.MaxContacts <= 0 {
		return fmt.Errorf("%w: max_contacts must be positive, got %d", ErrInvalid, c.MaxContacts)
	}
	if c.Iterations < 0 {
		return fmt.Errorf("%w: iterations must not be negative", ErrInvalid)
	}
	n := len(c.Particles)
	for _, group := range [][]LinkConfig{c.Springs, c.Cables, c.Rods} {
		for _, l := range group {
			if l.A < 0 || l.A >= n || l.B < 0 || l.B >= n || l.A == l.B {
				return fmt.Errorf("%w: link %d-%d does not join two of %d particles", ErrInvalid, l.A, l.B, n)
			}
		}
	}
	for i, e := range c.Emitters {
		if e.Every <= 0 || e.Count <= 0 {
			return fmt.Errorf("%w: emitter %d needs positive every and count", ErrInvalid, i)
		}
	}
	return nil
}

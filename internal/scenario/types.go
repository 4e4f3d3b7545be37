package scenario

import "github.com/san-kum/pworld/internal/world"

// Sample is the observable outcome of one frame.
type Sample struct {
	Frame         int
	Time          float64
	Stats         world.FrameStats
	LowestY       float64
	KineticEnergy float64
	Particles     int
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(s Sample)
}

type Result struct {
	Name    string
	Dt      float64
	Samples []Sample
	Metrics map[string]float64
}

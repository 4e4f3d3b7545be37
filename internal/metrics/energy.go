package metrics

import "github.com/san-kum/pworld/internal/scenario"

// EnergyDecay is the ratio of the latest kinetic energy to the first
// non-zero kinetic energy observed.
type EnergyDecay struct {
	initial float64
	current float64
}

func NewEnergyDecay() *EnergyDecay { return &EnergyDecay{} }

func (e *EnergyDecay) Name() string { return "energy_decay" }

func (e *EnergyDecay) Observe(s scenario.Sample) {
	if e.initial == 0 {
		e.initial = s.KineticEnergy
	}
	e.current = s.KineticEnergy
}

func (e *EnergyDecay) Value() float64 {
	if e.initial == 0 {
		return 0
	}
	return e.current / e.initial
}

func (e *EnergyDecay) Reset() {
	e.initial = 0
	e.current = 0
}

// Defaults returns the metrics attached to every CLI run.
func Defaults() []scenario.Metric {
	return []scenario.Metric{
		NewMaxPenetration(),
		NewContactLoad(),
		NewTruncation(),
		NewEnergyDecay(),
	}
}

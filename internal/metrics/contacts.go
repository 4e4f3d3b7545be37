// Package metrics summarises particle-world runs frame by frame.
package metrics

import "github.com/san-kum/pworld/internal/scenario"

// MaxPenetration tracks the deepest contact seen before resolution.
type MaxPenetration struct {
	max float64
}

func NewMaxPenetration() *MaxPenetration { return &MaxPenetration{} }

func (m *MaxPenetration) Name() string { return "max_penetration" }

func (m *MaxPenetration) Observe(s scenario.Sample) {
	m.max = max(m.max, s.Stats.MaxPenetration)
}

func (m *MaxPenetration) Value() float64 { return m.max }
func (m *MaxPenetration) Reset()         { m.max = 0 }

// ContactLoad is the mean number of contacts generated per frame.
type ContactLoad struct {
	total   int
	samples int
}

func NewContactLoad() *ContactLoad { return &ContactLoad{} }

func (c *ContactLoad) Name() string { return "contact_load" }

func (c *ContactLoad) Observe(s scenario.Sample) {
	c.total += s.Stats.Contacts
	c.samples++
}

func (c *ContactLoad) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.total) / float64(c.samples)
}

func (c *ContactLoad) Reset() {
	c.total = 0
	c.samples = 0
}

// Truncation counts frames in which the contact budget ran out.
type Truncation struct {
	frames int
}

func NewTruncation() *Truncation { return &Truncation{} }

func (t *Truncation) Name() string { return "truncated_frames" }

func (t *Truncation) Observe(s scenario.Sample) {
	if s.Stats.Truncated {
		t.frames++
	}
}

func (t *Truncation) Value() float64 { return float64(t.frames) }
func (t *Truncation) Reset()         { t.frames = 0 }

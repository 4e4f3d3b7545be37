package scenario

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/san-kum/pworld/internal/config"
)

// Ensemble runs the same scenario under consecutive seeds, one goroutine
// per run. Metrics are stateful, so every run gets a fresh set from the
// factory.
type Ensemble struct {
	cfg       *config.Config
	numRuns   int
	seedStart int64
	metrics   func() []Metric
	log       *zap.Logger
}

func NewEnsemble(cfg *config.Config, numRuns int, seedStart int64, metrics func() []Metric, log *zap.Logger) *Ensemble {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ensemble{cfg: cfg, numRuns: numRuns, seedStart: seedStart, metrics: metrics, log: log}
}

func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			// Link and emitter slices are only read while building.
			cfgCopy := *e.cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			r, err := New(&cfgCopy, e.log.With(zap.Int64("seed", cfgCopy.Seed)))
			if err != nil {
				errs[idx] = err
				return
			}
			if e.metrics != nil {
				for _, m := range e.metrics() {
					r.AddMetric(m)
				}
			}
			results[idx], errs[idx] = r.Run(ctx)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// MeanMetrics averages each metric over the runs that reported it.
func MeanMetrics(results []*Result) map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range results {
		if r == nil {
			continue
		}
		for name, v := range r.Metrics {
			sums[name] += v
			counts[name]++
		}
	}
	for name := range sums {
		sums[name] /= float64(counts[name])
	}
	return sums
}

// MetricNames returns the metric names of m in sorted order.
func MetricNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

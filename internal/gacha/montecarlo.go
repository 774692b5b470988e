package gacha

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Stats summarizes simulation results.
type Stats struct {
	Trials int     `json:"trials" yaml:"trials"`
	Mean   float64 `json:"mean" yaml:"mean"`
	Var    float64 `json:"var" yaml:"var"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
	P50    float64 `json:"p50" yaml:"p50"`
	P90    float64 `json:"p90" yaml:"p90"`
	P99    float64 `json:"p99" yaml:"p99"`
	// Optional: raw samples if caller needs histograms/exports
	Samples []int `json:"-" yaml:"-"`
}

// sampler replays a model's mechanics pull by pull and returns the number of
// pulls one trial needed to satisfy the query.
type sampler interface {
	sample(q Query, rng RandomSource) (int, error)
}

// StatsOf computes population mean/variance and empirical percentiles of
// pull counts. xs is kept as Samples.
func StatsOf(xs []int) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	fs := make([]float64, n)
	for i, v := range xs {
		fs[i] = float64(v)
	}
	mean, variance := stat.PopMeanVariance(fs, nil)
	sort.Float64s(fs)
	return Stats{
		Trials:  n,
		Mean:    mean,
		Var:     variance,
		StdDev:  math.Sqrt(variance),
		P50:     stat.Quantile(0.50, stat.Empirical, fs, nil),
		P90:     stat.Quantile(0.90, stat.Empirical, fs, nil),
		P99:     stat.Quantile(0.99, stat.Empirical, fs, nil),
		Samples: xs,
	}
}

// Simulate runs trials independent replays of q against m and summarizes
// the pull counts. onTrial, if set, is called after each trial.
// It serves as an independent check on the exact solvers.
func Simulate(m Model, q Query, trials int, rng RandomSource, onTrial func()) (Stats, error) {
	s, ok := m.(sampler)
	if !ok {
		return Stats{}, fmt.Errorf("%w: %s", ErrNotSimulable, m.Kind())
	}
	// surface query errors the same way Call does
	if _, err := m.Call(Query{Items: 0, Pity: q.Pity, Guaranteed: q.Guaranteed, Extra: q.Extra}); err != nil {
		return Stats{}, err
	}
	if q.Items < 0 {
		return Stats{}, fmt.Errorf("%w: items=%d", ErrInvalidQuery, q.Items)
	}
	if trials <= 0 {
		return Stats{}, nil
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	samples := make([]int, trials)
	for i := 0; i < trials; i++ {
		v, err := s.sample(q, rng)
		if err != nil {
			return Stats{}, err
		}
		samples[i] = v
		if onTrial != nil {
			onTrial()
		}
	}
	return StatsOf(samples), nil
}

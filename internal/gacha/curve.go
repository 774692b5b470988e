package gacha

import (
	"fmt"
	"math"

	"github.com/xtding233/gacha-calc/internal/dist"
)

// Curve holds per-pull success probabilities, 1-indexed by pulls since the
// last success. Index 0 is always 0 and the final index (hard pity) is 1.
type Curve []float64

// NewCurve validates p and returns a copy with both ends forced.
func NewCurve(p []float64) (Curve, error) {
	if len(p) < 2 {
		return nil, fmt.Errorf("%w: need at least one pull, got %d entries", ErrInvalidCurve, len(p))
	}
	c := make(Curve, len(p))
	copy(c, p)
	for i, v := range c {
		if err := validateProb(v); err != nil {
			return nil, fmt.Errorf("%w: p[%d]=%v", ErrInvalidCurve, i, v)
		}
	}
	c[0] = 0
	c[len(c)-1] = 1
	return c, nil
}

// HardPity is the pull count at which success is certain.
func (c Curve) HardPity() int { return len(c) - 1 }

// At returns the success probability of pull i since the last success.
// Pulls at or past hard pity succeed with certainty.
func (c Curve) At(i int) float64 {
	if i <= 0 {
		return 0
	}
	if i >= len(c)-1 {
		return 1
	}
	return c[i]
}

// Dist converts the curve into pulls-to-first-success:
// d[i] = p[i] * prod_{t<i} (1 - p[t]).
func (c Curve) Dist() *dist.Distribution {
	out := make([]float64, len(c))
	survive := 1.0
	for i := 1; i < len(c); i++ {
		out[i] = survive * c[i]
		survive *= 1 - c[i]
	}
	return dist.New(out)
}

func checkHard(hard int) error {
	if hard < 1 {
		return fmt.Errorf("%w: hard pity %d", ErrInvalidCurve, hard)
	}
	return nil
}

// LinearCurve is base below begin, then base + (i-begin+1)*step from pull
// begin onward, capped at 1, with certainty at hard.
//
//	LinearCurve(0.006, 74, 0.06, 90) // Genshin Impact character 5★
func LinearCurve(base float64, begin int, step float64, hard int) (Curve, error) {
	if err := checkHard(hard); err != nil {
		return nil, err
	}
	if err := validateProb(base); err != nil {
		return nil, fmt.Errorf("%w: base=%v", ErrInvalidCurve, base)
	}
	if math.IsNaN(step) || step < 0 {
		return nil, fmt.Errorf("%w: step=%v", ErrInvalidCurve, step)
	}
	p := make([]float64, hard+1)
	for i := 1; i <= hard; i++ {
		if i < begin {
			p[i] = base
			continue
		}
		p[i] = math.Min(1, base+float64(i-begin+1)*step)
	}
	return NewCurve(p)
}

// Ramp adds Step to the previous pull's probability for every pull from Start
// until the next ramp begins.
type Ramp struct {
	Start int
	Step  float64
}

// PiecewiseCurve chains successive linear ramps on top of a flat base.
// Ramps must be sorted by Start.
//
//	PiecewiseCurve(0.008, 79, Ramp{66, 0.04}, Ramp{71, 0.08}, Ramp{76, 0.1}) // Wuthering Waves
func PiecewiseCurve(base float64, hard int, ramps ...Ramp) (Curve, error) {
	if err := checkHard(hard); err != nil {
		return nil, err
	}
	if err := validateProb(base); err != nil {
		return nil, fmt.Errorf("%w: base=%v", ErrInvalidCurve, base)
	}
	for i, r := range ramps {
		if r.Start < 1 || math.IsNaN(r.Step) || r.Step < 0 {
			return nil, fmt.Errorf("%w: ramp %d start=%d step=%v", ErrInvalidCurve, i, r.Start, r.Step)
		}
		if i > 0 && r.Start <= ramps[i-1].Start {
			return nil, fmt.Errorf("%w: ramp %d starts at %d, not after %d", ErrInvalidCurve, i, r.Start, ramps[i-1].Start)
		}
	}
	p := make([]float64, hard+1)
	prev, step, next := base, 0.0, 0
	for i := 1; i <= hard; i++ {
		for next < len(ramps) && ramps[next].Start == i {
			step = ramps[next].Step
			next++
		}
		p[i] = math.Min(1, prev+step)
		prev = p[i]
	}
	return NewCurve(p)
}

// FlatCurve has a constant rate until hard pity.
func FlatCurve(base float64, hard int) (Curve, error) {
	return PiecewiseCurve(base, hard)
}

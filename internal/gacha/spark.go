package gacha

import (
	"fmt"

	"github.com/xtding233/gacha-calc/internal/dist"
)

// SparkRule places milestone rewards at pull Every*j + Offset for j >= 1.
// Every == 0 disables the rule.
type SparkRule struct {
	Every  int
	Offset int
}

// Pos is the pull count at which the j-th free copy is granted.
func (r SparkRule) Pos(j int) int { return r.Every*j + r.Offset }

// Rewards counts free copies granted within the first x pulls.
func (r SparkRule) Rewards(x int) int {
	if r.Every <= 0 || x < r.Pos(1) {
		return 0
	}
	return (x - r.Offset) / r.Every
}

// Shift rebases the rule for a banner on which progress pulls were already
// made. Milestones already passed are not granted again.
func (r SparkRule) Shift(progress int) SparkRule {
	if r.Every <= 0 || progress <= 0 {
		return r
	}
	nextPos := r.Pos(r.Rewards(progress)+1) - progress
	return SparkRule{Every: r.Every, Offset: nextPos - r.Every}
}

// ApplySpark rewrites raw[k], the CDF of pulls for k gacha-sourced copies,
// so that each milestone reached substitutes the CDF for one fewer copy:
//
//	out[k][x] = raw[max(0, k - Rewards(x))][x]
//
// Reads past a source's support yield 1. out[k] is long enough to reach the
// k-th milestone, where it is 1.
func ApplySpark(raw [][]float64, rule SparkRule) [][]float64 {
	read := func(src []float64, x int) float64 {
		if x < len(src) {
			return src[x]
		}
		return 1
	}
	out := make([][]float64, len(raw))
	for k := range raw {
		n := len(raw[k])
		if k > 0 && rule.Every > 0 {
			n = max(n, rule.Pos(k)+1)
		}
		cdf := make([]float64, n)
		for x := range cdf {
			cdf[x] = read(raw[max(0, k-rule.Rewards(x))], x)
		}
		out[k] = cdf
	}
	return out
}

// SparkModel wraps a base model with a first-copy hard cap and milestone
// rewards. FirstCap 0 disables the cap.
type SparkModel struct {
	base     Model
	firstCap int
	rule     SparkRule
}

func NewSparkModel(base Model, firstCap int, rule SparkRule) (*SparkModel, error) {
	if base == nil || base.Kind() == KindSpark {
		return nil, fmt.Errorf("%w: spark needs a non-spark base model", ErrInvalidModel)
	}
	if firstCap < 0 || rule.Every < 0 {
		return nil, fmt.Errorf("%w: first_cap=%d every=%d", ErrInvalidModel, firstCap, rule.Every)
	}
	if rule.Every > 0 && rule.Pos(1) < 1 {
		return nil, fmt.Errorf("%w: first milestone at pull %d", ErrInvalidModel, rule.Pos(1))
	}
	return &SparkModel{base: base, firstCap: firstCap, rule: rule}, nil
}

func (m *SparkModel) Kind() Kind      { return KindSpark }
func (m *SparkModel) Base() Model     { return m.base }
func (m *SparkModel) Rule() SparkRule { return m.rule }
func (m *SparkModel) FirstCap() int   { return m.firstCap }

func (m *SparkModel) Call(q Query) (*dist.Distribution, error) {
	first, err := m.base.Call(Query{Items: min(q.Items, 1), Pity: q.Pity, Guaranteed: q.Guaranteed, Extra: q.Extra})
	if err != nil {
		return nil, err
	}
	if q.Extra.SparkPulls < 0 {
		return nil, fmt.Errorf("%w: spark pulls=%d", ErrInvalidQuery, q.Extra.SparkPulls)
	}
	if q.Items == 0 {
		return dist.Point(0), nil
	}
	capped := false
	if limit := m.firstCap - q.Extra.SparkPulls; m.firstCap > 0 && limit > 0 && limit < first.Len() {
		first, capped = first.CapComplete(limit), true
	}
	fresh, err := m.base.Call(Query{Items: 1})
	if err != nil {
		return nil, err
	}

	raw := make([][]float64, q.Items+1)
	raw[0] = []float64{1}
	cur := first
	for k := 1; k <= q.Items; k++ {
		if k > 1 {
			cur = cur.Convolve(fresh)
		}
		raw[k] = cur.CDF()
	}
	if capped {
		// the first copy is certain at the cap; pin it against rounding
		raw[1][len(raw[1])-1] = 1
	}
	out := ApplySpark(raw, m.rule.Shift(q.Extra.SparkPulls))
	return dist.FromCDF(out[q.Items]), nil
}

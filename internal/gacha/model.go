package gacha

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/xtding233/gacha-calc/internal/dist"
)

// Kind names a solver variant. The set is closed.
type Kind string

const (
	KindCommon            Kind = "common"
	KindDualPity          Kind = "dual_pity"
	KindBernoulli         Kind = "bernoulli"
	KindCapturingRadiance Kind = "capturing_radiance"
	KindClassBernoulli    Kind = "class_bernoulli"
	KindTypePity          Kind = "type_pity"
	KindCollection        Kind = "collection"
	KindSpark             Kind = "spark"
)

// Kinds lists every variant in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindCommon, KindDualPity, KindBernoulli, KindCapturingRadiance,
		KindClassBernoulli, KindTypePity, KindCollection, KindSpark,
	}
}

// Model computes the distribution of pulls needed for a query.
// Implementations are immutable and safe for concurrent use.
type Model interface {
	Kind() Kind
	Call(q Query) (*dist.Distribution, error)
}

// Query is the caller's goal and current progress.
type Query struct {
	Items      int  // target copies still wanted; 0 yields Point(0)
	Pity       int  // pulls since the last base success
	Guaranteed bool // the next base success is a guaranteed target
	Extra      Extra
}

// Extra carries mechanic-specific state. Zero values mean "fresh".
type Extra struct {
	// Radiance is the capture counter state (0..3); nil means 1.
	Radiance *int
	// TypePulls is the number of pulls since the last target (type pity).
	TypePulls int
	// Owned is the number of distinct targets already collected.
	Owned int
	// SparkPulls is the number of pulls already spent on a spark banner.
	SparkPulls int
}

// validate checks the fields shared by every model.
func (q Query) validate(curveLen int) error {
	if q.Items < 0 {
		return fmt.Errorf("%w: items=%d", ErrInvalidQuery, q.Items)
	}
	if q.Pity < 0 || q.Pity >= curveLen {
		return fmt.Errorf("%w: pity=%d outside [0,%d)", ErrInvalidQuery, q.Pity, curveLen)
	}
	if r := q.Extra.Radiance; r != nil && (*r < 0 || *r > 3) {
		return fmt.Errorf("%w: radiance=%d outside [0,3]", ErrInvalidQuery, *r)
	}
	if q.Extra.TypePulls < 0 || q.Extra.Owned < 0 || q.Extra.SparkPulls < 0 {
		return fmt.Errorf("%w: negative extra state %+v", ErrInvalidQuery, q.Extra)
	}
	return nil
}

// Truncation bounds an infinite series: summation stops once the closed-form
// residual mass drops below Tol. MaxTerms > 0 also caps the number of terms;
// zero derives the count from Tol and the per-term decay. Whatever is cut
// stays visible as 1 - Mass().
type Truncation struct {
	Tol      float64
	MaxTerms int
}

var (
	// DefaultTruncation serves geometric burn series (Bernoulli, collection).
	DefaultTruncation = Truncation{Tol: 1e-15}
	// LoopTruncation serves self-loop summations (class+specific hybrid).
	LoopTruncation = Truncation{Tol: 1e-9}
)

// maxSeriesTerms bounds a derived term count when the decay is close to 1.
const maxSeriesTerms = 10000

func (t Truncation) orDefault(def Truncation) Truncation {
	if t.Tol <= 0 {
		t.Tol = def.Tol
	}
	if t.MaxTerms <= 0 {
		t.MaxTerms = def.MaxTerms
	}
	return t
}

// terms is the number of terms after which stay^n < Tol, for a series whose
// residual shrinks by a factor stay per term. An explicit MaxTerms wins.
func (t Truncation) terms(stay float64) int {
	switch {
	case t.MaxTerms > 0:
		return t.MaxTerms
	case stay <= 0:
		return 1
	case stay >= 1:
		return maxSeriesTerms
	}
	n := int(math.Ceil(math.Log(t.Tol)/math.Log(stay))) + 1
	return min(max(n, 1), maxSeriesTerms)
}

// burnEpsilon is the smallest burn mass worth a convolution.
const burnEpsilon = 1e-15

// translate maps a distribution over base successes consumed (burn[k], k >= 1)
// onto pulls: sum_k burn[k] * first ⊛ fresh^(k-1).
func translate(burn []float64, first, fresh *dist.Distribution) *dist.Distribution {
	last := 0
	for k := len(burn) - 1; k >= 1; k-- {
		if burn[k] > burnEpsilon {
			last = k
			break
		}
	}
	var acc []float64
	if len(burn) > 0 && burn[0] > 0 {
		acc = []float64{burn[0]}
	}
	term := first
	for k := 1; k <= last; k++ {
		if k > 1 {
			term = term.Convolve(fresh)
		}
		if burn[k] <= burnEpsilon {
			continue
		}
		m := term.Masses()
		if len(acc) < len(m) {
			acc = append(acc, make([]float64, len(m)-len(acc))...)
		}
		floats.AddScaled(acc[:len(m)], burn[k], m)
	}
	return dist.New(acc)
}

// repeat combines the first item with items-1 fresh copies.
func repeat(first, fresh *dist.Distribution, items int) (*dist.Distribution, error) {
	if items <= 1 {
		return first, nil
	}
	rest, err := fresh.Pow(items - 1)
	if err != nil {
		return nil, err
	}
	return first.Convolve(rest), nil
}

// geometric returns burn[k] = P(first success on trial k) for a trial with
// success probability p, truncated by t. first overrides the probability of
// the very first trial.
func geometric(first, p float64, t Truncation) []float64 {
	burn := []float64{0, first}
	miss := 1 - first
	limit := t.terms(1 - p)
	for k := 2; k <= limit && miss >= t.Tol; k++ {
		burn = append(burn, miss*p)
		miss *= 1 - p
	}
	return burn
}

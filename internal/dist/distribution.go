package dist

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// Tolerance is the largest |mass-1| for which Mean and Variance are defined.
const Tolerance = 1e-6

// Distribution is a finite discrete distribution over non-negative integer
// outcomes. Index i holds the probability mass of outcome i (a pull count).
//
// A Distribution is immutable: every operation returns a new value. Mass,
// mean, variance and the CDF are computed on first use and cached.
type Distribution struct {
	p []float64

	once     sync.Once
	mass     float64
	mean     float64
	variance float64

	cdfOnce sync.Once
	cdf     []float64
}

// Branch is one weighted arm of a decision tree, see Mix.
type Branch struct {
	Weight float64
	Dist   *Distribution
}

// New copies p into a new Distribution. Trailing zeros are dropped.
func New(p []float64) *Distribution {
	cp := make([]float64, len(p))
	copy(cp, p)
	return wrap(cp)
}

// Point returns the one-point distribution at outcome n.
// Point(0) is the identity of Convolve.
func Point(n int) *Distribution {
	if n < 0 {
		n = 0
	}
	p := make([]float64, n+1)
	p[n] = 1
	return &Distribution{p: p}
}

// FromCDF rebuilds masses from a cumulative curve. Negative differences
// caused by rounding are clamped to zero.
func FromCDF(cdf []float64) *Distribution {
	p := make([]float64, len(cdf))
	prev := 0.0
	for i, c := range cdf {
		v := c - prev
		if v < 0 {
			v = 0
		}
		p[i] = v
		prev = c
	}
	return wrap(p)
}

// wrap takes ownership of p.
func wrap(p []float64) *Distribution {
	end := len(p)
	for end > 1 && p[end-1] == 0 {
		end--
	}
	if end == 0 {
		return &Distribution{p: []float64{0}}
	}
	return &Distribution{p: p[:end:end]}
}

// Len is the support length (largest outcome + 1).
func (d *Distribution) Len() int { return len(d.p) }

// At returns the mass of outcome i, zero outside the support.
func (d *Distribution) At(i int) float64 {
	if i < 0 || i >= len(d.p) {
		return 0
	}
	return d.p[i]
}

// Masses returns a copy of the raw masses.
func (d *Distribution) Masses() []float64 {
	out := make([]float64, len(d.p))
	copy(out, d.p)
	return out
}

// Add is the pointwise sum of two mutually exclusive, already weighted branches.
func (d *Distribution) Add(o *Distribution) *Distribution {
	out := make([]float64, max(len(d.p), len(o.p)))
	floats.Add(out[:len(d.p)], d.p)
	floats.Add(out[:len(o.p)], o.p)
	return wrap(out)
}

// Scale multiplies every mass by w.
func (d *Distribution) Scale(w float64) *Distribution {
	out := make([]float64, len(d.p))
	copy(out, d.p)
	floats.Scale(w, out)
	return wrap(out)
}

// Convolve returns the distribution of the sum of two independent waits:
// wait for d, then for o.
func (d *Distribution) Convolve(o *Distribution) *Distribution {
	a, b := d.p, o.p
	out := make([]float64, len(a)+len(b)-1)
	for i, va := range a {
		if va == 0 {
			continue
		}
		floats.AddScaled(out[i:i+len(b)], va, b)
	}
	return wrap(out)
}

// Pow is the distribution of the sum of n independent copies of d,
// by exponentiation by squaring.
func (d *Distribution) Pow(n int) (*Distribution, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: power must be a non-negative integer, got %d", ErrInvalidArgument, n)
	}
	if n == 0 {
		return Point(0), nil
	}
	result := Point(0)
	base := d
	for n > 0 {
		if n%2 == 1 {
			result = result.Convolve(base)
		}
		n /= 2
		if n > 0 {
			base = base.Convolve(base)
		}
	}
	return result, nil
}

// Cap moves all mass beyond outcome n onto n.
func (d *Distribution) Cap(n int) *Distribution {
	if n < 0 || n >= len(d.p)-1 {
		return d
	}
	out := make([]float64, n+1)
	copy(out, d.p[:n+1])
	out[n] += floats.Sum(d.p[n+1:])
	return wrap(out)
}

// CapComplete caps at n and treats n as a guarantee: outcome n receives
// 1 minus the mass below it, including any mass a truncated series cut.
// A support that ends before n is returned as is.
func (d *Distribution) CapComplete(n int) *Distribution {
	if n < 0 || n >= len(d.p) {
		return d
	}
	out := make([]float64, n+1)
	copy(out, d.p[:n])
	out[n] = max(0, 1-floats.Sum(out[:n]))
	return wrap(out)
}

// Mix combines weighted branches: sum of w_i * D_i. Weights must be finite
// and non-negative.
func Mix(branches ...Branch) (*Distribution, error) {
	out := wrap([]float64{0})
	for i, b := range branches {
		if math.IsNaN(b.Weight) || math.IsInf(b.Weight, 0) || b.Weight < 0 {
			return nil, fmt.Errorf("%w: branch %d weight %v", ErrInvalidArgument, i, b.Weight)
		}
		if b.Dist == nil {
			return nil, fmt.Errorf("%w: branch %d has no distribution", ErrInvalidArgument, i)
		}
		if b.Weight == 0 {
			continue
		}
		out = out.Add(b.Dist.Scale(b.Weight))
	}
	return out, nil
}

func (d *Distribution) moments() {
	d.once.Do(func() {
		var mass, first, second float64
		for i, v := range d.p {
			x := float64(i)
			mass += v
			first += x * v
			second += x * x * v
		}
		d.mass = mass
		if math.Abs(mass-1) > Tolerance {
			d.mean = math.NaN()
			d.variance = math.NaN()
			return
		}
		d.mean = first
		d.variance = second - first*first
		if d.variance < 0 {
			d.variance = 0
		}
	})
}

// Mass is the total probability mass.
func (d *Distribution) Mass() float64 {
	d.moments()
	return d.mass
}

// Complete reports whether the mass is 1 within Tolerance.
func (d *Distribution) Complete() bool {
	d.moments()
	return !math.IsNaN(d.mean)
}

// Mean is the expected outcome, or NaN when the distribution is not complete.
func (d *Distribution) Mean() float64 {
	d.moments()
	return d.mean
}

// Variance is the outcome variance, or NaN when the distribution is not complete.
func (d *Distribution) Variance() float64 {
	d.moments()
	return d.variance
}

// CDF returns the prefix sums of the masses.
func (d *Distribution) CDF() []float64 {
	d.cdfOnce.Do(func() {
		d.cdf = floats.CumSum(make([]float64, len(d.p)), d.p)
	})
	out := make([]float64, len(d.cdf))
	copy(out, d.cdf)
	return out
}

// Quantile returns the smallest outcome whose cumulative mass reaches q of
// the total mass.
func (d *Distribution) Quantile(q float64) (int, error) {
	if !(q >= 0 && q <= 1) {
		return 0, fmt.Errorf("%w: quantile %v outside [0,1]", ErrInvalidArgument, q)
	}
	if d.Mass() == 0 {
		return 0, fmt.Errorf("%w: quantile of an empty distribution", ErrInconsistent)
	}
	cdf := d.CDF()
	target := q * cdf[len(cdf)-1]
	i := sort.SearchFloat64s(cdf, target)
	if i >= len(cdf) {
		i = len(cdf) - 1
	}
	return i, nil
}

// Validate checks the invariants: finite non-negative masses summing to 1
// within Tolerance.
func (d *Distribution) Validate() error {
	for i, v := range d.p {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: mass[%d]=%v", ErrInvalidArgument, i, v)
		}
	}
	if !d.Complete() {
		return fmt.Errorf("%w: mass=%.9f", ErrInconsistent, d.Mass())
	}
	return nil
}

// String renders a short description for logs.
func (d *Distribution) String() string {
	return fmt.Sprintf("dist(len=%d mass=%.6f mean=%.3f)", d.Len(), d.Mass(), d.Mean())
}

package dist_test

import (
	"errors"
	"math"
	"testing"

	"github.com/xtding233/gacha-calc/internal/dist"
)

func approxSlice(t *testing.T, got, want []float64, tol float64) {
	t.Helper()
	n := max(len(got), len(want))
	for i := 0; i < n; i++ {
		var g, w float64
		if i < len(got) {
			g = got[i]
		}
		if i < len(want) {
			w = want[i]
		}
		if math.Abs(g-w) > tol {
			t.Fatalf("index %d: got %.12f want %.12f", i, g, w)
		}
	}
}

func TestStatsDefinedOnlyWhenComplete(t *testing.T) {
	d := dist.New([]float64{0, 0.25, 0.5, 0.25})
	if !d.Complete() {
		t.Fatalf("mass 1 should be complete")
	}
	if got := d.Mean(); math.Abs(got-2) > 1e-12 {
		t.Fatalf("mean=%v want 2", got)
	}
	if got := d.Variance(); math.Abs(got-0.5) > 1e-12 {
		t.Fatalf("variance=%v want 0.5", got)
	}

	partial := dist.New([]float64{0, 0.25, 0.5})
	if partial.Complete() {
		t.Fatalf("mass 0.75 must not be complete")
	}
	if !math.IsNaN(partial.Mean()) || !math.IsNaN(partial.Variance()) {
		t.Fatalf("incomplete distribution must report NaN stats; mean=%v var=%v", partial.Mean(), partial.Variance())
	}
	if err := partial.Validate(); !errors.Is(err, dist.ErrInconsistent) {
		t.Fatalf("expected ErrInconsistent, got %v", err)
	}

	// within tolerance still counts as complete
	near := dist.New([]float64{0.5, 0.5 - 5e-7})
	if !near.Complete() {
		t.Fatalf("mass within 1e-6 should be complete")
	}
}

func TestTrailingZerosTrimmed(t *testing.T) {
	d := dist.New([]float64{0.5, 0.5, 0, 0})
	if d.Len() != 2 {
		t.Fatalf("len=%d want 2", d.Len())
	}
	if d.At(5) != 0 || d.At(-1) != 0 {
		t.Fatalf("out of support must read zero")
	}
	if z := dist.New(nil); z.Len() != 1 || z.Mass() != 0 {
		t.Fatalf("empty input should give a single zero entry")
	}
}

func TestConvolveLengthAndValues(t *testing.T) {
	a := dist.New([]float64{0, 0.5, 0.5})
	b := dist.New([]float64{0.2, 0.8})
	c := a.Convolve(b)
	if c.Len() != a.Len()+b.Len()-1 {
		t.Fatalf("len=%d want %d", c.Len(), a.Len()+b.Len()-1)
	}
	approxSlice(t, c.Masses(), []float64{0, 0.1, 0.5, 0.4}, 1e-15)
}

func TestConvolveAssociativeCommutative(t *testing.T) {
	a := dist.New([]float64{0, 0.3, 0.7})
	b := dist.New([]float64{0.1, 0.2, 0.3, 0.4})
	c := dist.New([]float64{0, 0, 0.6, 0, 0.4})

	approxSlice(t, a.Convolve(b).Masses(), b.Convolve(a).Masses(), 1e-12)
	approxSlice(t, a.Convolve(b.Convolve(c)).Masses(), a.Convolve(b).Convolve(c).Masses(), 1e-12)
}

func TestPowMatchesRepeatedConvolution(t *testing.T) {
	a := dist.New([]float64{0, 0.2, 0.5, 0.3})
	want := dist.Point(0)
	for n := 0; n <= 7; n++ {
		got, err := a.Pow(n)
		if err != nil {
			t.Fatal(err)
		}
		approxSlice(t, got.Masses(), want.Masses(), 1e-12)
		want = want.Convolve(a)
	}
	if _, err := a.Pow(-1); !errors.Is(err, dist.ErrInvalidArgument) {
		t.Fatalf("negative power must fail with ErrInvalidArgument, got %v", err)
	}
}

func TestAddScaleMix(t *testing.T) {
	a := dist.New([]float64{0, 1})
	b := dist.New([]float64{0, 0, 0, 1})
	sum := a.Scale(0.25).Add(b.Scale(0.75))
	approxSlice(t, sum.Masses(), []float64{0, 0.25, 0, 0.75}, 1e-15)

	mix, err := dist.Mix(dist.Branch{Weight: 0.25, Dist: a}, dist.Branch{Weight: 0.75, Dist: b})
	if err != nil {
		t.Fatal(err)
	}
	approxSlice(t, mix.Masses(), sum.Masses(), 1e-15)
	if mix.Mean() != 2.5 {
		t.Fatalf("mean=%v want 2.5", mix.Mean())
	}

	for _, w := range []float64{-0.1, math.NaN(), math.Inf(1)} {
		if _, err := dist.Mix(dist.Branch{Weight: w, Dist: a}); !errors.Is(err, dist.ErrInvalidArgument) {
			t.Fatalf("weight %v must be rejected, got %v", w, err)
		}
	}
	if _, err := dist.Mix(dist.Branch{Weight: 1}); !errors.Is(err, dist.ErrInvalidArgument) {
		t.Fatalf("nil branch must be rejected, got %v", err)
	}
}

func TestPointStats(t *testing.T) {
	p := dist.Point(0)
	if p.Mean() != 0 || p.Variance() != 0 || p.Mass() != 1 {
		t.Fatalf("Point(0) stats: mean=%v var=%v mass=%v", p.Mean(), p.Variance(), p.Mass())
	}
	p5 := dist.Point(5)
	if p5.Mean() != 5 || p5.Variance() != 0 {
		t.Fatalf("Point(5) stats: mean=%v var=%v", p5.Mean(), p5.Variance())
	}
}

func TestCDFAndRoundTrip(t *testing.T) {
	d := dist.New([]float64{0.1, 0.2, 0.3, 0.4})
	cdf := d.CDF()
	approxSlice(t, cdf, []float64{0.1, 0.3, 0.6, 1.0}, 1e-12)

	// the cached curve is not shared with callers
	cdf[0] = 42
	if d.CDF()[0] != 0.1 {
		t.Fatalf("CDF cache was mutated through the returned slice")
	}
	approxSlice(t, dist.FromCDF(d.CDF()).Masses(), d.Masses(), 1e-12)
}

func TestQuantile(t *testing.T) {
	d := dist.New([]float64{0, 0.1, 0.4, 0.3, 0.2})
	cases := []struct {
		q    float64
		want int
	}{
		{0.05, 1},
		{0.09, 1},
		{0.45, 2},
		{0.51, 3},
		{0.9, 4},
		{1, 4},
	}
	for _, c := range cases {
		got, err := d.Quantile(c.q)
		if err != nil {
			t.Fatal(err)
		}
		if got != c.want {
			t.Fatalf("q=%v got %d want %d", c.q, got, c.want)
		}
	}
	if _, err := d.Quantile(1.5); !errors.Is(err, dist.ErrInvalidArgument) {
		t.Fatalf("q>1 must fail, got %v", err)
	}
}

func TestCapMovesTailMass(t *testing.T) {
	d := dist.New([]float64{0, 0.25, 0.25, 0.25, 0.25})
	c := d.Cap(2)
	approxSlice(t, c.Masses(), []float64{0, 0.25, 0.75}, 1e-15)
	if d.Cap(10) != d {
		t.Fatalf("cap beyond support should return the receiver")
	}
}

func TestCapCompleteFillsDeficit(t *testing.T) {
	// mass 0.9: 0.1 was cut by a truncated series
	d := dist.New([]float64{0, 0.2, 0.2, 0.2, 0.3})
	c := d.CapComplete(2)
	approxSlice(t, c.Masses(), []float64{0, 0.2, 0.8}, 1e-15)
	if !c.Complete() {
		t.Fatalf("capped distribution should be complete, mass=%v", c.Mass())
	}
	last := d.CapComplete(4)
	approxSlice(t, last.Masses(), []float64{0, 0.2, 0.2, 0.2, 0.4}, 1e-15)
	if d.CapComplete(5) != d {
		t.Fatalf("cap past support should return the receiver")
	}
}

package gacha_test

import (
	"errors"
	"math"
	"testing"

	"github.com/xtding233/gacha-calc/internal/gacha"
)

func genshinCurve(t *testing.T) gacha.Curve {
	t.Helper()
	c, err := gacha.LinearCurve(0.006, 74, 0.06, 90)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNewCurveForcesEnds(t *testing.T) {
	c, err := gacha.NewCurve([]float64{0.3, 0.1, 0.2, 0.4})
	if err != nil {
		t.Fatal(err)
	}
	if c[0] != 0 || c[3] != 1 {
		t.Fatalf("ends not forced: %v", c)
	}
	if c.HardPity() != 3 {
		t.Fatalf("hard pity=%d want 3", c.HardPity())
	}
	if c.At(10) != 1 || c.At(-1) != 0 {
		t.Fatalf("At outside the curve: %v %v", c.At(10), c.At(-1))
	}

	if _, err := gacha.NewCurve([]float64{0}); !errors.Is(err, gacha.ErrInvalidCurve) {
		t.Fatalf("single entry must fail, got %v", err)
	}
	if _, err := gacha.NewCurve([]float64{0, 1.5, 1}); !errors.Is(err, gacha.ErrInvalidCurve) {
		t.Fatalf("p>1 must fail, got %v", err)
	}
}

func TestGenshinCurve(t *testing.T) {
	c := genshinCurve(t)
	if len(c) != 91 {
		t.Fatalf("len=%d want 91", len(c))
	}
	if c[73] != 0.006 || math.Abs(c[74]-0.066) > 1e-12 {
		t.Fatalf("ramp start wrong: p73=%v p74=%v", c[73], c[74])
	}
	d := c.Dist()
	if math.Abs(d.Mass()-1) > 1e-12 {
		t.Fatalf("mass=%v want 1", d.Mass())
	}
	if math.Abs(d.Mean()-62.29733) > 1e-4 {
		t.Fatalf("mean=%v want ~62.297", d.Mean())
	}
}

func TestPiecewiseCurve(t *testing.T) {
	c, err := gacha.PiecewiseCurve(0.008, 79, gacha.Ramp{Start: 66, Step: 0.04}, gacha.Ramp{Start: 71, Step: 0.08}, gacha.Ramp{Start: 76, Step: 0.1})
	if err != nil {
		t.Fatal(err)
	}
	cases := map[int]float64{65: 0.008, 66: 0.048, 70: 0.208, 71: 0.288, 75: 0.608, 78: 0.908, 79: 1}
	for i, want := range cases {
		if math.Abs(c[i]-want) > 1e-12 {
			t.Fatalf("p[%d]=%v want %v", i, c[i], want)
		}
	}
	if _, err := gacha.PiecewiseCurve(0.01, 10, gacha.Ramp{Start: 5, Step: 0.1}, gacha.Ramp{Start: 5, Step: 0.2}); !errors.Is(err, gacha.ErrInvalidCurve) {
		t.Fatalf("unsorted ramps must fail, got %v", err)
	}
}

func TestFlatCurve(t *testing.T) {
	c, err := gacha.FlatCurve(0.04, 40)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < 40; i++ {
		if c[i] != 0.04 {
			t.Fatalf("p[%d]=%v want 0.04", i, c[i])
		}
	}
	if c[40] != 1 {
		t.Fatalf("hard pity not forced")
	}
}

func TestEasedCurve(t *testing.T) {
	for _, e := range []gacha.Easing{gacha.EaseLinear, gacha.EaseOutQuad, gacha.EaseInOutCubic} {
		c, err := gacha.EasedCurve(0.006, gacha.SoftPityConfig{Hard: 90, StartAt: 73, TargetProb: 0.5, Easing: e})
		if err != nil {
			t.Fatalf("%s: %v", e, err)
		}
		if c[74] != 0.006 {
			t.Fatalf("%s: ramp starts too early, p74=%v", e, c[74])
		}
		for i := 75; i < 90; i++ {
			if c[i] < c[i-1] {
				t.Fatalf("%s: not monotone at %d", e, i)
			}
		}
		if c[89] >= 0.5 || c[89] <= 0.006 {
			t.Fatalf("%s: p89=%v outside ramp", e, c[89])
		}
		if math.Abs(c.Dist().Mass()-1) > 1e-12 {
			t.Fatalf("%s: mass %v", e, c.Dist().Mass())
		}
	}
	if _, err := gacha.EasedCurve(0.006, gacha.SoftPityConfig{Hard: 90, StartAt: 89, TargetProb: 0.5}); !errors.Is(err, gacha.ErrSoftPityConfig) {
		t.Fatalf("no room to ramp must fail, got %v", err)
	}
	if _, err := gacha.EasedCurve(0.006, gacha.SoftPityConfig{Hard: 90, StartAt: 10, TargetProb: 0.5, Easing: "bounce"}); !errors.Is(err, gacha.ErrSoftPityConfig) {
		t.Fatalf("unknown easing must fail, got %v", err)
	}
}

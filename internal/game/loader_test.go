package game

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"
)

func layeredFS() fstest.MapFS {
	return fstest.MapFS{
		"games/default.yaml": {Data: []byte(`
version: "1"
model: dual_pity
up_rate: 0.5
tokens: {name: pulls, per_draw: 1, per_ten_draw: 10}
catalog: [demo/main, demo/side]
`)},
		"games/demo.yaml": {Data: []byte(`
name: Demo
curve: {mode: per_draw_increment, base: 0.01, pity: 50, start_at: 40, increment: 0.1}
tokens: {name: Gem, per_draw: 100}
pricing:
  currency: EUR
  packs:
    - {id: a, name: A, tokens: 500, price_cents: 500}
`)},
		"games/demo/pools/main.yaml": {Data: []byte(`
version: "2"
up_rate: 0.75
curve: {pity: 60, start_at: 45}
`)},
		"games/demo/pools/side.yaml": {Data: []byte(`
model: common
curve: {mode: flat, base: 0.05, pity: 20}
pricing: {currency: JPY, packs: [{id: b, name: B, tokens: 60, price_cents: 120}]}
`)},
	}
}

func TestLoadMergedLayers(t *testing.T) {
	l := NewLoader(layeredFS())
	cfg, err := l.LoadMerged("demo", "main")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Version != "2" || cfg.Model != "dual_pity" || *cfg.UpRate != 0.75 {
		t.Fatalf("pool layer not applied: %+v", cfg)
	}
	c := cfg.Curve
	if c.Mode != "per_draw_increment" || *c.Base != 0.01 || *c.Pity != 60 || *c.StartAt != 45 || *c.Increment != 0.1 {
		t.Fatalf("curve merge wrong: %+v", c)
	}
	if cfg.Tokens.Name != "Gem" || *cfg.Tokens.PerDraw != 100 || *cfg.Tokens.PerTenDraw != 10 {
		t.Fatalf("token merge wrong: %+v", cfg.Tokens)
	}
	if len(cfg.Catalog) != 0 {
		t.Fatalf("catalog leaked into pool config: %v", cfg.Catalog)
	}

	// the game layer is cached separately and stays untouched
	game, err := l.LoadMerged("demo", "")
	if err != nil {
		t.Fatal(err)
	}
	if *game.UpRate != 0.5 || *game.Curve.Pity != 50 {
		t.Fatalf("game layer polluted by pool: %+v", game)
	}
}

func TestModeChangeDropsOldParams(t *testing.T) {
	cfg, err := NewLoader(layeredFS()).LoadMerged("demo", "side")
	if err != nil {
		t.Fatal(err)
	}
	c := cfg.Curve
	if c.Mode != "flat" || c.StartAt != nil || c.Increment != nil {
		t.Fatalf("stale ramp params kept: %+v", c)
	}
	if cfg.Pricing.Currency != "JPY" || len(cfg.Pricing.Packs) != 1 || cfg.Pricing.Packs[0].ID != "b" {
		t.Fatalf("pricing should be replaced whole: %+v", cfg.Pricing)
	}
}

func TestMissingFilesAreEmptyLayers(t *testing.T) {
	cfg, err := NewLoader(layeredFS()).LoadMerged("demo", "nope")
	if err != nil {
		t.Fatal(err)
	}
	if *cfg.Curve.Pity != 50 {
		t.Fatalf("expected game layer only, got %+v", cfg.Curve)
	}
}

func TestBadYAML(t *testing.T) {
	fsys := layeredFS()
	fsys["games/broken.yaml"] = &fstest.MapFile{Data: []byte("curve: [unterminated")}
	if _, err := NewLoader(fsys).LoadMerged("broken", ""); err == nil || !strings.Contains(err.Error(), "broken") {
		t.Fatalf("expected parse error naming the game, got %v", err)
	}
}

func TestInvalidateDropsCache(t *testing.T) {
	fsys := layeredFS()
	l := NewLoader(fsys)
	if _, err := l.LoadMerged("demo", "main"); err != nil {
		t.Fatal(err)
	}
	fsys["games/demo/pools/main.yaml"] = &fstest.MapFile{Data: []byte("up_rate: 0.25\n")}
	cfg, _ := l.LoadMerged("demo", "main")
	if *cfg.UpRate != 0.75 {
		t.Fatalf("expected cached value before Invalidate")
	}
	l.Invalidate()
	cfg, _ = l.LoadMerged("demo", "main")
	if *cfg.UpRate != 0.25 {
		t.Fatalf("Invalidate did not reload, up_rate=%v", *cfg.UpRate)
	}
}

func TestValidateRawAggregates(t *testing.T) {
	neg := -0.1
	err := ValidateRaw(RawConfig{Model: "gamble", UpRate: &neg, Capture: []float64{0, 1}})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("want ErrInvalidConfig, got %v", err)
	}
	for _, want := range []string{"model \"gamble\"", "curve is required", "up_rate must be in [0,1]", "capture must list exactly 4"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("missing %q in %v", want, err)
		}
	}
}

func TestValidateRawPerModel(t *testing.T) {
	base, pity := 0.02, 99
	curve := &CurveConfig{Mode: "flat", Base: &base, Pity: &pity}
	cases := []struct {
		cfg  RawConfig
		want string
	}{
		{RawConfig{Model: "dual_pity", Curve: curve}, "up_rate is required"},
		{RawConfig{Model: "type_pity", Curve: curve}, "type_gap is required"},
		{RawConfig{Model: "collection", Curve: curve}, "targets is required"},
		{RawConfig{Model: "class_bernoulli", Curve: curve}, "specific_rate is required"},
		{RawConfig{Model: "spark", Curve: curve}, "spark block is required"},
		{RawConfig{Model: "spark", Curve: curve, Spark: &SparkConfig{BaseModel: "spark"}}, "must be a non-spark model"},
		{RawConfig{Model: "common", Curve: &CurveConfig{Mode: "piecewise", Base: &base, Pity: &pity}}, "curve.ramps is required"},
		{RawConfig{Model: "common", Curve: &CurveConfig{Mode: "target_ramp", Base: &base, Pity: &pity, Easing: "bounce"}}, "curve.easing"},
	}
	for _, tc := range cases {
		err := ValidateRaw(tc.cfg)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("%s: want %q, got %v", tc.cfg.Model, tc.want, err)
		}
	}
	if err := ValidateRaw(RawConfig{Model: "common", Curve: curve}); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

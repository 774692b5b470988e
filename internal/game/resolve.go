// resolve.go
package game

import (
	"fmt"
	"math"

	"github.com/xtding233/gacha-calc/internal/gacha"
	"github.com/xtding233/gacha-calc/internal/pricing"
	"github.com/xtding233/gacha-calc/internal/token"
)

// Overrides carries per-query tweaks applied on top of the pool layer,
// e.g. a what-if on the 50/50 rate or a different hard pity.
type Overrides struct {
	Model        string
	Base         *float64
	Pity         *int
	UpRate       *float64
	SpecificRate *float64
	Capture      []float64
	TypeGap      *int
	Targets      *int
	FirstCap     *int
}

// raw turns the overrides into one more config layer.
func (o Overrides) raw() RawConfig {
	r := RawConfig{
		Model:        o.Model,
		UpRate:       o.UpRate,
		SpecificRate: o.SpecificRate,
		Capture:      o.Capture,
		TypeGap:      o.TypeGap,
		Targets:      o.Targets,
	}
	if o.Base != nil || o.Pity != nil {
		r.Curve = &CurveConfig{Base: o.Base, Pity: o.Pity}
	}
	if o.FirstCap != nil {
		r.Spark = &SparkConfig{FirstCap: o.FirstCap}
	}
	return r
}

type Resolver interface {
	// Returns the merged RawConfig and the entry built from it
	Resolve(game, pool string, o Overrides) (RawConfig, Entry, error)
}

var _ Resolver = (*Loader)(nil)

// Resolve merges default → game → pool → overrides, validates the result and
// builds the pool's model, token and store catalog.
func (l *Loader) Resolve(game, pool string, o Overrides) (RawConfig, Entry, error) {
	cfg, err := l.LoadMerged(game, pool)
	if err != nil {
		return RawConfig{}, Entry{}, err
	}
	cfg = mergeRaw(cfg, o.raw())
	if err := ValidateRaw(cfg); err != nil {
		return cfg, Entry{}, fmt.Errorf("%s/%s: %w", game, pool, err)
	}
	e, err := NewEntry(Key{Game: game, Pool: pool}, cfg)
	if err != nil {
		return cfg, Entry{}, err
	}
	return cfg, e, nil
}

// NewEntry builds an Entry from an already validated config.
func NewEntry(k Key, cfg RawConfig) (Entry, error) {
	m, err := BuildModel(cfg)
	if err != nil {
		return Entry{}, fmt.Errorf("%s: %w", k, err)
	}
	name := cfg.Name
	if name == "" {
		name = k.String()
	}
	tok := buildToken(cfg.Tokens)
	return Entry{
		Key:     k,
		Name:    name,
		Model:   m,
		Token:   tok,
		Catalog: buildCatalog(cfg.Pricing, tok),
		Version: cfg.Version,
	}, nil
}

// BuildCurve expands a curve block into per-pull probabilities.
//
// start_at is the first pull of the ramp; start_pct places it at
// ceil(start_pct * pity) instead.
func BuildCurve(c *CurveConfig) (gacha.Curve, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: curve is required", ErrInvalidConfig)
	}
	if c.Mode == "table" {
		return gacha.NewCurve(append([]float64{0}, c.Table...))
	}
	if c.Base == nil || c.Pity == nil {
		return nil, fmt.Errorf("%w: curve.base and curve.pity are required", ErrInvalidConfig)
	}
	base, hard := *c.Base, *c.Pity
	startAt := 0
	switch {
	case c.StartAt != nil:
		startAt = *c.StartAt
	case c.StartPct != nil:
		startAt = min(int(math.Ceil(*c.StartPct*float64(hard))), hard-1)
	}

	switch c.Mode {
	case "per_draw_increment":
		if c.Increment == nil {
			return nil, fmt.Errorf("%w: curve.increment is required", ErrInvalidConfig)
		}
		return gacha.LinearCurve(base, startAt, *c.Increment, hard)
	case "target_ramp":
		if c.Target == nil {
			return nil, fmt.Errorf("%w: curve.target is required", ErrInvalidConfig)
		}
		return gacha.EasedCurve(base, gacha.SoftPityConfig{
			Hard:       hard,
			StartAt:    startAt - 1, // misses before the first ramp pull
			TargetProb: *c.Target,
			Easing:     gacha.Easing(c.Easing),
		})
	case "piecewise":
		ramps := make([]gacha.Ramp, len(c.Ramps))
		for i, r := range c.Ramps {
			ramps[i] = gacha.Ramp{Start: r.Start, Step: r.Step}
		}
		return gacha.PiecewiseCurve(base, hard, ramps...)
	case "flat":
		return gacha.FlatCurve(base, hard)
	default:
		return nil, fmt.Errorf("%w: unknown curve mode %q", ErrInvalidConfig, c.Mode)
	}
}

// BuildModel builds the model named by cfg.Model over cfg.Curve.
func BuildModel(cfg RawConfig) (gacha.Model, error) {
	curve, err := BuildCurve(cfg.Curve)
	if err != nil {
		return nil, err
	}
	var trunc gacha.Truncation
	if cfg.Truncation != nil {
		trunc = gacha.Truncation{Tol: cfg.Truncation.Tol, MaxTerms: cfg.Truncation.MaxTerms}
	}

	if gacha.Kind(cfg.Model) != gacha.KindSpark {
		return buildKind(gacha.Kind(cfg.Model), cfg, curve, trunc)
	}
	if cfg.Spark == nil {
		return nil, fmt.Errorf("%w: spark block is required", ErrInvalidConfig)
	}
	base, err := buildKind(gacha.Kind(cfg.Spark.BaseModel), cfg, curve, trunc)
	if err != nil {
		return nil, err
	}
	rule := gacha.SparkRule{Every: deref(cfg.Spark.Every), Offset: deref(cfg.Spark.Offset)}
	return gacha.NewSparkModel(base, deref(cfg.Spark.FirstCap), rule)
}

func buildKind(kind gacha.Kind, cfg RawConfig, curve gacha.Curve, trunc gacha.Truncation) (gacha.Model, error) {
	up := deref(cfg.UpRate)
	switch kind {
	case gacha.KindCommon:
		return gacha.NewCommonModel(curve), nil
	case gacha.KindDualPity:
		return gacha.NewDualPityModel(curve, up)
	case gacha.KindBernoulli:
		return gacha.NewBernoulliModel(curve, up, trunc)
	case gacha.KindCapturingRadiance:
		capture := gacha.DefaultCapture
		if len(cfg.Capture) > 0 {
			if len(cfg.Capture) != len(capture) {
				return nil, fmt.Errorf("%w: capture needs %d entries", ErrInvalidConfig, len(capture))
			}
			copy(capture[:], cfg.Capture)
		}
		return gacha.NewCapturingRadianceModel(curve, capture)
	case gacha.KindClassBernoulli:
		return gacha.NewClassBernoulliModel(curve, up, deref(cfg.SpecificRate), trunc)
	case gacha.KindTypePity:
		return gacha.NewTypePityModel(curve, up, deref(cfg.TypeGap))
	case gacha.KindCollection:
		return gacha.NewCollectionModel(curve, up, deref(cfg.Targets), trunc)
	default:
		return nil, fmt.Errorf("%w: model %q cannot be built here", ErrInvalidConfig, kind)
	}
}

func buildToken(c *TokenConfig) token.Token {
	if c == nil {
		return token.Token{}
	}
	t := token.Token{Name: c.Name, PerDraw: deref(c.PerDraw)}
	if c.PerTenDraw != nil {
		t.Bundle, t.PerBundle = 10, *c.PerTenDraw
	}
	return t
}

func buildCatalog(c *PricingConfig, tok token.Token) *pricing.Catalog {
	if c == nil || len(c.Packs) == 0 {
		return nil
	}
	cat := &pricing.Catalog{
		TokenName: tok.Name,
		Currency:  c.Currency,
		TaxRate:   c.TaxRate,
		Packs:     make([]pricing.Pack, len(c.Packs)),
	}
	for i, p := range c.Packs {
		cat.Packs[i] = pricing.Pack{
			ID:          p.ID,
			Name:        p.Name,
			Tokens:      p.Tokens,
			BonusTokens: p.Bonus,
			FirstTimeX2: p.FirstTimeX2,
			PriceCents:  p.PriceCents,
		}
	}
	return cat
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xtding233/gacha-calc/internal/gacha"
)

var ErrInvalidConfig = errors.New("config validation failed")

func knownKind(s string) bool {
	for _, k := range gacha.Kinds() {
		if string(k) == s {
			return true
		}
	}
	return false
}

func inUnit(p float64) bool { return p >= 0 && p <= 1 }

// ValidateRaw checks semantic constraints of a merged RawConfig.
// All problems are reported together.
func ValidateRaw(cfg RawConfig) error {
	var errs []string

	// model
	switch {
	case cfg.Model == "":
		errs = append(errs, "model is required")
	case !knownKind(cfg.Model):
		errs = append(errs, fmt.Sprintf("model %q is not one of %v", cfg.Model, gacha.Kinds()))
	}

	errs = append(errs, validateCurve(cfg.Curve)...)

	// rates
	if cfg.UpRate != nil && !inUnit(*cfg.UpRate) {
		errs = append(errs, "up_rate must be in [0,1]")
	}
	if cfg.SpecificRate != nil && !(*cfg.SpecificRate > 0 && *cfg.SpecificRate <= 1) {
		errs = append(errs, "specific_rate must be in (0,1]")
	}
	if len(cfg.Capture) > 0 {
		if len(cfg.Capture) != 4 {
			errs = append(errs, "capture must list exactly 4 probabilities")
		}
		for i, p := range cfg.Capture {
			if !inUnit(p) {
				errs = append(errs, fmt.Sprintf("capture[%d] must be in [0,1]", i))
			}
		}
	}
	if cfg.TypeGap != nil && *cfg.TypeGap < 1 {
		errs = append(errs, "type_gap must be >= 1")
	}
	if cfg.Targets != nil && *cfg.Targets < 1 {
		errs = append(errs, "targets must be >= 1")
	}
	if t := cfg.Truncation; t != nil && (t.Tol < 0 || t.MaxTerms < 0) {
		errs = append(errs, "truncation.tol and truncation.max_terms must be >= 0")
	}

	// per-model requirements
	model := cfg.Model
	if model == string(gacha.KindSpark) {
		if cfg.Spark == nil {
			errs = append(errs, "spark block is required for model=spark")
		} else {
			model = cfg.Spark.BaseModel
			switch {
			case model == "":
				errs = append(errs, "spark.base_model is required")
			case model == string(gacha.KindSpark) || !knownKind(model):
				errs = append(errs, fmt.Sprintf("spark.base_model %q must be a non-spark model", model))
			}
			if cfg.Spark.Every != nil && *cfg.Spark.Every < 0 {
				errs = append(errs, "spark.every must be >= 0")
			}
			if cfg.Spark.FirstCap != nil && *cfg.Spark.FirstCap < 0 {
				errs = append(errs, "spark.first_cap must be >= 0")
			}
		}
	}
	switch gacha.Kind(model) {
	case gacha.KindDualPity, gacha.KindBernoulli, gacha.KindTypePity, gacha.KindCollection, gacha.KindClassBernoulli:
		if cfg.UpRate == nil {
			errs = append(errs, fmt.Sprintf("up_rate is required for model=%s", model))
		}
	}
	switch gacha.Kind(model) {
	case gacha.KindClassBernoulli:
		if cfg.SpecificRate == nil {
			errs = append(errs, "specific_rate is required for model=class_bernoulli")
		}
	case gacha.KindTypePity:
		if cfg.TypeGap == nil {
			errs = append(errs, "type_gap is required for model=type_pity")
		}
	case gacha.KindCollection:
		if cfg.Targets == nil {
			errs = append(errs, "targets is required for model=collection")
		}
	case gacha.KindBernoulli:
		if cfg.UpRate != nil && *cfg.UpRate == 0 {
			errs = append(errs, "up_rate must be > 0 for model=bernoulli")
		}
	}

	// tokens (optional)
	if cfg.Tokens != nil {
		if cfg.Tokens.PerDraw != nil && *cfg.Tokens.PerDraw < 0 {
			errs = append(errs, "tokens.per_draw must be >= 0")
		}
		if cfg.Tokens.PerTenDraw != nil && *cfg.Tokens.PerTenDraw < 0 {
			errs = append(errs, "tokens.per_ten_draw must be >= 0")
		}
	}

	// pricing (optional)
	if cfg.Pricing != nil {
		if cfg.Pricing.TaxRate < 0 {
			errs = append(errs, "pricing.tax_rate must be >= 0")
		}
		for i, p := range cfg.Pricing.Packs {
			if p.ID == "" {
				errs = append(errs, fmt.Sprintf("pricing.packs[%d].id is required", i))
			}
			if p.Tokens <= 0 || p.Bonus < 0 || p.PriceCents < 0 {
				errs = append(errs, fmt.Sprintf("pricing.packs[%d] needs tokens > 0, bonus >= 0, price_cents >= 0", i))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(errs, "; "))
	}
	return nil
}

func validateCurve(c *CurveConfig) []string {
	if c == nil {
		return []string{"curve is required"}
	}
	var errs []string
	if c.Mode == "table" {
		if len(c.Table) == 0 {
			errs = append(errs, "curve.table needs at least 1 entry")
		}
		for i, p := range c.Table {
			if !inUnit(p) {
				errs = append(errs, fmt.Sprintf("curve.table[%d] must be in [0,1]", i))
			}
		}
		return errs
	}

	if c.Pity == nil {
		errs = append(errs, "curve.pity is required")
	} else if *c.Pity < 1 {
		errs = append(errs, "curve.pity must be >= 1")
	}
	if c.Base == nil {
		errs = append(errs, "curve.base is required")
	} else if !inUnit(*c.Base) {
		errs = append(errs, "curve.base must be in [0,1]")
	}

	switch c.Mode {
	case "target_ramp":
		// need start_at or start_pct; need target
		if c.Target == nil {
			errs = append(errs, "curve.target is required for mode=target_ramp")
		} else if *c.Target <= 0 || *c.Target >= 1 {
			errs = append(errs, "curve.target must be in (0,1)")
		}
		if c.StartAt == nil && c.StartPct == nil {
			errs = append(errs, "curve.start_at or start_pct is required for mode=target_ramp")
		}
		switch gacha.Easing(c.Easing) {
		case "", gacha.EaseLinear, gacha.EaseOutQuad, gacha.EaseInOutCubic:
		default:
			errs = append(errs, fmt.Sprintf("curve.easing %q is not linear, easeOutQuad or easeInOutCubic", c.Easing))
		}
	case "per_draw_increment":
		if c.StartAt == nil {
			errs = append(errs, "curve.start_at is required for mode=per_draw_increment")
		}
		if c.Increment == nil {
			errs = append(errs, "curve.increment is required for mode=per_draw_increment")
		} else if *c.Increment <= 0 {
			errs = append(errs, "curve.increment must be > 0 for mode=per_draw_increment")
		}
	case "piecewise":
		if len(c.Ramps) == 0 {
			errs = append(errs, "curve.ramps is required for mode=piecewise")
		}
		for i, r := range c.Ramps {
			if r.Start < 1 || r.Step < 0 {
				errs = append(errs, fmt.Sprintf("curve.ramps[%d] needs start >= 1 and step >= 0", i))
			}
			if i > 0 && r.Start <= c.Ramps[i-1].Start {
				errs = append(errs, fmt.Sprintf("curve.ramps[%d] must start after ramps[%d]", i, i-1))
			}
		}
	case "flat":
	default:
		errs = append(errs, "curve.mode must be one of: per_draw_increment, target_ramp, piecewise, flat, table")
	}

	if c.Pity != nil && c.StartAt != nil {
		if *c.StartAt < 0 || *c.StartAt >= *c.Pity {
			errs = append(errs, "curve.start_at must satisfy 0 <= start_at < pity")
		}
	}
	if c.StartPct != nil {
		if *c.StartPct < 0 || *c.StartPct > 1 {
			errs = append(errs, "curve.start_pct must be in [0,1]")
		}
	}
	return errs
}

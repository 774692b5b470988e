package gacha

import "fmt"

// Easing specifies how the probability ramps up as we approach pity.
type Easing string

const (
	EaseLinear     Easing = "linear"
	EaseOutQuad    Easing = "easeOutQuad"
	EaseInOutCubic Easing = "easeInOutCubic"
)

// SoftPityConfig defines a target ramp before hard pity.
// Example: Hard=90, StartAt=74, TargetProb=0.5 → from the pull after 74
// misses up to hard pity, p eases from base toward 0.5.
type SoftPityConfig struct {
	Hard       int     // hard pity threshold
	StartAt    int     // misses since last success at which the ramp begins
	TargetProb float64 // probability the ramp heads for at Hard-1 misses, in (0,1)
	Easing     Easing
}

// normalize validates and adjusts StartAt; returns error if invalid.
func (c *SoftPityConfig) normalize() error {
	if c.Hard <= 1 {
		return fmt.Errorf("%w: hard pity %d", ErrSoftPityConfig, c.Hard)
	}
	if c.TargetProb <= 0 || c.TargetProb >= 1 {
		return fmt.Errorf("%w: target %v outside (0,1)", ErrSoftPityConfig, c.TargetProb)
	}
	if c.StartAt < 0 {
		c.StartAt = 0
	}
	// Ramp ends at Hard-1; StartAt must leave room to ramp.
	if c.StartAt >= c.Hard-1 {
		return fmt.Errorf("%w: start %d leaves no ramp before %d", ErrSoftPityConfig, c.StartAt, c.Hard)
	}
	switch c.Easing {
	case "":
		c.Easing = EaseLinear
	case EaseLinear, EaseOutQuad, EaseInOutCubic:
	default:
		return fmt.Errorf("%w: unknown easing %q", ErrSoftPityConfig, c.Easing)
	}
	return nil
}

func (e Easing) apply(t float64) float64 {
	switch e {
	case EaseOutQuad:
		return 1 - (1-t)*(1-t)
	case EaseInOutCubic:
		if t < 0.5 {
			return 4 * t * t * t
		}
		u := -2*t + 2
		return 1 - u*u*u/2
	default:
		return t
	}
}

// EasedCurve builds a curve that stays at base until cfg.StartAt misses and
// then eases toward cfg.TargetProb, with certainty at cfg.Hard.
func EasedCurve(base float64, cfg SoftPityConfig) (Curve, error) {
	if err := validateProb(base); err != nil {
		return nil, fmt.Errorf("%w: base=%v", ErrInvalidCurve, base)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	p := make([]float64, cfg.Hard+1)
	end := cfg.Hard - 1
	length := float64(end - cfg.StartAt)
	for i := 1; i < cfg.Hard; i++ {
		misses := i - 1
		if misses < cfg.StartAt {
			p[i] = base
			continue
		}
		t := float64(misses-cfg.StartAt) / length
		v := base + (cfg.TargetProb-base)*cfg.Easing.apply(t)
		if v < 0 {
			v = 0
		}
		// keep < 1 before hard pity
		if v > 0.999999999999 {
			v = 0.999999999999
		}
		p[i] = v
	}
	return NewCurve(p)
}

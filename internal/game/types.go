// types.go
package game

import (
	"fmt"
	"strings"

	"github.com/xtding233/gacha-calc/internal/gacha"
	"github.com/xtding233/gacha-calc/internal/pricing"
	"github.com/xtding233/gacha-calc/internal/token"
)

// Raw config loaded from YAML. Every layer (default, game, pool) uses the
// same shape; unset fields fall through to the layer below.
type RawConfig struct {
	Version      string            `yaml:"version"`
	Name         string            `yaml:"name,omitempty"`
	Model        string            `yaml:"model,omitempty"`
	Curve        *CurveConfig      `yaml:"curve,omitempty"`
	UpRate       *float64          `yaml:"up_rate,omitempty"`
	SpecificRate *float64          `yaml:"specific_rate,omitempty"`
	Capture      []float64         `yaml:"capture,omitempty"`
	TypeGap      *int              `yaml:"type_gap,omitempty"`
	Targets      *int              `yaml:"targets,omitempty"`
	Spark        *SparkConfig      `yaml:"spark,omitempty"`
	Truncation   *TruncationConfig `yaml:"truncation,omitempty"`
	Tokens       *TokenConfig      `yaml:"tokens,omitempty"`
	Pricing      *PricingConfig    `yaml:"pricing,omitempty"`
	// Catalog lists "game/pool" keys to register; read from default.yaml only.
	Catalog []string `yaml:"catalog,omitempty"`
	Notes   string   `yaml:"notes,omitempty"`
}

type CurveConfig struct {
	Mode      string       `yaml:"mode"` // "per_draw_increment" | "target_ramp" | "piecewise" | "flat" | "table"
	Base      *float64     `yaml:"base,omitempty"`
	Pity      *int         `yaml:"pity,omitempty"` // hard pity
	StartAt   *int         `yaml:"start_at,omitempty"`
	StartPct  *float64     `yaml:"start_pct,omitempty"`
	Increment *float64     `yaml:"increment,omitempty"` // for per_draw_increment
	Target    *float64     `yaml:"target,omitempty"`    // for target_ramp
	Easing    string       `yaml:"easing,omitempty"`
	Ramps     []RampConfig `yaml:"ramps,omitempty"` // for piecewise
	Table     []float64    `yaml:"table,omitempty"` // explicit 1-indexed curve
}

type RampConfig struct {
	Start int     `yaml:"start"`
	Step  float64 `yaml:"step"`
}

type SparkConfig struct {
	Every     *int   `yaml:"every,omitempty"`
	Offset    *int   `yaml:"offset,omitempty"`
	FirstCap  *int   `yaml:"first_cap,omitempty"`
	BaseModel string `yaml:"base_model,omitempty"`
}

type TruncationConfig struct {
	Tol      float64 `yaml:"tol,omitempty"`
	MaxTerms int     `yaml:"max_terms,omitempty"`
}

type TokenConfig struct {
	Name       string `yaml:"name,omitempty"`
	PerDraw    *int   `yaml:"per_draw"`
	PerTenDraw *int   `yaml:"per_ten_draw"`
}

type PricingConfig struct {
	Currency string       `yaml:"currency"`
	TaxRate  float64      `yaml:"tax_rate,omitempty"`
	Packs    []PackConfig `yaml:"packs"`
}

type PackConfig struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Tokens      int    `yaml:"tokens"`
	Bonus       int    `yaml:"bonus,omitempty"`
	FirstTimeX2 bool   `yaml:"first_time_x2,omitempty"`
	PriceCents  int    `yaml:"price_cents"`
}

// Key identifies one pool of one game.
type Key struct {
	Game string
	Pool string
}

func (k Key) String() string { return k.Game + "/" + k.Pool }

// ParseKey splits "game/pool".
func ParseKey(s string) (Key, error) {
	game, pool, ok := strings.Cut(s, "/")
	if !ok || game == "" || pool == "" || strings.Contains(pool, "/") {
		return Key{}, fmt.Errorf("%w: %q is not game/pool", ErrUnknownPool, s)
	}
	return Key{Game: game, Pool: pool}, nil
}

// Entry is a resolved pool ready for queries.
type Entry struct {
	Key     Key
	Name    string
	Model   gacha.Model
	Token   token.Token
	Catalog *pricing.Catalog // nil when the pool has no store data
	Version string           // effective config version for tracing
}

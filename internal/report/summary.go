package report

import (
	"fmt"
	"math"

	"github.com/xtding233/gacha-calc/internal/dist"
	"github.com/xtding233/gacha-calc/internal/gacha"
	"github.com/xtding233/gacha-calc/internal/pricing"
	"github.com/xtding233/gacha-calc/internal/token"
)

// DefaultQuantiles are the levels shown when the caller asks for none.
var DefaultQuantiles = []float64{0.1, 0.25, 0.5, 0.75, 0.9, 0.99}

// Point is one quantile of the pull distribution.
type Point struct {
	Q     float64 `json:"q" yaml:"q"`
	Pulls int     `json:"pulls" yaml:"pulls"`
}

// Projection prices one quantile in the game's currency and, when the pool
// has a store catalog, in money.
type Projection struct {
	Point  `yaml:",inline"`
	Tokens int           `json:"tokens" yaml:"tokens"`
	Plan   *pricing.Plan `json:"plan,omitempty" yaml:"plan,omitempty"`
}

// Summary describes the pull distribution of one query.
type Summary struct {
	Title string  `json:"title" yaml:"title"`
	Kind  string  `json:"kind" yaml:"kind"`
	Items int     `json:"items" yaml:"items"`
	Mass  float64 `json:"mass" yaml:"mass"`
	// nil when the distribution is incomplete
	Mean     *float64 `json:"mean,omitempty" yaml:"mean,omitempty"`
	Variance *float64 `json:"variance,omitempty" yaml:"variance,omitempty"`
	StdDev   *float64 `json:"std_dev,omitempty" yaml:"std_dev,omitempty"`

	Quantiles   []Point      `json:"quantiles" yaml:"quantiles"`
	CDF         []float64    `json:"cdf,omitempty" yaml:"cdf,omitempty"`
	Simulation  *gacha.Stats `json:"simulation,omitempty" yaml:"simulation,omitempty"`
	TokenName   string       `json:"token,omitempty" yaml:"token,omitempty"`
	Currency    string       `json:"currency,omitempty" yaml:"currency,omitempty"`
	Projections []Projection `json:"projections,omitempty" yaml:"projections,omitempty"`
}

// Summarize reads mass, moments and quantiles off d. qs defaults to
// DefaultQuantiles; withCDF also keeps the full CDF.
func Summarize(title string, kind gacha.Kind, items int, d *dist.Distribution, qs []float64, withCDF bool) (Summary, error) {
	if len(qs) == 0 {
		qs = DefaultQuantiles
	}
	s := Summary{Title: title, Kind: string(kind), Items: items, Mass: d.Mass()}
	if d.Complete() {
		mean, v := d.Mean(), d.Variance()
		sd := math.Sqrt(v)
		s.Mean, s.Variance, s.StdDev = &mean, &v, &sd
	}
	for _, q := range qs {
		n, err := d.Quantile(q)
		if err != nil {
			return Summary{}, fmt.Errorf("%s: %w", title, err)
		}
		s.Quantiles = append(s.Quantiles, Point{Q: q, Pulls: n})
	}
	if withCDF {
		s.CDF = d.CDF()
	}
	return s, nil
}

// Project converts every quantile into tokens and, if cat is set, into the
// cheapest purchase plan covering them. It is a no-op for unpriced tokens.
func Project(s *Summary, tok token.Token, cat *pricing.Catalog, first pricing.FirstTimeState) error {
	if !tok.Priced() {
		return nil
	}
	s.TokenName = tok.Name
	s.Projections = s.Projections[:0]
	if cat != nil {
		s.Currency = cat.Currency
	}
	for _, p := range s.Quantiles {
		pr := Projection{Point: p, Tokens: tok.TokensForDraws(p.Pulls)}
		if cat != nil && pr.Tokens > 0 {
			plan, err := pricing.MinCostAtLeastTokens(*cat, pr.Tokens, first)
			if err != nil {
				return fmt.Errorf("%s q=%v: %w", s.Title, p.Q, err)
			}
			pr.Plan = &plan
		}
		s.Projections = append(s.Projections, pr)
	}
	return nil
}

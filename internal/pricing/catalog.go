package pricing

import (
	"errors"
	"math"
)

var ErrNoPacks = errors.New("catalog has no usable packs")

// Pack models a purchasable SKU in the store.
type Pack struct {
	ID          string // SKU id, e.g., "6480"
	Name        string // display name, e.g., "6480 Genesis Crystals"
	Tokens      int    // base tokens granted
	BonusTokens int    // permanent extra tokens (non-first-time)
	FirstTimeX2 bool   // first purchase doubles base Tokens (not BonusTokens)
	PriceCents  int    // price in minor units (e.g., cents)
}

// Catalog is a regional product catalog and tax info.
type Catalog struct {
	TokenName string // e.g., "Primogem"
	Currency  string // ISO code, e.g., "USD"
	// TaxRate applies to the subtotal. Use 0 when PriceCents is tax-inclusive.
	TaxRate float64
	Packs   []Pack
}

// FirstTimeState describes per-pack first-time eligibility.
type FirstTimeState map[string]bool // packID -> true if first-time x2 is still available

// AllFirstTime marks every x2 pack of cat as still eligible.
func AllFirstTime(cat Catalog) FirstTimeState {
	s := FirstTimeState{}
	for _, p := range cat.Packs {
		if p.FirstTimeX2 {
			s[p.ID] = true
		}
	}
	return s
}

// Plan summarizes a purchase plan.
type Plan struct {
	Purchases   []Purchase `json:"purchases" yaml:"purchases"`
	SubCents    int        `json:"sub_cents" yaml:"sub_cents"` // subtotal before tax
	TaxCents    int        `json:"tax_cents" yaml:"tax_cents"`
	TotalCents  int        `json:"total_cents" yaml:"total_cents"`
	TotalTokens int        `json:"total_tokens" yaml:"total_tokens"`
	Currency    string     `json:"currency" yaml:"currency"`
}

// Purchase is one line item in the plan.
type Purchase struct {
	PackID     string `json:"pack_id" yaml:"pack_id"`
	Name       string `json:"name" yaml:"name"`
	Qty        int    `json:"qty" yaml:"qty"`
	UnitPrice  int    `json:"unit_price" yaml:"unit_price"`   // cents
	UnitTokens int    `json:"unit_tokens" yaml:"unit_tokens"` // tokens per unit in this plan (x2/bonus applied)
	Subtotal   int    `json:"subtotal" yaml:"subtotal"`       // cents
}

// applyTax computes tax and total given a subtotal and a tax rate.
func applyTax(sub int, taxRate float64) (tax int, total int) {
	if taxRate <= 0 {
		return 0, sub
	}
	t := int(math.Round(float64(sub) * taxRate))
	return t, sub + t
}

package pricing

import (
	"math"
	"sort"
)

// variant is one purchasable option: the x2 first purchase of a pack can be
// bought once, the regular pack any number of times.
type variant struct {
	id, name   string
	tok, price int
	once       bool
}

func variants(cat Catalog, first FirstTimeState) []variant {
	var vs []variant
	for _, p := range cat.Packs {
		if p.Tokens+p.BonusTokens <= 0 || p.PriceCents <= 0 {
			continue
		}
		if p.FirstTimeX2 && first[p.ID] {
			vs = append(vs, variant{
				id:    p.ID + "#x2",
				name:  p.Name + " (x2)",
				tok:   p.Tokens*2 + p.BonusTokens, // x2 applies to base Tokens only
				price: p.PriceCents,
				once:  true,
			})
		}
		vs = append(vs, variant{id: p.ID, name: p.Name, tok: p.Tokens + p.BonusTokens, price: p.PriceCents})
	}
	return vs
}

// MinCostAtLeastTokens finds the minimum-cost combination to obtain at least
// targetTokens. Each eligible first-time x2 bonus is used at most once.
func MinCostAtLeastTokens(cat Catalog, targetTokens int, first FirstTimeState) (Plan, error) {
	if targetTokens <= 0 {
		return Plan{Currency: cat.Currency}, nil
	}
	vs := variants(cat, first)
	if len(vs) == 0 {
		return Plan{}, ErrNoPacks
	}
	maxTok := 0
	for _, v := range vs {
		maxTok = max(maxTok, v.tok)
	}
	// only states below the target expand, so nothing lands past limit
	limit := targetTokens - 1 + maxTok

	const inf = math.MaxInt
	dp := make([]int, limit+1) // min cost to reach exactly t tokens
	for t := range dp {
		dp[t] = inf
	}
	dp[0] = 0
	take := make([][]bool, len(vs))
	for i, v := range vs {
		take[i] = make([]bool, limit+1)
		relax := func(t int) {
			if dp[t] == inf {
				return
			}
			if nt, c := t+v.tok, dp[t]+v.price; c < dp[nt] {
				dp[nt] = c
				take[i][nt] = true
			}
		}
		if v.once {
			for t := targetTokens - 1; t >= 0; t-- {
				relax(t)
			}
		} else {
			for t := 0; t < targetTokens; t++ {
				relax(t)
			}
		}
	}

	bestT, bestCost := -1, inf
	for t := targetTokens; t <= limit; t++ {
		if dp[t] < bestCost {
			bestT, bestCost = t, dp[t]
		}
	}
	if bestT < 0 {
		return Plan{}, ErrNoPacks
	}
	return buildPlan(cat, vs, take, bestT, func(v variant) int { return v.tok }), nil
}

// MaxTokensUnderBudget computes the maximum tokens purchasable with
// budgetCents, tax included.
func MaxTokensUnderBudget(cat Catalog, budgetCents int, first FirstTimeState) (Plan, error) {
	if budgetCents <= 0 {
		return Plan{Currency: cat.Currency}, nil
	}
	vs := variants(cat, first)
	if len(vs) == 0 {
		return Plan{}, ErrNoPacks
	}
	// Tax applies to the subtotal, so spend at most budget/(1+tax) pre-tax.
	effBudget := budgetCents
	if cat.TaxRate > 0 {
		effBudget = int(math.Floor(float64(budgetCents) / (1 + cat.TaxRate)))
	}

	dp := make([]int, effBudget+1) // max tokens with cost at most c
	take := make([][]bool, len(vs))
	for i, v := range vs {
		take[i] = make([]bool, effBudget+1)
		relax := func(c int) {
			if c < v.price {
				return
			}
			if val := dp[c-v.price] + v.tok; val > dp[c] {
				dp[c] = val
				take[i][c] = true
			}
		}
		if v.once {
			for c := effBudget; c >= 0; c-- {
				relax(c)
			}
		} else {
			for c := 0; c <= effBudget; c++ {
				relax(c)
			}
		}
	}
	return buildPlan(cat, vs, take, effBudget, func(v variant) int { return v.price }), nil
}

// buildPlan walks the take tables back from state s; weight gives the amount
// each variant moves the state by.
func buildPlan(cat Catalog, vs []variant, take [][]bool, s int, weight func(variant) int) Plan {
	counts := make([]int, len(vs))
	for i := len(vs) - 1; i >= 0; i-- {
		for s > 0 && take[i][s] {
			counts[i]++
			s -= weight(vs[i])
			if vs[i].once {
				break
			}
		}
	}

	plan := Plan{Currency: cat.Currency}
	for i, qty := range counts {
		if qty == 0 {
			continue
		}
		v := vs[i]
		sub := v.price * qty
		plan.Purchases = append(plan.Purchases, Purchase{
			PackID:     v.id,
			Name:       v.name,
			Qty:        qty,
			UnitPrice:  v.price,
			UnitTokens: v.tok,
			Subtotal:   sub,
		})
		plan.SubCents += sub
		plan.TotalTokens += v.tok * qty
	}
	sort.Slice(plan.Purchases, func(i, j int) bool { return plan.Purchases[i].PackID < plan.Purchases[j].PackID })
	plan.TaxCents, plan.TotalCents = applyTax(plan.SubCents, cat.TaxRate)
	return plan
}

package token

// Token defines how many currency units are required per draw.
type Token struct {
	Name      string // e.g. "Stellar Jade", "Orundum"
	PerDraw   int    // tokens per single draw, e.g. 160, 600
	Bundle    int    // draws sold together at a fixed price, e.g. 10; 0 or 1 disables
	PerBundle int    // price of one bundle; 0 means Bundle * PerDraw
}

// Priced reports whether draws cost anything in this token.
func (t Token) Priced() bool { return t.PerDraw > 0 }

func (t Token) bundlePrice() int {
	if t.PerBundle > 0 {
		return t.PerBundle
	}
	return t.Bundle * t.PerDraw
}

// TokensForDraws returns how many tokens are required for n draws, buying
// as many whole bundles as fit when bundles are cheaper than singles.
func (t Token) TokensForDraws(n int) int {
	if n <= 0 {
		return 0
	}
	if t.Bundle > 1 && t.bundlePrice() < t.Bundle*t.PerDraw {
		bundles := n / t.Bundle
		rem := n % t.Bundle
		return bundles*t.bundlePrice() + rem*t.PerDraw
	}
	return n * t.PerDraw
}

// DrawsForTokens returns how many draws n tokens buy.
func (t Token) DrawsForTokens(n int) int {
	if n <= 0 || t.PerDraw <= 0 {
		return 0
	}
	if t.Bundle > 1 && t.bundlePrice() < t.Bundle*t.PerDraw {
		bundles := n / t.bundlePrice()
		return bundles*t.Bundle + (n-bundles*t.bundlePrice())/t.PerDraw
	}
	return n / t.PerDraw
}

package gacha

// Draw performs one Bernoulli trial with success probability p.
// p <= 0 never hits, p >= 1 always hits; otherwise rng.Float64() < p.
// A nil rng falls back to DefaultRNG.
func Draw(p float64, rng RandomSource) (bool, error) {
	if err := validateProb(p); err != nil {
		return false, err
	}
	if p <= 0 {
		return false, nil
	}
	if p >= 1 {
		return true, nil
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	return rng.Float64() < p, nil
}

// pick returns the index of the branch selected by one uniform draw over
// weights that sum to at most 1. The remainder selects len(weights).
func pick(rng RandomSource, weights ...float64) int {
	r := rng.Float64()
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r < acc {
			return i
		}
	}
	return len(weights)
}

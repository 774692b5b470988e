package gacha

// PitySystem replays a Curve one pull at a time.
type PitySystem struct {
	Curve Curve
	Count int // pulls since last success
	RNG   RandomSource
}

// NewPitySystem starts a counter at the given pity offset.
func NewPitySystem(c Curve, offset int, rng RandomSource) *PitySystem {
	if rng == nil {
		rng = DefaultRNG()
	}
	if offset < 0 {
		offset = 0
	}
	return &PitySystem{Curve: c, Count: offset, RNG: rng}
}

// Draw performs one pull. On success Count resets to 0, otherwise it grows.
// Reaching hard pity always succeeds.
func (ps *PitySystem) Draw() (bool, error) {
	hit, err := Draw(ps.Curve.At(ps.Count+1), ps.RNG)
	if err != nil {
		return false, err
	}
	if hit {
		ps.Count = 0
	} else {
		ps.Count++
	}
	return hit, nil
}

// Next pulls until the next success and returns the number of pulls spent.
func (ps *PitySystem) Next() (int, error) {
	n := 0
	for {
		n++
		hit, err := ps.Draw()
		if err != nil {
			return 0, err
		}
		if hit {
			return n, nil
		}
	}
}

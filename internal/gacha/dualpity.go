package gacha

import "github.com/xtding233/gacha-calc/internal/dist"

// DualPityModel layers a guarantee on the pity curve: a base success is the
// target with probability UpRate; losing guarantees the next one.
type DualPityModel struct {
	layer  *PityLayer
	upRate float64
}

func NewDualPityModel(c Curve, upRate float64) (*DualPityModel, error) {
	if err := validateRate("up_rate", upRate); err != nil {
		return nil, err
	}
	return &DualPityModel{layer: NewPityLayer(c), upRate: upRate}, nil
}

func (m *DualPityModel) Kind() Kind        { return KindDualPity }
func (m *DualPityModel) Layer() *PityLayer { return m.layer }
func (m *DualPityModel) UpRate() float64   { return m.upRate }

func (m *DualPityModel) Call(q Query) (*dist.Distribution, error) {
	if err := q.validate(m.layer.Len()); err != nil {
		return nil, err
	}
	if q.Items == 0 {
		return dist.Point(0), nil
	}
	first, err := m.firstTarget(q.Pity, q.Guaranteed)
	if err != nil {
		return nil, err
	}
	fresh, err := m.firstTarget(0, false)
	if err != nil {
		return nil, err
	}
	return repeat(first, fresh, q.Items)
}

// firstTarget is u·D(offset) + (1-u)·D(offset)⊛D(0), or D(offset) when
// the caller already holds the guarantee.
func (m *DualPityModel) firstTarget(offset int, guaranteed bool) (*dist.Distribution, error) {
	a := m.layer.Dist(offset)
	if guaranteed {
		return a, nil
	}
	return dist.Mix(
		dist.Branch{Weight: m.upRate, Dist: a},
		dist.Branch{Weight: 1 - m.upRate, Dist: a.Convolve(m.layer.Dist(0))},
	)
}

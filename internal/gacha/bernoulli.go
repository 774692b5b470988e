package gacha

import (
	"fmt"

	"github.com/xtding233/gacha-calc/internal/dist"
)

// BernoulliModel has no persistent guarantee: every base success is
// independently the target with probability UpRate, so the number of base
// successes needed is Geometric(UpRate) from 1.
type BernoulliModel struct {
	layer  *PityLayer
	upRate float64
	trunc  Truncation
}

// NewBernoulliModel requires a positive rate. A zero Truncation selects
// DefaultTruncation.
func NewBernoulliModel(c Curve, upRate float64, trunc Truncation) (*BernoulliModel, error) {
	if err := validateRate("up_rate", upRate); err != nil {
		return nil, err
	}
	if upRate == 0 {
		return nil, fmt.Errorf("%w: up_rate must be positive", ErrInvalidModel)
	}
	return &BernoulliModel{
		layer:  NewPityLayer(c),
		upRate: upRate,
		trunc:  trunc.orDefault(DefaultTruncation),
	}, nil
}

func (m *BernoulliModel) Kind() Kind        { return KindBernoulli }
func (m *BernoulliModel) Layer() *PityLayer { return m.layer }
func (m *BernoulliModel) UpRate() float64   { return m.upRate }

func (m *BernoulliModel) Call(q Query) (*dist.Distribution, error) {
	if err := q.validate(m.layer.Len()); err != nil {
		return nil, err
	}
	if q.Items == 0 {
		return dist.Point(0), nil
	}
	fresh := m.layer.Dist(0)
	// a guaranteed caller converts the first base success outright
	firstRate := m.upRate
	if q.Guaranteed {
		firstRate = 1
	}
	first := translate(geometric(firstRate, m.upRate, m.trunc), m.layer.Dist(q.Pity), fresh)
	if q.Items == 1 {
		return first, nil
	}
	each := translate(geometric(m.upRate, m.upRate, m.trunc), fresh, fresh)
	return repeat(first, each, q.Items)
}

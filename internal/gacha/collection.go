package gacha

import (
	"fmt"

	"github.com/xtding233/gacha-calc/internal/dist"
)

// CollectionModel collects distinct targets: each base success is one of
// Targets featured items with total probability UpRate, split uniformly.
// Items counts new distinct targets wanted on top of Extra.Owned.
type CollectionModel struct {
	layer   *PityLayer
	upRate  float64
	targets int
	trunc   Truncation
}

func NewCollectionModel(c Curve, upRate float64, targets int, trunc Truncation) (*CollectionModel, error) {
	if err := validateRate("up_rate", upRate); err != nil {
		return nil, err
	}
	if upRate == 0 {
		return nil, fmt.Errorf("%w: up_rate must be positive", ErrInvalidModel)
	}
	if targets < 1 {
		return nil, fmt.Errorf("%w: targets=%d", ErrInvalidModel, targets)
	}
	return &CollectionModel{
		layer:   NewPityLayer(c),
		upRate:  upRate,
		targets: targets,
		trunc:   trunc.orDefault(DefaultTruncation),
	}, nil
}

func (m *CollectionModel) Kind() Kind        { return KindCollection }
func (m *CollectionModel) Layer() *PityLayer { return m.layer }
func (m *CollectionModel) Targets() int      { return m.targets }

func (m *CollectionModel) Call(q Query) (*dist.Distribution, error) {
	if err := q.validate(m.layer.Len()); err != nil {
		return nil, err
	}
	if q.Extra.Owned+q.Items > m.targets {
		return nil, fmt.Errorf("%w: owned %d + items %d exceeds %d targets", ErrInvalidQuery, q.Extra.Owned, q.Items, m.targets)
	}
	if q.Items == 0 {
		return dist.Point(0), nil
	}
	burn, err := m.Burn(q.Items, q.Extra.Owned, q.Guaranteed)
	if err != nil {
		return nil, err
	}
	return translate(burn.Masses(), m.layer.Dist(q.Pity), m.layer.Dist(0)), nil
}

// Burn is the distribution of base successes needed to collect items new
// targets with owned already held: a sum of geometric stages with exit
// probability upRate*(targets-j)/targets. A guaranteed first success is a
// featured item for certain.
func (m *CollectionModel) Burn(items, owned int, guaranteed bool) (*dist.Distribution, error) {
	if items < 0 || owned < 0 || owned+items > m.targets {
		return nil, fmt.Errorf("%w: items=%d owned=%d", ErrInvalidQuery, items, owned)
	}
	out := dist.Point(0)
	for j := owned; j < owned+items; j++ {
		share := float64(m.targets-j) / float64(m.targets)
		exit := m.upRate * share
		first := exit
		if guaranteed && j == owned {
			first = share
		}
		out = out.Convolve(dist.New(geometric(first, exit, m.trunc)))
	}
	return out, nil
}

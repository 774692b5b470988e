package gacha

import "github.com/xtding233/gacha-calc/internal/dist"

// CommonModel is pity only: every base success is a target.
type CommonModel struct {
	layer *PityLayer
}

func NewCommonModel(c Curve) *CommonModel {
	return &CommonModel{layer: NewPityLayer(c)}
}

func (m *CommonModel) Kind() Kind        { return KindCommon }
func (m *CommonModel) Layer() *PityLayer { return m.layer }

func (m *CommonModel) Call(q Query) (*dist.Distribution, error) {
	if err := q.validate(m.layer.Len()); err != nil {
		return nil, err
	}
	if q.Items == 0 {
		return dist.Point(0), nil
	}
	return repeat(m.layer.Dist(q.Pity), m.layer.Dist(0), q.Items)
}

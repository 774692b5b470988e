package gacha

import (
	"fmt"

	"github.com/xtding233/gacha-calc/internal/dist"
)

// TypePityModel adds a type-rotation counter on top of a Bernoulli target
// choice: once Gap pulls have passed since the last target, the next base
// success is the target with certainty.
type TypePityModel struct {
	layer  *PityLayer
	upRate float64
	gap    int
}

func NewTypePityModel(c Curve, upRate float64, gap int) (*TypePityModel, error) {
	if err := validateRate("up_rate", upRate); err != nil {
		return nil, err
	}
	if gap < 1 {
		return nil, fmt.Errorf("%w: type_gap=%d", ErrInvalidModel, gap)
	}
	return &TypePityModel{layer: NewPityLayer(c), upRate: upRate, gap: gap}, nil
}

func (m *TypePityModel) Kind() Kind        { return KindTypePity }
func (m *TypePityModel) Layer() *PityLayer { return m.layer }
func (m *TypePityModel) Gap() int          { return m.gap }

func (m *TypePityModel) Call(q Query) (*dist.Distribution, error) {
	if err := q.validate(m.layer.Len()); err != nil {
		return nil, err
	}
	if q.Items == 0 {
		return dist.Point(0), nil
	}
	t0 := min(q.Extra.TypePulls, m.gap)
	if q.Guaranteed {
		t0 = m.gap
	}
	first := m.firstTarget(q.Pity, t0)
	if q.Items == 1 {
		return first, nil
	}
	return repeat(first, m.firstTarget(0, 0), q.Items)
}

// firstTarget runs a forward DP over pulls with state (c, t): c pulls since
// the last base success, t pulls since the last target saturating at gap.
// The walk is acyclic and ends within gap-t0+len(curve) pulls, so the
// result is exact up to rounding.
func (m *TypePityModel) firstTarget(c0, t0 int) *dist.Distribution {
	curve := m.layer.Curve()
	nc, nt := len(curve), m.gap+1
	cur := make([]float64, nc*nt)
	next := make([]float64, nc*nt)
	cur[c0*nt+t0] = 1

	out := []float64{0}
	if _, err := m.layer.DistChecked(c0); err != nil {
		// no mass past c0: the base success lands at 0 further pulls,
		// matching the PityLayer.Dist fallback
		target := m.upRate
		if t0 >= m.gap {
			target = 1
		}
		out[0] = target
		cur[c0*nt+t0] = 0
		cur[t0] = 1 - target
	}
	maxN := m.gap - t0 + nc
	for n := 1; n <= maxN; n++ {
		clear(next)
		hit, left := 0.0, 0.0
		for c := 0; c < nc; c++ {
			p := curve.At(c + 1)
			for t := 0; t < nt; t++ {
				v := cur[c*nt+t]
				if v == 0 {
					continue
				}
				tt := min(t+1, m.gap)
				target := m.upRate
				if t >= m.gap {
					target = 1
				}
				s := v * p
				hit += s * target
				next[tt] += s * (1 - target)
				if p < 1 && c+1 < nc {
					next[(c+1)*nt+tt] += v * (1 - p)
				}
			}
		}
		out = append(out, hit)
		for _, v := range next {
			left += v
		}
		if left == 0 {
			break
		}
		cur, next = next, cur
	}
	return dist.New(out)
}

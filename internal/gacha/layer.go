package gacha

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/xtding233/gacha-calc/internal/dist"
)

// PityLayer owns the canonical pulls-to-first-success distribution of a
// curve. Conditioned views are derived on demand and never cached.
type PityLayer struct {
	curve Curve
	base  *dist.Distribution
}

func NewPityLayer(c Curve) *PityLayer {
	return &PityLayer{curve: c, base: c.Dist()}
}

// Curve returns the underlying curve.
func (l *PityLayer) Curve() Curve { return l.curve }

// Len is the curve length (hard pity + 1); valid offsets are below it.
func (l *PityLayer) Len() int { return len(l.curve) }

// Dist returns the distribution of further pulls to the next success given
// offset pulls already made without one. Offset 0 is the canonical
// distribution. When no mass remains past offset the result is Point(0):
// this is a fallback, not a derived value; DistChecked reports it.
func (l *PityLayer) Dist(offset int) *dist.Distribution {
	d, _ := l.DistChecked(offset)
	return d
}

// DistChecked is Dist that also returns dist.ErrDegenerate alongside the
// Point(0) fallback.
func (l *PityLayer) DistChecked(offset int) (*dist.Distribution, error) {
	if offset <= 0 {
		return l.base, nil
	}
	m := l.base.Masses()
	if offset >= len(m) {
		return dist.Point(0), fmt.Errorf("%w: offset %d past support %d", dist.ErrDegenerate, offset, len(m))
	}
	tail := m[offset:]
	tail[0] = 0
	total := floats.Sum(tail)
	if total == 0 {
		return dist.Point(0), fmt.Errorf("%w: offset %d", dist.ErrDegenerate, offset)
	}
	floats.Scale(1/total, tail)
	return dist.New(tail), nil
}

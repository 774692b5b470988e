package gacha

import (
	"fmt"

	"github.com/xtding233/gacha-calc/internal/dist"
)

// solveLoop sums entry ⊛ loop^m scaled by exit over m = 0, 1, ...
// loop is a sub-stochastic self-loop (weight already applied); summation
// stops once the residual loop mass mass(loop)^(m+1) falls below t.Tol.
func solveLoop(entry, loop *dist.Distribution, exit float64, t Truncation) *dist.Distribution {
	out := dist.New(nil)
	term := entry
	stay := loop.Mass()
	residual := 1.0
	limit := t.terms(stay)
	for m := 0; m < limit; m++ {
		out = out.Add(term.Scale(exit))
		residual *= stay
		if residual < t.Tol || stay == 0 {
			break
		}
		term = term.Convolve(loop)
	}
	return out
}

// ClassBernoulliModel composes a dual pity on the item class (for example
// "any featured weapon") with an independent choice of the specific item
// within that class. A class match on the wrong item starts over from a
// fresh state.
type ClassBernoulliModel struct {
	class    *DualPityModel
	specific float64
	trunc    Truncation
}

// NewClassBernoulliModel takes the class up rate and the specific rate given
// a class match. A zero Truncation selects LoopTruncation.
func NewClassBernoulliModel(c Curve, classRate, specific float64, trunc Truncation) (*ClassBernoulliModel, error) {
	class, err := NewDualPityModel(c, classRate)
	if err != nil {
		return nil, err
	}
	if err := validateRate("specific_rate", specific); err != nil {
		return nil, err
	}
	if specific == 0 {
		return nil, fmt.Errorf("%w: specific_rate must be positive", ErrInvalidModel)
	}
	return &ClassBernoulliModel{class: class, specific: specific, trunc: trunc.orDefault(LoopTruncation)}, nil
}

func (m *ClassBernoulliModel) Kind() Kind        { return KindClassBernoulli }
func (m *ClassBernoulliModel) Layer() *PityLayer { return m.class.layer }

func (m *ClassBernoulliModel) Call(q Query) (*dist.Distribution, error) {
	if err := q.validate(m.class.layer.Len()); err != nil {
		return nil, err
	}
	if q.Items == 0 {
		return dist.Point(0), nil
	}
	entry, err := m.class.firstTarget(q.Pity, q.Guaranteed)
	if err != nil {
		return nil, err
	}
	fresh, err := m.class.firstTarget(0, false)
	if err != nil {
		return nil, err
	}
	loop := fresh.Scale(1 - m.specific)
	first := solveLoop(entry, loop, m.specific, m.trunc)
	if q.Items == 1 {
		return first, nil
	}
	each := solveLoop(fresh, loop, m.specific, m.trunc)
	return repeat(first, each, q.Items)
}

package gacha

import (
	"fmt"

	"github.com/xtding233/gacha-calc/internal/dist"
)

// CapturingRadianceModel is the dual pity variant with an escalating capture
// counter. States 1..3 count consecutive lost 50/50s; capture[k] is the
// probability that a base success in state k is taken as the target outright.
// State 0 follows a natural win and keeps its own capture rate.
//
// Per target, from state s:
//
//	capture                      cost 1  p = capture[s]        → 1
//	natural win                  cost 1  p = 0.5 - capture[s]/2 → max(s-1, 0)
//	lose, redeem the guarantee   cost 2  p = 0.5 - capture[s]/2 → min(s+1, 3)
//
// With capture[3] = 1 the state 3 rows of the last two lines carry no mass.
type CapturingRadianceModel struct {
	layer   *PityLayer
	capture [4]float64
}

// DefaultCapture is the published Genshin Impact counter.
var DefaultCapture = [4]float64{0, 0, 0, 1}

func NewCapturingRadianceModel(c Curve, capture [4]float64) (*CapturingRadianceModel, error) {
	for k, v := range capture {
		if err := validateRate(fmt.Sprintf("capture[%d]", k), v); err != nil {
			return nil, err
		}
	}
	return &CapturingRadianceModel{layer: NewPityLayer(c), capture: capture}, nil
}

func (m *CapturingRadianceModel) Kind() Kind          { return KindCapturingRadiance }
func (m *CapturingRadianceModel) Layer() *PityLayer   { return m.layer }
func (m *CapturingRadianceModel) Capture() [4]float64 { return m.capture }

func (m *CapturingRadianceModel) Call(q Query) (*dist.Distribution, error) {
	if err := q.validate(m.layer.Len()); err != nil {
		return nil, err
	}
	if q.Items == 0 {
		return dist.Point(0), nil
	}
	if q.Guaranteed {
		// the capture roll never applies to a redemption; the rest restarts fresh
		first := m.layer.Dist(q.Pity)
		if q.Items == 1 {
			return first, nil
		}
		rest := translate(m.burn(q.Items-1, 1), m.layer.Dist(0), m.layer.Dist(0))
		return first.Convolve(rest), nil
	}
	state := 1
	if q.Extra.Radiance != nil {
		state = *q.Extra.Radiance
	}
	return translate(m.burn(q.Items, state), m.layer.Dist(q.Pity), m.layer.Dist(0)), nil
}

// Burn returns the distribution of base successes consumed to win items
// targets starting from the given counter state.
func (m *CapturingRadianceModel) Burn(items, state int) (*dist.Distribution, error) {
	if items < 0 || state < 0 || state > 3 {
		return nil, fmt.Errorf("%w: items=%d state=%d", ErrInvalidQuery, items, state)
	}
	return dist.New(m.burn(items, state)), nil
}

// burn runs the DP M[i][j][k]: probability of holding j targets after
// consuming i base successes, ending in state k. Each target costs at most
// two base successes, so i never exceeds 2*items.
func (m *CapturingRadianceModel) burn(items, start int) []float64 {
	cr := m.capture
	win := func(s int) float64 { return 0.5 - cr[s]/2 }
	maxI := 2 * items
	width := items + 1
	M := make([]float64, (maxI+1)*width*4)
	at := func(i, j, k int) int { return (i*width+j)*4 + k }

	M[at(0, 0, start)] = 1
	for i := 1; i <= maxI; i++ {
		for j := 1; j <= items; j++ {
			cell := M[at(i, j, 0) : at(i, j, 0)+4]
			if i >= 2 {
				for k := 1; k < 4; k++ {
					cell[k] += M[at(i-2, j-1, k-1)] * win(k-1)
				}
				// redemption from the saturated counter
				cell[3] += M[at(i-2, j-1, 3)] * win(3)
			}
			for k := 0; k < 3; k++ {
				cell[k] += M[at(i-1, j-1, k+1)] * win(k+1)
			}
			cell[0] += M[at(i-1, j-1, 0)] * win(0)
			for k := 0; k < 4; k++ {
				cell[1] += M[at(i-1, j-1, k)] * cr[k]
			}
		}
	}
	out := make([]float64, maxI+1)
	for i := range out {
		for k := 0; k < 4; k++ {
			out[i] += M[at(i, items, k)]
		}
	}
	return out
}

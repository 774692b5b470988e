package gacha

import (
	"errors"
	"fmt"

	"github.com/xtding233/gacha-calc/internal/dist"
)

var (
	ErrInvalidProb    = errors.New("invalid probability p; must be 0..1")
	ErrSoftPityConfig = errors.New("invalid soft pity config")
	ErrInvalidCurve   = errors.New("invalid pity curve")

	// ErrInvalidQuery is returned by Model.Call for out-of-range query fields.
	// It matches dist.ErrInvalidArgument under errors.Is.
	ErrInvalidQuery = fmt.Errorf("invalid query: %w", dist.ErrInvalidArgument)

	// ErrInvalidModel reports bad construction parameters (rates, gaps, capture vector).
	ErrInvalidModel = fmt.Errorf("invalid model parameters: %w", dist.ErrInvalidArgument)

	// ErrNotSimulable is returned by Simulate for models without a pull-by-pull sampler.
	ErrNotSimulable = errors.New("model does not support simulation")
)

package gacha

import (
	"fmt"
	"math"
)

func validateProb(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return ErrInvalidProb
	}
	if p < 0 || p > 1 {
		return ErrInvalidProb
	}
	return nil
}

// validateRate checks a named model rate and wraps the failure as ErrInvalidModel.
func validateRate(name string, p float64) error {
	if err := validateProb(p); err != nil {
		return fmt.Errorf("%w: %s=%v", ErrInvalidModel, name, p)
	}
	return nil
}

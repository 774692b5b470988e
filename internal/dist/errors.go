package dist

import "errors"

var (
	// ErrInvalidArgument is returned for negative exponents, invalid branch weights
	// and out-of-range quantiles.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDegenerate marks a conditioning that left zero residual mass.
	// Callers substitute Point(0) instead of failing; the error only surfaces
	// through the checked variants.
	ErrDegenerate = errors.New("degenerate distribution: zero residual mass")

	// ErrInconsistent reports a total mass further than Tolerance from 1.
	ErrInconsistent = errors.New("statistical inconsistency: total mass deviates from 1")
)

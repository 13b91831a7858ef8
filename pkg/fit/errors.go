package fit

import "errors"

var (
	ErrSingular      = errors.New("singular normal matrix")
	ErrNoConvergence = errors.New("nonlinear fit did not converge")
	ErrNonPositive   = errors.New("non-positive value cannot be linearised")
	ErrDimension     = errors.New("dimension mismatch")
	ErrUnknownMethod = errors.New("unknown fit method")
)

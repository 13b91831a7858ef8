package fit

import "fmt"

type Method int

const (
	MethodLevenbergMarquardt Method = iota
	MethodMinimize
)

func (m Method) String() string {
	switch m {
	case MethodLevenbergMarquardt:
		return "levenberg-marquardt"
	case MethodMinimize:
		return "minimize"
	default:
		return "unknown"
	}
}

// ParseMethod is the inverse of Method.String.
func ParseMethod(name string) (Method, error) {
	switch name {
	case "", "lm", MethodLevenbergMarquardt.String():
		return MethodLevenbergMarquardt, nil
	case MethodMinimize.String():
		return MethodMinimize, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, name)
}

// Settings control the iteration on parameters scaled by the initial guess.
// Eps1 bounds the gradient, Eps2 bounds the step relative to the parameter
// norm.
type Settings struct {
	Tau        float64
	Eps1       float64
	Eps2       float64
	Iterations int
}

func DefaultSettings() Settings {
	return Settings{
		Tau:        1e-3,
		Eps1:       1e-12,
		Eps2:       1e-12,
		Iterations: 400,
	}
}

type LinearOption func(*linearConfig)

type linearConfig struct {
	propagated bool
}

// WithPropagatedWeights weights every realization by the uncertainty
// propagated through the linearising transform instead of the uniform scale.
func WithPropagatedWeights() LinearOption {
	return func(c *linearConfig) {
		c.propagated = true
	}
}

type NonlinearOption func(*Fitter)

func WithMethod(method Method) NonlinearOption {
	return func(f *Fitter) {
		f.method = method
	}
}

func WithSettings(settings Settings) NonlinearOption {
	return func(f *Fitter) {
		f.settings = settings
	}
}

package kinetics

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrUnknownModel = errors.New("unknown model")
)

// Model is a kinetic rate law f(x, θ) together with the transform that
// makes it linear in its parameters. The same Eval backs simulation,
// linearisation and nonlinear fitting.
type Model interface {
	Name() string
	Parameters() []string

	Eval(x float64, theta []float64) float64
	Jacobian(dst []float64, x float64, theta []float64)

	// Linearize maps a design point and response onto the straight line
	// v = slope*u + intercept.
	Linearize(x, y float64) (u, v float64)
	PropagateSigma(y, sigma float64) float64
	Recover(slope, intercept float64) []float64
	RequiresPositive() bool
}

func EvalAll(m Model, x []float64, theta []float64) []float64 {
	y := make([]float64, len(x))
	for i, xi := range x {
		y[i] = m.Eval(xi, theta)
	}
	return y
}

// Arange returns start, start+step, ... up to but excluding stop.
func Arange(start, stop, step float64) []float64 {
	if step == 0 || (stop-start)/step <= 0 {
		return nil
	}
	n := int(math.Ceil((stop - start) / step))
	x := make([]float64, n)
	for i := range x {
		x[i] = start + float64(i)*step
	}
	return x
}

func Lookup(name string) (Model, error) {
	switch name {
	case ArrheniusName:
		return Arrhenius{}, nil
	case FirstOrderName:
		return FirstOrder{}, nil
	case SecondOrderName:
		return SecondOrder{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, name)
	}
}

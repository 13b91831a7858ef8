package fit

import (
	"fmt"
	"math"

	"github.com/peter-kozarec/kinetics/pkg/kinetics"
	"gonum.org/v1/gonum/mat"
)

// Fitter fits the untransformed model to one realization at a time. It
// keeps its scratch space between calls and is not safe for concurrent use.
type Fitter struct {
	model    kinetics.Model
	x        []float64
	guess    []float64
	scale    []float64
	weights  []float64
	method   Method
	settings Settings

	theta    []float64
	gradient []float64
}

// NewFitter prepares a fitter for the design points x. The uncertainty
// sigma is uniform over the points; non-positive sigma means unit weights.
// Parameters are iterated relative to the initial guess, so a zero entry in
// guess is treated as unit scale.
func NewFitter(model kinetics.Model, x []float64, sigma float64, guess []float64, opts ...NonlinearOption) (*Fitter, error) {
	p := len(model.Parameters())
	if len(guess) != p {
		return nil, fmt.Errorf("%w: %d initial values for %d parameters", ErrDimension, len(guess), p)
	}
	if len(x) < p {
		return nil, fmt.Errorf("%w: %d design points for %d parameters", ErrDimension, len(x), p)
	}

	f := &Fitter{
		model:    model,
		x:        x,
		guess:    append([]float64(nil), guess...),
		scale:    make([]float64, p),
		weights:  make([]float64, len(x)),
		method:   MethodLevenbergMarquardt,
		settings: DefaultSettings(),
		theta:    make([]float64, p),
		gradient: make([]float64, p),
	}
	for i, g := range guess {
		f.scale[i] = 1
		if g != 0 {
			f.scale[i] = g
		}
	}
	for i := range f.weights {
		f.weights[i] = math.Sqrt(inverseVariance(sigma))
	}

	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

func (f *Fitter) Method() Method { return f.method }

// Fit returns the parameters minimising the weighted squared residuals of y.
func (f *Fitter) Fit(y []float64) ([]float64, error) {
	if len(y) != len(f.x) {
		return nil, fmt.Errorf("%w: %d values for %d design points", ErrDimension, len(y), len(f.x))
	}

	var (
		u   []float64
		err error
	)
	switch f.method {
	case MethodMinimize:
		u, err = f.minimize(y)
	default:
		u, err = f.levenbergMarquardt(y)
	}
	if err != nil {
		return nil, err
	}
	return f.unscale(make([]float64, len(u)), u), nil
}

// Nonlinear fits every column of samples independently and returns the
// estimates with one row per parameter and one column per realization.
// The first failing realization aborts the whole batch.
func Nonlinear(model kinetics.Model, x []float64, samples *mat.Dense, sigma float64, guess []float64, opts ...NonlinearOption) (*mat.Dense, error) {
	n, m := samples.Dims()
	if n != len(x) || m == 0 {
		return nil, fmt.Errorf("%w: %d design points, %dx%d samples", ErrDimension, len(x), n, m)
	}

	fitter, err := NewFitter(model, x, sigma, guess, opts...)
	if err != nil {
		return nil, err
	}

	estimates := mat.NewDense(len(guess), m, nil)
	column := make([]float64, n)
	for j := 0; j < m; j++ {
		mat.Col(column, j, samples)
		theta, err := fitter.Fit(column)
		if err != nil {
			return nil, fmt.Errorf("realization %d: %w", j, err)
		}
		estimates.SetCol(j, theta)
	}
	return estimates, nil
}

// FitOne is a convenience wrapper fitting a single series.
func FitOne(model kinetics.Model, x, y []float64, sigma float64, guess []float64, opts ...NonlinearOption) ([]float64, error) {
	fitter, err := NewFitter(model, x, sigma, guess, opts...)
	if err != nil {
		return nil, err
	}
	return fitter.Fit(y)
}

func (f *Fitter) unscale(dst, u []float64) []float64 {
	for i := range u {
		dst[i] = u[i] * f.scale[i]
	}
	return dst
}

// residuals fills r with the weighted residuals at scaled parameters u and
// returns half their squared norm.
func (f *Fitter) residuals(r, y, u []float64) float64 {
	f.unscale(f.theta, u)
	var cost float64
	for i, xi := range f.x {
		r[i] = f.weights[i] * (y[i] - f.model.Eval(xi, f.theta))
		cost += r[i] * r[i]
	}
	return cost / 2
}

// jacobian fills J with the weighted derivatives with respect to u.
func (f *Fitter) jacobian(j *mat.Dense, u []float64) {
	f.unscale(f.theta, u)
	for i, xi := range f.x {
		f.model.Jacobian(f.gradient, xi, f.theta)
		for k := range f.gradient {
			j.Set(i, k, f.weights[i]*f.gradient[k]*f.scale[k])
		}
	}
}

package fit

import (
	"fmt"
	"math"

	"github.com/maorshutman/lm"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// stationarityTolerance bounds the cosine between the residual and the
	// column space of the Jacobian at an accepted solution.
	stationarityTolerance = 1e-6
	// exactFitTolerance accepts a solution whose residual norm is this small
	// relative to the weighted data.
	exactFitTolerance = 1e-9
)

// levenbergMarquardt solves the scaled problem starting from u = 1. The
// residuals are model minus data so that the Jacobian is the model's.
func (f *Fitter) levenbergMarquardt(y []float64) ([]float64, error) {
	n, p := len(f.x), len(f.guess)
	s := f.settings

	start := make([]float64, p)
	for i := range start {
		start[i] = 1
	}

	r := make([]float64, n)
	if cost := f.residuals(r, y, start); math.IsNaN(cost) || math.IsInf(cost, 0) {
		return nil, fmt.Errorf("%w: model undefined at the initial guess", ErrNoConvergence)
	}

	problem := lm.LMProblem{
		Dim:  p,
		Size: n,
		Func: func(dst, u []float64) {
			f.residuals(dst, y, u)
			floats.Scale(-1, dst)
		},
		Jac:        f.jacobian,
		InitParams: start,
		Tau:        s.Tau,
		Eps1:       s.Eps1,
		Eps2:       s.Eps2,
	}

	result, err := lm.LM(problem, &lm.Settings{Iterations: s.Iterations})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoConvergence, err)
	}
	if !f.stationary(y, result.X) {
		return nil, fmt.Errorf("%w: not stationary after %d iterations", ErrNoConvergence, s.Iterations)
	}
	return result.X, nil
}

// stationary reports whether u is a least squares solution: the residual is
// either negligible or orthogonal to every column of the Jacobian.
func (f *Fitter) stationary(y, u []float64) bool {
	n, p := len(f.x), len(u)

	r := make([]float64, n)
	cost := f.residuals(r, y, u)
	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		return false
	}

	var data float64
	for i, yi := range y {
		data += (f.weights[i] * yi) * (f.weights[i] * yi)
	}
	residual := floats.Norm(r, 2)
	if residual <= exactFitTolerance*math.Sqrt(data) {
		return true
	}

	j := mat.NewDense(n, p, nil)
	f.jacobian(j, u)
	var g mat.VecDense
	g.MulVec(j.T(), mat.NewVecDense(n, r))

	return mat.Norm(&g, 2) <= stationarityTolerance*mat.Norm(j, 2)*residual
}

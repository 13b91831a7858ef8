package fit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

const minimizeGradientThreshold = 1e-9

// minimize fits by direct quasi-Newton minimisation of the weighted sum of
// squares, normalised by its value at the guess so that the gradient
// threshold does not depend on the magnitude of the data.
func (f *Fitter) minimize(y []float64) ([]float64, error) {
	n, p := len(f.x), len(f.guess)

	start := make([]float64, p)
	for i := range start {
		start[i] = 1
	}

	r := make([]float64, n)
	j := mat.NewDense(n, p, nil)

	cost0 := f.residuals(r, y, start)
	if cost0 == 0 {
		return start, nil
	}

	problem := optimize.Problem{
		Func: func(u []float64) float64 {
			return f.residuals(r, y, u) / cost0
		},
		Grad: func(grad, u []float64) {
			f.residuals(r, y, u)
			f.jacobian(j, u)
			g := mat.NewVecDense(p, grad)
			g.MulVec(j.T(), mat.NewVecDense(n, r))
			floats.Scale(-1/cost0, grad)
		},
	}

	settings := &optimize.Settings{
		GradientThreshold: math.Max(f.settings.Eps1, minimizeGradientThreshold),
		MajorIterations:   f.settings.Iterations,
	}

	result, err := optimize.Minimize(problem, start, settings, &optimize.BFGS{})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoConvergence, err)
	}
	switch result.Status {
	case optimize.Success, optimize.GradientThreshold, optimize.FunctionConvergence:
		return result.X, nil
	}
	return nil, fmt.Errorf("%w: %v", ErrNoConvergence, result.Status)
}

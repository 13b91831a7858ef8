package fit

import (
	"errors"
	"fmt"
	"math"

	"github.com/peter-kozarec/kinetics/pkg/kinetics"
	"gonum.org/v1/gonum/mat"
)

// Linear estimates the parameters of every realization (column of samples)
// by weighted least squares on the linearised model. The normal equations
// are solved by explicit inversion, once for the whole batch when the
// weights are uniform. The result has one row per model parameter and one
// column per realization.
func Linear(model kinetics.Model, x []float64, samples *mat.Dense, sigma float64, opts ...LinearOption) (*mat.Dense, error) {
	var cfg linearConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	n, m := samples.Dims()
	if n != len(x) || n < 2 || m == 0 {
		return nil, fmt.Errorf("%w: %d design points, %dx%d samples", ErrDimension, len(x), n, m)
	}

	design := mat.NewDense(n, 2, nil)
	transformed := mat.NewDense(n, m, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			y := samples.At(i, j)
			if model.RequiresPositive() && !(y > 0) {
				return nil, fmt.Errorf("%w: sample %g at point %d of realization %d", ErrNonPositive, y, i, j)
			}
			u, v := model.Linearize(x[i], y)
			transformed.Set(i, j, v)
			if j == 0 {
				design.Set(i, 0, u)
				design.Set(i, 1, 1)
			}
		}
	}

	coefficients := mat.NewDense(2, m, nil)
	if cfg.propagated {
		weights := make([]float64, n)
		column := make([]float64, n)
		for j := 0; j < m; j++ {
			for i := 0; i < n; i++ {
				weights[i] = inverseVariance(model.PropagateSigma(samples.At(i, j), sigma))
			}
			projection, err := weightedProjection(design, weights)
			if err != nil {
				return nil, fmt.Errorf("realization %d: %w", j, err)
			}
			mat.Col(column, j, transformed)
			var beta mat.VecDense
			beta.MulVec(projection, mat.NewVecDense(n, column))
			coefficients.SetCol(j, beta.RawVector().Data)
		}
	} else {
		weights := make([]float64, n)
		for i := range weights {
			weights[i] = inverseVariance(sigma)
		}
		projection, err := weightedProjection(design, weights)
		if err != nil {
			return nil, err
		}
		coefficients.Mul(projection, transformed)
	}

	params := len(model.Parameters())
	estimates := mat.NewDense(params, m, nil)
	for j := 0; j < m; j++ {
		theta := model.Recover(coefficients.At(0, j), coefficients.At(1, j))
		for p := 0; p < params; p++ {
			estimates.Set(p, j, theta[p])
		}
	}
	return estimates, nil
}

// weightedProjection returns (XᵀWX)⁻¹XᵀW for W = diag(weights).
func weightedProjection(design *mat.Dense, weights []float64) (*mat.Dense, error) {
	n, _ := design.Dims()
	w := mat.NewDiagDense(n, weights)

	var xtw mat.Dense
	xtw.Mul(design.T(), w)

	var normal mat.Dense
	normal.Mul(&xtw, design)

	var inverse mat.Dense
	if err := inverse.Inverse(&normal); err != nil && !usable(err) {
		return nil, fmt.Errorf("%w: %v", ErrSingular, err)
	}

	var projection mat.Dense
	projection.Mul(&inverse, &xtw)
	return &projection, nil
}

// usable reports whether a solve error is only a conditioning warning.
func usable(err error) bool {
	var cond mat.Condition
	return errors.As(err, &cond) && !math.IsInf(float64(cond), 1)
}

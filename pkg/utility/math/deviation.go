package math

import (
	gomath "math"

	"gonum.org/v1/gonum/stat"
)

// StandardDeviation is the population (biased) standard deviation.
func StandardDeviation(data []float64) float64 {
	n := len(data)
	if n < 2 {
		return 0
	}
	return gomath.Sqrt(stat.Variance(data, nil) * float64(n-1) / float64(n))
}

package math

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

func Mean(data []float64) float64 {
	return stat.Mean(data, nil)
}

// Ratio divides every estimate by the true value.
func Ratio(estimates []float64, truth float64) []float64 {
	ratio := append([]float64(nil), estimates...)
	floats.Scale(1/truth, ratio)
	return ratio
}

// RelativeBias is (mean(estimates) - truth) / truth.
func RelativeBias(estimates []float64, truth float64) float64 {
	return (Mean(estimates) - truth) / truth
}

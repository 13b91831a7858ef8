package math

import (
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Percentile returns the p-th percentile (0..100) using linear
// interpolation of the empirical distribution.
func Percentile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return 0
	}
	sorted := slices.Clone(data)
	slices.Sort(sorted)
	return stat.Quantile(p/100, stat.LinInterp, sorted, nil)
}

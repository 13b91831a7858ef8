package math

import (
	"errors"
	gomath "math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var (
	ErrEmpty = errors.New("no data")
)

// Histogram holds bin edges (len(Density)+1) and the probability density of
// every bin, so that the densities integrate to one.
type Histogram struct {
	Edges   []float64
	Density []float64
}

// NewHistogram bins data into equal-width bins spanning [min, max]; the last
// bin is closed.
func NewHistogram(data []float64, bins int) (Histogram, error) {
	if len(data) == 0 || bins < 1 {
		return Histogram{}, ErrEmpty
	}

	sorted := slices.Clone(data)
	slices.Sort(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	edges := floats.Span(make([]float64, bins+1), lo, hi)
	dividers := slices.Clone(edges)
	dividers[bins] = gomath.Nextafter(hi, gomath.Inf(1))

	counts := stat.Histogram(nil, dividers, sorted, nil)
	width := (hi - lo) / float64(bins)
	density := make([]float64, bins)
	for i, c := range counts {
		density[i] = c / (float64(len(data)) * width)
	}

	return Histogram{Edges: edges, Density: density}, nil
}

// Max is the largest density.
func (h Histogram) Max() float64 {
	if len(h.Density) == 0 {
		return 0
	}
	return floats.Max(h.Density)
}

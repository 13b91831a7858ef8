package fit

// inverseVariance is the weight of a point with the given uncertainty.
// Non-positive uncertainties yield unit weights.
func inverseVariance(sigma float64) float64 {
	if sigma <= 0 {
		return 1
	}
	return 1 / (sigma * sigma)
}

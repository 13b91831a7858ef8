package kinetics

const SecondOrderName = "second"

// SecondOrder is the integrated second order rate law 1/(1/A0 + k*t), theta = (A0, k).
type SecondOrder struct{}

func (SecondOrder) Name() string         { return SecondOrderName }
func (SecondOrder) Parameters() []string { return []string{"A0", "k"} }

func (SecondOrder) Eval(t float64, theta []float64) float64 {
	return 1 / (1/theta[0] + theta[1]*t)
}

func (s SecondOrder) Jacobian(dst []float64, t float64, theta []float64) {
	f := s.Eval(t, theta)
	dst[0] = f * f / (theta[0] * theta[0])
	dst[1] = -t * f * f
}

func (SecondOrder) Linearize(t, concentration float64) (float64, float64) {
	return t, 1 / concentration
}

func (SecondOrder) PropagateSigma(concentration, sigma float64) float64 {
	return sigma / (concentration * concentration)
}

func (SecondOrder) Recover(slope, intercept float64) []float64 {
	return []float64{1 / intercept, slope}
}

// RequiresPositive is true: the reciprocal of a zero or negative
// concentration has no meaning for the linear form.
func (SecondOrder) RequiresPositive() bool { return true }

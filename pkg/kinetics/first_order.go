package kinetics

import "math"

const FirstOrderName = "first"

// FirstOrder is the integrated first order rate law A0*exp(-k*t), theta = (k, A0).
type FirstOrder struct{}

func (FirstOrder) Name() string         { return FirstOrderName }
func (FirstOrder) Parameters() []string { return []string{"k", "A0"} }

func (FirstOrder) Eval(t float64, theta []float64) float64 {
	return theta[1] * math.Exp(-theta[0]*t)
}

func (FirstOrder) Jacobian(dst []float64, t float64, theta []float64) {
	e := math.Exp(-theta[0] * t)
	dst[0] = -t * theta[1] * e
	dst[1] = e
}

func (FirstOrder) Linearize(t, concentration float64) (float64, float64) {
	return t, math.Log(concentration)
}

func (FirstOrder) PropagateSigma(concentration, sigma float64) float64 {
	return sigma / concentration
}

func (FirstOrder) Recover(slope, intercept float64) []float64 {
	return []float64{-slope, math.Exp(intercept)}
}

func (FirstOrder) RequiresPositive() bool { return true }

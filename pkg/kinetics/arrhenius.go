package kinetics

import "math"

const (
	ArrheniusName = "arrhenius"

	// GasConstant in kJ mol^-1 K^-1.
	GasConstant = 8.314462618e-3
)

// Arrhenius is A*exp(-Ea/(R*T)) with theta = (Ea, A) and x the temperature in K.
type Arrhenius struct{}

func (Arrhenius) Name() string         { return ArrheniusName }
func (Arrhenius) Parameters() []string { return []string{"Ea", "A"} }

func (Arrhenius) Eval(temperature float64, theta []float64) float64 {
	return theta[1] * math.Exp(-theta[0]/(GasConstant*temperature))
}

func (Arrhenius) Jacobian(dst []float64, temperature float64, theta []float64) {
	e := math.Exp(-theta[0] / (GasConstant * temperature))
	dst[0] = -theta[1] * e / (GasConstant * temperature)
	dst[1] = e
}

func (Arrhenius) Linearize(temperature, rate float64) (float64, float64) {
	return 1 / temperature, math.Log(rate)
}

func (Arrhenius) PropagateSigma(rate, sigma float64) float64 {
	return sigma / rate
}

func (Arrhenius) Recover(slope, intercept float64) []float64 {
	return []float64{-slope * GasConstant, math.Exp(intercept)}
}

func (Arrhenius) RequiresPositive() bool { return true }

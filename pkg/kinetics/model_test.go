package kinetics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKinetics_Arange(t *testing.T) {
	tests := []struct {
		name              string
		start, stop, step float64
		want              []float64
	}{
		{name: "temperatures", start: 500, stop: 1001, step: 100, want: []float64{500, 600, 700, 800, 900, 1000}},
		{name: "first order times", start: 2, stop: 22, step: 2, want: []float64{2, 4, 6, 8, 10, 12, 14, 16, 18, 20}},
		{name: "stop excluded", start: 0, stop: 1400, step: 200, want: []float64{0, 200, 400, 600, 800, 1000, 1200}},
		{name: "empty", start: 5, stop: 5, step: 1, want: nil},
		{name: "wrong direction", start: 5, stop: 0, step: 1, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDeltaSlice(t, tt.want, Arange(tt.start, tt.stop, tt.step), 1e-12)
		})
	}
}

func TestKinetics_Eval(t *testing.T) {
	tests := []struct {
		name  string
		model Model
		x     float64
		theta []float64
		want  float64
	}{
		{name: "arrhenius", model: Arrhenius{}, x: 500, theta: []float64{50, 4e-3}, want: 4e-3 * math.Exp(-50/(GasConstant*500))},
		{name: "first order at zero", model: FirstOrder{}, x: 0, theta: []float64{0.1, 7.5}, want: 7.5},
		{name: "first order half life", model: FirstOrder{}, x: math.Ln2 / 0.1, theta: []float64{0.1, 7.5}, want: 3.75},
		{name: "second order at zero", model: SecondOrder{}, x: 0, theta: []float64{1, 3.2e-3}, want: 1},
		{name: "second order half life", model: SecondOrder{}, x: 1 / 3.2e-3, theta: []float64{1, 3.2e-3}, want: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, tt.model.Eval(tt.x, tt.theta), 1e-12)
		})
	}
}

func TestKinetics_JacobianMatchesFiniteDifference(t *testing.T) {
	tests := []struct {
		model Model
		x     []float64
		theta []float64
	}{
		{model: Arrhenius{}, x: Arange(500, 1001, 100), theta: []float64{50, 4e-3}},
		{model: FirstOrder{}, x: Arange(2, 22, 2), theta: []float64{0.1, 7.5}},
		{model: SecondOrder{}, x: Arange(0, 1400, 200), theta: []float64{1, 3.2e-3}},
	}

	for _, tt := range tests {
		t.Run(tt.model.Name(), func(t *testing.T) {
			got := make([]float64, len(tt.theta))
			for _, x := range tt.x {
				tt.model.Jacobian(got, x, tt.theta)
				for j := range tt.theta {
					h := 1e-6 * math.Abs(tt.theta[j])
					up := append([]float64(nil), tt.theta...)
					down := append([]float64(nil), tt.theta...)
					up[j] += h
					down[j] -= h
					want := (tt.model.Eval(x, up) - tt.model.Eval(x, down)) / (2 * h)
					assert.InDelta(t, want, got[j], 1e-6*math.Max(1, math.Abs(want)), "x=%v param=%d", x, j)
				}
			}
		})
	}
}

func TestKinetics_LinearizeRecover(t *testing.T) {
	tests := []struct {
		model Model
		x     []float64
		theta []float64
	}{
		{model: Arrhenius{}, x: []float64{500, 1000}, theta: []float64{50, 4e-3}},
		{model: FirstOrder{}, x: []float64{2, 20}, theta: []float64{0.1, 7.5}},
		{model: SecondOrder{}, x: []float64{0, 1200}, theta: []float64{1, 3.2e-3}},
	}

	for _, tt := range tests {
		t.Run(tt.model.Name(), func(t *testing.T) {
			u0, v0 := tt.model.Linearize(tt.x[0], tt.model.Eval(tt.x[0], tt.theta))
			u1, v1 := tt.model.Linearize(tt.x[1], tt.model.Eval(tt.x[1], tt.theta))
			slope := (v1 - v0) / (u1 - u0)
			intercept := v0 - slope*u0

			got := tt.model.Recover(slope, intercept)
			require.Len(t, got, len(tt.theta))
			for i := range got {
				assert.InEpsilon(t, tt.theta[i], got[i], 1e-9)
			}
		})
	}
}

func TestKinetics_PropagateSigma(t *testing.T) {
	assert.InDelta(t, 0.1, FirstOrder{}.PropagateSigma(5, 0.5), 1e-15)
	assert.InDelta(t, 0.1, Arrhenius{}.PropagateSigma(5, 0.5), 1e-15)
	assert.InDelta(t, 0.02, SecondOrder{}.PropagateSigma(5, 0.5), 1e-15)
}

func TestKinetics_Lookup(t *testing.T) {
	for _, name := range []string{ArrheniusName, FirstOrderName, SecondOrderName} {
		m, err := Lookup(name)
		require.NoError(t, err)
		assert.Equal(t, name, m.Name())
		assert.Len(t, m.Parameters(), 2)
	}

	_, err := Lookup("zeroth")
	assert.ErrorIs(t, err, ErrUnknownModel)
}

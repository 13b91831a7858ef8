package simulation

import (
	"fmt"
	"math/rand"

	"github.com/peter-kozarec/kinetics/pkg/fit"
	"github.com/peter-kozarec/kinetics/pkg/kinetics"
	"go.uber.org/zap"
)

const (
	DefaultSeed         = 1
	DefaultRealizations = 1 << 15
	DefaultBins         = 100
)

// Configuration describes one Monte Carlo experiment.
type Configuration struct {
	Name         string
	Model        kinetics.Model
	Design       []float64
	Truth        []float64
	Guess        []float64
	Scale        float64
	Realizations int
	Seed         int64
	MaxRedraws   int
	Bins         int

	// Positive forces positivity of the samples; nil follows the model.
	Positive          *bool
	Method            fit.Method
	PropagatedWeights bool
}

func ArrheniusConfiguration() Configuration {
	return Configuration{
		Name:         "fit_arrhenius",
		Model:        kinetics.Arrhenius{},
		Design:       kinetics.Arange(500, 1001, 100),
		Truth:        []float64{50, 4e-3},
		Guess:        []float64{50, 4e-3},
		Scale:        8e-8,
		Realizations: DefaultRealizations,
		Seed:         DefaultSeed,
		MaxRedraws:   DefaultMaxRedraws,
		Bins:         DefaultBins,
	}
}

func FirstOrderConfiguration() Configuration {
	return Configuration{
		Name:         "fit_first",
		Model:        kinetics.FirstOrder{},
		Design:       kinetics.Arange(2, 22, 2),
		Truth:        []float64{0.1, 7.5},
		Guess:        []float64{0.1, 7},
		Scale:        0.3,
		Realizations: DefaultRealizations,
		Seed:         DefaultSeed,
		MaxRedraws:   DefaultMaxRedraws,
		Bins:         DefaultBins,
	}
}

func SecondOrderConfiguration() Configuration {
	return Configuration{
		Name:         "fit_second",
		Model:        kinetics.SecondOrder{},
		Design:       kinetics.Arange(0, 1400, 200),
		Truth:        []float64{1, 3.2e-3},
		Guess:        []float64{1, 3e-3},
		Scale:        0.04,
		Realizations: DefaultRealizations,
		Seed:         DefaultSeed,
		MaxRedraws:   DefaultMaxRedraws,
		Bins:         DefaultBins,
	}
}

// SecondOrderSeriesConfiguration is the denser, less noisy second order
// design used to show a single realization with error bars.
func SecondOrderSeriesConfiguration() Configuration {
	return Configuration{
		Name:         "second_order",
		Model:        kinetics.SecondOrder{},
		Design:       kinetics.Arange(0, 1400, 100),
		Truth:        []float64{1, 3.2e-3},
		Guess:        []float64{1, 3e-3},
		Scale:        0.02,
		Realizations: 1 << 14,
		Seed:         DefaultSeed,
		MaxRedraws:   DefaultMaxRedraws,
		Bins:         DefaultBins,
	}
}

func (c Configuration) Validate() error {
	if c.Model == nil {
		return fmt.Errorf("%s: no model", c.Name)
	}
	p := len(c.Model.Parameters())
	switch {
	case len(c.Truth) != p:
		return fmt.Errorf("%s: %d true values for %d parameters", c.Name, len(c.Truth), p)
	case len(c.Guess) != p:
		return fmt.Errorf("%s: %d initial values for %d parameters", c.Name, len(c.Guess), p)
	case len(c.Design) < p:
		return fmt.Errorf("%s: %d design points for %d parameters", c.Name, len(c.Design), p)
	case c.Realizations < 1:
		return fmt.Errorf("%s: realizations must be positive, got %d", c.Name, c.Realizations)
	case c.Scale < 0:
		return fmt.Errorf("%s: negative noise scale %g", c.Name, c.Scale)
	}
	return nil
}

// NewSampler returns a sampler seeded with c.Seed, drawing exactly what the
// executor of c would.
func (c Configuration) NewSampler(logger *zap.Logger) *Sampler {
	rng := rand.New(rand.NewSource(c.Seed))
	return NewSampler(logger, rng, c.Model, c.Design, c.Truth, c.Scale, c.samplerOptions()...)
}

func (c Configuration) samplerOptions() []SamplerOption {
	var opts []SamplerOption
	if c.MaxRedraws > 0 {
		opts = append(opts, WithMaxRedraws(c.MaxRedraws))
	}
	if c.Positive != nil {
		opts = append(opts, WithPositivity(*c.Positive))
	}
	return opts
}

func (c Configuration) linearOptions() []fit.LinearOption {
	if c.PropagatedWeights {
		return []fit.LinearOption{fit.WithPropagatedWeights()}
	}
	return nil
}

package simulation

import (
	"github.com/peter-kozarec/kinetics/pkg/utility/math"
)

// Audit collects the estimate pair of every realization.
type Audit struct {
	experiment string
	names      []string
	truth      []float64

	linear    [][]float64
	nonlinear [][]float64
	redraws   int
}

func NewAudit(experiment string, names []string, truth []float64) *Audit {
	return &Audit{
		experiment: experiment,
		names:      names,
		truth:      truth,
		linear:     make([][]float64, len(names)),
		nonlinear:  make([][]float64, len(names)),
	}
}

// AddEstimate records the linear and nonlinear estimates of one realization.
func (a *Audit) AddEstimate(linear, nonlinear []float64) {
	for p := range a.names {
		a.linear[p] = append(a.linear[p], linear[p])
		a.nonlinear[p] = append(a.nonlinear[p], nonlinear[p])
	}
}

func (a *Audit) SetRedraws(redraws int) { a.redraws = redraws }

func (a *Audit) Count() int {
	if len(a.linear) == 0 {
		return 0
	}
	return len(a.linear[0])
}

func (a *Audit) Linear(p int) []float64    { return a.linear[p] }
func (a *Audit) Nonlinear(p int) []float64 { return a.nonlinear[p] }

func (a *Audit) GenerateReport() Report {
	report := Report{
		Experiment:   a.experiment,
		Realizations: a.Count(),
		Redraws:      a.redraws,
	}
	if report.Realizations == 0 {
		return report
	}

	for p, name := range a.names {
		pr := ParameterReport{
			Name:      name,
			Truth:     a.truth[p],
			Linear:    summarize(a.linear[p], a.truth[p]),
			Nonlinear: summarize(a.nonlinear[p], a.truth[p]),
		}
		pr.BiasRatio = pr.Linear.RelativeBias / pr.Nonlinear.RelativeBias
		report.Parameters = append(report.Parameters, pr)
	}
	return report
}

func summarize(estimates []float64, truth float64) Summary {
	ratio := math.Ratio(estimates, truth)
	return Summary{
		Mean:         math.Mean(ratio),
		StdDev:       math.StandardDeviation(ratio),
		Lower:        math.Percentile(ratio, 2.5),
		Upper:        math.Percentile(ratio, 97.5),
		RelativeBias: math.RelativeBias(estimates, truth),
	}
}

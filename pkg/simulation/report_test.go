package simulation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSimulation_AuditReport(t *testing.T) {
	audit := NewAudit("test", []string{"k", "A0"}, []float64{0.1, 8})
	audit.AddEstimate([]float64{0.12, 8}, []float64{0.1, 8})
	audit.AddEstimate([]float64{0.10, 8}, []float64{0.11, 8})
	audit.SetRedraws(3)

	report := audit.GenerateReport()
	assert.Equal(t, "test", report.Experiment)
	assert.Equal(t, 2, report.Realizations)
	assert.Equal(t, 3, report.Redraws)
	require.Len(t, report.Parameters, 2)

	k, ok := report.Parameter("k")
	require.True(t, ok)
	assert.InDelta(t, 1.1, k.Linear.Mean, 1e-12)
	assert.InDelta(t, 0.1, k.Linear.StdDev, 1e-12)
	assert.InDelta(t, 0.1, k.Linear.RelativeBias, 1e-12)
	assert.InDelta(t, 1.05, k.Nonlinear.Mean, 1e-12)
	assert.InDelta(t, 0.05, k.Nonlinear.RelativeBias, 1e-12)
	assert.InDelta(t, 2, k.BiasRatio, 1e-9)
	assert.True(t, k.Linear.Lower <= k.Linear.Mean && k.Linear.Mean <= k.Linear.Upper)

	a0, ok := report.Parameter("A0")
	require.True(t, ok)
	assert.Equal(t, 1.0, a0.Linear.Mean)
	assert.True(t, math.IsNaN(a0.BiasRatio))

	_, ok = report.Parameter("Ea")
	assert.False(t, ok)

	assert.Equal(t, []float64{0.12, 0.10}, audit.Linear(0))
	assert.Equal(t, []float64{0.1, 0.11}, audit.Nonlinear(0))
}

func TestSimulation_AuditEmpty(t *testing.T) {
	report := NewAudit("empty", []string{"k"}, []float64{1}).GenerateReport()
	assert.Zero(t, report.Realizations)
	assert.Empty(t, report.Parameters)
}

func TestSimulation_ReportPrint(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	report := Report{
		Experiment:   "fit_first",
		Realizations: 2,
		Parameters: []ParameterReport{{
			Name:      "k",
			Truth:     0.1,
			Linear:    Summary{Mean: 1.034567, RelativeBias: 0.034567},
			Nonlinear: Summary{Mean: 1.0012, RelativeBias: 0.0012},
			BiasRatio: math.NaN(),
		}},
	}
	report.Print(zap.New(core))

	require.Equal(t, 1, logs.FilterMessage("experiment report").Len())
	entries := logs.FilterMessage("parameter estimates").All()
	require.Len(t, entries, 1)

	fields := entries[0].ContextMap()
	assert.Equal(t, "k", fields["parameter"])
	assert.Equal(t, "0.1", fields["truth"])
	assert.Equal(t, "1.035", fields["linear_mean_ratio"])
	assert.Equal(t, "0.03457", fields["linear_bias"])
	assert.Equal(t, "NaN", fields["bias_ratio"])
}

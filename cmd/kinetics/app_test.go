package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/peter-kozarec/kinetics/pkg/data/duckdb"
	"github.com/peter-kozarec/kinetics/pkg/fit"
	"github.com/peter-kozarec/kinetics/pkg/simulation"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestApp(t *testing.T, s settings) *app {
	t.Helper()
	a, err := newAppWithLogger(context.Background(), zaptest.NewLogger(t), s)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func testSettings(t *testing.T) settings {
	return settings{
		Output:       t.TempDir(),
		Realizations: 64,
		Seed:         simulation.DefaultSeed,
		Method:       fit.MethodLevenbergMarquardt.String(),
	}
}

func TestKinetics_FitWritesFigures(t *testing.T) {
	s := testSettings(t)
	a := newTestApp(t, s)

	require.NoError(t, a.fit(context.Background(), simulation.FirstOrderConfiguration()))

	for _, name := range []string{"fit_first_k.svg", "fit_first_A0.svg"} {
		assert.FileExists(t, filepath.Join(s.Output, name))
	}
	assert.Equal(t, int64(1), a.telemetry.Calls(simulation.StageSample))
	assert.Equal(t, int64(64), a.telemetry.Calls(simulation.StageNonlinear))
}

func TestKinetics_SeriesWritesFigures(t *testing.T) {
	s := testSettings(t)
	a := newTestApp(t, s)

	require.NoError(t, a.series(context.Background(), simulation.SecondOrderSeriesConfiguration()))

	assert.FileExists(t, filepath.Join(s.Output, "second_order.svg"))
	assert.FileExists(t, filepath.Join(s.Output, "second_order_linear.svg"))
	assert.Zero(t, a.telemetry.Calls(simulation.StageLinear))
	assert.Zero(t, a.telemetry.Calls(simulation.StageNonlinear))
}

func TestKinetics_Distributions(t *testing.T) {
	s := testSettings(t)
	s.Realizations = 1024
	a := newTestApp(t, s)

	require.NoError(t, a.distributions(context.Background()))

	for _, name := range []string{"distributions_normal.svg", "distributions_reciprocal.svg", "distributions_logarithm.svg"} {
		content, err := os.ReadFile(filepath.Join(s.Output, name))
		require.NoError(t, err)
		assert.Contains(t, string(content), "<svg")
	}
}

func TestKinetics_EstimatesStored(t *testing.T) {
	s := testSettings(t)
	s.Realizations = 8
	s.DB = filepath.Join(t.TempDir(), "estimates.duckdb")
	a := newTestApp(t, s)
	ctx := context.Background()

	require.NoError(t, a.fit(ctx, simulation.SecondOrderConfiguration()))

	var count int
	err := a.store.LoadEstimates(ctx, a.runID, "fit_second", func(e duckdb.Estimate) error {
		count++
		switch e.Parameter {
		case "A0":
			assert.Equal(t, 1.0, e.Truth)
		case "k":
			assert.Equal(t, 3.2e-3, e.Truth)
		default:
			t.Errorf("unexpected parameter %q", e.Parameter)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 16, count)
}

func TestKinetics_Cancelled(t *testing.T) {
	a := newTestApp(t, testSettings(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, a.fit(ctx, simulation.FirstOrderConfiguration()), context.Canceled)
	assert.ErrorIs(t, a.distributions(ctx), context.Canceled)
	assert.ErrorIs(t, a.series(ctx, simulation.SecondOrderSeriesConfiguration()), context.Canceled)
}

func TestKinetics_UnknownMethod(t *testing.T) {
	s := testSettings(t)
	s.Method = "simplex"

	_, err := newAppWithLogger(context.Background(), zaptest.NewLogger(t), s)

	assert.ErrorIs(t, err, fit.ErrUnknownMethod)
}

func TestKinetics_Override(t *testing.T) {
	s := testSettings(t)
	s.Seed = 7
	s.MaxRedraws = 5
	s.PropagatedWeights = true
	s.Method = fit.MethodMinimize.String()
	a := newTestApp(t, s)

	cfg := a.override(simulation.ArrheniusConfiguration())

	assert.Equal(t, 64, cfg.Realizations)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 5, cfg.MaxRedraws)
	assert.True(t, cfg.PropagatedWeights)
	assert.Equal(t, fit.MethodMinimize, cfg.Method)

	a.settings.Realizations = 0
	a.settings.MaxRedraws = 0
	cfg = a.override(simulation.ArrheniusConfiguration())
	assert.Equal(t, simulation.DefaultRealizations, cfg.Realizations)
	assert.Equal(t, simulation.DefaultMaxRedraws, cfg.MaxRedraws)
}

func TestKinetics_Settings(t *testing.T) {
	t.Setenv("KINETICS_REALIZATIONS", "128")
	t.Setenv("KINETICS_PROPAGATED_WEIGHTS", "true")

	root := newRootCommand()
	require.NoError(t, root.ParseFlags([]string{"--seed", "3", "--output", "out"}))

	v := viper.New()
	require.NoError(t, v.BindPFlags(root.PersistentFlags()))
	require.NoError(t, loadConfig(v))
	s := settingsFrom(v)

	assert.Equal(t, 128, s.Realizations)
	assert.True(t, s.PropagatedWeights)
	assert.Equal(t, int64(3), s.Seed)
	assert.Equal(t, "out", s.Output)
	assert.Equal(t, simulation.DefaultMaxRedraws, s.MaxRedraws)
}

func TestKinetics_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kinetics.yaml")
	require.NoError(t, os.WriteFile(path, []byte("realizations: 256\nmethod: minimize\n"), 0o644))

	root := newRootCommand()
	require.NoError(t, root.ParseFlags([]string{"--config", path}))

	v := viper.New()
	require.NoError(t, v.BindPFlags(root.PersistentFlags()))
	require.NoError(t, loadConfig(v))
	s := settingsFrom(v)

	assert.Equal(t, 256, s.Realizations)
	assert.Equal(t, fit.MethodMinimize.String(), s.Method)
}

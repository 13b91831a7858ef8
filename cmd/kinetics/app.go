package main

import (
	"context"
	"fmt"
	"io"
	gomath "math"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/peter-kozarec/kinetics/internal/dbg"
	"github.com/peter-kozarec/kinetics/pkg/data/duckdb"
	"github.com/peter-kozarec/kinetics/pkg/fit"
	"github.com/peter-kozarec/kinetics/pkg/middleware"
	"github.com/peter-kozarec/kinetics/pkg/plot"
	"github.com/peter-kozarec/kinetics/pkg/simulation"
	"github.com/peter-kozarec/kinetics/pkg/utility"
	"github.com/peter-kozarec/kinetics/pkg/utility/math"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

type settings struct {
	Output            string
	Realizations      int
	Seed              int64
	DB                string
	Method            string
	PropagatedWeights bool
	MaxRedraws        int
	Dev               bool
}

func settingsFrom(v *viper.Viper) settings {
	return settings{
		Output:            v.GetString("output"),
		Realizations:      v.GetInt("realizations"),
		Seed:              v.GetInt64("seed"),
		DB:                v.GetString("db"),
		Method:            v.GetString("method"),
		PropagatedWeights: v.GetBool("propagated-weights"),
		MaxRedraws:        v.GetInt("max-redraws"),
		Dev:               v.GetBool("dev"),
	}
}

type app struct {
	logger    *zap.Logger
	settings  settings
	method    fit.Method
	runID     string
	store     *duckdb.Store
	telemetry *middleware.Telemetry
}

func newApp(ctx context.Context, s settings) (*app, error) {
	logger, err := dbg.NewLogger(s.Dev)
	if err != nil {
		return nil, err
	}
	return newAppWithLogger(ctx, logger, s)
}

func newAppWithLogger(ctx context.Context, logger *zap.Logger, s settings) (*app, error) {
	method, err := fit.ParseMethod(s.Method)
	if err != nil {
		return nil, err
	}

	a := &app{
		logger:    logger,
		settings:  s,
		method:    method,
		runID:     utility.GetRunID().String(),
		telemetry: middleware.NewTelemetry(logger),
	}
	logger.Info(fmt.Sprintf("kinetics %s", Version), zap.String("run_id", a.runID))

	if s.DB != "" {
		a.store = duckdb.NewStore(s.DB)
		if err := a.store.Connect(ctx); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func (a *app) Close() {
	a.telemetry.PrintStatistics()
	if a.store != nil {
		a.store.Close()
	}
	a.logger.Info("done")
	_ = a.logger.Sync()
}

func (a *app) all(ctx context.Context) error {
	for _, cfg := range []simulation.Configuration{
		simulation.ArrheniusConfiguration(),
		simulation.FirstOrderConfiguration(),
		simulation.SecondOrderConfiguration(),
	} {
		if err := a.fit(ctx, cfg); err != nil {
			return err
		}
	}
	if err := a.series(ctx, simulation.SecondOrderSeriesConfiguration()); err != nil {
		return err
	}
	return a.distributions(ctx)
}

// fit runs one experiment and plots the ratio distribution of every
// parameter.
func (a *app) fit(ctx context.Context, cfg simulation.Configuration) error {
	result, err := a.run(ctx, cfg)
	if err != nil {
		return err
	}
	cfg = result.Configuration

	for p, name := range cfg.Model.Parameters() {
		linear := math.Ratio(result.Audit.Linear(p), cfg.Truth[p])
		nonlinear := math.Ratio(result.Audit.Nonlinear(p), cfg.Truth[p])

		linearHist, err := math.NewHistogram(linear, cfg.Bins)
		if err != nil {
			return fmt.Errorf("%s: %s: %w", cfg.Name, name, err)
		}
		nonlinearHist, err := math.NewHistogram(nonlinear, cfg.Bins)
		if err != nil {
			return fmt.Errorf("%s: %s: %w", cfg.Name, name, err)
		}

		path := a.figure(fmt.Sprintf("%s_%s.svg", cfg.Name, name))
		err = plot.Save(path, func(w io.Writer) error {
			return plot.Histograms(w, cfg.Name, fmt.Sprintf("%s estimate / %s", name, name),
				plot.HistogramSeries{Name: "nonlinear", Histogram: nonlinearHist, Mean: math.Mean(nonlinear), Color: plot.Green},
				plot.HistogramSeries{Name: "linear", Histogram: linearHist, Mean: math.Mean(linear), Color: plot.Blue},
			)
		})
		if err != nil {
			return err
		}
		a.logger.Info("figure written", zap.String("path", path))
	}
	return nil
}

// series draws the experiment's samples and plots one realization against
// time, once linearised with propagated errors and once untransformed.
func (a *app) series(ctx context.Context, cfg simulation.Configuration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cfg = a.override(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	samples, err := cfg.NewSampler(a.logger).Sample(cfg.Realizations)
	if err != nil {
		return fmt.Errorf("%s: %w", cfg.Name, err)
	}

	j := min(SeriesRealization, cfg.Realizations-1)
	values := mat.Col(nil, j, samples)
	reciprocal := make([]float64, len(values))
	reciprocalErr := make([]float64, len(values))
	valueErr := make([]float64, len(values))
	for i, y := range values {
		reciprocal[i] = 1 / y
		reciprocalErr[i] = cfg.Model.PropagateSigma(y, cfg.Scale)
		valueErr[i] = cfg.Scale
	}

	figures := []struct {
		file   string
		yLabel string
		series plot.ErrorBarSeries
	}{
		{
			file:   cfg.Name + "_linear.svg",
			yLabel: "1/A(t)",
			series: plot.ErrorBarSeries{Name: "1/A", X: cfg.Design, Y: reciprocal, Err: reciprocalErr, Color: plot.Blue},
		},
		{
			file:   cfg.Name + ".svg",
			yLabel: "A(t)",
			series: plot.ErrorBarSeries{Name: "A", X: cfg.Design, Y: values, Err: valueErr, Color: plot.Orange},
		},
	}
	for _, f := range figures {
		path := a.figure(f.file)
		err := plot.Save(path, func(w io.Writer) error {
			return plot.ErrorBars(w, cfg.Name, "t/s", f.yLabel, f.series)
		})
		if err != nil {
			return err
		}
		a.logger.Info("figure written", zap.String("path", path))
	}
	return nil
}

// distributions shows how a normal variable is skewed by the reciprocal and
// logarithm transforms.
func (a *app) distributions(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	size := DistributionSize
	if a.settings.Realizations > 0 {
		size = a.settings.Realizations
	}
	rng := rand.New(rand.NewSource(a.settings.Seed))
	normal := simulation.Normal(rng, DistributionMean, DistributionScale, size)

	reciprocal := make([]float64, 0, size)
	logarithm := make([]float64, 0, size)
	for _, y := range normal {
		if y <= 0 {
			continue
		}
		reciprocal = append(reciprocal, 1/y)
		logarithm = append(logarithm, gomath.Log(y))
	}
	if dropped := size - len(logarithm); dropped > 0 {
		a.logger.Warn("non-positive draws left out of the transforms", zap.Int("dropped", dropped))
	}

	panels := []struct {
		file   string
		title  string
		xLabel string
		data   []float64
		color  plot.Color
	}{
		{file: "distributions_normal.svg", title: "Normal", xLabel: "y", data: normal, color: plot.Green},
		{file: "distributions_reciprocal.svg", title: "Reciprocal", xLabel: "1/y", data: reciprocal, color: plot.Blue},
		{file: "distributions_logarithm.svg", title: "Logarithm", xLabel: "ln(y)", data: logarithm, color: plot.Orange},
	}
	for _, p := range panels {
		h, err := math.NewHistogram(p.data, DistributionBins)
		if err != nil {
			return fmt.Errorf("distributions: %s: %w", p.title, err)
		}
		path := a.figure(p.file)
		err = plot.Save(path, func(w io.Writer) error {
			return plot.Distribution(w, p.title, p.xLabel, h, p.color)
		})
		if err != nil {
			return err
		}
		a.logger.Info("figure written", zap.String("path", path))
	}
	return nil
}

func (a *app) run(ctx context.Context, cfg simulation.Configuration) (simulation.Result, error) {
	cfg = a.override(cfg)

	monitor := middleware.NewMonitor(a.logger, MonitorFlags, ProgressEvery, cfg.Realizations)
	executor, err := simulation.NewExecutor(a.logger, cfg,
		simulation.WithTelemetry(a.telemetry),
		simulation.WithMonitor(monitor))
	if err != nil {
		return simulation.Result{}, err
	}

	result, err := executor.Run(ctx)
	if err != nil {
		return simulation.Result{}, err
	}
	result.Report.Print(a.logger)

	if a.store != nil {
		if err := a.store.WriteEstimates(ctx, a.runID, cfg.Name, estimates(result)); err != nil {
			return simulation.Result{}, err
		}
		a.logger.Info("estimates stored", zap.String("experiment", cfg.Name), zap.String("db", a.settings.DB))
	}
	return result, nil
}

func (a *app) override(cfg simulation.Configuration) simulation.Configuration {
	if a.settings.Realizations > 0 {
		cfg.Realizations = a.settings.Realizations
	}
	if a.settings.MaxRedraws > 0 {
		cfg.MaxRedraws = a.settings.MaxRedraws
	}
	cfg.Seed = a.settings.Seed
	cfg.Method = a.method
	cfg.PropagatedWeights = a.settings.PropagatedWeights
	return cfg
}

func (a *app) figure(file string) string {
	return filepath.Join(a.settings.Output, file)
}

func estimates(result simulation.Result) []duckdb.Estimate {
	cfg := result.Configuration
	names := cfg.Model.Parameters()

	rows := make([]duckdb.Estimate, 0, result.Audit.Count()*len(names))
	for j := 0; j < result.Audit.Count(); j++ {
		for p, name := range names {
			rows = append(rows, duckdb.Estimate{
				Realization: j,
				Parameter:   name,
				Linear:      result.Audit.Linear(p)[j],
				Nonlinear:   result.Audit.Nonlinear(p)[j],
				Truth:       cfg.Truth[p],
			})
		}
	}
	return rows
}

func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

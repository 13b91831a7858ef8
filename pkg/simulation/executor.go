package simulation

import (
	"context"
	"errors"
	"fmt"

	"github.com/peter-kozarec/kinetics/pkg/fit"
	"github.com/peter-kozarec/kinetics/pkg/middleware"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

const (
	StageSample    = "sample"
	StageLinear    = "linear"
	StageNonlinear = "nonlinear"
)

// Result holds everything one experiment produced.
type Result struct {
	Configuration Configuration
	Samples       *mat.Dense
	Linear        *mat.Dense
	Nonlinear     *mat.Dense
	Audit         *Audit
	Report        Report
}

// Executor runs one experiment: draw the samples, fit all of them with the
// linear estimator in one batch, then fit them one by one with the
// nonlinear estimator.
type Executor struct {
	logger  *zap.Logger
	cfg     Configuration
	sampler *Sampler
	fitter  *fit.Fitter
	audit   *Audit

	wrappers []func(string) func(middleware.StageHandler) middleware.StageHandler

	sampleStage    middleware.StageHandler
	linearStage    middleware.StageHandler
	nonlinearStage middleware.StageHandler

	samples   *mat.Dense
	linear    *mat.Dense
	nonlinear *mat.Dense
	column    []float64
	idx       int
}

type ExecutorOption func(*Executor)

func WithTelemetry(telemetry *middleware.Telemetry) ExecutorOption {
	return func(e *Executor) {
		e.wrappers = append(e.wrappers, telemetry.WithStage)
	}
}

func WithMonitor(monitor *middleware.Monitor) ExecutorOption {
	return func(e *Executor) {
		e.wrappers = append(e.wrappers, monitor.WithStage)
	}
}

func NewExecutor(logger *zap.Logger, cfg Configuration, opts ...ExecutorOption) (*Executor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	fitter, err := fit.NewFitter(cfg.Model, cfg.Design, cfg.Scale, cfg.Guess, fit.WithMethod(cfg.Method))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cfg.Name, err)
	}

	e := &Executor{
		logger:  logger,
		cfg:     cfg,
		sampler: cfg.NewSampler(logger),
		fitter:  fitter,
		audit:   NewAudit(cfg.Name, cfg.Model.Parameters(), cfg.Truth),
		column:  make([]float64, len(cfg.Design)),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.sampleStage = e.chain(StageSample, e.sample)
	e.linearStage = e.chain(StageLinear, e.fitLinear)
	e.nonlinearStage = e.chain(StageNonlinear, e.fitNonlinear)
	return e, nil
}

func (e *Executor) chain(stage string, handler middleware.StageHandler) middleware.StageHandler {
	wrappers := make([]func(middleware.StageHandler) middleware.StageHandler, 0, len(e.wrappers))
	for _, w := range e.wrappers {
		wrappers = append(wrappers, w(stage))
	}
	return middleware.Chain(wrappers...)(handler)
}

// Prepare draws the samples and runs the batched linear fit.
func (e *Executor) Prepare(ctx context.Context) error {
	if err := e.sampleStage(ctx, middleware.AllRealizations); err != nil {
		return err
	}
	return e.linearStage(ctx, middleware.AllRealizations)
}

// DoOnce fits the next realization nonlinearly; it returns ErrEof once
// every realization has been fitted.
func (e *Executor) DoOnce(ctx context.Context) error {
	if e.samples == nil || e.linear == nil {
		return fmt.Errorf("%s: executor not prepared", e.cfg.Name)
	}
	if e.idx >= e.cfg.Realizations {
		return ErrEof
	}
	if err := e.nonlinearStage(ctx, e.idx); err != nil {
		return err
	}
	e.idx++
	return nil
}

// Run executes the whole experiment. Cancelling ctx stops it between two
// realizations.
func (e *Executor) Run(ctx context.Context) (Result, error) {
	e.logger.Info("experiment started",
		zap.String("experiment", e.cfg.Name),
		zap.String("model", e.cfg.Model.Name()),
		zap.Int("realizations", e.cfg.Realizations),
		zap.Float64("scale", e.cfg.Scale),
		zap.Int64("seed", e.cfg.Seed),
		zap.Stringer("method", e.cfg.Method))

	if err := e.Prepare(ctx); err != nil {
		return Result{}, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		if err := e.DoOnce(ctx); err != nil {
			if errors.Is(err, ErrEof) {
				break
			}
			return Result{}, err
		}
	}

	e.audit.SetRedraws(e.sampler.Redraws())
	return Result{
		Configuration: e.cfg,
		Samples:       e.samples,
		Linear:        e.linear,
		Nonlinear:     e.nonlinear,
		Audit:         e.audit,
		Report:        e.audit.GenerateReport(),
	}, nil
}

func (e *Executor) sample(_ context.Context, _ int) error {
	samples, err := e.sampler.Sample(e.cfg.Realizations)
	if err != nil {
		return fmt.Errorf("%s: %w", e.cfg.Name, err)
	}
	e.samples = samples
	e.nonlinear = mat.NewDense(len(e.cfg.Truth), e.cfg.Realizations, nil)
	e.idx = 0
	return nil
}

func (e *Executor) fitLinear(_ context.Context, _ int) error {
	linear, err := fit.Linear(e.cfg.Model, e.cfg.Design, e.samples, e.cfg.Scale, e.cfg.linearOptions()...)
	if err != nil {
		return fmt.Errorf("%s: %w", e.cfg.Name, err)
	}
	e.linear = linear
	return nil
}

func (e *Executor) fitNonlinear(_ context.Context, realization int) error {
	mat.Col(e.column, realization, e.samples)
	theta, err := e.fitter.Fit(e.column)
	if err != nil {
		return fmt.Errorf("%s: realization %d: %w", e.cfg.Name, realization, err)
	}
	e.nonlinear.SetCol(realization, theta)
	e.audit.AddEstimate(mat.Col(nil, realization, e.linear), theta)
	return nil
}

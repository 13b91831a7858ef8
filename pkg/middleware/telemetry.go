package middleware

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
)

type stageCounters struct {
	calls    int64
	failures int64
	elapsed  time.Duration
}

type Telemetry struct {
	logger *zap.Logger
	now    func() time.Time
	stages map[string]*stageCounters
}

func NewTelemetry(logger *zap.Logger) *Telemetry {
	return &Telemetry{
		logger: logger,
		now:    time.Now,
		stages: make(map[string]*stageCounters),
	}
}

// WithStage counts and times every call of the wrapped handler under name.
func (t *Telemetry) WithStage(name string) func(StageHandler) StageHandler {
	counters, ok := t.stages[name]
	if !ok {
		counters = &stageCounters{}
		t.stages[name] = counters
	}

	return func(handler StageHandler) StageHandler {
		return func(ctx context.Context, realization int) error {
			start := t.now()
			err := handler(ctx, realization)
			counters.elapsed += t.now().Sub(start)
			counters.calls++
			if err != nil {
				counters.failures++
			}
			return err
		}
	}
}

func (t *Telemetry) Calls(name string) int64 {
	if c, ok := t.stages[name]; ok {
		return c.calls
	}
	return 0
}

func (t *Telemetry) Failures(name string) int64 {
	if c, ok := t.stages[name]; ok {
		return c.failures
	}
	return 0
}

func (t *Telemetry) Elapsed(name string) time.Duration {
	if c, ok := t.stages[name]; ok {
		return c.elapsed
	}
	return 0
}

func (t *Telemetry) PrintStatistics() {
	names := make([]string, 0, len(t.stages))
	for name := range t.stages {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		c := t.stages[name]
		t.logger.Info("stage statistics",
			zap.String("stage", name),
			zap.Int64("calls", c.calls),
			zap.Int64("failures", c.failures),
			zap.Duration("elapsed", c.elapsed))
	}
}

package middleware

import (
	"context"

	"go.uber.org/zap"
)

type MonitorFlags uint16

//goland:noinspection GoUnusedConst
const (
	MonitorNone MonitorFlags = 1 << iota
	MonitorAll
	MonitorProgress
	MonitorFailures
)

// Monitor logs stage progress and failures according to its flags.
type Monitor struct {
	logger *zap.Logger
	flags  MonitorFlags
	every  int
	total  int
}

// NewMonitor reports progress every `every` realizations out of total.
func NewMonitor(logger *zap.Logger, flags MonitorFlags, every, total int) *Monitor {
	if every < 1 {
		every = 1
	}
	return &Monitor{
		logger: logger,
		flags:  flags,
		every:  every,
		total:  total,
	}
}

func (m *Monitor) enabled(flag MonitorFlags) bool {
	return m.flags&flag != 0 || m.flags&MonitorAll != 0
}

func (m *Monitor) WithStage(name string) func(StageHandler) StageHandler {
	return func(handler StageHandler) StageHandler {
		return func(ctx context.Context, realization int) error {
			err := handler(ctx, realization)
			if err != nil && m.enabled(MonitorFailures) {
				m.logger.Warn("stage failed",
					zap.String("stage", name),
					zap.Int("realization", realization),
					zap.Error(err))
			}
			if err == nil && m.enabled(MonitorProgress) && realization >= 0 && (realization+1)%m.every == 0 {
				m.logger.Info("progress",
					zap.String("stage", name),
					zap.Int("done", realization+1),
					zap.Int("total", m.total))
			}
			return err
		}
	}
}

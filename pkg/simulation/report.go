package simulation

import (
	gomath "math"
	"strconv"

	"github.com/peter-kozarec/kinetics/pkg/utility/fixed"
	"go.uber.org/zap"
)

const reportDigits = 4

// Summary describes the distribution of estimate/true over all realizations.
type Summary struct {
	Mean         float64
	StdDev       float64
	Lower        float64
	Upper        float64
	RelativeBias float64
}

type ParameterReport struct {
	Name      string
	Truth     float64
	Linear    Summary
	Nonlinear Summary

	// BiasRatio is the linear relative bias over the nonlinear one.
	BiasRatio float64
}

type Report struct {
	Experiment   string
	Realizations int
	Redraws      int
	Parameters   []ParameterReport
}

func (report Report) Parameter(name string) (ParameterReport, bool) {
	for _, p := range report.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return ParameterReport{}, false
}

func (report Report) Print(logger *zap.Logger) {
	logger.Info("experiment report",
		zap.String("experiment", report.Experiment),
		zap.Int("realizations", report.Realizations),
		zap.Int("redraws", report.Redraws),
	)

	for _, p := range report.Parameters {
		logger.Info("parameter estimates",
			zap.String("parameter", p.Name),
			zap.String("truth", significant(p.Truth)),
			zap.String("linear_mean_ratio", significant(p.Linear.Mean)),
			zap.String("linear_std_ratio", significant(p.Linear.StdDev)),
			zap.String("linear_interval", significant(p.Linear.Lower)+".."+significant(p.Linear.Upper)),
			zap.String("linear_bias", significant(p.Linear.RelativeBias)),
			zap.String("nonlinear_mean_ratio", significant(p.Nonlinear.Mean)),
			zap.String("nonlinear_std_ratio", significant(p.Nonlinear.StdDev)),
			zap.String("nonlinear_interval", significant(p.Nonlinear.Lower)+".."+significant(p.Nonlinear.Upper)),
			zap.String("nonlinear_bias", significant(p.Nonlinear.RelativeBias)),
			zap.String("bias_ratio", significant(p.BiasRatio)),
		)
	}
}

func significant(v float64) string {
	if gomath.IsNaN(v) || gomath.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	p, err := fixed.FromFloat64(v)
	if err != nil {
		return strconv.FormatFloat(v, 'g', reportDigits, 64)
	}
	return p.Significant(reportDigits).String()
}

package main

import "github.com/peter-kozarec/kinetics/pkg/middleware"

const (
	Version   = "0.1.0"
	EnvPrefix = "KINETICS"

	DefaultOutput = "figures"
	ProgressEvery = 1 << 12
	MonitorFlags  = middleware.MonitorProgress | middleware.MonitorFailures

	DistributionMean  = 50
	DistributionScale = 10
	DistributionSize  = 1 << 15
	DistributionBins  = 40

	// realization shown in the error bar figures
	SeriesRealization = 1
)

package main

import (
	"context"
	"os"
	"strings"

	"github.com/peter-kozarec/kinetics/pkg/fit"
	"github.com/peter-kozarec/kinetics/pkg/simulation"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:          "kinetics",
		Short:        "Monte Carlo comparison of linearised and nonlinear kinetic fits",
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return loadConfig(v)
		},
	}

	flags := root.PersistentFlags()
	flags.String("output", DefaultOutput, "directory the figures are written to")
	flags.Int("realizations", 0, "Monte Carlo realizations, 0 keeps the experiment default")
	flags.Int64("seed", simulation.DefaultSeed, "random generator seed")
	flags.String("db", "", "DuckDB file the estimates are stored in")
	flags.String("config", "", "YAML file with flag values")
	flags.String("method", fit.MethodLevenbergMarquardt.String(), "nonlinear fit method: levenberg-marquardt or minimize")
	flags.Bool("propagated-weights", false, "weight the linear fit by the propagated transform uncertainty")
	flags.Int("max-redraws", simulation.DefaultMaxRedraws, "bound on positivity redraw rounds")
	flags.Bool("dev", false, "development logging")
	_ = v.BindPFlags(flags)

	root.AddCommand(
		experimentCommand(v, "arrhenius", "Arrhenius rate constants over temperature",
			func(ctx context.Context, a *app) error { return a.fit(ctx, simulation.ArrheniusConfiguration()) }),
		experimentCommand(v, "first", "First order decay",
			func(ctx context.Context, a *app) error { return a.fit(ctx, simulation.FirstOrderConfiguration()) }),
		experimentCommand(v, "second", "Second order decay",
			func(ctx context.Context, a *app) error { return a.fit(ctx, simulation.SecondOrderConfiguration()) }),
		experimentCommand(v, "second-order", "Second order series with error bars",
			func(ctx context.Context, a *app) error { return a.series(ctx, simulation.SecondOrderSeriesConfiguration()) }),
		experimentCommand(v, "distributions", "Normal distribution under reciprocal and logarithm",
			func(ctx context.Context, a *app) error { return a.distributions(ctx) }),
		experimentCommand(v, "all", "Every experiment in turn",
			func(ctx context.Context, a *app) error { return a.all(ctx) }),
	)
	return root
}

func experimentCommand(v *viper.Viper, use, short string, run func(context.Context, *app) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := notifyContext(cmd.Context())
			defer cancel()

			a, err := newApp(ctx, settingsFrom(v))
			if err != nil {
				return err
			}
			defer a.Close()

			return run(ctx, a)
		},
	}
}

func loadConfig(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return err
		}
	}
	return nil
}

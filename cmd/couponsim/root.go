package main

import (
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"

	"github.com/alexshd/couponbench"
	"github.com/alexshd/couponbench/internal/output"
)

// app carries the state shared by all subcommands of one invocation.
type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     cliConfig
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: newViper()}

	cmd := &cobra.Command{
		Use:   "couponsim",
		Short: "Coupon-collector waiting-time simulator",
		Long: `couponsim estimates how many draws it takes to collect all n coupons.

It simulates uniform or random-walk arrivals, reports the observed mean
waiting time and compares it with the closed-form expectation n·H(n).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is $HOME/.couponsim.yaml)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.StringP("format", "o", "text", "output format: "+joinFormats())
	_ = a.v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("format", flags.Lookup("format"))

	cmd.AddCommand(
		newSimulateCmd(a),
		newMergeCmd(a),
		newExpectCmd(a),
		newConfigCmd(a),
	)
	return cmd
}

func (a *app) init(cmd *cobra.Command) error {
	if err := readConfigFile(a.v, a.cfgFile); err != nil {
		return err
	}

	cfg, err := loadConfig(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, _ := parseLevel(cfg.LogLevel)
	a.logger = newLogger(cmd.ErrOrStderr(), level)

	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Debug("config loaded", "file", used)
	}
	return nil
}

// recorder builds a metrics recorder on the global meter provider, which is
// a noop unless an OpenTelemetry SDK has been installed.
func (a *app) recorder() *couponbench.Recorder {
	meter := otel.GetMeterProvider().Meter("github.com/alexshd/couponbench")
	rec, err := couponbench.Instrument(meter)
	if err != nil {
		a.logger.Warn("metrics disabled", "err", err)
		return nil
	}
	return rec
}

func (a *app) render(cmd *cobra.Command, res *couponbench.Result) error {
	rep, err := couponbench.BuildReport(res)
	if err != nil {
		return err
	}

	out, err := output.New(a.cfg.Format)
	if err != nil {
		return err
	}
	return out.OutputReport(rep, cmd.OutOrStdout())
}

func joinFormats() string {
	return strings.Join(output.Formats(), ", ")
}

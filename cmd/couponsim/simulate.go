package main

import (
	"github.com/spf13/cobra"

	"github.com/alexshd/couponbench"
	"github.com/alexshd/couponbench/internal/snapshot"
)

var simulateExample = `
  # The classic run: n=8, uniform arrivals, 1000 draws, seed 1
  couponsim simulate

  # Random-walk arrivals over 10 coupons
  couponsim simulate --n 10 --policy walk

  # 500 repetitions on 8 workers, saved for a later merge
  couponsim simulate --repetitions 500 --workers 8 --save run-a.msgpack`

func newSimulateCmd(a *app) *cobra.Command {
	var save string

	cmd := &cobra.Command{
		Use:     "simulate",
		Aliases: []string{"sim", "run"},
		Short:   "Run a coupon-collector simulation",
		Example: simulateExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg.Config

			a.logger.Info("simulation starting",
				"n", cfg.N, "policy", cfg.Policy, "arrivals", cfg.Arrivals,
				"repetitions", cfg.Repetitions, "seed", cfg.Seed)

			res, err := couponbench.RunBatch(cmd.Context(), cfg,
				couponbench.WithLogger(a.logger),
				couponbench.WithRecorder(a.recorder()),
			)
			if err != nil {
				return err
			}

			a.logger.Info("simulation finished",
				"samples", res.Table.Total(), "dropped", res.Dropped, "elapsed", res.Elapsed)

			if save != "" {
				if err := snapshot.Save(save, snapshot.FromResult(res)); err != nil {
					return err
				}
				a.logger.Info("snapshot saved", "file", save, "format", snapshot.FormatFor(save))
			}

			return a.render(cmd, res)
		},
	}

	def := couponbench.DefaultConfig()
	flags := cmd.Flags()
	flags.Int("n", def.N, "number of distinct coupons")
	flags.String("policy", string(def.Policy), "arrival policy: uniform or random_walk")
	flags.Int("arrivals", def.Arrivals, "arrivals drawn per repetition")
	flags.Uint64("seed", def.Seed, "base random seed")
	flags.Int("repetitions", def.Repetitions, "independent repetitions")
	flags.Int("workers", def.Workers, "worker goroutines (0 = GOMAXPROCS)")
	flags.Int("window", def.Window, "convergence window size")
	flags.Float64("tolerance", def.Tolerance, "relative convergence tolerance")
	flags.StringVar(&save, "save", "", "write a snapshot (.json or .msgpack)")

	for _, key := range []string{"n", "policy", "arrivals", "seed", "repetitions", "workers", "window", "tolerance"} {
		_ = a.v.BindPFlag(key, flags.Lookup(key))
	}

	return cmd
}

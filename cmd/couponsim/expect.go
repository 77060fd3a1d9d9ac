package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexshd/couponbench"
)

func newExpectCmd(a *app) *cobra.Command {
	var n int

	cmd := &cobra.Command{
		Use:   "expect",
		Short: "Print the expected waiting time n·H(n) for uniform arrivals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("n") {
				n = a.cfg.N
			}

			exact, err := couponbench.Expected(n)
			if err != nil {
				return err
			}
			f, _ := exact.Float64()

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Coupon collection, n=%d\nExpected = %.2f (%s)\n",
				n, f, exact.RatString())
			return err
		},
	}

	cmd.Flags().IntVar(&n, "n", couponbench.DefaultDomain, "number of distinct coupons")
	return cmd
}

package main

import (
	"github.com/spf13/cobra"

	"github.com/alexshd/couponbench/internal/snapshot"
)

func newMergeCmd(a *app) *cobra.Command {
	var save string

	cmd := &cobra.Command{
		Use:   "merge SNAPSHOT...",
		Short: "Merge saved simulation snapshots and report the combined result",
		Long: `merge loads snapshots written by "simulate --save", adds their
waiting-time tables together and reports the combined statistics.
All snapshots must share n and policy.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snaps := make([]*snapshot.Snapshot, 0, len(args))
			for _, path := range args {
				s, err := snapshot.Load(path)
				if err != nil {
					return err
				}
				a.logger.Debug("snapshot loaded", "file", path, "samples", len(s.Waits))
				snaps = append(snaps, s)
			}

			res, err := snapshot.Merge(snaps...)
			if err != nil {
				return err
			}

			a.logger.Info("snapshots merged", "files", len(snaps), "samples", res.Table.Total())

			if save != "" {
				if err := snapshot.Save(save, snapshot.FromResult(res)); err != nil {
					return err
				}
			}
			return a.render(cmd, res)
		},
	}

	cmd.Flags().StringVar(&save, "save", "", "write the merged snapshot (.json or .msgpack)")
	return cmd
}

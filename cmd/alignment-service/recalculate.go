package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"jobmate/alignment-service/internal/scheduler"
)

var recalculateCmd = &cobra.Command{
	Use:   "recalculate",
	Short: "Re-derive and re-classify every employment record now",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		sched := scheduler.New(a.service(), a.progress(), "", a.logger.With("component", "scheduler"))
		p, err := sched.RunOnce(cmd.Context())
		if err != nil {
			return err
		}
		return json.NewEncoder(cmd.OutOrStdout()).Encode(p)
	},
}

func init() {
	rootCmd.AddCommand(recalculateCmd)
}

package cli

import (
	"github.com/spf13/cobra"

	"github.com/vinhtrinh326/schedsim/internal/render"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <scenario-file>",
		Short: "Compute the schedule and print the charts",
		Long: `Loads a CSV or YAML scenario, schedules it at time zero, and prints a
Gantt chart and timing table per algorithm. Scheduled injections are applied
by fast-forwarding the clock until every process has finished.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, err := loadSimulation(args[0])
			if err != nil {
				return err
			}
			if err := sim.Reschedule(); err != nil {
				return err
			}

			f := sim.Snapshot()
			for !f.Finished {
				f = sim.Advance(1)
			}
			render.Report(cmd.OutOrStdout(), f.Processes, render.All, renderOptions())
			return nil
		},
	}
}

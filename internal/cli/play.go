package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vinhtrinh326/schedsim/internal/console"
	"github.com/vinhtrinh326/schedsim/internal/render"
	"github.com/vinhtrinh326/schedsim/internal/simulation"
)

func newPlayCmd() *cobra.Command {
	var speed time.Duration
	var hold bool

	cmd := &cobra.Command{
		Use:   "play <scenario-file>",
		Short: "Replay the schedule on a simulated clock",
		Long: `Advances the clock one unit per tick and prints a status line per frame.
Commands typed on stdin (add, edit, show, status, exit) change the workload
while it runs. The final charts are printed when playback ends.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("speed") {
				cfg.Speed = speed
			}
			if cmd.Flags().Changed("hold") {
				cfg.Hold = hold
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			sim, err := loadSimulation(args[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := &syncWriter{w: cmd.OutOrStdout()}
			errOut := &syncWriter{w: cmd.ErrOrStderr()}
			opts := renderOptions()

			player := simulation.NewPlayer(sim, simulation.PlayerConfig{Speed: cfg.Speed, Hold: cfg.Hold},
				func(f simulation.Frame) { render.Status(out, f.Processes, f.Now, opts) }, logger)

			con := console.New(sim, cfg.Algorithm, opts)
			con.OnExit(func() { go player.Stop() })
			exit := make(chan struct{}, 1)
			go con.Run(cmd.InOrStdin(), out, errOut, exit)

			err = player.Start(ctx)
			select {
			case exit <- struct{}{}:
			default:
			}
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			f := sim.Snapshot()
			render.Report(out, f.Processes, f.Now, opts)
			return nil
		},
	}

	cmd.Flags().DurationVar(&speed, "speed", 200*time.Millisecond, "Wall-clock duration of one time unit")
	cmd.Flags().BoolVar(&hold, "hold", false, "Keep the clock running after the last process finishes")

	return cmd
}

// Package cli implements the schedsim command tree.
package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vinhtrinh326/schedsim/internal/config"
	"github.com/vinhtrinh326/schedsim/internal/loader"
	"github.com/vinhtrinh326/schedsim/internal/logging"
	"github.com/vinhtrinh326/schedsim/internal/render"
	"github.com/vinhtrinh326/schedsim/internal/simulation"
	"github.com/vinhtrinh326/schedsim/pkg/process"
)

var (
	flagConfig    string
	flagAlgorithm string
	flagDebug     bool
	flagNoColor   bool
	flagLogLevel  string
	flagLogFormat string

	cfg    config.Config
	logger *zap.Logger
)

// NewRootCmd creates the root cobra command for the schedsim CLI.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "schedsim",
		Short: "schedsim: CPU scheduling simulator",
		Long: `schedsim computes FCFS and non-preemptive priority schedules for a
workload and replays them on a simulated clock. Processes can be added or
edited while the clock runs; everything not yet started is rescheduled.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	root.PersistentFlags().StringVar(&flagAlgorithm, "algorithm", "", "Algorithm for processes that name none (fcfs, priority)")
	root.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	root.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newRunCmd(),
		newPlayCmd(),
		newServeCmd(),
	)

	return root
}

// setup resolves the config from file, environment, and flags, in that
// order of increasing precedence, and builds the logger.
func setup(cmd *cobra.Command) error {
	cfg = config.Default()
	if flagConfig != "" {
		var err error
		if cfg, err = config.Load(flagConfig); err != nil {
			return err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("algorithm") {
		alg, err := process.ParseAlgorithm(flagAlgorithm)
		if err != nil {
			return err
		}
		cfg.Algorithm = alg
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = flagLogFormat
	}
	if flagDebug {
		cfg.LogLevel = "debug"
	}
	if flagNoColor {
		cfg.Color = false
	}

	logger = logging.NewLoggerWithWriter(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat, cmd.ErrOrStderr())
	return nil
}

func renderOptions() render.Options {
	return render.Options{Color: cfg.Color}
}

// loadSimulation reads a scenario file into a fresh simulation. Scheduled
// injections are queued, not added.
func loadSimulation(path string) (*simulation.Simulation, error) {
	sc, err := loader.Load(path, cfg.Algorithm)
	if err != nil {
		return nil, err
	}
	sim := simulation.New(logger)
	if err := sim.Add(sc.Processes...); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, inj := range sc.Injections {
		sim.InjectAt(inj.At, inj.Process)
	}
	logger.Debug("scenario loaded",
		zap.String("path", path),
		zap.Int("processes", len(sc.Processes)),
		zap.Int("injections", len(sc.Injections)),
	)
	return sim, nil
}

// syncWriter serializes writes from the player and the console.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vinhtrinh326/schedsim/internal/server"
	"github.com/vinhtrinh326/schedsim/internal/simulation"
)

func newServeCmd() *cobra.Command {
	var speed time.Duration
	var listen string

	cmd := &cobra.Command{
		Use:   "serve <scenario-file>",
		Short: "Replay the schedule and expose it over HTTP",
		Long: `Runs playback in the background and serves the simulation under /api/v1.
The clock keeps ticking after the last process finishes so that processes
posted later are still scheduled.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("speed") {
				cfg.Speed = speed
			}
			if cmd.Flags().Changed("listen") {
				cfg.Listen = listen
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

			srv := server.New(sim, cfg.Algorithm, logger)
			httpServer := &http.Server{
				Addr:              cfg.Listen,
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 5 * time.Second,
			}

			player := simulation.NewPlayer(sim, simulation.PlayerConfig{Speed: cfg.Speed, Hold: true}, nil, logger)
			go func() {
				if err := player.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("playback stopped", zap.Error(err))
				}
			}()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("server starting", zap.String("addr", cfg.Listen))
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			select {
			case <-ctx.Done():
				logger.Info("shutting down")
			case err = <-errCh:
				logger.Error("server failed", zap.Error(err))
			}

			player.Stop()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if serr := httpServer.Shutdown(shutdownCtx); serr != nil {
				return errors.Join(err, serr)
			}
			logger.Info("server stopped")
			return err
		},
	}

	cmd.Flags().DurationVar(&speed, "speed", 200*time.Millisecond, "Wall-clock duration of one time unit")
	cmd.Flags().StringVar(&listen, "listen", ":8080", "Listen address")

	return cmd
}

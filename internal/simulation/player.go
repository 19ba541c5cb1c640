package simulation

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// PlayerConfig holds playback configuration.
type PlayerConfig struct {
	// Speed is the wall-clock duration of one simulated time unit.
	Speed time.Duration
	// Hold keeps playing after the last process finishes.
	Hold bool
}

// DefaultPlayerConfig returns sensible defaults.
func DefaultPlayerConfig() PlayerConfig {
	return PlayerConfig{Speed: 200 * time.Millisecond}
}

// Player advances a Simulation one time unit per tick and hands every frame
// to a callback, typically a renderer.
type Player struct {
	sim      *Simulation
	config   PlayerConfig
	onFrame  func(Frame)
	logger   *zap.Logger
	started  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewPlayer(sim *Simulation, cfg PlayerConfig, onFrame func(Frame), logger *zap.Logger) *Player {
	if logger == nil {
		logger = zap.NewNop()
	}
	if onFrame == nil {
		onFrame = func(Frame) {}
	}
	return &Player{
		sim:     sim,
		config:  cfg,
		onFrame: onFrame,
		logger:  logger.Named("player"),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// Start schedules the table and plays it back. Blocks until ctx is
// cancelled, Stop is called, or every process has finished.
func (p *Player) Start(ctx context.Context) error {
	p.started.Store(true)
	defer close(p.doneCh)

	if err := p.sim.Reschedule(); err != nil {
		p.logger.Warn("initial schedule", zap.Error(err))
	}
	frame := p.sim.Snapshot()
	p.onFrame(frame)
	p.logger.Info("playback started",
		zap.Duration("speed", p.config.Speed),
		zap.Int("processes", len(frame.Processes)),
	)

	ticker := time.NewTicker(p.config.Speed)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("playback stopping (context cancelled)")
			return ctx.Err()
		case <-p.stopCh:
			p.logger.Info("playback stopping (stop called)")
			return nil
		case <-ticker.C:
			frame := p.sim.Advance(1)
			p.onFrame(frame)
			if frame.Finished && !p.config.Hold {
				p.logger.Info("playback finished", zap.Int64("now", frame.Now))
				return nil
			}
		}
	}
}

// Stop ends playback and waits for the current tick to finish.
func (p *Player) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
	if p.started.Load() {
		<-p.doneCh
	}
}

// Done is closed when Start returns.
func (p *Player) Done() <-chan struct{} {
	return p.doneCh
}

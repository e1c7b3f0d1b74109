// Package daemon periodically submits the offline scrobble queue.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jfmyers9/scrobbler/internal/scrobbler"
)

// Config controls the flush loop.
type Config struct {
	FlushInterval time.Duration // How often to flush the queue
	PruneAge      time.Duration // Submitted plays older than this are pruned on shutdown (0 disables)
	StateFile     string        // Path to the flush record ("" for none)

	// ShutdownTimeout bounds the final flush after cancellation
	ShutdownTimeout time.Duration
}

// Daemon flushes the queue on a ticker until its context is cancelled.
type Daemon struct {
	config Config
	client *scrobbler.Client
	queue  *scrobbler.Queue
	state  *State
	logger zerolog.Logger
	now    func() time.Time
}

// New creates a daemon over an open queue. The queue stays owned by the
// caller.
func New(cfg Config, client *scrobbler.Client, queue *scrobbler.Queue, logger zerolog.Logger) (*Daemon, error) {
	if cfg.FlushInterval <= 0 {
		return nil, fmt.Errorf("flush interval must be positive, got %v", cfg.FlushInterval)
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}

	logger = logger.With().Str("component", "daemon").Logger()

	state, err := NewState(cfg.StateFile)
	if err != nil {
		// Start with an empty record rather than refuse to run
		logger.Warn().Err(err).Str("file", cfg.StateFile).Msg("Failed to restore state")
	}

	return &Daemon{
		config: cfg,
		client: client,
		queue:  queue,
		state:  state,
		logger: logger,
		now:    time.Now,
	}, nil
}

// State returns the flush record.
func (d *Daemon) State() FlushState {
	return d.state.Get()
}

// Run flushes immediately and then every FlushInterval. When ctx is
// cancelled it makes a final flush, prunes the queue and returns nil.
func (d *Daemon) Run(ctx context.Context) error {
	d.logger.Info().Dur("interval", d.config.FlushInterval).Msg("Starting daemon")

	ticker := time.NewTicker(d.config.FlushInterval)
	defer ticker.Stop()

	d.flush(ctx)

	for {
		select {
		case <-ctx.Done():
			d.shutdown()
			return nil
		case <-ticker.C:
			d.flush(ctx)
		}
	}
}

func (d *Daemon) flush(ctx context.Context) {
	result, err := d.client.Flush(ctx, d.queue)
	if errors.Is(err, context.Canceled) {
		return
	}

	switch {
	case err != nil:
		d.logger.Warn().Err(err).Msg("Flush failed")
	case result.Batches > 0:
		d.logger.Info().
			Int("accepted", result.Accepted).
			Int("ignored", result.Ignored).
			Msg("Flushed queue")
	}

	if stateErr := d.state.Record(d.now(), result, err); stateErr != nil {
		d.logger.Error().Err(stateErr).Msg("Failed to persist state")
	}
}

func (d *Daemon) shutdown() {
	d.logger.Info().Msg("Processing final scrobbles before shutdown")

	ctx, cancel := context.WithTimeout(context.Background(), d.config.ShutdownTimeout)
	defer cancel()

	d.flush(ctx)

	if d.config.PruneAge > 0 {
		deleted, err := d.queue.Prune(ctx, d.config.PruneAge)
		if err != nil {
			d.logger.Warn().Err(err).Msg("Failed to prune queue")
		} else if deleted > 0 {
			d.logger.Info().Int64("deleted", deleted).Msg("Pruned queue")
		}
	}

	d.logger.Info().Msg("Daemon stopped")
}

// Package reconciler runs the out-of-band repair process for drift
// between job status and worker availability. It reacts to
// reconcile-check events published after every lifecycle write and
// additionally sweeps the full store on a timer, so a lost event never
// leaves drift unrepaired.
package reconciler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hirelink/hirelink-be/internal/hiring/engine"
	"github.com/hirelink/hirelink-be/shared/rabbitmq"
)

// checkMessage is a reconcile-check delivery handed to the worker
// pool.
type checkMessage struct {
	WorkerWallet string
	DeliveryTag  uint64
}

// Reconciler consumes reconcile-check events and runs periodic full
// sweeps.
type Reconciler struct {
	reconcilerID  string
	engine        *engine.Engine
	rabbitClient  *rabbitmq.Client
	logger        *slog.Logger
	concurrency   int
	prefetchCount int
	sweepInterval time.Duration

	checksChan chan *checkMessage
	stopChan   chan struct{}
	wg         sync.WaitGroup
}

// Config holds reconciler runtime settings.
type Config struct {
	Concurrency   int
	PrefetchCount int
	SweepInterval time.Duration
}

// New creates a Reconciler.
func New(cfg *Config, eng *engine.Engine, rabbitClient *rabbitmq.Client, logger *slog.Logger) *Reconciler {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	prefetch := cfg.PrefetchCount
	if prefetch <= 0 {
		prefetch = concurrency * 2
	}

	return &Reconciler{
		reconcilerID:  fmt.Sprintf("reconciler-%s", uuid.New().String()[:8]),
		engine:        eng,
		rabbitClient:  rabbitClient,
		logger:        logger,
		concurrency:   concurrency,
		prefetchCount: prefetch,
		sweepInterval: cfg.SweepInterval,
		checksChan:    make(chan *checkMessage, concurrency*2),
		stopChan:      make(chan struct{}),
	}
}

// Start wires the consumer, the worker pool, and the sweep ticker. It
// blocks until ctx is cancelled.
func (r *Reconciler) Start(ctx context.Context) error {
	deliveries, err := r.setupConsumer()
	if err != nil {
		return fmt.Errorf("failed to setup consumer: %w", err)
	}

	r.spawnPool(ctx)

	r.wg.Add(1)
	go r.sweepLoop(ctx)

	r.logger.Info("Reconciler started",
		slog.String("reconciler_id", r.reconcilerID),
		slog.Int("concurrency", r.concurrency),
		slog.Duration("sweep_interval", r.sweepInterval),
	)

	r.dispatch(ctx, deliveries)

	return nil
}

// Stop signals the worker pool to drain and waits for it.
func (r *Reconciler) Stop() {
	close(r.stopChan)
	r.wg.Wait()
	r.logger.Info("Reconciler stopped",
		slog.String("reconciler_id", r.reconcilerID),
	)
}

// sweepLoop runs a full reconciliation pass on the configured
// interval, plus one on startup to repair anything left over from a
// previous outage.
func (r *Reconciler) sweepLoop(ctx context.Context) {
	defer r.wg.Done()

	r.runSweep(ctx)

	ticker := time.NewTicker(r.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-r.stopChan:
			return
		case <-ticker.C:
			r.runSweep(ctx)
		}
	}
}

func (r *Reconciler) runSweep(ctx context.Context) {
	report, err := r.engine.Sweep(ctx)
	if err != nil {
		r.logger.Error("Full sweep failed",
			slog.String("error", err.Error()),
		)
		return
	}

	if report.Released > 0 || report.Rehired > 0 {
		r.logger.Info("Full sweep repaired drift",
			slog.Int("released", report.Released),
			slog.Int("rehired", report.Rehired),
		)
	} else {
		r.logger.Debug("Full sweep found no drift",
			slog.Int("checked", report.Checked),
		)
	}
}

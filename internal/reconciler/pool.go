package reconciler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hirelink/hirelink-be/internal/hiring/domain"
)

// spawnPool starts the worker goroutines that process reconcile
// checks.
func (r *Reconciler) spawnPool(ctx context.Context) {
	for i := 0; i < r.concurrency; i++ {
		r.wg.Add(1)
		go r.workerLoop(ctx, i)
	}

	r.logger.Info("Reconciler pool spawned",
		slog.Int("worker_count", r.concurrency),
	)
}

func (r *Reconciler) workerLoop(ctx context.Context, workerNum int) {
	defer r.wg.Done()

	workerName := fmt.Sprintf("%s-%d", r.reconcilerID, workerNum)

	for {
		select {
		case <-r.stopChan:
			return

		case <-ctx.Done():
			return

		case msg, ok := <-r.checksChan:
			if !ok {
				return
			}

			err := r.engine.SweepWorker(ctx, msg.WorkerWallet)

			channel := r.rabbitClient.GetChannel()
			if channel == nil {
				r.logger.Error("Failed to get channel for ACK/NACK",
					slog.String("worker_name", workerName),
				)
				continue
			}

			if err != nil {
				r.logger.Error("Reconcile check failed",
					slog.String("worker_name", workerName),
					slog.String("worker_wallet", msg.WorkerWallet),
					slog.String("error", err.Error()),
				)

				// Transient store failures requeue; a bad wallet or a
				// worker the directory no longer knows never will
				// succeed.
				requeue := domain.KindOf(err) == domain.KindUnavailable
				if nackErr := channel.Nack(msg.DeliveryTag, false, requeue); nackErr != nil {
					r.logger.Error("Failed to NACK message",
						slog.String("worker_name", workerName),
						slog.String("error", nackErr.Error()),
					)
				}
				continue
			}

			if ackErr := channel.Ack(msg.DeliveryTag, false); ackErr != nil {
				r.logger.Error("Failed to ACK message",
					slog.String("worker_name", workerName),
					slog.String("error", ackErr.Error()),
				)
			}
		}
	}
}

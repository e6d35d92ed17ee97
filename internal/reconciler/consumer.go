package reconciler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/hirelink/hirelink-be/internal/events"
)

// setupConsumer configures QoS and starts consuming reconcile-check
// deliveries.
func (r *Reconciler) setupConsumer() (<-chan amqp.Delivery, error) {
	channel := r.rabbitClient.GetChannel()
	if channel == nil {
		return nil, fmt.Errorf("rabbitmq channel is nil")
	}

	// Per-consumer prefetch so one slow check does not starve the
	// pool.
	if err := channel.Qos(r.prefetchCount, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set QoS: %w", err)
	}

	deliveries, err := r.rabbitClient.Consume(r.reconcilerID)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}

	r.logger.Info("Reconcile-check consumer started",
		slog.String("consumer_tag", r.reconcilerID),
		slog.Int("prefetch_count", r.prefetchCount),
	)

	return deliveries, nil
}

// dispatch reads deliveries and hands them to the worker pool. It
// returns when ctx is cancelled or the delivery channel closes.
func (r *Reconciler) dispatch(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Dispatcher stopped - context canceled")
			return

		case delivery, ok := <-deliveries:
			if !ok {
				r.logger.Warn("RabbitMQ delivery channel closed")
				return
			}

			var check events.ReconcileCheck
			if err := json.Unmarshal(delivery.Body, &check); err != nil {
				r.logger.Error("Failed to parse reconcile check",
					slog.String("error", err.Error()),
					slog.String("body", string(delivery.Body)),
				)
				// Malformed messages are dropped, not requeued.
				if nackErr := delivery.Nack(false, false); nackErr != nil {
					r.logger.Error("Failed to NACK malformed message",
						slog.String("error", nackErr.Error()),
					)
				}
				continue
			}

			msg := &checkMessage{
				WorkerWallet: check.WorkerWallet,
				DeliveryTag:  delivery.DeliveryTag,
			}

			select {
			case r.checksChan <- msg:
			case <-ctx.Done():
				// Requeue so the check is reprocessed after restart.
				if nackErr := delivery.Nack(false, true); nackErr != nil {
					r.logger.Error("Failed to NACK message on shutdown",
						slog.String("error", nackErr.Error()),
					)
				}
				return
			}
		}
	}
}

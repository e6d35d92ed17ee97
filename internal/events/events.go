// Package events defines the lifecycle messages exchanged between the
// API service and the reconciler service.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hirelink/hirelink-be/shared/rabbitmq"
)

// ReconcileCheck asks the reconciler to verify one worker's
// availability against their job records.
type ReconcileCheck struct {
	WorkerWallet string `json:"worker_wallet"`
}

// Publisher emits reconcile-check events over RabbitMQ. It satisfies
// the engine's Publisher interface.
type Publisher struct {
	client *rabbitmq.Client
	logger *slog.Logger
}

// NewPublisher creates a Publisher on an established RabbitMQ client.
func NewPublisher(client *rabbitmq.Client, logger *slog.Logger) *Publisher {
	return &Publisher{
		client: client,
		logger: logger,
	}
}

// PublishReconcileCheck publishes a check for workerWallet.
func (p *Publisher) PublishReconcileCheck(ctx context.Context, workerWallet string) error {
	body, err := json.Marshal(ReconcileCheck{WorkerWallet: workerWallet})
	if err != nil {
		return fmt.Errorf("failed to marshal reconcile check: %w", err)
	}

	if err := p.client.PublishWithRetry(ctx, body, "application/json"); err != nil {
		return err
	}

	p.logger.Debug("Reconcile check published",
		slog.String("worker_wallet", workerWallet),
	)

	return nil
}

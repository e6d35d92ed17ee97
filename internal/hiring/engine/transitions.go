package engine

import (
	"context"
	"log/slog"

	"github.com/hirelink/hirelink-be/internal/hiring/domain"
)

// AcknowledgeByEmployer sets the employer acknowledgement flag on a
// job record. Acknowledgement is informational, never a status change,
// and is idempotent.
func (e *Engine) AcknowledgeByEmployer(ctx context.Context, recordID int64) (*domain.JobRecord, error) {
	job, err := e.store.MarkEmployerAcknowledged(ctx, recordID)
	if err != nil {
		return nil, err
	}

	e.logger.Info("Job acknowledged by employer",
		slog.Int64("record_id", recordID),
		slog.Int64("job_id", job.JobID),
	)

	return job, nil
}

// ConfirmByWorker finalizes payment: Active→Paid, worker
// acknowledgement set, and the worker released for new engagements.
// A terminal record yields a Conflict with availability untouched.
func (e *Engine) ConfirmByWorker(ctx context.Context, recordID int64) (*domain.JobRecord, error) {
	job, err := e.store.ConfirmAndRelease(ctx, recordID)
	if err != nil {
		return nil, err
	}

	e.logger.Info("Job confirmed by worker",
		slog.Int64("job_id", job.JobID),
		slog.String("worker_wallet", job.WorkerWallet),
	)

	e.notifyReconciler(ctx, job.WorkerWallet)

	return job, nil
}

// Cancel aborts an Active job, keyed by the ledger job identifier
// since cancellation may arrive knowing only the ledger-facing id, and
// releases the worker. Terminal records yield a Conflict.
func (e *Engine) Cancel(ctx context.Context, jobID int64) (*domain.JobRecord, error) {
	job, err := e.store.CancelAndRelease(ctx, jobID)
	if err != nil {
		return nil, err
	}

	e.logger.Info("Job cancelled",
		slog.Int64("job_id", jobID),
		slog.String("worker_wallet", job.WorkerWallet),
	)

	e.notifyReconciler(ctx, job.WorkerWallet)

	return job, nil
}

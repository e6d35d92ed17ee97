// Package engine implements the reconciliation core: it creates,
// advances, and finalizes job records so the off-chain store never
// contradicts the ledger, and it owns every write to the worker
// availability flag.
package engine

import (
	"context"
	"log/slog"

	"github.com/hirelink/hirelink-be/internal/hiring/domain"
	"github.com/hirelink/hirelink-be/internal/hiring/storage"
)

// Store is the persistence surface the engine drives. The production
// implementation is the PostgreSQL store; tests use in-memory fakes.
type Store interface {
	NextJobID(ctx context.Context) (int64, error)

	FindEmployerByEmail(ctx context.Context, email string) (*domain.Employer, error)
	FindWorkerByWallet(ctx context.Context, wallet string) (*domain.Worker, error)
	GetWorkerProfile(ctx context.Context, wallet string) (*domain.Worker, error)

	CreateJobHiringWorker(ctx context.Context, job *domain.JobRecord) error
	GetJobByJobID(ctx context.Context, jobID int64) (*domain.JobRecord, error)
	GetJobByRecordID(ctx context.Context, recordID int64) (*domain.JobRecord, error)
	MarkEmployerAcknowledged(ctx context.Context, recordID int64) (*domain.JobRecord, error)
	ConfirmAndRelease(ctx context.Context, recordID int64) (*domain.JobRecord, error)
	CancelAndRelease(ctx context.Context, jobID int64) (*domain.JobRecord, error)

	ListJobsByWorkerWallet(ctx context.Context, wallet string) ([]domain.JobRecord, error)
	ListJobsByEmployerWallet(ctx context.Context, wallet string) ([]domain.JobRecord, error)
	ListJobs(ctx context.Context, filter storage.JobFilter) ([]domain.JobRecord, error)

	ListHiredWorkersWithoutActiveJob(ctx context.Context) ([]domain.Worker, error)
	ListActiveJobsWithFreeWorker(ctx context.Context) ([]domain.JobRecord, error)
	GetActiveJobForWorker(ctx context.Context, workerID int64) (*domain.JobRecord, error)
	HireWorker(ctx context.Context, workerID, employerID int64) error
	ReleaseWorker(ctx context.Context, workerID int64) error
}

// Ledger reads committed state from the settlement contract. The
// engine never submits transactions; it only verifies what the caller
// submitted out-of-band.
type Ledger interface {
	// EmployerForJob returns the lowercase employer address the
	// ledger recorded for jobID.
	EmployerForJob(ctx context.Context, jobID int64) (string, error)
}

// ContentStore persists staged job metadata outside the database and
// returns an opaque reference for the ledger transaction payload.
type ContentStore interface {
	PutJSON(ctx context.Context, key string, payload any) (string, error)
}

// Publisher emits reconcile-check events after lifecycle writes so
// the reconciler service can verify the touched worker promptly.
// Publishing is best-effort: the periodic sweep covers missed events.
type Publisher interface {
	PublishReconcileCheck(ctx context.Context, workerWallet string) error
}

// Engine orchestrates the job lifecycle. It is stateless; every
// operation is an independent request against the store, the content
// store, and the read-only ledger gateway, so any number of instances
// may run in parallel.
type Engine struct {
	store     Store
	ledger    Ledger
	content   ContentStore
	publisher Publisher
	logger    *slog.Logger
}

// New creates an Engine. publisher may be nil; lifecycle events are
// then skipped and drift repair relies on the periodic sweep alone.
func New(store Store, ledger Ledger, content ContentStore, publisher Publisher, logger *slog.Logger) *Engine {
	return &Engine{
		store:     store,
		ledger:    ledger,
		content:   content,
		publisher: publisher,
		logger:    logger,
	}
}

// notifyReconciler publishes a reconcile-check for wallet. Failures
// are logged and dropped; the sweep is the safety net.
func (e *Engine) notifyReconciler(ctx context.Context, wallet string) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.PublishReconcileCheck(ctx, wallet); err != nil {
		e.logger.Warn("Failed to publish reconcile check",
			slog.String("worker_wallet", wallet),
			slog.String("error", err.Error()),
		)
	}
}

package engine

import (
	"context"

	"github.com/hirelink/hirelink-be/internal/hiring/domain"
	"github.com/hirelink/hirelink-be/internal/hiring/storage"
)

// GetJob returns a single job record by ledger job identifier with
// identities expanded.
func (e *Engine) GetJob(ctx context.Context, jobID int64) (*domain.JobRecord, error) {
	return e.store.GetJobByJobID(ctx, jobID)
}

// ListByWorker returns every job referencing the worker wallet. An
// empty result is not a failure.
func (e *Engine) ListByWorker(ctx context.Context, wallet string) ([]domain.JobRecord, error) {
	wallet, err := domain.NormalizeWallet(wallet)
	if err != nil {
		return nil, err
	}
	return e.store.ListJobsByWorkerWallet(ctx, wallet)
}

// ListByEmployer returns every job referencing the employer wallet.
func (e *Engine) ListByEmployer(ctx context.Context, wallet string) ([]domain.JobRecord, error) {
	wallet, err := domain.NormalizeWallet(wallet)
	if err != nil {
		return nil, err
	}
	return e.store.ListJobsByEmployerWallet(ctx, wallet)
}

// ListAll returns a page of job records for admin tooling.
func (e *Engine) ListAll(ctx context.Context, filter storage.JobFilter) ([]domain.JobRecord, error) {
	return e.store.ListJobs(ctx, filter)
}

// WorkerProfile bundles a worker profile with that worker's job
// history.
type WorkerProfile struct {
	Worker *domain.Worker     `json:"worker"`
	Jobs   []domain.JobRecord `json:"jobs"`
}

// GetWorkerProfile returns the worker profile, the hiring employer
// expanded, and the worker's job history.
func (e *Engine) GetWorkerProfile(ctx context.Context, wallet string) (*WorkerProfile, error) {
	wallet, err := domain.NormalizeWallet(wallet)
	if err != nil {
		return nil, err
	}

	worker, err := e.store.GetWorkerProfile(ctx, wallet)
	if err != nil {
		return nil, err
	}

	jobs, err := e.store.ListJobsByWorkerWallet(ctx, wallet)
	if err != nil {
		return nil, err
	}

	return &WorkerProfile{Worker: worker, Jobs: jobs}, nil
}

package storage

import (
	"context"

	"github.com/hirelink/hirelink-be/internal/hiring/domain"
)

// Drift queries for the reconciliation sweep. The availability flag
// is a projection of "has an Active job"; these queries find rows
// where the projection has drifted, in either direction.

// ListHiredWorkersWithoutActiveJob returns workers marked hired that
// no Active job references.
func (s *Store) ListHiredWorkersWithoutActiveJob(ctx context.Context) ([]domain.Worker, error) {
	query := `
		SELECT w.id, w.full_name, w.wallet, w.location, w.work_type, w.bio,
		       w.status, w.hired_by, w.created_at, w.updated_at
		FROM workers w
		WHERE w.status = $1
		  AND NOT EXISTS (
			SELECT 1 FROM jobs j
			WHERE j.worker_id = w.id AND j.status = $2
		  )
	`

	workers := []domain.Worker{}
	err := s.db.SelectContext(ctx, &workers, query, domain.AvailabilityHired, domain.StatusActive)
	if err != nil {
		return nil, domain.Unavailable("failed to list stale hired workers", err)
	}

	return workers, nil
}

// ListActiveJobsWithFreeWorker returns Active job records whose worker
// is not marked hired.
func (s *Store) ListActiveJobsWithFreeWorker(ctx context.Context) ([]domain.JobRecord, error) {
	query := `
		SELECT j.*, w.full_name AS worker_name, u.full_name AS employer_name
		FROM jobs j
		JOIN workers w ON w.id = j.worker_id
		JOIN users u ON u.id = j.employer_id
		WHERE j.status = $1 AND w.status <> $2
	`

	jobs := []domain.JobRecord{}
	err := s.db.SelectContext(ctx, &jobs, query, domain.StatusActive, domain.AvailabilityHired)
	if err != nil {
		return nil, domain.Unavailable("failed to list unhired active jobs", err)
	}

	return jobs, nil
}

// GetActiveJobForWorker returns the worker's Active job, or nil when
// none exists.
func (s *Store) GetActiveJobForWorker(ctx context.Context, workerID int64) (*domain.JobRecord, error) {
	query := `
		SELECT ` + jobColumns + `
		FROM jobs
		WHERE worker_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	jobs := []domain.JobRecord{}
	err := s.db.SelectContext(ctx, &jobs, query, workerID, domain.StatusActive)
	if err != nil {
		return nil, domain.Unavailable("failed to get active job for worker", err)
	}
	if len(jobs) == 0 {
		return nil, nil
	}

	return &jobs[0], nil
}

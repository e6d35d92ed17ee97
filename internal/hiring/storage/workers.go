package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/hirelink/hirelink-be/internal/hiring/domain"
)

// FindEmployerByEmail resolves an employer identity by email,
// case-insensitively.
func (s *Store) FindEmployerByEmail(ctx context.Context, email string) (*domain.Employer, error) {
	query := `
		SELECT id, full_name, email, phone, address, created_at, updated_at
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`

	var employer domain.Employer
	err := s.db.GetContext(ctx, &employer, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundf("employer %s not found", email)
		}
		return nil, domain.Unavailable("failed to find employer", err)
	}

	return &employer, nil
}

// FindWorkerByWallet resolves a worker profile by wallet address,
// case-insensitively.
func (s *Store) FindWorkerByWallet(ctx context.Context, wallet string) (*domain.Worker, error) {
	query := `
		SELECT id, full_name, wallet, location, work_type, bio,
		       status, hired_by, created_at, updated_at
		FROM workers
		WHERE LOWER(wallet) = LOWER($1)
	`

	var worker domain.Worker
	err := s.db.GetContext(ctx, &worker, query, wallet)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundf("worker %s not found", wallet)
		}
		return nil, domain.Unavailable("failed to find worker", err)
	}

	return &worker, nil
}

// GetWorkerProfile returns a worker with the hiring employer expanded
// for display.
func (s *Store) GetWorkerProfile(ctx context.Context, wallet string) (*domain.Worker, error) {
	query := `
		SELECT w.id, w.full_name, w.wallet, w.location, w.work_type, w.bio,
		       w.status, w.hired_by, w.created_at, w.updated_at,
		       COALESCE(u.full_name, '') AS hired_by_name,
		       COALESCE(u.email, '') AS hired_by_email
		FROM workers w
		LEFT JOIN users u ON u.id = w.hired_by
		WHERE LOWER(w.wallet) = LOWER($1)
	`

	var worker domain.Worker
	err := s.db.GetContext(ctx, &worker, query, wallet)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundf("worker %s not found", wallet)
		}
		return nil, domain.Unavailable("failed to get worker profile", err)
	}

	return &worker, nil
}

// HireWorker marks a worker hired with the employer back-reference.
// Used by the reconciliation sweep; the commit path flips availability
// inside its own transaction.
func (s *Store) HireWorker(ctx context.Context, workerID, employerID int64) error {
	query := `
		UPDATE workers
		SET status = $1, hired_by = $2, updated_at = NOW()
		WHERE id = $3
	`
	if _, err := s.db.ExecContext(ctx, query, domain.AvailabilityHired, employerID, workerID); err != nil {
		return domain.Unavailable("failed to mark worker hired", err)
	}
	return nil
}

// ReleaseWorker resets a worker to free and clears the employer
// back-reference.
func (s *Store) ReleaseWorker(ctx context.Context, workerID int64) error {
	query := `
		UPDATE workers
		SET status = $1, hired_by = NULL, updated_at = NOW()
		WHERE id = $2
	`
	if _, err := s.db.ExecContext(ctx, query, domain.AvailabilityFree, workerID); err != nil {
		return domain.Unavailable("failed to release worker", err)
	}
	return nil
}

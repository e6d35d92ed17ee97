package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hirelink/hirelink-be/internal/hiring/domain"
)

// NextJobID allocates the next candidate job identifier from the
// dedicated sequence. Identifiers are strictly increasing and never
// reused; abandoned stagings leave tolerated gaps.
func (s *Store) NextJobID(ctx context.Context) (int64, error) {
	var id int64
	err := s.db.GetContext(ctx, &id, `SELECT nextval('hiring_job_id_seq')`)
	if err != nil {
		return 0, domain.Unavailable("failed to allocate job id", err)
	}
	return id, nil
}

// CreateJobHiringWorker inserts the job record and flips the worker's
// availability to hired in a single transaction, so the availability
// flag and the Active record can never diverge on this path.
//
// A duplicate job_id or tx_hash surfaces as a Conflict: a retried
// commit with the same settlement hash must not create a second
// record. The availability flip is conditional on the worker still
// being free, so a worker can hold at most one Active job; a commit
// for an already-hired worker is a Conflict and nothing is written.
// The partial unique index on (worker_id) WHERE status = 'Active'
// backstops the same rule at the insert.
func (s *Store) CreateJobHiringWorker(ctx context.Context, job *domain.JobRecord) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Unavailable("failed to begin commit transaction", err)
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO jobs (
			job_id, worker_wallet, employer_wallet, employer_email,
			employer_id, worker_id, job_desc, content_ref, tx_hash,
			amount_eth, amount_wei, start_date, status
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8, $9,
			$10, $11, $12, $13
		)
		RETURNING id, created_at, updated_at
	`

	err = tx.QueryRowContext(
		ctx,
		insert,
		job.JobID,
		job.WorkerWallet,
		job.EmployerWallet,
		job.EmployerEmail,
		job.EmployerID,
		job.WorkerID,
		job.JobDesc,
		job.ContentRef,
		job.TxHash,
		job.AmountEth,
		job.AmountWei,
		job.StartDate,
		job.Status,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf(
				"job %d, settlement transaction %s, or an active job for worker %s already recorded",
				job.JobID, job.TxHash, job.WorkerWallet)
		}
		return domain.Unavailable("failed to insert job record", err)
	}

	// Conditional on the worker still being free: the loser of a
	// concurrent double-commit matches zero rows here and the whole
	// transaction rolls back.
	hire := `
		UPDATE workers
		SET status = $1, hired_by = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`
	result, err := tx.ExecContext(ctx, hire,
		domain.AvailabilityHired, job.EmployerID, job.WorkerID, domain.AvailabilityFree)
	if err != nil {
		return domain.Unavailable("failed to mark worker hired", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return domain.Unavailable("failed to mark worker hired", err)
	}
	if rows == 0 {
		return domain.Conflictf("worker %s is already hired", job.WorkerWallet)
	}

	if err := tx.Commit(); err != nil {
		return domain.Unavailable("failed to commit job transaction", err)
	}

	s.logger.Info("Job record committed",
		slog.Int64("job_id", job.JobID),
		slog.String("tx_hash", job.TxHash),
		slog.String("worker_wallet", job.WorkerWallet),
	)

	return nil
}

// GetJobByJobID fetches a job record by its ledger-facing identifier,
// with worker and employer display names expanded.
func (s *Store) GetJobByJobID(ctx context.Context, jobID int64) (*domain.JobRecord, error) {
	return s.getJob(ctx, "j.job_id", jobID)
}

// GetJobByRecordID fetches a job record by its off-chain record key.
func (s *Store) GetJobByRecordID(ctx context.Context, recordID int64) (*domain.JobRecord, error) {
	return s.getJob(ctx, "j.id", recordID)
}

func (s *Store) getJob(ctx context.Context, keyColumn string, key int64) (*domain.JobRecord, error) {
	query := fmt.Sprintf(`
		SELECT j.*, w.full_name AS worker_name, u.full_name AS employer_name
		FROM jobs j
		JOIN workers w ON w.id = j.worker_id
		JOIN users u ON u.id = j.employer_id
		WHERE %s = $1
	`, keyColumn)

	var job domain.JobRecord
	err := s.db.GetContext(ctx, &job, query, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundf("job not found")
		}
		return nil, domain.Unavailable("failed to get job", err)
	}

	return &job, nil
}

// MarkEmployerAcknowledged sets the employer acknowledgement flag.
// Acknowledgement is informational: it never changes status and is
// safe to call repeatedly.
func (s *Store) MarkEmployerAcknowledged(ctx context.Context, recordID int64) (*domain.JobRecord, error) {
	query := `
		UPDATE jobs
		SET employer_acknowledged = TRUE, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + jobColumns

	var job domain.JobRecord
	err := s.db.GetContext(ctx, &job, query, recordID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NotFoundf("job record %d not found", recordID)
		}
		return nil, domain.Unavailable("failed to acknowledge job", err)
	}

	return &job, nil
}

// ConfirmAndRelease applies the worker confirmation transition
// (Active→Paid) and releases the worker back to free, in one
// transaction. The status guard is a single conditional UPDATE: the
// loser of a concurrent confirm/cancel race observes the
// already-updated state and gets a Conflict instead of overwriting it.
func (s *Store) ConfirmAndRelease(ctx context.Context, recordID int64) (*domain.JobRecord, error) {
	return s.transitionAndRelease(ctx, "id", recordID, `
		UPDATE jobs
		SET status = $1, worker_acknowledged = TRUE, updated_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING `+jobColumns,
		domain.StatusPaid,
	)
}

// CancelAndRelease applies the cancellation transition
// (Active→Cancelled), keyed by the ledger job identifier, and releases
// the worker back to free.
func (s *Store) CancelAndRelease(ctx context.Context, jobID int64) (*domain.JobRecord, error) {
	return s.transitionAndRelease(ctx, "job_id", jobID, `
		UPDATE jobs
		SET status = $1, updated_at = NOW()
		WHERE job_id = $2 AND status = $3
		RETURNING `+jobColumns,
		domain.StatusCancelled,
	)
}

func (s *Store) transitionAndRelease(ctx context.Context, keyColumn string, key int64, query string, target domain.Status) (*domain.JobRecord, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, domain.Unavailable("failed to begin transition transaction", err)
	}
	defer tx.Rollback()

	var job domain.JobRecord
	err = tx.GetContext(ctx, &job, query, target, key, domain.StatusActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.transitionFailure(ctx, keyColumn, key, target)
		}
		return nil, domain.Unavailable("failed to update job status", err)
	}

	release := `
		UPDATE workers
		SET status = $1, hired_by = NULL, updated_at = NOW()
		WHERE id = $2
	`
	if _, err := tx.ExecContext(ctx, release, domain.AvailabilityFree, job.WorkerID); err != nil {
		return nil, domain.Unavailable("failed to release worker", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, domain.Unavailable("failed to commit transition", err)
	}

	s.logger.Info("Job status updated",
		slog.Int64("job_id", job.JobID),
		slog.String("status", string(job.Status)),
	)

	return &job, nil
}

// transitionFailure distinguishes a missing record from a guarded
// transition rejected on a terminal record.
func (s *Store) transitionFailure(ctx context.Context, keyColumn string, key int64, target domain.Status) error {
	var current domain.Status
	query := fmt.Sprintf(`SELECT status FROM jobs WHERE %s = $1`, keyColumn)

	err := s.db.GetContext(ctx, &current, query, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotFoundf("job not found")
		}
		return domain.Unavailable("failed to inspect job status", err)
	}

	return domain.Conflictf("cannot transition job from %s to %s", current, target)
}

// ListJobsByWorkerWallet returns every job referencing the worker
// wallet, newest first, with display names expanded. Zero rows is an
// empty slice, not a failure.
func (s *Store) ListJobsByWorkerWallet(ctx context.Context, wallet string) ([]domain.JobRecord, error) {
	return s.listByWallet(ctx, "j.worker_wallet", wallet)
}

// ListJobsByEmployerWallet is the employer-side counterpart of
// ListJobsByWorkerWallet.
func (s *Store) ListJobsByEmployerWallet(ctx context.Context, wallet string) ([]domain.JobRecord, error) {
	return s.listByWallet(ctx, "j.employer_wallet", wallet)
}

func (s *Store) listByWallet(ctx context.Context, column, wallet string) ([]domain.JobRecord, error) {
	// Stored wallets are lowercase-normalized; LOWER on both sides
	// keeps the match case-insensitive for rows predating
	// normalization.
	query := fmt.Sprintf(`
		SELECT j.*, w.full_name AS worker_name, u.full_name AS employer_name
		FROM jobs j
		JOIN workers w ON w.id = j.worker_id
		JOIN users u ON u.id = j.employer_id
		WHERE LOWER(%s) = LOWER($1)
		ORDER BY j.created_at DESC, j.id DESC
	`, column)

	jobs := []domain.JobRecord{}
	if err := s.db.SelectContext(ctx, &jobs, query, wallet); err != nil {
		return nil, domain.Unavailable("failed to list jobs", err)
	}

	return jobs, nil
}

// JobFilter narrows the admin job listing.
type JobFilter struct {
	Status   string
	PageSize int
	Cursor   *JobCursor
}

// JobCursor is a keyset pagination cursor over (created_at, id).
type JobCursor struct {
	CreatedAt time.Time
	ID        int64
}

// ListJobs returns a page of job records for admin tooling. It fetches
// one row beyond PageSize so the caller can tell whether more results
// exist.
func (s *Store) ListJobs(ctx context.Context, filter JobFilter) ([]domain.JobRecord, error) {
	query := `
		SELECT j.*, w.full_name AS worker_name, u.full_name AS employer_name
		FROM jobs j
		JOIN workers w ON w.id = j.worker_id
		JOIN users u ON u.id = j.employer_id
		WHERE 1=1
	`
	args := []interface{}{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(" AND j.status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}

	if filter.Cursor != nil {
		query += fmt.Sprintf(" AND (j.created_at, j.id) < ($%d, $%d)", argIdx, argIdx+1)
		args = append(args, filter.Cursor.CreatedAt, filter.Cursor.ID)
		argIdx += 2
	}

	query += " ORDER BY j.created_at DESC, j.id DESC"
	query += fmt.Sprintf(" LIMIT $%d", argIdx)
	args = append(args, filter.PageSize+1)

	jobs := []domain.JobRecord{}
	if err := s.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, domain.Unavailable("failed to list jobs", err)
	}

	return jobs, nil
}

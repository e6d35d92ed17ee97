package storage

import (
	"errors"
	"log/slog"

	"github.com/hirelink/hirelink-be/shared/postgresql"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Store persists job records, worker availability, and identity
// lookups in PostgreSQL. The database is the mutual-exclusion point:
// uniqueness constraints serialize commits and conditional updates
// serialize status transitions, so the store holds no in-process
// locks.
type Store struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a Store backed by the shared PostgreSQL client.
func NewStore(pg *postgresql.Client, logger *slog.Logger) *Store {
	return &Store{
		db:     pg.GetDB(),
		logger: logger,
	}
}

const uniqueViolation = pq.ErrorCode("23505")

// isUniqueViolation reports whether err is a PostgreSQL unique
// constraint violation (duplicate job_id or tx_hash).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

const jobColumns = `
	id, job_id, worker_wallet, employer_wallet, employer_email,
	employer_id, worker_id, job_desc, content_ref, tx_hash,
	amount_eth, amount_wei, start_date, status,
	employer_acknowledged, worker_acknowledged, created_at, updated_at
`

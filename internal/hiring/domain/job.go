package domain

import "time"

// Status is the lifecycle state of a job record.
type Status string

const (
	// StatusActive is the sole initial state, reached only via a
	// successful commit against the ledger.
	StatusActive Status = "Active"
	// StatusPaid is the terminal success state, reached by worker
	// confirmation.
	StatusPaid Status = "Paid"
	// StatusCancelled is the terminal abort state.
	StatusCancelled Status = "Cancelled"
)

// Terminal reports whether no further transition is allowed out of s.
func (s Status) Terminal() bool {
	return s == StatusPaid || s == StatusCancelled
}

// CanTransition reports whether the state machine permits moving from
// s to target. The only legal moves are Active→Paid and
// Active→Cancelled.
func (s Status) CanTransition(target Status) bool {
	if s != StatusActive {
		return false
	}
	return target == StatusPaid || target == StatusCancelled
}

// JobRecord is the off-chain view of a settled hiring agreement.
//
// JobID is the ledger-facing identifier; ID is the off-chain record
// key (acknowledgement endpoints address records by ID, cancellation
// addresses them by JobID since callers may only know the ledger
// identifier).
type JobRecord struct {
	ID             int64  `db:"id" json:"record_id"`
	JobID          int64  `db:"job_id" json:"job_id"`
	WorkerWallet   string `db:"worker_wallet" json:"worker_wallet"`
	EmployerWallet string `db:"employer_wallet" json:"employer_wallet"`
	EmployerEmail  string `db:"employer_email" json:"employer_email"`
	EmployerID     int64  `db:"employer_id" json:"-"`
	WorkerID       int64  `db:"worker_id" json:"-"`
	JobDesc        string `db:"job_desc" json:"job_desc"`
	ContentRef     string `db:"content_ref" json:"content_ref"`
	TxHash         string `db:"tx_hash" json:"tx_hash"`
	AmountEth      string `db:"amount_eth" json:"amount_eth"`
	AmountWei      string `db:"amount_wei" json:"amount_wei"`

	StartDate *time.Time `db:"start_date" json:"start_date,omitempty"`
	Status    Status     `db:"status" json:"status"`

	EmployerAcknowledged bool `db:"employer_acknowledged" json:"employer_acknowledged"`
	WorkerAcknowledged   bool `db:"worker_acknowledged" json:"worker_acknowledged"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	// Display expansions resolved at query time.
	WorkerName   string `db:"worker_name" json:"worker_name,omitempty"`
	EmployerName string `db:"employer_name" json:"employer_name,omitempty"`
}

// StagingPayload is the metadata uploaded to the content store before
// the ledger transaction is submitted. The caller includes ContentRef
// and JobID in the transaction payload.
type StagingPayload struct {
	JobID          int64  `json:"job_id"`
	WorkerWallet   string `json:"worker_wallet"`
	EmployerWallet string `json:"employer_wallet"`
	JobDesc        string `json:"job_desc"`
	StartDate      string `json:"start_date,omitempty"`
	AmountEth      string `json:"amount_eth"`
	AmountWei      string `json:"amount_wei"`
	CreatedAt      string `json:"created_at"`
}

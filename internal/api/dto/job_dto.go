package dto

import "github.com/hirelink/hirelink-be/internal/hiring/domain"

// StageJobRequest stages job metadata ahead of the ledger
// transaction.
type StageJobRequest struct {
	WorkerWallet   string `json:"worker_wallet" binding:"required"`
	EmployerWallet string `json:"employer_wallet" binding:"required"`
	JobDesc        string `json:"job_desc" binding:"required"`
	StartDate      string `json:"start_date"`
	AmountEth      string `json:"amount_eth"`
	AmountWei      string `json:"amount_wei"`
}

// StageJobResponse returns the candidate identifier and the content
// reference for the ledger transaction payload.
type StageJobResponse struct {
	JobID      int64  `json:"job_id"`
	ContentRef string `json:"content_ref"`
}

// CommitJobRequest reports a settled ledger transaction.
type CommitJobRequest struct {
	JobID          int64  `json:"job_id" binding:"required"`
	EmployerEmail  string `json:"employer_email" binding:"required"`
	WorkerWallet   string `json:"worker_wallet" binding:"required"`
	EmployerWallet string `json:"employer_wallet" binding:"required"`
	JobDesc        string `json:"job_desc"`
	ContentRef     string `json:"content_ref"`
	TxHash         string `json:"tx_hash" binding:"required"`
	AmountEth      string `json:"amount_eth"`
	AmountWei      string `json:"amount_wei"`
	StartDate      string `json:"start_date"`
}

// ListJobsRequest narrows the admin job listing.
type ListJobsRequest struct {
	Status   string `form:"status"`
	PageSize int    `form:"page_size"`
	Cursor   string `form:"cursor"`
}

// ListJobsResponse is a page of job records.
type ListJobsResponse struct {
	Jobs       []domain.JobRecord `json:"jobs"`
	NextCursor string             `json:"next_cursor,omitempty"`
}

// JobsResponse wraps a complete (unpaginated) job listing.
type JobsResponse struct {
	Jobs []domain.JobRecord `json:"jobs"`
}

// ErrorResponse is the uniform failure body. Detail carries audit
// context such as expected vs observed employer addresses.
type ErrorResponse struct {
	Error  string            `json:"error"`
	Kind   string            `json:"kind"`
	Detail map[string]string `json:"detail,omitempty"`
}

package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/hirelink/hirelink-be/internal/hiring/domain"
)

// CommitParams reports a settled ledger transaction back to the
// engine.
type CommitParams struct {
	JobID          int64
	EmployerEmail  string
	WorkerWallet   string
	EmployerWallet string
	JobDesc        string
	ContentRef     string
	TxHash         string
	AmountEth      string
	AmountWei      string
	StartDate      *time.Time
}

// Commit confirms a staged job against the ledger and persists it.
//
// The ledger cross-check in the middle is the consistency gate: the
// employer address the contract recorded for this job id must equal
// the one the caller claims, otherwise nothing is written. The insert
// and the availability flip run in one store transaction; a retried
// commit with the same settlement hash hits the uniqueness constraint
// and surfaces a Conflict instead of a second record.
func (e *Engine) Commit(ctx context.Context, params CommitParams) (*domain.JobRecord, error) {
	if params.JobID <= 0 {
		return nil, domain.Invalidf("job id is required")
	}

	workerWallet, err := domain.NormalizeWallet(params.WorkerWallet)
	if err != nil {
		return nil, err
	}
	employerWallet, err := domain.NormalizeWallet(params.EmployerWallet)
	if err != nil {
		return nil, err
	}
	email, err := domain.NormalizeEmail(params.EmployerEmail)
	if err != nil {
		return nil, err
	}
	txHash, err := domain.NormalizeTxHash(params.TxHash)
	if err != nil {
		return nil, err
	}

	employer, err := e.store.FindEmployerByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	worker, err := e.store.FindWorkerByWallet(ctx, workerWallet)
	if err != nil {
		return nil, err
	}

	ledgerEmployer, err := e.ledger.EmployerForJob(ctx, params.JobID)
	if err != nil {
		return nil, err
	}

	if ledgerEmployer != employerWallet {
		e.logger.Warn("Employer wallet mismatch against ledger",
			slog.Int64("job_id", params.JobID),
			slog.String("ledger_wallet", ledgerEmployer),
			slog.String("claimed_wallet", employerWallet),
		)
		return nil, domain.Mismatch(
			"employer wallet does not match ledger record",
			ledgerEmployer,
			employerWallet,
		)
	}

	job := &domain.JobRecord{
		JobID:          params.JobID,
		WorkerWallet:   workerWallet,
		EmployerWallet: employerWallet,
		EmployerEmail:  email,
		EmployerID:     employer.ID,
		WorkerID:       worker.ID,
		JobDesc:        params.JobDesc,
		ContentRef:     params.ContentRef,
		TxHash:         txHash,
		AmountEth:      defaultAmount(params.AmountEth),
		AmountWei:      defaultAmount(params.AmountWei),
		StartDate:      params.StartDate,
		Status:         domain.StatusActive,
	}

	if err := e.store.CreateJobHiringWorker(ctx, job); err != nil {
		return nil, err
	}

	e.notifyReconciler(ctx, workerWallet)

	// Expand identity references for display.
	job.WorkerName = worker.FullName
	job.EmployerName = employer.FullName

	return job, nil
}

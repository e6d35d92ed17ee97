package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hirelink/hirelink-be/internal/hiring/domain"
)

// AllocateJobID proposes the next candidate job identifier. The
// ledger assigns the authoritative identifier later; unused candidates
// are a tolerated gap.
func (e *Engine) AllocateJobID(ctx context.Context) (int64, error) {
	return e.store.NextJobID(ctx)
}

// StageParams is the caller-supplied metadata staged before the
// ledger transaction is submitted.
type StageParams struct {
	WorkerWallet   string
	EmployerWallet string
	JobDesc        string
	StartDate      string
	AmountEth      string
	AmountWei      string
}

// StageResult is returned to the caller for inclusion in the ledger
// transaction payload.
type StageResult struct {
	JobID      int64  `json:"job_id"`
	ContentRef string `json:"content_ref"`
}

// Stage allocates a job identifier and uploads the staged metadata to
// the content store. It deliberately performs no availability check:
// the caller may abandon staging without ever submitting a
// transaction, so availability is enforced only at commit.
func (e *Engine) Stage(ctx context.Context, params StageParams) (*StageResult, error) {
	workerWallet, err := domain.NormalizeWallet(params.WorkerWallet)
	if err != nil {
		return nil, err
	}
	employerWallet, err := domain.NormalizeWallet(params.EmployerWallet)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(params.JobDesc) == "" {
		return nil, domain.Invalidf("job description is required")
	}

	jobID, err := e.store.NextJobID(ctx)
	if err != nil {
		return nil, err
	}

	payload := domain.StagingPayload{
		JobID:          jobID,
		WorkerWallet:   workerWallet,
		EmployerWallet: employerWallet,
		JobDesc:        params.JobDesc,
		StartDate:      params.StartDate,
		AmountEth:      defaultAmount(params.AmountEth),
		AmountWei:      defaultAmount(params.AmountWei),
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	}

	key := fmt.Sprintf("jobs/%d/%s.json", jobID, uuid.New().String())
	ref, err := e.content.PutJSON(ctx, key, payload)
	if err != nil {
		return nil, domain.Unavailable("failed to stage job metadata", err)
	}

	e.logger.Info("Job staged",
		slog.Int64("job_id", jobID),
		slog.String("content_ref", ref),
		slog.String("worker_wallet", workerWallet),
	)

	return &StageResult{JobID: jobID, ContentRef: ref}, nil
}

func defaultAmount(amount string) string {
	if strings.TrimSpace(amount) == "" {
		return "0"
	}
	return amount
}

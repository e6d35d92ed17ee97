package engine

import (
	"context"
	"log/slog"

	"github.com/hirelink/hirelink-be/internal/hiring/domain"
)

// SweepReport summarizes a reconciliation pass.
type SweepReport struct {
	Checked  int `json:"checked"`
	Released int `json:"released"`
	Rehired  int `json:"rehired"`
}

// Sweep cross-checks worker availability against Active job records
// and repairs drift in both directions. Commit writes both entities in
// one transaction, so drift normally means an out-of-band write or a
// failure mode outside this engine; the sweep is the documented repair
// path either way.
func (e *Engine) Sweep(ctx context.Context) (*SweepReport, error) {
	report := &SweepReport{}

	stale, err := e.store.ListHiredWorkersWithoutActiveJob(ctx)
	if err != nil {
		return nil, err
	}
	report.Checked += len(stale)

	for _, worker := range stale {
		if err := e.store.ReleaseWorker(ctx, worker.ID); err != nil {
			return report, err
		}
		report.Released++
		e.logger.Warn("Sweep released worker with no active job",
			slog.String("wallet", worker.Wallet),
			slog.Int64("worker_id", worker.ID),
		)
	}

	orphaned, err := e.store.ListActiveJobsWithFreeWorker(ctx)
	if err != nil {
		return nil, err
	}
	report.Checked += len(orphaned)

	for _, job := range orphaned {
		if err := e.store.HireWorker(ctx, job.WorkerID, job.EmployerID); err != nil {
			return report, err
		}
		report.Rehired++
		e.logger.Warn("Sweep re-marked worker hired for active job",
			slog.Int64("job_id", job.JobID),
			slog.String("wallet", job.WorkerWallet),
		)
	}

	return report, nil
}

// SweepWorker reconciles a single worker, used by the reconciler
// service when a lifecycle event names the worker it touched.
func (e *Engine) SweepWorker(ctx context.Context, wallet string) error {
	wallet, err := domain.NormalizeWallet(wallet)
	if err != nil {
		return err
	}

	worker, err := e.store.FindWorkerByWallet(ctx, wallet)
	if err != nil {
		return err
	}

	active, err := e.store.GetActiveJobForWorker(ctx, worker.ID)
	if err != nil {
		return err
	}

	switch {
	case active == nil && worker.Status == domain.AvailabilityHired:
		e.logger.Warn("Releasing worker with no active job",
			slog.String("wallet", wallet),
		)
		return e.store.ReleaseWorker(ctx, worker.ID)

	case active != nil && worker.Status != domain.AvailabilityHired:
		e.logger.Warn("Re-marking worker hired for active job",
			slog.String("wallet", wallet),
			slog.Int64("job_id", active.JobID),
		)
		return e.store.HireWorker(ctx, worker.ID, active.EmployerID)
	}

	return nil
}

package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hirelink/hirelink-be/internal/hiring/domain"
	"github.com/hirelink/hirelink-be/internal/hiring/storage"
)

const (
	workerWallet   = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	employerWallet = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	otherWallet    = "0xcccccccccccccccccccccccccccccccccccccccc"
	employerEmail  = "employer@example.com"
)

var settlementTx = "0xab" + strings.Repeat("cd", 31)

// fakeStore is an in-memory Store with the same failure semantics as
// the PostgreSQL implementation.
type fakeStore struct {
	seq       int64
	workers   map[string]*domain.Worker
	employers map[string]*domain.Employer
	jobs      []*domain.JobRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		workers:   make(map[string]*domain.Worker),
		employers: make(map[string]*domain.Employer),
	}
}

func (s *fakeStore) addWorker(wallet string) *domain.Worker {
	w := &domain.Worker{
		ID:     int64(len(s.workers) + 1),
		Wallet: wallet,
		Status: domain.AvailabilityFree,
	}
	w.FullName = fmt.Sprintf("Worker %d", w.ID)
	s.workers[wallet] = w
	return w
}

func (s *fakeStore) addEmployer(email string) *domain.Employer {
	e := &domain.Employer{
		ID:    int64(len(s.employers) + 1),
		Email: email,
	}
	e.FullName = fmt.Sprintf("Employer %d", e.ID)
	s.employers[email] = e
	return e
}

func (s *fakeStore) workerByID(id int64) *domain.Worker {
	for _, w := range s.workers {
		if w.ID == id {
			return w
		}
	}
	return nil
}

func (s *fakeStore) jobByRecordID(id int64) *domain.JobRecord {
	for _, j := range s.jobs {
		if j.ID == id {
			return j
		}
	}
	return nil
}

func (s *fakeStore) jobByJobID(jobID int64) *domain.JobRecord {
	for _, j := range s.jobs {
		if j.JobID == jobID {
			return j
		}
	}
	return nil
}

func (s *fakeStore) NextJobID(ctx context.Context) (int64, error) {
	s.seq++
	return s.seq, nil
}

func (s *fakeStore) FindEmployerByEmail(ctx context.Context, email string) (*domain.Employer, error) {
	if e, ok := s.employers[email]; ok {
		return e, nil
	}
	return nil, domain.NotFoundf("no employer registered for email %q", email)
}

func (s *fakeStore) FindWorkerByWallet(ctx context.Context, wallet string) (*domain.Worker, error) {
	if w, ok := s.workers[wallet]; ok {
		return w, nil
	}
	return nil, domain.NotFoundf("no worker registered for wallet %q", wallet)
}

func (s *fakeStore) GetWorkerProfile(ctx context.Context, wallet string) (*domain.Worker, error) {
	return s.FindWorkerByWallet(ctx, wallet)
}

func (s *fakeStore) CreateJobHiringWorker(ctx context.Context, job *domain.JobRecord) error {
	for _, existing := range s.jobs {
		if existing.TxHash == job.TxHash {
			return domain.Conflictf("job already recorded for transaction %s", job.TxHash)
		}
		if existing.JobID == job.JobID {
			return domain.Conflictf("job %d already recorded", job.JobID)
		}
		if existing.WorkerID == job.WorkerID && existing.Status == domain.StatusActive {
			return domain.Conflictf("an active job for worker %s already recorded", job.WorkerWallet)
		}
	}

	// Same gate as the store's conditional availability update: the
	// flip only applies to a free worker.
	if s.workerByID(job.WorkerID).Status != domain.AvailabilityFree {
		return domain.Conflictf("worker %s is already hired", job.WorkerWallet)
	}

	job.ID = int64(len(s.jobs) + 1)
	job.CreatedAt = time.Now()
	job.UpdatedAt = job.CreatedAt
	s.jobs = append(s.jobs, job)

	worker := s.workerByID(job.WorkerID)
	worker.Status = domain.AvailabilityHired
	employerID := job.EmployerID
	worker.HiredBy = &employerID

	return nil
}

func (s *fakeStore) GetJobByJobID(ctx context.Context, jobID int64) (*domain.JobRecord, error) {
	if j := s.jobByJobID(jobID); j != nil {
		return j, nil
	}
	return nil, domain.NotFoundf("job %d not found", jobID)
}

func (s *fakeStore) GetJobByRecordID(ctx context.Context, recordID int64) (*domain.JobRecord, error) {
	if j := s.jobByRecordID(recordID); j != nil {
		return j, nil
	}
	return nil, domain.NotFoundf("job record %d not found", recordID)
}

func (s *fakeStore) MarkEmployerAcknowledged(ctx context.Context, recordID int64) (*domain.JobRecord, error) {
	j := s.jobByRecordID(recordID)
	if j == nil {
		return nil, domain.NotFoundf("job record %d not found", recordID)
	}
	j.EmployerAcknowledged = true
	return j, nil
}

func (s *fakeStore) ConfirmAndRelease(ctx context.Context, recordID int64) (*domain.JobRecord, error) {
	j := s.jobByRecordID(recordID)
	if j == nil {
		return nil, domain.NotFoundf("job record %d not found", recordID)
	}
	return s.transition(j, domain.StatusPaid)
}

func (s *fakeStore) CancelAndRelease(ctx context.Context, jobID int64) (*domain.JobRecord, error) {
	j := s.jobByJobID(jobID)
	if j == nil {
		return nil, domain.NotFoundf("job %d not found", jobID)
	}
	return s.transition(j, domain.StatusCancelled)
}

func (s *fakeStore) transition(j *domain.JobRecord, target domain.Status) (*domain.JobRecord, error) {
	if !j.Status.CanTransition(target) {
		return nil, domain.Conflictf("cannot transition job from %s to %s", j.Status, target)
	}
	j.Status = target
	if target == domain.StatusPaid {
		j.WorkerAcknowledged = true
	}

	worker := s.workerByID(j.WorkerID)
	worker.Status = domain.AvailabilityFree
	worker.HiredBy = nil

	return j, nil
}

func (s *fakeStore) ListJobsByWorkerWallet(ctx context.Context, wallet string) ([]domain.JobRecord, error) {
	out := []domain.JobRecord{}
	for _, j := range s.jobs {
		if j.WorkerWallet == wallet {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (s *fakeStore) ListJobsByEmployerWallet(ctx context.Context, wallet string) ([]domain.JobRecord, error) {
	out := []domain.JobRecord{}
	for _, j := range s.jobs {
		if j.EmployerWallet == wallet {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (s *fakeStore) ListJobs(ctx context.Context, filter storage.JobFilter) ([]domain.JobRecord, error) {
	out := []domain.JobRecord{}
	for _, j := range s.jobs {
		if filter.Status != "" && string(j.Status) != filter.Status {
			continue
		}
		out = append(out, *j)
	}
	return out, nil
}

func (s *fakeStore) ListHiredWorkersWithoutActiveJob(ctx context.Context) ([]domain.Worker, error) {
	out := []domain.Worker{}
	for _, w := range s.workers {
		if w.Status != domain.AvailabilityHired {
			continue
		}
		if active, _ := s.GetActiveJobForWorker(ctx, w.ID); active == nil {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (s *fakeStore) ListActiveJobsWithFreeWorker(ctx context.Context) ([]domain.JobRecord, error) {
	out := []domain.JobRecord{}
	for _, j := range s.jobs {
		if j.Status != domain.StatusActive {
			continue
		}
		if w := s.workerByID(j.WorkerID); w != nil && w.Status != domain.AvailabilityHired {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (s *fakeStore) GetActiveJobForWorker(ctx context.Context, workerID int64) (*domain.JobRecord, error) {
	for _, j := range s.jobs {
		if j.WorkerID == workerID && j.Status == domain.StatusActive {
			return j, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) HireWorker(ctx context.Context, workerID, employerID int64) error {
	w := s.workerByID(workerID)
	w.Status = domain.AvailabilityHired
	w.HiredBy = &employerID
	return nil
}

func (s *fakeStore) ReleaseWorker(ctx context.Context, workerID int64) error {
	w := s.workerByID(workerID)
	w.Status = domain.AvailabilityFree
	w.HiredBy = nil
	return nil
}

type fakeLedger struct {
	employers map[int64]string
	err       error
}

func (l *fakeLedger) EmployerForJob(ctx context.Context, jobID int64) (string, error) {
	if l.err != nil {
		return "", l.err
	}
	if employer, ok := l.employers[jobID]; ok {
		return employer, nil
	}
	return "", domain.NotFoundf("ledger has no job %d", jobID)
}

type fakeContent struct {
	keys []string
	last any
	err  error
}

func (c *fakeContent) PutJSON(ctx context.Context, key string, payload any) (string, error) {
	if c.err != nil {
		return "", c.err
	}
	c.keys = append(c.keys, key)
	c.last = payload
	return key, nil
}

type fakePublisher struct {
	wallets []string
}

func (p *fakePublisher) PublishReconcileCheck(ctx context.Context, wallet string) error {
	p.wallets = append(p.wallets, wallet)
	return nil
}

type harness struct {
	store     *fakeStore
	ledger    *fakeLedger
	content   *fakeContent
	publisher *fakePublisher
	engine    *Engine
}

func newHarness() *harness {
	store := newFakeStore()
	ledger := &fakeLedger{employers: make(map[int64]string)}
	content := &fakeContent{}
	publisher := &fakePublisher{}

	return &harness{
		store:     store,
		ledger:    ledger,
		content:   content,
		publisher: publisher,
		engine:    New(store, ledger, content, publisher, slog.Default()),
	}
}

// commitActiveJob is the canonical happy path reused by transition
// tests.
func (h *harness) commitActiveJob(t *testing.T, jobID int64, txHash string) *domain.JobRecord {
	t.Helper()

	h.ledger.employers[jobID] = employerWallet
	job, err := h.engine.Commit(context.Background(), CommitParams{
		JobID:          jobID,
		EmployerEmail:  employerEmail,
		WorkerWallet:   workerWallet,
		EmployerWallet: employerWallet,
		JobDesc:        "apartment deep clean",
		TxHash:         txHash,
		AmountEth:      "0.5",
	})
	require.NoError(t, err)
	return job
}

func TestAllocateJobID(t *testing.T) {
	h := newHarness()
	ctx := context.Background()

	first, err := h.engine.AllocateJobID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)

	second, err := h.engine.AllocateJobID(ctx)
	require.NoError(t, err)
	assert.Greater(t, second, first)
}

func TestStage(t *testing.T) {
	t.Run("uploads payload and returns candidate id", func(t *testing.T) {
		h := newHarness()

		result, err := h.engine.Stage(context.Background(), StageParams{
			WorkerWallet:   strings.ToUpper(workerWallet[2:]), // missing 0x
			EmployerWallet: employerWallet,
			JobDesc:        "garden maintenance",
		})
		assert.Error(t, err)
		assert.Nil(t, result)

		result, err = h.engine.Stage(context.Background(), StageParams{
			WorkerWallet:   "0x" + strings.ToUpper(workerWallet[2:]),
			EmployerWallet: employerWallet,
			JobDesc:        "garden maintenance",
			AmountEth:      "",
			AmountWei:      "",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), result.JobID)
		assert.Equal(t, result.ContentRef, h.content.keys[0])
		assert.True(t, strings.HasPrefix(result.ContentRef, "jobs/1/"))

		payload, ok := h.content.last.(domain.StagingPayload)
		require.True(t, ok)
		assert.Equal(t, int64(1), payload.JobID)
		assert.Equal(t, workerWallet, payload.WorkerWallet)
		assert.Equal(t, "0", payload.AmountEth)
		assert.Equal(t, "0", payload.AmountWei)
	})

	t.Run("requires a job description", func(t *testing.T) {
		h := newHarness()

		_, err := h.engine.Stage(context.Background(), StageParams{
			WorkerWallet:   workerWallet,
			EmployerWallet: employerWallet,
			JobDesc:        "   ",
		})
		assert.Equal(t, domain.KindInvalid, domain.KindOf(err))
	})

	t.Run("content store failure surfaces as unavailable", func(t *testing.T) {
		h := newHarness()
		h.content.err = fmt.Errorf("connection refused")

		_, err := h.engine.Stage(context.Background(), StageParams{
			WorkerWallet:   workerWallet,
			EmployerWallet: employerWallet,
			JobDesc:        "garden maintenance",
		})
		assert.Equal(t, domain.KindUnavailable, domain.KindOf(err))
	})
}

func TestCommit(t *testing.T) {
	ctx := context.Background()

	t.Run("records the hire and marks the worker hired", func(t *testing.T) {
		h := newHarness()
		employer := h.store.addEmployer(employerEmail)
		worker := h.store.addWorker(workerWallet)
		h.ledger.employers[7] = employerWallet

		job, err := h.engine.Commit(ctx, CommitParams{
			JobID:          7,
			EmployerEmail:  "Employer@Example.COM",
			WorkerWallet:   "0x" + strings.ToUpper(workerWallet[2:]),
			EmployerWallet: employerWallet,
			JobDesc:        "apartment deep clean",
			TxHash:         "0x" + strings.ToUpper(settlementTx[2:8]) + settlementTx[8:],
			AmountEth:      "0.5",
		})
		require.NoError(t, err)

		assert.Equal(t, int64(7), job.JobID)
		assert.Equal(t, domain.StatusActive, job.Status)
		assert.Equal(t, workerWallet, job.WorkerWallet)
		assert.Equal(t, employerEmail, job.EmployerEmail)
		assert.Equal(t, settlementTx, job.TxHash)
		assert.Equal(t, worker.FullName, job.WorkerName)
		assert.Equal(t, employer.FullName, job.EmployerName)

		assert.Equal(t, domain.AvailabilityHired, worker.Status)
		require.NotNil(t, worker.HiredBy)
		assert.Equal(t, employer.ID, *worker.HiredBy)

		assert.Equal(t, []string{workerWallet}, h.publisher.wallets)
	})

	t.Run("duplicate settlement hash is a conflict", func(t *testing.T) {
		h := newHarness()
		h.store.addEmployer(employerEmail)
		h.store.addWorker(workerWallet)
		h.commitActiveJob(t, 7, settlementTx)

		h.ledger.employers[8] = employerWallet
		_, err := h.engine.Commit(ctx, CommitParams{
			JobID:          8,
			EmployerEmail:  employerEmail,
			WorkerWallet:   workerWallet,
			EmployerWallet: employerWallet,
			TxHash:         settlementTx,
		})
		assert.Equal(t, domain.KindConflict, domain.KindOf(err))
		assert.Len(t, h.store.jobs, 1)
	})

	t.Run("second commit for a hired worker is a conflict", func(t *testing.T) {
		h := newHarness()
		employer := h.store.addEmployer(employerEmail)
		worker := h.store.addWorker(workerWallet)
		h.commitActiveJob(t, 7, settlementTx)

		h.ledger.employers[8] = employerWallet
		_, err := h.engine.Commit(ctx, CommitParams{
			JobID:          8,
			EmployerEmail:  employerEmail,
			WorkerWallet:   workerWallet,
			EmployerWallet: employerWallet,
			TxHash:         "0xef" + strings.Repeat("01", 31),
		})
		assert.Equal(t, domain.KindConflict, domain.KindOf(err))

		// The worker still holds exactly one Active job and stays hired
		// by the original employer.
		assert.Len(t, h.store.jobs, 1)
		assert.Equal(t, domain.AvailabilityHired, worker.Status)
		require.NotNil(t, worker.HiredBy)
		assert.Equal(t, employer.ID, *worker.HiredBy)
	})

	t.Run("worker can be hired again after settlement", func(t *testing.T) {
		h := newHarness()
		h.store.addEmployer(employerEmail)
		worker := h.store.addWorker(workerWallet)
		job := h.commitActiveJob(t, 7, settlementTx)

		_, err := h.engine.ConfirmByWorker(ctx, job.ID)
		require.NoError(t, err)

		next := h.commitActiveJob(t, 8, "0xef"+strings.Repeat("01", 31))
		assert.Equal(t, domain.StatusActive, next.Status)
		assert.Equal(t, domain.AvailabilityHired, worker.Status)
	})

	t.Run("ledger employer mismatch writes nothing", func(t *testing.T) {
		h := newHarness()
		h.store.addEmployer(employerEmail)
		worker := h.store.addWorker(workerWallet)
		h.ledger.employers[7] = otherWallet

		_, err := h.engine.Commit(ctx, CommitParams{
			JobID:          7,
			EmployerEmail:  employerEmail,
			WorkerWallet:   workerWallet,
			EmployerWallet: employerWallet,
			TxHash:         settlementTx,
		})
		assert.Equal(t, domain.KindMismatch, domain.KindOf(err))

		detail := domain.DetailOf(err)
		require.NotNil(t, detail)
		assert.Equal(t, otherWallet, detail["expected"])
		assert.Equal(t, employerWallet, detail["observed"])

		assert.Empty(t, h.store.jobs)
		assert.Equal(t, domain.AvailabilityFree, worker.Status)
		assert.Empty(t, h.publisher.wallets)
	})

	t.Run("unknown employer email", func(t *testing.T) {
		h := newHarness()
		h.store.addWorker(workerWallet)
		h.ledger.employers[7] = employerWallet

		_, err := h.engine.Commit(ctx, CommitParams{
			JobID:          7,
			EmployerEmail:  "nobody@example.com",
			WorkerWallet:   workerWallet,
			EmployerWallet: employerWallet,
			TxHash:         settlementTx,
		})
		assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	})

	t.Run("malformed settlement hash", func(t *testing.T) {
		h := newHarness()
		h.store.addEmployer(employerEmail)
		h.store.addWorker(workerWallet)

		_, err := h.engine.Commit(ctx, CommitParams{
			JobID:          7,
			EmployerEmail:  employerEmail,
			WorkerWallet:   workerWallet,
			EmployerWallet: employerWallet,
			TxHash:         "0xnothex",
		})
		assert.Equal(t, domain.KindInvalid, domain.KindOf(err))
	})

	t.Run("ledger outage is retryable", func(t *testing.T) {
		h := newHarness()
		h.store.addEmployer(employerEmail)
		h.store.addWorker(workerWallet)
		h.ledger.err = domain.Unavailable("ledger unreachable after 3 attempts", nil)

		_, err := h.engine.Commit(ctx, CommitParams{
			JobID:          7,
			EmployerEmail:  employerEmail,
			WorkerWallet:   workerWallet,
			EmployerWallet: employerWallet,
			TxHash:         settlementTx,
		})
		assert.Equal(t, domain.KindUnavailable, domain.KindOf(err))
		assert.Empty(t, h.store.jobs)
	})
}

func TestAcknowledgeByEmployer(t *testing.T) {
	h := newHarness()
	h.store.addEmployer(employerEmail)
	h.store.addWorker(workerWallet)
	job := h.commitActiveJob(t, 7, settlementTx)

	updated, err := h.engine.AcknowledgeByEmployer(context.Background(), job.ID)
	require.NoError(t, err)
	assert.True(t, updated.EmployerAcknowledged)
	assert.Equal(t, domain.StatusActive, updated.Status)

	// Idempotent: a second acknowledgement changes nothing.
	again, err := h.engine.AcknowledgeByEmployer(context.Background(), job.ID)
	require.NoError(t, err)
	assert.True(t, again.EmployerAcknowledged)

	_, err = h.engine.AcknowledgeByEmployer(context.Background(), 999)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
}

func TestConfirmByWorker(t *testing.T) {
	ctx := context.Background()

	t.Run("settles the job and frees the worker", func(t *testing.T) {
		h := newHarness()
		h.store.addEmployer(employerEmail)
		worker := h.store.addWorker(workerWallet)
		job := h.commitActiveJob(t, 7, settlementTx)

		settled, err := h.engine.ConfirmByWorker(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPaid, settled.Status)
		assert.True(t, settled.WorkerAcknowledged)

		assert.Equal(t, domain.AvailabilityFree, worker.Status)
		assert.Nil(t, worker.HiredBy)

		// One event for the commit, one for the confirmation.
		assert.Equal(t, []string{workerWallet, workerWallet}, h.publisher.wallets)
	})

	t.Run("confirming a settled job is a conflict", func(t *testing.T) {
		h := newHarness()
		h.store.addEmployer(employerEmail)
		worker := h.store.addWorker(workerWallet)
		job := h.commitActiveJob(t, 7, settlementTx)

		_, err := h.engine.ConfirmByWorker(ctx, job.ID)
		require.NoError(t, err)

		_, err = h.engine.ConfirmByWorker(ctx, job.ID)
		assert.Equal(t, domain.KindConflict, domain.KindOf(err))
		assert.Equal(t, domain.AvailabilityFree, worker.Status)
	})

	t.Run("unknown record", func(t *testing.T) {
		h := newHarness()

		_, err := h.engine.ConfirmByWorker(ctx, 42)
		assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	})
}

func TestCancel(t *testing.T) {
	ctx := context.Background()

	t.Run("aborts an active job and frees the worker", func(t *testing.T) {
		h := newHarness()
		h.store.addEmployer(employerEmail)
		worker := h.store.addWorker(workerWallet)
		job := h.commitActiveJob(t, 7, settlementTx)

		cancelled, err := h.engine.Cancel(ctx, job.JobID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, cancelled.Status)
		assert.Equal(t, domain.AvailabilityFree, worker.Status)
		assert.Nil(t, worker.HiredBy)
	})

	t.Run("confirming after cancellation is a conflict", func(t *testing.T) {
		h := newHarness()
		h.store.addEmployer(employerEmail)
		worker := h.store.addWorker(workerWallet)
		job := h.commitActiveJob(t, 7, settlementTx)

		_, err := h.engine.Cancel(ctx, job.JobID)
		require.NoError(t, err)

		_, err = h.engine.ConfirmByWorker(ctx, job.ID)
		assert.Equal(t, domain.KindConflict, domain.KindOf(err))

		got, err := h.engine.GetJob(ctx, job.JobID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, got.Status)
		assert.Equal(t, domain.AvailabilityFree, worker.Status)
	})

	t.Run("cancelling twice is a conflict", func(t *testing.T) {
		h := newHarness()
		h.store.addEmployer(employerEmail)
		h.store.addWorker(workerWallet)
		job := h.commitActiveJob(t, 7, settlementTx)

		_, err := h.engine.Cancel(ctx, job.JobID)
		require.NoError(t, err)

		_, err = h.engine.Cancel(ctx, job.JobID)
		assert.Equal(t, domain.KindConflict, domain.KindOf(err))
	})

	t.Run("unknown ledger id", func(t *testing.T) {
		h := newHarness()

		_, err := h.engine.Cancel(ctx, 404)
		assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	})
}

func TestSweep(t *testing.T) {
	ctx := context.Background()

	t.Run("releases hired workers with no active job", func(t *testing.T) {
		h := newHarness()
		employer := h.store.addEmployer(employerEmail)
		worker := h.store.addWorker(workerWallet)
		worker.Status = domain.AvailabilityHired
		worker.HiredBy = &employer.ID

		report, err := h.engine.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, report.Released)
		assert.Equal(t, 0, report.Rehired)
		assert.Equal(t, domain.AvailabilityFree, worker.Status)
		assert.Nil(t, worker.HiredBy)
	})

	t.Run("re-marks free workers referenced by an active job", func(t *testing.T) {
		h := newHarness()
		employer := h.store.addEmployer(employerEmail)
		worker := h.store.addWorker(workerWallet)
		h.commitActiveJob(t, 7, settlementTx)

		// Simulate an out-of-band write clobbering availability.
		worker.Status = domain.AvailabilityFree
		worker.HiredBy = nil

		report, err := h.engine.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Released)
		assert.Equal(t, 1, report.Rehired)
		assert.Equal(t, domain.AvailabilityHired, worker.Status)
		require.NotNil(t, worker.HiredBy)
		assert.Equal(t, employer.ID, *worker.HiredBy)
	})

	t.Run("consistent state is untouched", func(t *testing.T) {
		h := newHarness()
		h.store.addEmployer(employerEmail)
		h.store.addWorker(workerWallet)
		h.commitActiveJob(t, 7, settlementTx)

		report, err := h.engine.Sweep(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Released)
		assert.Equal(t, 0, report.Rehired)
	})
}

func TestSweepWorker(t *testing.T) {
	ctx := context.Background()

	t.Run("releases a stale hired flag", func(t *testing.T) {
		h := newHarness()
		employer := h.store.addEmployer(employerEmail)
		worker := h.store.addWorker(workerWallet)
		worker.Status = domain.AvailabilityHired
		worker.HiredBy = &employer.ID

		require.NoError(t, h.engine.SweepWorker(ctx, workerWallet))
		assert.Equal(t, domain.AvailabilityFree, worker.Status)
	})

	t.Run("restores the hired flag for an active job", func(t *testing.T) {
		h := newHarness()
		h.store.addEmployer(employerEmail)
		worker := h.store.addWorker(workerWallet)
		h.commitActiveJob(t, 7, settlementTx)

		worker.Status = domain.AvailabilityFree
		worker.HiredBy = nil

		require.NoError(t, h.engine.SweepWorker(ctx, workerWallet))
		assert.Equal(t, domain.AvailabilityHired, worker.Status)
	})

	t.Run("unknown wallet", func(t *testing.T) {
		h := newHarness()

		err := h.engine.SweepWorker(ctx, otherWallet)
		assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	})
}

func TestQueries(t *testing.T) {
	ctx := context.Background()

	h := newHarness()
	h.store.addEmployer(employerEmail)
	h.store.addWorker(workerWallet)
	job := h.commitActiveJob(t, 7, settlementTx)

	t.Run("list by worker wallet normalizes case", func(t *testing.T) {
		jobs, err := h.engine.ListByWorker(ctx, "0x"+strings.ToUpper(workerWallet[2:]))
		require.NoError(t, err)
		require.Len(t, jobs, 1)
		assert.Equal(t, job.JobID, jobs[0].JobID)
	})

	t.Run("list by employer wallet", func(t *testing.T) {
		jobs, err := h.engine.ListByEmployer(ctx, employerWallet)
		require.NoError(t, err)
		assert.Len(t, jobs, 1)
	})

	t.Run("empty result is not a failure", func(t *testing.T) {
		jobs, err := h.engine.ListByWorker(ctx, otherWallet)
		require.NoError(t, err)
		assert.Empty(t, jobs)
	})

	t.Run("worker profile includes job history", func(t *testing.T) {
		profile, err := h.engine.GetWorkerProfile(ctx, workerWallet)
		require.NoError(t, err)
		assert.Equal(t, workerWallet, profile.Worker.Wallet)
		assert.Len(t, profile.Jobs, 1)
	})

	t.Run("admin listing filters by status", func(t *testing.T) {
		jobs, err := h.engine.ListAll(ctx, storage.JobFilter{Status: "Paid"})
		require.NoError(t, err)
		assert.Empty(t, jobs)

		jobs, err = h.engine.ListAll(ctx, storage.JobFilter{Status: "Active"})
		require.NoError(t, err)
		assert.Len(t, jobs, 1)
	})
}

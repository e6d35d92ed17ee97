package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hirelink/hirelink-be/internal/api/dto"
	"github.com/hirelink/hirelink-be/internal/hiring/domain"
	"github.com/hirelink/hirelink-be/internal/hiring/engine"
	"github.com/hirelink/hirelink-be/internal/hiring/storage"
)

// StageJob handles POST /api/v1/jobs/stage
// Allocates a job identifier and uploads the staged payload to the
// content store.
func (h *JobHandler) StageJob(c *gin.Context) {
	var req dto.StageJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	result, err := h.engine.Stage(c.Request.Context(), engine.StageParams{
		WorkerWallet:   req.WorkerWallet,
		EmployerWallet: req.EmployerWallet,
		JobDesc:        req.JobDesc,
		StartDate:      req.StartDate,
		AmountEth:      req.AmountEth,
		AmountWei:      req.AmountWei,
	})
	if err != nil {
		h.logger.Error("Failed to stage job", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StageJobResponse{
		JobID:      result.JobID,
		ContentRef: result.ContentRef,
	})
}

// CommitJob handles POST /api/v1/jobs/commit
// Verifies the settled transaction against the ledger and records the
// hire.
func (h *JobHandler) CommitJob(c *gin.Context) {
	var req dto.CommitJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	startDate, err := parseStartDate(req.StartDate)
	if err != nil {
		respondError(c, err)
		return
	}

	job, err := h.engine.Commit(c.Request.Context(), engine.CommitParams{
		JobID:          req.JobID,
		EmployerEmail:  req.EmployerEmail,
		WorkerWallet:   req.WorkerWallet,
		EmployerWallet: req.EmployerWallet,
		JobDesc:        req.JobDesc,
		ContentRef:     req.ContentRef,
		TxHash:         req.TxHash,
		AmountEth:      req.AmountEth,
		AmountWei:      req.AmountWei,
		StartDate:      startDate,
	})
	if err != nil {
		h.logger.Error("Failed to commit job",
			slog.Int64("job_id", req.JobID),
			slog.String("error", err.Error()),
		)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

// GetJob handles GET /api/v1/jobs/:job_id
func (h *JobHandler) GetJob(c *gin.Context) {
	jobID, ok := parseID(c, "job_id")
	if !ok {
		return
	}

	job, err := h.engine.GetJob(c.Request.Context(), jobID)
	if err != nil {
		h.logger.Error("Failed to get job",
			slog.Int64("job_id", jobID),
			slog.String("error", err.Error()),
		)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// CancelJob handles POST /api/v1/jobs/:job_id/cancel
// Cancels an active job and frees the worker.
func (h *JobHandler) CancelJob(c *gin.Context) {
	jobID, ok := parseID(c, "job_id")
	if !ok {
		return
	}

	h.logger.Info("CancelJob called", slog.Int64("job_id", jobID))

	job, err := h.engine.Cancel(c.Request.Context(), jobID)
	if err != nil {
		h.logger.Error("Failed to cancel job",
			slog.Int64("job_id", jobID),
			slog.String("error", err.Error()),
		)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// AcknowledgeJob handles POST /api/v1/records/:record_id/acknowledge
// Marks the employer side of completion.
func (h *JobHandler) AcknowledgeJob(c *gin.Context) {
	recordID, ok := parseID(c, "record_id")
	if !ok {
		return
	}

	job, err := h.engine.AcknowledgeByEmployer(c.Request.Context(), recordID)
	if err != nil {
		h.logger.Error("Failed to acknowledge job",
			slog.Int64("record_id", recordID),
			slog.String("error", err.Error()),
		)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// ConfirmJob handles POST /api/v1/records/:record_id/confirm
// Marks the worker side of completion, settles the job as Paid, and
// frees the worker.
func (h *JobHandler) ConfirmJob(c *gin.Context) {
	recordID, ok := parseID(c, "record_id")
	if !ok {
		return
	}

	h.logger.Info("ConfirmJob called", slog.Int64("record_id", recordID))

	job, err := h.engine.ConfirmByWorker(c.Request.Context(), recordID)
	if err != nil {
		h.logger.Error("Failed to confirm job",
			slog.Int64("record_id", recordID),
			slog.String("error", err.Error()),
		)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListWorkerJobs handles GET /api/v1/workers/:wallet/jobs
func (h *JobHandler) ListWorkerJobs(c *gin.Context) {
	jobs, err := h.engine.ListByWorker(c.Request.Context(), c.Param("wallet"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.JobsResponse{Jobs: jobs})
}

// ListEmployerJobs handles GET /api/v1/employers/:wallet/jobs
func (h *JobHandler) ListEmployerJobs(c *gin.Context) {
	jobs, err := h.engine.ListByEmployer(c.Request.Context(), c.Param("wallet"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.JobsResponse{Jobs: jobs})
}

// GetWorkerProfile handles GET /api/v1/workers/:wallet/profile
func (h *JobHandler) GetWorkerProfile(c *gin.Context) {
	profile, err := h.engine.GetWorkerProfile(c.Request.Context(), c.Param("wallet"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ListJobs handles GET /api/v1/jobs
// Lists jobs with optional status filtering and cursor pagination.
func (h *JobHandler) ListJobs(c *gin.Context) {
	var req dto.ListJobsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.logger.Error("Invalid query parameters", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}

	if req.PageSize <= 0 {
		req.PageSize = 20
	}

	if req.PageSize > 100 {
		req.PageSize = 100
	}

	cursor, err := DecodeJobCursor(req.Cursor)
	if err != nil {
		h.logger.Error("Invalid cursor", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid cursor",
		})
		return
	}

	filter := storage.JobFilter{
		Status:   req.Status,
		PageSize: req.PageSize,
		Cursor:   cursor,
	}

	jobs, err := h.engine.ListAll(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list jobs", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	hasMore := len(jobs) > req.PageSize
	if hasMore {
		jobs = jobs[:req.PageSize]
	}

	var nextCursor string
	if hasMore {
		last := jobs[len(jobs)-1]
		nextCursor = EncodeJobCursor(&storage.JobCursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}

	c.JSON(http.StatusOK, dto.ListJobsResponse{
		Jobs:       jobs,
		NextCursor: nextCursor,
	})
}

// RunSweep handles POST /api/v1/admin/sweep
// Runs a full reconciliation pass on demand.
func (h *JobHandler) RunSweep(c *gin.Context) {
	h.logger.Info("RunSweep called")

	report, err := h.engine.Sweep(c.Request.Context())
	if err != nil {
		h.logger.Error("Sweep failed", slog.String("error", err.Error()))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// parseID parses a positive int64 path parameter, responding 400 on
// failure.
func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": name + " must be a positive integer",
		})
		return 0, false
	}
	return id, true
}

// parseStartDate accepts RFC 3339 timestamps and bare dates.
func parseStartDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}

	return nil, domain.Invalidf("start_date must be RFC 3339 or YYYY-MM-DD")
}

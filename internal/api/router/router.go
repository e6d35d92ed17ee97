package router

import (
	"github.com/gin-gonic/gin"

	"github.com/hirelink/hirelink-be/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	healthHandler := handler.NewHealthHandler(deps)
	r.GET("/health", healthHandler.Health)

	jobHandler := handler.NewJobHandler(deps)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		jobs := v1.Group("/jobs")
		{
			// POST /api/v1/jobs/stage - Allocate a job id and stage the payload
			jobs.POST("/stage", jobHandler.StageJob)

			// POST /api/v1/jobs/commit - Record a settled hiring transaction
			jobs.POST("/commit", jobHandler.CommitJob)

			// GET /api/v1/jobs - List jobs with filtering and pagination
			jobs.GET("", jobHandler.ListJobs)

			// GET /api/v1/jobs/:job_id - Get a job by its ledger id
			jobs.GET("/:job_id", jobHandler.GetJob)

			// POST /api/v1/jobs/:job_id/cancel - Cancel an active job
			jobs.POST("/:job_id/cancel", jobHandler.CancelJob)
		}

		records := v1.Group("/records")
		{
			// POST /api/v1/records/:record_id/acknowledge - Employer marks completion
			records.POST("/:record_id/acknowledge", jobHandler.AcknowledgeJob)

			// POST /api/v1/records/:record_id/confirm - Worker confirms, job settles
			records.POST("/:record_id/confirm", jobHandler.ConfirmJob)
		}

		workers := v1.Group("/workers")
		{
			// GET /api/v1/workers/:wallet/jobs - Jobs where the wallet is the worker
			workers.GET("/:wallet/jobs", jobHandler.ListWorkerJobs)

			// GET /api/v1/workers/:wallet/profile - Worker profile with job history
			workers.GET("/:wallet/profile", jobHandler.GetWorkerProfile)
		}

		employers := v1.Group("/employers")
		{
			// GET /api/v1/employers/:wallet/jobs - Jobs where the wallet is the employer
			employers.GET("/:wallet/jobs", jobHandler.ListEmployerJobs)
		}

		admin := v1.Group("/admin")
		{
			// POST /api/v1/admin/sweep - Run a reconciliation pass now
			admin.POST("/sweep", jobHandler.RunSweep)
		}
	}

	return r
}

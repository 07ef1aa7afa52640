package controllers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gamage-recruiters/platform/internal/app/models"
	"github.com/gamage-recruiters/platform/internal/app/models/dto"
	"github.com/gamage-recruiters/platform/internal/middleware"
	"github.com/gamage-recruiters/platform/internal/pkg/export"
)

// JobService is the job posting API used by JobController
type JobService interface {
	List(ctx context.Context) ([]*models.Job, error)
	Latest(ctx context.Context) ([]*models.Job, error)
	Get(ctx context.Context, id int64) (*models.Job, error)
	Create(ctx context.Context, req *dto.JobRequest, image *multipart.FileHeader) (*models.Job, error)
	Update(ctx context.Context, id int64, req *dto.JobRequest, image *multipart.FileHeader) (*models.Job, error)
	Delete(ctx context.Context, id int64) error
	AppliedByUser(ctx context.Context, userID int64) ([]models.JobApplication, error)
	CountAppliedByUser(ctx context.Context, userID int64) (int64, error)
	Resumes(ctx context.Context, jobID int64) ([]models.JobApplication, error)
	Statistics(ctx context.Context) (*models.JobStatistics, error)
}

// ApplicationExporter writes every application as a workbook
type ApplicationExporter interface {
	Export(ctx context.Context, w io.Writer) error
}

// JobController handles job postings and job reporting
type JobController struct {
	jobService JobService
	exporter   ApplicationExporter
	logger     zerolog.Logger
}

// NewJobController creates a new JobController
func NewJobController(jobService JobService, exporter ApplicationExporter, logger zerolog.Logger) *JobController {
	return &JobController{
		jobService: jobService,
		exporter:   exporter,
		logger:     logger,
	}
}

// ListJobs returns every job
// @Summary List jobs
// @Tags jobs
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Job} "Jobs"
// @Router /api/jobs [get]
func (c *JobController) ListJobs(ctx *gin.Context) {
	jobs, err := c.jobService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("", jobs))
}

// LatestJobs returns the three newest jobs
// @Summary Latest jobs
// @Tags jobs
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Job} "Jobs"
// @Router /api/jobs/latest [get]
func (c *JobController) LatestJobs(ctx *gin.Context) {
	jobs, err := c.jobService.Latest(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("", jobs))
}

// GetJob returns one job
// @Summary Get job
// @Tags jobs
// @Produce json
// @Param jobId path int true "Job ID"
// @Success 200 {object} dto.APIResponse{data=models.Job} "Job"
// @Failure 404 {object} dto.ErrorResponse "Job not found"
// @Router /api/jobs/{jobId} [get]
func (c *JobController) GetJob(ctx *gin.Context) {
	jobID, ok := idParam(ctx, "jobId")
	if !ok {
		return
	}

	job, err := c.jobService.Get(ctx.Request.Context(), jobID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("", job))
}

// AppliedJobs lists the jobs a user has applied for
// @Summary Jobs applied by a user
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.AppliedJobResponse} "Applications"
// @Router /api/jobs/applied/{userId} [get]
func (c *JobController) AppliedJobs(ctx *gin.Context) {
	userID, ok := idParam(ctx, "userId")
	if !ok {
		return
	}

	apps, err := c.jobService.AppliedByUser(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]dto.AppliedJobResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, dto.AppliedJobResponse{
			ApplicationID: a.ID,
			JobID:         a.JobID,
			JobTitle:      a.JobTitle,
			Company:       a.Company,
			Resume:        a.Resume,
			AppliedAt:     a.AppliedAt.UTC().Format(time.RFC3339),
		})
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("", out))
}

// CountAppliedJobs counts the applications of a user
// @Summary Count of jobs applied by a user
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.CountResponse} "Count"
// @Router /api/jobs/applied/count/{userId} [get]
func (c *JobController) CountAppliedJobs(ctx *gin.Context) {
	userID, ok := idParam(ctx, "userId")
	if !ok {
		return
	}

	count, err := c.jobService.CountAppliedByUser(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("", dto.CountResponse{Count: count}))
}

// Statistics summarises jobs, applications and users
// @Summary Job statistics
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.JobStatistics} "Statistics"
// @Router /api/jobs/statistics [get]
func (c *JobController) Statistics(ctx *gin.Context) {
	stats, err := c.jobService.Statistics(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("", stats))
}

// Resumes lists the applications received for a job
// @Summary Applications for a job
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param jobId path int true "Job ID"
// @Success 200 {object} dto.APIResponse{data=[]models.JobApplication} "Applications"
// @Failure 404 {object} dto.ErrorResponse "Job not found"
// @Router /api/jobs/resumes/{jobId} [get]
func (c *JobController) Resumes(ctx *gin.Context) {
	jobID, ok := idParam(ctx, "jobId")
	if !ok {
		return
	}

	apps, err := c.jobService.Resumes(ctx.Request.Context(), jobID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("", apps))
}

// Export downloads every application as an xlsx workbook
// @Summary Export applications
// @Tags jobs
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Success 200 {file} file "Workbook"
// @Router /api/jobs/export [get]
func (c *JobController) Export(ctx *gin.Context) {
	var buf bytes.Buffer
	if err := c.exporter.Export(ctx.Request.Context(), &buf); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="job-applications.xlsx"`)
	ctx.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

func (c *JobController) bindJob(ctx *gin.Context) (*dto.JobRequest, *multipart.FileHeader, bool) {
	var req dto.JobRequest
	if !middleware.Bind(ctx, &req) {
		return nil, nil, false
	}
	image, err := optionalFile(ctx, "jobImage")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return nil, nil, false
	}
	return &req, image, true
}

// AddJob creates a job
// @Summary Create job
// @Tags jobs
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body dto.JobRequest true "Job"
// @Success 201 {object} dto.APIResponse{data=models.Job} "Created job"
// @Failure 400 {object} dto.ErrorResponse "Missing fields"
// @Router /api/jobs/addjob [post]
func (c *JobController) AddJob(ctx *gin.Context) {
	req, image, ok := c.bindJob(ctx)
	if !ok {
		return
	}

	job, err := c.jobService.Create(ctx.Request.Context(), req, image)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse("Job created successfully", job))
}

// UpdateJob overwrites a job
// @Summary Update job
// @Tags jobs
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param jobId path int true "Job ID"
// @Param request body dto.JobRequest true "Job"
// @Success 200 {object} dto.APIResponse{data=models.Job} "Updated job"
// @Failure 404 {object} dto.ErrorResponse "Job not found"
// @Router /api/jobs/update/{jobId} [put]
func (c *JobController) UpdateJob(ctx *gin.Context) {
	jobID, ok := idParam(ctx, "jobId")
	if !ok {
		return
	}
	req, image, ok := c.bindJob(ctx)
	if !ok {
		return
	}

	job, err := c.jobService.Update(ctx.Request.Context(), jobID, req, image)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Job updated successfully", job))
}

// DeleteJob removes a job with its applications
// @Summary Delete job
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param jobId path int true "Job ID"
// @Success 200 {object} dto.APIResponse "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Job not found"
// @Router /api/jobs/delete/{jobId} [delete]
func (c *JobController) DeleteJob(ctx *gin.Context) {
	jobID, ok := idParam(ctx, "jobId")
	if !ok {
		return
	}

	if err := c.jobService.Delete(ctx.Request.Context(), jobID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Job deleted successfully", nil))
}

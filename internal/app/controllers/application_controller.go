package controllers

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gamage-recruiters/platform/internal/app/models"
	"github.com/gamage-recruiters/platform/internal/app/models/dto"
	"github.com/gamage-recruiters/platform/internal/middleware"
)

// ApplicationService is the job application API used by ApplicationController
type ApplicationService interface {
	Submit(ctx context.Context, req *dto.ApplicationRequest, resume *multipart.FileHeader) (*models.JobApplication, error)
	List(ctx context.Context) ([]models.JobApplication, error)
	Get(ctx context.Context, id int64) (*models.JobApplication, error)
	Delete(ctx context.Context, id int64) error
}

// ApplicationController handles job applications
type ApplicationController struct {
	applicationService ApplicationService
	logger             zerolog.Logger
}

// NewApplicationController creates a new ApplicationController
func NewApplicationController(applicationService ApplicationService, logger zerolog.Logger) *ApplicationController {
	return &ApplicationController{
		applicationService: applicationService,
		logger:             logger,
	}
}

// Apply submits an application with a resume
// @Summary Apply for a job
// @Description The job is identified by title and company; the email must belong to a registered user whose name matches.
// @Tags applications
// @Accept multipart/form-data
// @Produce json
// @Param firstName formData string true "First name"
// @Param lastName formData string true "Last name"
// @Param email formData string true "Email of the registered user"
// @Param phoneNumber formData string true "Phone number"
// @Param job formData string true "Job title"
// @Param company formData string true "Company"
// @Param resume formData file true "Resume"
// @Success 201 {object} dto.APIResponse{data=models.JobApplication} "Application submitted"
// @Failure 400 {object} dto.ErrorResponse "Missing field, missing resume or name mismatch"
// @Failure 404 {object} dto.ErrorResponse "Job or user not found"
// @Failure 409 {object} dto.ErrorResponse "Already applied"
// @Router /api/jobapplications/apply [post]
func (c *ApplicationController) Apply(ctx *gin.Context) {
	var req dto.ApplicationRequest
	if !middleware.Bind(ctx, &req) {
		return
	}
	resume, err := optionalFile(ctx, "resume")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	app, err := c.applicationService.Submit(ctx.Request.Context(), &req, resume)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse("Application submitted successfully", app))
}

// ListApplications returns every application
// @Summary List applications
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.JobApplication} "Applications"
// @Router /api/jobapplications [get]
func (c *ApplicationController) ListApplications(ctx *gin.Context) {
	apps, err := c.applicationService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("", apps))
}

// GetApplication returns one application
// @Summary Get application
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} dto.APIResponse{data=models.JobApplication} "Application"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /api/jobapplications/{id} [get]
func (c *ApplicationController) GetApplication(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	app, err := c.applicationService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("", app))
}

// DeleteApplication removes an application and its resume
// @Summary Delete application
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} dto.APIResponse "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /api/jobapplications/{id} [delete]
func (c *ApplicationController) DeleteApplication(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.applicationService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Application deleted successfully", nil))
}

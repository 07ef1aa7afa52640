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

// AdminService is the admin account API used by AdminController
type AdminService interface {
	Register(ctx context.Context, req *dto.AdminRegisterRequest, photo *multipart.FileHeader) (*models.Admin, error)
	List(ctx context.Context) ([]*models.Admin, error)
	Get(ctx context.Context, id int64) (*models.Admin, error)
	Update(ctx context.Context, id int64, req *dto.AdminUpdateRequest, photo *multipart.FileHeader) (*models.Admin, error)
	Delete(ctx context.Context, callerID, id int64) error
}

// AdminController handles admin account management
type AdminController struct {
	adminService AdminService
	logger       zerolog.Logger
}

// NewAdminController creates a new AdminController
func NewAdminController(adminService AdminService, logger zerolog.Logger) *AdminController {
	return &AdminController{adminService: adminService, logger: logger}
}

// Register creates an admin account
// @Summary Register admin
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param name formData string true "Name"
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Param role formData string true "Role" Enums(SUPER_ADMIN, ADMIN, EDITOR)
// @Param adminPhoto formData file false "Photo"
// @Success 201 {object} dto.APIResponse{data=models.Admin} "Admin created"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Router /admin/register [post]
func (c *AdminController) Register(ctx *gin.Context) {
	var req dto.AdminRegisterRequest
	if !middleware.Bind(ctx, &req) {
		return
	}
	photo, err := optionalFile(ctx, "adminPhoto")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	admin, err := c.adminService.Register(ctx.Request.Context(), &req, photo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse("Admin registered successfully", admin))
}

// List returns every admin
// @Summary List admins
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Admin} "Admins"
// @Router /admin [get]
func (c *AdminController) List(ctx *gin.Context) {
	admins, err := c.adminService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("", admins))
}

// Get returns one admin
// @Summary Get admin
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param adminId path int true "Admin ID"
// @Success 200 {object} dto.APIResponse{data=models.Admin} "Admin"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /admin/{adminId} [get]
func (c *AdminController) Get(ctx *gin.Context) {
	id, ok := idParam(ctx, "adminId")
	if !ok {
		return
	}

	admin, err := c.adminService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("", admin))
}

// Update overwrites an admin's details
// @Summary Update admin
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param adminId path int true "Admin ID"
// @Param adminPhoto formData file false "Photo"
// @Success 200 {object} dto.APIResponse{data=models.Admin} "Updated"
// @Router /admin/update/{adminId} [put]
func (c *AdminController) Update(ctx *gin.Context) {
	id, ok := idParam(ctx, "adminId")
	if !ok {
		return
	}
	var req dto.AdminUpdateRequest
	if !middleware.Bind(ctx, &req) {
		return
	}
	photo, err := optionalFile(ctx, "adminPhoto")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	admin, err := c.adminService.Update(ctx.Request.Context(), id, &req, photo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Admin updated successfully", admin))
}

// Delete removes an admin account
// @Summary Delete admin
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param adminId path int true "Admin ID"
// @Success 200 {object} dto.APIResponse "Deleted"
// @Failure 403 {object} dto.ErrorResponse "Cannot delete yourself"
// @Router /admin/delete/{adminId} [delete]
func (c *AdminController) Delete(ctx *gin.Context) {
	id, ok := idParam(ctx, "adminId")
	if !ok {
		return
	}
	callerID, _ := middleware.GetSubjectID(ctx)

	if err := c.adminService.Delete(ctx.Request.Context(), callerID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Admin deleted successfully", nil))
}

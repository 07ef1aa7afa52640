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

// WorkshopService is the workshop API used by WorkshopController
type WorkshopService interface {
	List(ctx context.Context) ([]*models.Workshop, error)
	Latest(ctx context.Context) ([]*models.Workshop, error)
	Get(ctx context.Context, id int64) (*models.Workshop, error)
	Create(ctx context.Context, req *dto.WorkshopRequest, image *multipart.FileHeader) (*models.Workshop, error)
	Update(ctx context.Context, id int64, req *dto.WorkshopRequest, image *multipart.FileHeader) (*models.Workshop, error)
	Delete(ctx context.Context, id int64) error
}

// WorkshopController handles workshop listings
type WorkshopController struct {
	workshopService WorkshopService
	logger          zerolog.Logger
}

// NewWorkshopController creates a new WorkshopController
func NewWorkshopController(workshopService WorkshopService, logger zerolog.Logger) *WorkshopController {
	return &WorkshopController{workshopService: workshopService, logger: logger}
}

// ListWorkshops returns every workshop
// @Summary List workshops
// @Tags workshops
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Workshop} "Workshops"
// @Router /api/workshops [get]
func (c *WorkshopController) ListWorkshops(ctx *gin.Context) {
	workshops, err := c.workshopService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("", workshops))
}

// LatestWorkshops returns the three most recently added workshops
// @Summary Latest workshops
// @Tags workshops
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Workshop} "Workshops"
// @Router /api/workshops/latest [get]
func (c *WorkshopController) LatestWorkshops(ctx *gin.Context) {
	workshops, err := c.workshopService.Latest(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("", workshops))
}

// GetWorkshop returns one workshop
// @Summary Get workshop
// @Tags workshops
// @Produce json
// @Param id path int true "Workshop ID"
// @Success 200 {object} dto.APIResponse{data=models.Workshop} "Workshop"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /api/workshops/{id} [get]
func (c *WorkshopController) GetWorkshop(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	workshop, err := c.workshopService.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("", workshop))
}

func bindWorkshop(ctx *gin.Context) (*dto.WorkshopRequest, *multipart.FileHeader, bool) {
	var req dto.WorkshopRequest
	if !middleware.Bind(ctx, &req) {
		return nil, nil, false
	}
	image, err := optionalFile(ctx, "workshopImage")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return nil, nil, false
	}
	return &req, image, true
}

// CreateWorkshop adds a workshop
// @Summary Create workshop
// @Tags workshops
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body dto.WorkshopRequest true "Workshop"
// @Success 201 {object} dto.APIResponse{data=models.Workshop} "Created"
// @Router /api/workshops [post]
func (c *WorkshopController) CreateWorkshop(ctx *gin.Context) {
	req, image, ok := bindWorkshop(ctx)
	if !ok {
		return
	}

	workshop, err := c.workshopService.Create(ctx.Request.Context(), req, image)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse("Workshop created successfully", workshop))
}

// UpdateWorkshop overwrites a workshop
// @Summary Update workshop
// @Tags workshops
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Workshop ID"
// @Param request body dto.WorkshopRequest true "Workshop"
// @Success 200 {object} dto.APIResponse{data=models.Workshop} "Updated"
// @Failure 404 {object} dto.ErrorResponse "Not found"
// @Router /api/workshops/{id} [put]
func (c *WorkshopController) UpdateWorkshop(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}
	req, image, ok := bindWorkshop(ctx)
	if !ok {
		return
	}

	workshop, err := c.workshopService.Update(ctx.Request.Context(), id, req, image)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Workshop updated successfully", workshop))
}

// DeleteWorkshop removes a workshop
// @Summary Delete workshop
// @Tags workshops
// @Produce json
// @Security BearerAuth
// @Param id path int true "Workshop ID"
// @Success 200 {object} dto.APIResponse "Deleted"
// @Router /api/workshops/{id} [delete]
func (c *WorkshopController) DeleteWorkshop(ctx *gin.Context) {
	id, ok := idParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.workshopService.Delete(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Workshop deleted successfully", nil))
}

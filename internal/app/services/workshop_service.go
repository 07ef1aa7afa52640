package services

import (
	"context"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gamage-recruiters/platform/internal/app/models"
	"github.com/gamage-recruiters/platform/internal/app/models/dto"
	"github.com/gamage-recruiters/platform/internal/app/repositories"
	"github.com/gamage-recruiters/platform/internal/pkg/apperrors"
	"github.com/gamage-recruiters/platform/internal/pkg/filestorage"
)

// WorkshopService manages workshop listings
type WorkshopService struct {
	workshopRepo repositories.IWorkshopRepository
	storage      filestorage.FileStorage
	logger       zerolog.Logger
}

// NewWorkshopService creates a new WorkshopService
func NewWorkshopService(workshopRepo repositories.IWorkshopRepository, storage filestorage.FileStorage, logger zerolog.Logger) *WorkshopService {
	return &WorkshopService{
		workshopRepo: workshopRepo,
		storage:      storage,
		logger:       logger,
	}
}

// List returns every workshop
func (s *WorkshopService) List(ctx context.Context) ([]*models.Workshop, error) {
	return s.workshopRepo.List(ctx)
}

// Latest returns the three most recently added workshops
func (s *WorkshopService) Latest(ctx context.Context) ([]*models.Workshop, error) {
	return s.workshopRepo.Latest(ctx, latestLimit)
}

// Get returns one workshop
func (s *WorkshopService) Get(ctx context.Context, id int64) (*models.Workshop, error) {
	return s.workshopRepo.GetByID(ctx, id)
}

func applyWorkshopRequest(w *models.Workshop, req *dto.WorkshopRequest) error {
	date, err := parseDate(req.Date)
	if err != nil || date == nil {
		return apperrors.NewValidationError("date must be a date in YYYY-MM-DD format")
	}
	w.Title = strings.TrimSpace(req.Title)
	w.Description = strings.TrimSpace(req.Description)
	w.Venue = strings.TrimSpace(req.Venue)
	w.Date = *date
	return nil
}

// Create inserts a workshop with an optional image
func (s *WorkshopService) Create(ctx context.Context, req *dto.WorkshopRequest, image *multipart.FileHeader) (*models.Workshop, error) {
	workshop := &models.Workshop{}
	if err := applyWorkshopRequest(workshop, req); err != nil {
		return nil, err
	}

	if image != nil {
		filename, err := s.storage.Store(filestorage.FieldWorkshopImage, image)
		if err != nil {
			return nil, apperrors.NewStorageError("could not store workshop image", err)
		}
		workshop.WorkshopImage = filename
	}

	if err := s.workshopRepo.Create(ctx, workshop); err != nil {
		discardFile(s.storage, s.logger, filestorage.FieldWorkshopImage, workshop.WorkshopImage)
		return nil, err
	}

	s.logger.Info().Int64("workshopID", workshop.ID).Msg("Workshop created")
	return workshop, nil
}

// Update overwrites a workshop, keeping the current image unless a new one is given
func (s *WorkshopService) Update(ctx context.Context, id int64, req *dto.WorkshopRequest, image *multipart.FileHeader) (*models.Workshop, error) {
	workshop, err := s.workshopRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := applyWorkshopRequest(workshop, req); err != nil {
		return nil, err
	}

	if image == nil {
		if err := s.workshopRepo.Update(ctx, workshop); err != nil {
			return nil, err
		}
		return workshop, nil
	}

	err = replaceFile(s.storage, filestorage.FieldWorkshopImage, image, workshop.WorkshopImage, func(filename string) error {
		workshop.WorkshopImage = filename
		return s.workshopRepo.Update(ctx, workshop)
	})
	if err != nil {
		return nil, err
	}
	return workshop, nil
}

// Delete removes a workshop and its image
func (s *WorkshopService) Delete(ctx context.Context, id int64) error {
	workshop, err := s.workshopRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.workshopRepo.Delete(ctx, id); err != nil {
		return err
	}
	discardFile(s.storage, s.logger, filestorage.FieldWorkshopImage, workshop.WorkshopImage)
	return nil
}

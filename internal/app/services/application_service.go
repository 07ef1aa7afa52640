package services

import (
	"context"
	"io"
	"mime/multipart"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gamage-recruiters/platform/internal/app/models"
	"github.com/gamage-recruiters/platform/internal/app/models/dto"
	"github.com/gamage-recruiters/platform/internal/app/repositories"
	"github.com/gamage-recruiters/platform/internal/config"
	"github.com/gamage-recruiters/platform/internal/pkg/apperrors"
	"github.com/gamage-recruiters/platform/internal/pkg/export"
	"github.com/gamage-recruiters/platform/internal/pkg/filestorage"
)

// ApplicationService runs the job application workflow
type ApplicationService struct {
	tx              Transactor
	jobRepo         repositories.IJobRepository
	userRepo        repositories.IUserRepository
	applicationRepo repositories.IApplicationRepository
	activityRepo    repositories.IActivityLogRepository
	storage         filestorage.FileStorage
	nameMatch       string
	logger          zerolog.Logger
}

// NewApplicationService creates a new ApplicationService. nameMatch is config.NameMatchAny
// or config.NameMatchAll.
func NewApplicationService(
	tx Transactor,
	jobRepo repositories.IJobRepository,
	userRepo repositories.IUserRepository,
	applicationRepo repositories.IApplicationRepository,
	activityRepo repositories.IActivityLogRepository,
	storage filestorage.FileStorage,
	nameMatch string,
	logger zerolog.Logger,
) *ApplicationService {
	if nameMatch != config.NameMatchAll {
		nameMatch = config.NameMatchAny
	}
	return &ApplicationService{
		tx:              tx,
		jobRepo:         jobRepo,
		userRepo:        userRepo,
		applicationRepo: applicationRepo,
		activityRepo:    activityRepo,
		storage:         storage,
		nameMatch:       nameMatch,
		logger:          logger,
	}
}

// Submit checks an application step by step and inserts it. The first failing step wins:
// required fields, resume stored, job exists, user exists, names match, not applied before.
func (s *ApplicationService) Submit(ctx context.Context, req *dto.ApplicationRequest, resume *multipart.FileHeader) (*models.JobApplication, error) {
	if err := requireFields(
		"firstName", req.FirstName,
		"lastName", req.LastName,
		"email", req.Email,
		"phoneNumber", req.PhoneNumber,
		"job", req.Job,
		"company", req.Company,
	); err != nil {
		return nil, err
	}

	if resume == nil {
		return nil, apperrors.NewValidationError("Resume file selection is required")
	}
	resumeName, err := s.storage.Store(filestorage.FieldResume, resume)
	if err != nil {
		return nil, apperrors.NewStorageError("could not store resume", err)
	}

	application, err := s.submit(ctx, req, resumeName)
	if err != nil {
		discardFile(s.storage, s.logger, filestorage.FieldResume, resumeName)
		return nil, err
	}

	s.logger.Info().
		Int64("applicationID", application.ID).
		Int64("jobID", application.JobID).
		Int64("userID", application.UserID).
		Msg("Job application submitted")
	return application, nil
}

func (s *ApplicationService) submit(ctx context.Context, req *dto.ApplicationRequest, resumeName string) (*models.JobApplication, error) {
	job, err := s.jobRepo.GetByTitleAndCompany(ctx, strings.TrimSpace(req.Job), strings.TrimSpace(req.Company))
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		return nil, err
	}

	if !s.namesMatch(user, req.FirstName, req.LastName) {
		return nil, apperrors.ErrNameMismatch
	}

	application := &models.JobApplication{
		JobID:       job.ID,
		UserID:      user.ID,
		FirstName:   strings.TrimSpace(req.FirstName),
		LastName:    strings.TrimSpace(req.LastName),
		Email:       user.Email,
		PhoneNumber: strings.TrimSpace(req.PhoneNumber),
		Resume:      resumeName,
		JobTitle:    job.Title,
		Company:     job.Company,
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.applicationRepo.Create(ctx, application); err != nil {
			return err
		}
		if err := s.activityRepo.Create(ctx, user.ID, ActivityAppliedForJob); err != nil {
			return err
		}
		return s.userRepo.RecordActivity(ctx, user.ID, ActivityAppliedForJob)
	})
	if err != nil {
		return nil, err
	}
	return application, nil
}

// namesMatch compares the submitted names with the account. Case matters; surrounding space does not.
func (s *ApplicationService) namesMatch(user *models.User, firstName, lastName string) bool {
	first := strings.TrimSpace(firstName) == strings.TrimSpace(user.FirstName)
	last := strings.TrimSpace(lastName) == strings.TrimSpace(user.LastName)
	if s.nameMatch == config.NameMatchAll {
		return first && last
	}
	return first || last
}

// List returns every application with its job title
func (s *ApplicationService) List(ctx context.Context) ([]models.JobApplication, error) {
	return s.applicationRepo.List(ctx)
}

// Get returns one application
func (s *ApplicationService) Get(ctx context.Context, id int64) (*models.JobApplication, error) {
	return s.applicationRepo.GetByID(ctx, id)
}

// Delete removes an application and its resume file
func (s *ApplicationService) Delete(ctx context.Context, id int64) error {
	application, err := s.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.applicationRepo.Delete(ctx, id); err != nil {
		return err
	}
	discardFile(s.storage, s.logger, filestorage.FieldResume, application.Resume)
	return nil
}

// LatestByUser returns the most recent application of a user
func (s *ApplicationService) LatestByUser(ctx context.Context, userID int64) (*models.JobApplication, error) {
	return s.applicationRepo.LatestByUser(ctx, userID)
}

// Export writes every application as an xlsx workbook
func (s *ApplicationService) Export(ctx context.Context, w io.Writer) error {
	applications, err := s.applicationRepo.List(ctx)
	if err != nil {
		return err
	}
	return export.WriteApplications(w, applications)
}

// requireFields takes name/value pairs and reports the first empty value
func requireFields(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return apperrors.NewValidationError(pairs[i] + " is required")
		}
	}
	return nil
}

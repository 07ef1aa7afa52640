package services

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/rs/zerolog"

	"github.com/gamage-recruiters/platform/internal/app/models"
	"github.com/gamage-recruiters/platform/internal/app/models/dto"
	"github.com/gamage-recruiters/platform/internal/app/repositories"
	"github.com/gamage-recruiters/platform/internal/pkg/apperrors"
	"github.com/gamage-recruiters/platform/internal/pkg/filestorage"
)

// JobService manages job postings and job-level reporting
type JobService struct {
	jobRepo         repositories.IJobRepository
	applicationRepo repositories.IApplicationRepository
	userRepo        repositories.IUserRepository
	storage         filestorage.FileStorage
	logger          zerolog.Logger
}

// NewJobService creates a new JobService
func NewJobService(
	jobRepo repositories.IJobRepository,
	applicationRepo repositories.IApplicationRepository,
	userRepo repositories.IUserRepository,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) *JobService {
	return &JobService{
		jobRepo:         jobRepo,
		applicationRepo: applicationRepo,
		userRepo:        userRepo,
		storage:         storage,
		logger:          logger,
	}
}

// List returns every job, newest first
func (s *JobService) List(ctx context.Context) ([]*models.Job, error) {
	return s.jobRepo.List(ctx)
}

// Latest returns the three newest jobs
func (s *JobService) Latest(ctx context.Context) ([]*models.Job, error) {
	return s.jobRepo.Latest(ctx, latestLimit)
}

// Get returns one job
func (s *JobService) Get(ctx context.Context, id int64) (*models.Job, error) {
	return s.jobRepo.GetByID(ctx, id)
}

// Create stores the optional image and inserts the job
func (s *JobService) Create(ctx context.Context, req *dto.JobRequest, image *multipart.FileHeader) (*models.Job, error) {
	job := req.ToModel()

	if image != nil {
		filename, err := s.storage.Store(filestorage.FieldJobImage, image)
		if err != nil {
			return nil, apperrors.NewStorageError("could not store job image", err)
		}
		job.JobImage = filename
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		s.discard(filestorage.FieldJobImage, job.JobImage)
		return nil, err
	}

	s.logger.Info().Int64("jobID", job.ID).Msg("Job created")
	return job, nil
}

// Update overwrites a job. Without a new image the current one is kept; with one, the
// previous image file is removed after the row is updated.
func (s *JobService) Update(ctx context.Context, id int64, req *dto.JobRequest, image *multipart.FileHeader) (*models.Job, error) {
	existing, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	job := req.ToModel()
	job.ID = existing.ID
	job.CreatedAt = existing.CreatedAt
	job.JobImage = existing.JobImage

	if image == nil {
		if err := s.jobRepo.Update(ctx, job); err != nil {
			return nil, err
		}
		return job, nil
	}

	if err := replaceFile(s.storage, filestorage.FieldJobImage, image, existing.JobImage, func(filename string) error {
		job.JobImage = filename
		return s.jobRepo.Update(ctx, job)
	}); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("jobID", job.ID).Msg("Job updated")
	return job, nil
}

// Delete removes a job, its applications and their files
func (s *JobService) Delete(ctx context.Context, id int64) error {
	job, err := s.jobRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	applications, err := s.applicationRepo.ListByJob(ctx, id)
	if err != nil {
		return err
	}

	// job_applications rows go with the job through ON DELETE CASCADE
	if err := s.jobRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.discard(filestorage.FieldJobImage, job.JobImage)
	for _, app := range applications {
		s.discard(filestorage.FieldResume, app.Resume)
	}

	s.logger.Info().Int64("jobID", id).Int("applications", len(applications)).Msg("Job deleted")
	return nil
}

// AppliedByUser returns the applications of one user with their job titles
func (s *JobService) AppliedByUser(ctx context.Context, userID int64) ([]models.JobApplication, error) {
	return s.applicationRepo.ListByUser(ctx, userID)
}

// CountAppliedByUser returns how many jobs a user has applied for
func (s *JobService) CountAppliedByUser(ctx context.Context, userID int64) (int64, error) {
	return s.applicationRepo.CountByUser(ctx, userID)
}

// Resumes returns the applications received for a job
func (s *JobService) Resumes(ctx context.Context, jobID int64) ([]models.JobApplication, error) {
	if _, err := s.jobRepo.GetByID(ctx, jobID); err != nil {
		return nil, err
	}
	return s.applicationRepo.ListByJob(ctx, jobID)
}

// Statistics summarises jobs, applications and users
func (s *JobService) Statistics(ctx context.Context) (*models.JobStatistics, error) {
	stats := &models.JobStatistics{}
	var err error

	if stats.TotalJobs, err = s.jobRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalApplications, err = s.applicationRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalUsers, err = s.userRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.ApplicationsPerJob, err = s.jobRepo.ApplicationCounts(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}

// discard removes a stored file and only logs failures
func (s *JobService) discard(field filestorage.Field, filename string) {
	discardFile(s.storage, s.logger, field, filename)
}

func discardFile(storage filestorage.FileStorage, logger zerolog.Logger, field filestorage.Field, filename string) {
	if filename == "" {
		return
	}
	if err := storage.Delete(field, filename); err != nil {
		logger.Warn().Err(err).Str("field", string(field)).Str("file", filename).Msg("Failed to remove file")
	}
}

// replaceFile stores upload, runs commit with its name and removes previous afterwards.
// Errors from commit are returned as they are; anything else is a storage failure.
func replaceFile(storage filestorage.FileStorage, field filestorage.Field, upload *multipart.FileHeader, previous string, commit filestorage.CommitFunc) error {
	var commitErr error
	_, err := storage.Replace(field, upload, previous, func(filename string) error {
		commitErr = commit(filename)
		return commitErr
	})
	if commitErr != nil {
		return commitErr
	}
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("could not store %s", field), err)
	}
	return nil
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamage-recruiters/platform/internal/app/models"
	"github.com/gamage-recruiters/platform/internal/app/models/dto"
	"github.com/gamage-recruiters/platform/internal/pkg/apperrors"
	"github.com/gamage-recruiters/platform/internal/pkg/filestorage"
)

func setupJobService() (*JobService, *mockJobRepository, *mockApplicationRepository, *mockUserRepository, *fakeStorage) {
	jobs := &mockJobRepository{}
	apps := &mockApplicationRepository{}
	users := &mockUserRepository{}
	storage := newFakeStorage()
	return NewJobService(jobs, apps, users, storage, zerolog.Nop()), jobs, apps, users, storage
}

func validJobRequest() *dto.JobRequest {
	return &dto.JobRequest{
		Title:            "Software Engineer",
		Company:          "Acme",
		AboutRole:        "Build things",
		Responsibilities: `["Write code","Review code"]`,
		Requirements:     "Go",
		Benefits:         "Remote",
		CompanyInfo:      "We make anvils",
	}
}

func TestJobCreate_StoresImage(t *testing.T) {
	service, jobs, _, _, storage := setupJobService()
	jobs.createFunc = func(_ context.Context, job *models.Job) error {
		job.ID = 1
		return nil
	}

	job, err := service.Create(context.Background(), validJobRequest(), fileHeader("job.png"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), job.ID)
	assert.True(t, storage.has(filestorage.FieldJobImage, job.JobImage))
}

func TestJobCreate_InsertFailureDiscardsImage(t *testing.T) {
	service, jobs, _, _, storage := setupJobService()
	jobs.createFunc = func(context.Context, *models.Job) error { return errors.New("insert failed") }

	_, err := service.Create(context.Background(), validJobRequest(), fileHeader("job.png"))

	assert.Error(t, err)
	assert.Empty(t, storage.files)
}

func TestJobUpdate_WithoutImageKeepsCurrent(t *testing.T) {
	service, jobs, _, _, storage := setupJobService()
	current, _ := storage.Store(filestorage.FieldJobImage, fileHeader("old.png"))
	created := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	jobs.getByIDFunc = func(context.Context, int64) (*models.Job, error) {
		return &models.Job{ID: 5, Title: "Old", JobImage: current, CreatedAt: created}, nil
	}
	var saved *models.Job
	jobs.updateFunc = func(_ context.Context, job *models.Job) error {
		saved = job
		return nil
	}

	_, err := service.Update(context.Background(), 5, validJobRequest(), nil)
	require.NoError(t, err)

	require.NotNil(t, saved)
	assert.Equal(t, int64(5), saved.ID)
	assert.Equal(t, "Software Engineer", saved.Title)
	assert.Equal(t, current, saved.JobImage)
	assert.Equal(t, created, saved.CreatedAt)
	assert.True(t, storage.has(filestorage.FieldJobImage, current))
}

func TestJobUpdate_WithImageReplacesFile(t *testing.T) {
	service, jobs, _, _, storage := setupJobService()
	current, _ := storage.Store(filestorage.FieldJobImage, fileHeader("old.png"))
	jobs.getByIDFunc = func(context.Context, int64) (*models.Job, error) {
		return &models.Job{ID: 5, JobImage: current}, nil
	}
	jobs.updateFunc = func(context.Context, *models.Job) error { return nil }

	job, err := service.Update(context.Background(), 5, validJobRequest(), fileHeader("new.png"))
	require.NoError(t, err)

	assert.NotEqual(t, current, job.JobImage)
	assert.True(t, storage.has(filestorage.FieldJobImage, job.JobImage))
	assert.False(t, storage.has(filestorage.FieldJobImage, current))
}

func TestJobUpdate_NotFound(t *testing.T) {
	service, jobs, _, _, _ := setupJobService()
	jobs.getByIDFunc = func(context.Context, int64) (*models.Job, error) { return nil, apperrors.ErrJobNotFound }

	_, err := service.Update(context.Background(), 5, validJobRequest(), nil)

	assert.ErrorIs(t, err, apperrors.ErrJobNotFound)
}

func TestJobDelete_RemovesFiles(t *testing.T) {
	service, jobs, apps, _, storage := setupJobService()
	image, _ := storage.Store(filestorage.FieldJobImage, fileHeader("job.png"))
	resume, _ := storage.Store(filestorage.FieldResume, fileHeader("r.pdf"))
	apps.rows = []models.JobApplication{{ID: 1, JobID: 5, UserID: 3, Resume: resume}}

	jobs.getByIDFunc = func(context.Context, int64) (*models.Job, error) {
		return &models.Job{ID: 5, JobImage: image}, nil
	}
	jobs.deleteFunc = func(context.Context, int64) error { return nil }

	require.NoError(t, service.Delete(context.Background(), 5))

	assert.Empty(t, storage.files)
}

func TestJobDelete_FailureKeepsFiles(t *testing.T) {
	service, jobs, _, _, storage := setupJobService()
	image, _ := storage.Store(filestorage.FieldJobImage, fileHeader("job.png"))
	jobs.getByIDFunc = func(context.Context, int64) (*models.Job, error) {
		return &models.Job{ID: 5, JobImage: image}, nil
	}
	jobs.deleteFunc = func(context.Context, int64) error { return errors.New("delete failed") }

	require.Error(t, service.Delete(context.Background(), 5))
	assert.True(t, storage.has(filestorage.FieldJobImage, image))
}

func TestJobStatistics(t *testing.T) {
	service, jobs, apps, users, _ := setupJobService()
	apps.rows = []models.JobApplication{{ID: 1, JobID: 5, UserID: 3}, {ID: 2, JobID: 5, UserID: 4}}
	jobs.countFunc = func(context.Context) (int64, error) { return 4, nil }
	users.countFunc = func(context.Context) (int64, error) { return 10, nil }
	jobs.applicationCountsFunc = func(context.Context) ([]models.JobApplicationCount, error) {
		return []models.JobApplicationCount{{JobID: 5, Title: "Software Engineer", Company: "Acme", Count: 2}}, nil
	}

	stats, err := service.Statistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.TotalJobs)
	assert.Equal(t, int64(2), stats.TotalApplications)
	assert.Equal(t, int64(10), stats.TotalUsers)
	assert.Len(t, stats.ApplicationsPerJob, 1)
}

func TestJobResumes_UnknownJob(t *testing.T) {
	service, jobs, _, _, _ := setupJobService()
	jobs.getByIDFunc = func(context.Context, int64) (*models.Job, error) { return nil, apperrors.ErrJobNotFound }

	_, err := service.Resumes(context.Background(), 9)

	assert.ErrorIs(t, err, apperrors.ErrJobNotFound)
}

package controllers

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamage-recruiters/platform/internal/app/models"
	"github.com/gamage-recruiters/platform/internal/app/models/dto"
	"github.com/gamage-recruiters/platform/internal/pkg/apperrors"
	"github.com/gamage-recruiters/platform/internal/pkg/export"
)

type mockJobService struct {
	GetFunc           func(ctx context.Context, id int64) (*models.Job, error)
	CreateFunc        func(ctx context.Context, req *dto.JobRequest, image *multipart.FileHeader) (*models.Job, error)
	AppliedByUserFunc func(ctx context.Context, userID int64) ([]models.JobApplication, error)
	createCalls       int
}

func (m *mockJobService) List(context.Context) ([]*models.Job, error)   { return nil, nil }
func (m *mockJobService) Latest(context.Context) ([]*models.Job, error) { return nil, nil }

func (m *mockJobService) Get(ctx context.Context, id int64) (*models.Job, error) {
	return m.GetFunc(ctx, id)
}

func (m *mockJobService) Create(ctx context.Context, req *dto.JobRequest, image *multipart.FileHeader) (*models.Job, error) {
	m.createCalls++
	return m.CreateFunc(ctx, req, image)
}

func (m *mockJobService) Update(context.Context, int64, *dto.JobRequest, *multipart.FileHeader) (*models.Job, error) {
	return nil, errors.New("not implemented")
}

func (m *mockJobService) Delete(context.Context, int64) error { return nil }

func (m *mockJobService) AppliedByUser(ctx context.Context, userID int64) ([]models.JobApplication, error) {
	return m.AppliedByUserFunc(ctx, userID)
}

func (m *mockJobService) CountAppliedByUser(context.Context, int64) (int64, error) { return 2, nil }

func (m *mockJobService) Resumes(context.Context, int64) ([]models.JobApplication, error) {
	return nil, nil
}

func (m *mockJobService) Statistics(context.Context) (*models.JobStatistics, error) {
	return &models.JobStatistics{}, nil
}

type fakeExporter struct {
	payload string
	err     error
}

func (f *fakeExporter) Export(_ context.Context, w io.Writer) error {
	if f.err != nil {
		return f.err
	}
	_, err := io.WriteString(w, f.payload)
	return err
}

func newJobRouter(svc *mockJobService, exporter *fakeExporter) *gin.Engine {
	ctrl := NewJobController(svc, exporter, zerolog.Nop())

	router := gin.New()
	router.GET("/api/jobs/export", ctrl.Export)
	router.GET("/api/jobs/:jobId", ctrl.GetJob)
	router.GET("/api/jobs/applied/:userId", ctrl.AppliedJobs)
	router.GET("/api/jobs/applied/count/:userId", ctrl.CountAppliedJobs)
	router.POST("/api/jobs/addjob", ctrl.AddJob)
	return router
}

func TestJobController_Export(t *testing.T) {
	router := newJobRouter(&mockJobService{}, &fakeExporter{payload: "PK\x03\x04workbook"})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/api/jobs/export", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="job-applications.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "PK\x03\x04workbook", w.Body.String())
}

func TestJobController_ExportFailureIsJSON(t *testing.T) {
	router := newJobRouter(&mockJobService{}, &fakeExporter{err: errors.New("query failed")})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/api/jobs/export", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, w.Header().Get("Content-Disposition"))
	assert.Equal(t, dto.ErrorCodeInternalServer, decodeError(t, w).Code)
}

func TestJobController_GetJob(t *testing.T) {
	svc := &mockJobService{
		GetFunc: func(_ context.Context, id int64) (*models.Job, error) {
			if id == 7 {
				return &models.Job{ID: 7, Title: "Software Engineer", Company: "Acme"}, nil
			}
			return nil, apperrors.ErrJobNotFound
		},
	}
	router := newJobRouter(svc, &fakeExporter{})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/api/jobs/7", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var job models.Job
	decodeSuccess(t, w, &job)
	assert.Equal(t, "Software Engineer", job.Title)

	w = serve(router, httptest.NewRequest(http.MethodGet, "/api/jobs/8", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(router, httptest.NewRequest(http.MethodGet, "/api/jobs/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid jobId", decodeError(t, w).Message)
}

func TestJobController_AppliedJobs(t *testing.T) {
	appliedAt := time.Date(2025, 4, 23, 12, 1, 5, 0, time.UTC)
	svc := &mockJobService{
		AppliedByUserFunc: func(_ context.Context, userID int64) ([]models.JobApplication, error) {
			return []models.JobApplication{{
				ID: 1, JobID: 7, UserID: userID, Resume: "resume-1.pdf", AppliedAt: appliedAt,
				JobTitle: "Software Engineer", Company: "Acme",
			}}, nil
		},
	}
	router := newJobRouter(svc, &fakeExporter{})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/api/jobs/applied/3", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var applied []dto.AppliedJobResponse
	decodeSuccess(t, w, &applied)
	require.Len(t, applied, 1)
	assert.Equal(t, dto.AppliedJobResponse{
		ApplicationID: 1,
		JobID:         7,
		JobTitle:      "Software Engineer",
		Company:       "Acme",
		Resume:        "resume-1.pdf",
		AppliedAt:     "2025-04-23T12:01:05Z",
	}, applied[0])

	w = serve(router, httptest.NewRequest(http.MethodGet, "/api/jobs/applied/count/3", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var count dto.CountResponse
	decodeSuccess(t, w, &count)
	assert.Equal(t, int64(2), count.Count)
}

func TestJobController_AddJobMultipart(t *testing.T) {
	var got *dto.JobRequest
	var image *multipart.FileHeader
	svc := &mockJobService{
		CreateFunc: func(_ context.Context, req *dto.JobRequest, fh *multipart.FileHeader) (*models.Job, error) {
			got, image = req, fh
			job := req.ToModel()
			job.ID = 11
			job.JobImage = "jobImage-1.png"
			return job, nil
		},
	}
	router := newJobRouter(svc, &fakeExporter{})

	fields := map[string]string{
		"title":            "Software Engineer",
		"company":          "Acme",
		"aboutRole":        "Build things",
		"responsibilities": `["Write code", "Review code"]`,
		"requirements":     "Go",
		"benefits":         "Lunch",
		"companyInfo":      "Acme builds rockets",
	}
	w := serve(router, multipartRequest(t, http.MethodPost, "/api/jobs/addjob", fields, map[string]string{"jobImage": "job.png"}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.NotNil(t, got)
	require.NotNil(t, image)
	assert.Equal(t, "job.png", image.Filename)

	var job models.Job
	decodeSuccess(t, w, &job)
	assert.Equal(t, int64(11), job.ID)
	assert.Equal(t, `["Write code","Review code"]`, job.Responsibilities)
}

func TestJobController_AddJobJSONWithoutImage(t *testing.T) {
	var image *multipart.FileHeader
	svc := &mockJobService{
		CreateFunc: func(_ context.Context, req *dto.JobRequest, fh *multipart.FileHeader) (*models.Job, error) {
			image = fh
			return req.ToModel(), nil
		},
	}
	router := newJobRouter(svc, &fakeExporter{})

	body := map[string]interface{}{
		"title":            "Data Analyst",
		"company":          "Acme",
		"aboutRole":        "Analyse data",
		"responsibilities": []string{"Dashboards"},
		"requirements":     "SQL",
		"benefits":         "Remote",
		"companyInfo":      "Acme",
	}
	w := serve(router, jsonRequest(t, http.MethodPost, "/api/jobs/addjob", body))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Nil(t, image)

	var job models.Job
	decodeSuccess(t, w, &job)
	assert.Equal(t, `["Dashboards"]`, job.Responsibilities)
}

func TestJobController_AddJobMissingFields(t *testing.T) {
	svc := &mockJobService{}
	router := newJobRouter(svc, &fakeExporter{})

	w := serve(router, multipartRequest(t, http.MethodPost, "/api/jobs/addjob", map[string]string{"title": "Only a title"}, nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, decodeError(t, w).Code)
	assert.Zero(t, svc.createCalls)
}

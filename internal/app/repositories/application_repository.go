package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/gamage-recruiters/platform/internal/app/models"
	"github.com/gamage-recruiters/platform/internal/db"
	"github.com/gamage-recruiters/platform/internal/pkg/apperrors"
	"github.com/gamage-recruiters/platform/internal/pkg/dberrors"
	"github.com/gamage-recruiters/platform/internal/pkg/logger"
)

// IApplicationRepository defines the interface for job application storage
type IApplicationRepository interface {
	Create(ctx context.Context, app *models.JobApplication) error
	GetByID(ctx context.Context, id int64) (*models.JobApplication, error)
	List(ctx context.Context) ([]models.JobApplication, error)
	ListByJob(ctx context.Context, jobID int64) ([]models.JobApplication, error)
	ListByUser(ctx context.Context, userID int64) ([]models.JobApplication, error)
	CountByUser(ctx context.Context, userID int64) (int64, error)
	LatestByUser(ctx context.Context, userID int64) (*models.JobApplication, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id int64) error
	DeleteByUser(ctx context.Context, userID int64) ([]string, error)
}

var applicationColumns = []string{
	"a.id", "a.job_id", "a.user_id", "a.first_name", "a.last_name", "a.email",
	"a.phone_number", "a.resume", "a.applied_at", "j.title", "j.company",
}

// ApplicationRepository handles job application database operations
type ApplicationRepository struct {
	baseRepository
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(database *db.PostgresDB) *ApplicationRepository {
	return &ApplicationRepository{baseRepository: newBaseRepository(database)}
}

func scanApplication(row rowScanner) (*models.JobApplication, error) {
	a := &models.JobApplication{}
	err := row.Scan(&a.ID, &a.JobID, &a.UserID, &a.FirstName, &a.LastName, &a.Email,
		&a.PhoneNumber, &a.Resume, &a.AppliedAt, &a.JobTitle, &a.Company)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *ApplicationRepository) selectWithJob() squirrel.SelectBuilder {
	return r.sb.Select(applicationColumns...).
		From("job_applications a").
		Join("jobs j ON j.id = a.job_id")
}

func (r *ApplicationRepository) list(ctx context.Context, op string, q squirrel.SelectBuilder) ([]models.JobApplication, error) {
	rows, err := r.query(ctx, op, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := make([]models.JobApplication, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			logger.Error().Err(err).Str("op", op).Msg("Error scanning job application row")
			return nil, fmt.Errorf("error scanning job application: %w", err)
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}

// Create inserts an application. The (job_id, user_id) unique constraint turns a
// second application into apperrors.ErrAlreadyApplied.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.JobApplication) error {
	if app.AppliedAt.IsZero() {
		app.AppliedAt = time.Now()
	}

	row, err := r.queryRow(ctx, "create job application", r.sb.Insert("job_applications").
		Columns("job_id", "user_id", "first_name", "last_name", "email", "phone_number", "resume", "applied_at").
		Values(app.JobID, app.UserID, app.FirstName, app.LastName, app.Email, app.PhoneNumber, app.Resume, app.AppliedAt).
		Suffix("RETURNING id"))
	if err != nil {
		return err
	}

	if err := row.Scan(&app.ID); err != nil {
		if dberrors.IsUniqueViolation(err) {
			logger.Warn().Int64("jobID", app.JobID).Int64("userID", app.UserID).Msg("Duplicate job application rejected")
			return apperrors.ErrAlreadyApplied
		}
		logger.Error().Err(err).Int64("jobID", app.JobID).Msg("Error executing create job application query")
		return fmt.Errorf("error creating job application: %w", err)
	}
	return nil
}

// GetByID retrieves an application with its job title and company
func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*models.JobApplication, error) {
	row, err := r.queryRow(ctx, "get job application", r.selectWithJob().Where(squirrel.Eq{"a.id": id}))
	if err != nil {
		return nil, err
	}

	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		logger.Error().Err(err).Int64("applicationID", id).Msg("Error scanning job application row")
		return nil, fmt.Errorf("error retrieving job application: %w", err)
	}
	return app, nil
}

// List returns every application, newest first
func (r *ApplicationRepository) List(ctx context.Context) ([]models.JobApplication, error) {
	return r.list(ctx, "list job applications", r.selectWithJob().OrderBy("a.applied_at DESC", "a.id DESC"))
}

// ListByJob returns the applications received by one job
func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID int64) ([]models.JobApplication, error) {
	return r.list(ctx, "list job applications by job", r.selectWithJob().
		Where(squirrel.Eq{"a.job_id": jobID}).
		OrderBy("a.applied_at DESC", "a.id DESC"))
}

// ListByUser returns the applications submitted by one user
func (r *ApplicationRepository) ListByUser(ctx context.Context, userID int64) ([]models.JobApplication, error) {
	return r.list(ctx, "list job applications by user", r.selectWithJob().
		Where(squirrel.Eq{"a.user_id": userID}).
		OrderBy("a.applied_at DESC", "a.id DESC"))
}

// CountByUser returns how many jobs a user applied for
func (r *ApplicationRepository) CountByUser(ctx context.Context, userID int64) (int64, error) {
	return r.count(ctx, "count job applications by user", r.sb.Select("COUNT(*)").
		From("job_applications").
		Where(squirrel.Eq{"user_id": userID}))
}

// LatestByUser returns the user's most recent application
func (r *ApplicationRepository) LatestByUser(ctx context.Context, userID int64) (*models.JobApplication, error) {
	row, err := r.queryRow(ctx, "latest job application by user", r.selectWithJob().
		Where(squirrel.Eq{"a.user_id": userID}).
		OrderBy("a.applied_at DESC", "a.id DESC").
		Limit(1))
	if err != nil {
		return nil, err
	}

	app, err := scanApplication(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrActivityNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error scanning latest job application")
		return nil, fmt.Errorf("error retrieving latest job application: %w", err)
	}
	return app, nil
}

// Count returns the number of applications
func (r *ApplicationRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, "count job applications", r.sb.Select("COUNT(*)").From("job_applications"))
}

// Delete removes one application
func (r *ApplicationRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.exec(ctx, "delete job application", r.sb.Delete("job_applications").Where(squirrel.Eq{"id": id}))
	if err != nil {
		logger.Error().Err(err).Int64("applicationID", id).Msg("Error executing delete job application query")
		return fmt.Errorf("error deleting job application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrApplicationNotFound
	}
	return nil
}

// DeleteByUser removes a user's applications and returns their resume filenames
func (r *ApplicationRepository) DeleteByUser(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.query(ctx, "delete job applications by user", r.sb.Delete("job_applications").
		Where(squirrel.Eq{"user_id": userID}).
		Suffix("RETURNING resume"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	resumes := make([]string, 0)
	for rows.Next() {
		var resume string
		if err := rows.Scan(&resume); err != nil {
			return nil, fmt.Errorf("error scanning deleted resume: %w", err)
		}
		resumes = append(resumes, resume)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error deleting job applications")
		return nil, fmt.Errorf("error deleting job applications: %w", err)
	}
	return resumes, nil
}

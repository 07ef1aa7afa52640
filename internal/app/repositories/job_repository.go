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
	"github.com/gamage-recruiters/platform/internal/pkg/logger"
)

// IJobRepository defines the interface for job posting storage
type IJobRepository interface {
	Create(ctx context.Context, job *models.Job) error
	GetByID(ctx context.Context, id int64) (*models.Job, error)
	GetByTitleAndCompany(ctx context.Context, title, company string) (*models.Job, error)
	List(ctx context.Context) ([]*models.Job, error)
	Latest(ctx context.Context, limit uint64) ([]*models.Job, error)
	Update(ctx context.Context, job *models.Job) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
	ApplicationCounts(ctx context.Context) ([]models.JobApplicationCount, error)
}

var jobColumns = []string{
	"id", "title", "company", "location", "job_type", "about_role", "responsibilities",
	"requirements", "benefits", "company_info", "job_image", "created_at", "updated_at",
}

// JobRepository handles job database operations
type JobRepository struct {
	baseRepository
}

// NewJobRepository creates a new JobRepository
func NewJobRepository(database *db.PostgresDB) *JobRepository {
	return &JobRepository{baseRepository: newBaseRepository(database)}
}

func scanJob(row rowScanner) (*models.Job, error) {
	j := &models.Job{}
	err := row.Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.JobType, &j.AboutRole, &j.Responsibilities,
		&j.Requirements, &j.Benefits, &j.CompanyInfo, &j.JobImage, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (r *JobRepository) list(ctx context.Context, op string, q squirrel.SelectBuilder) ([]*models.Job, error) {
	rows, err := r.query(ctx, op, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := make([]*models.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			logger.Error().Err(err).Str("op", op).Msg("Error scanning job row")
			return nil, fmt.Errorf("error scanning job: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// Create inserts a job and sets its ID
func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	now := time.Now()
	row, err := r.queryRow(ctx, "create job", r.sb.Insert("jobs").
		Columns("title", "company", "location", "job_type", "about_role", "responsibilities",
			"requirements", "benefits", "company_info", "job_image", "created_at", "updated_at").
		Values(job.Title, job.Company, job.Location, job.JobType, job.AboutRole, job.Responsibilities,
			job.Requirements, job.Benefits, job.CompanyInfo, job.JobImage, now, now).
		Suffix("RETURNING id"))
	if err != nil {
		return err
	}

	if err := row.Scan(&job.ID); err != nil {
		logger.Error().Err(err).Str("title", job.Title).Msg("Error executing create job query")
		return fmt.Errorf("error creating job: %w", err)
	}
	job.CreatedAt = now
	job.UpdatedAt = now
	return nil
}

func (r *JobRepository) getOne(ctx context.Context, op string, where squirrel.Sqlizer) (*models.Job, error) {
	row, err := r.queryRow(ctx, op, r.sb.Select(jobColumns...).From("jobs").Where(where).OrderBy("id ASC").Limit(1))
	if err != nil {
		return nil, err
	}

	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrJobNotFound
		}
		logger.Error().Err(err).Str("op", op).Msg("Error scanning job row")
		return nil, fmt.Errorf("error retrieving job: %w", err)
	}
	return job, nil
}

// GetByID retrieves a job by ID
func (r *JobRepository) GetByID(ctx context.Context, id int64) (*models.Job, error) {
	return r.getOne(ctx, "get job by id", squirrel.Eq{"id": id})
}

// GetByTitleAndCompany finds the job an applicant names by its title and company
func (r *JobRepository) GetByTitleAndCompany(ctx context.Context, title, company string) (*models.Job, error) {
	return r.getOne(ctx, "get job by title and company", squirrel.Eq{"title": title, "company": company})
}

// List returns all jobs, newest first
func (r *JobRepository) List(ctx context.Context) ([]*models.Job, error) {
	return r.list(ctx, "list jobs", r.sb.Select(jobColumns...).From("jobs").OrderBy("created_at DESC", "id DESC"))
}

// Latest returns the most recently posted jobs
func (r *JobRepository) Latest(ctx context.Context, limit uint64) ([]*models.Job, error) {
	return r.list(ctx, "latest jobs", r.sb.Select(jobColumns...).From("jobs").OrderBy("created_at DESC", "id DESC").Limit(limit))
}

// Update overwrites a job's fields
func (r *JobRepository) Update(ctx context.Context, job *models.Job) error {
	job.UpdatedAt = time.Now()
	tag, err := r.exec(ctx, "update job", r.sb.Update("jobs").SetMap(map[string]interface{}{
		"title":            job.Title,
		"company":          job.Company,
		"location":         job.Location,
		"job_type":         job.JobType,
		"about_role":       job.AboutRole,
		"responsibilities": job.Responsibilities,
		"requirements":     job.Requirements,
		"benefits":         job.Benefits,
		"company_info":     job.CompanyInfo,
		"job_image":        job.JobImage,
		"updated_at":       job.UpdatedAt,
	}).Where(squirrel.Eq{"id": job.ID}))
	if err != nil {
		logger.Error().Err(err).Int64("jobID", job.ID).Msg("Error executing update job query")
		return fmt.Errorf("error updating job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrJobNotFound
	}
	return nil
}

// Delete removes a job; its applications go with it
func (r *JobRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.exec(ctx, "delete job", r.sb.Delete("jobs").Where(squirrel.Eq{"id": id}))
	if err != nil {
		logger.Error().Err(err).Int64("jobID", id).Msg("Error executing delete job query")
		return fmt.Errorf("error deleting job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrJobNotFound
	}
	return nil
}

// Count returns the number of posted jobs
func (r *JobRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, "count jobs", r.sb.Select("COUNT(*)").From("jobs"))
}

// ApplicationCounts returns the application total of every job, busiest first
func (r *JobRepository) ApplicationCounts(ctx context.Context) ([]models.JobApplicationCount, error) {
	q := r.sb.Select("j.id", "j.title", "j.company", "COUNT(a.id)").
		From("jobs j").
		LeftJoin("job_applications a ON a.job_id = j.id").
		GroupBy("j.id", "j.title", "j.company").
		OrderBy("COUNT(a.id) DESC", "j.id ASC")

	rows, err := r.query(ctx, "job application counts", q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]models.JobApplicationCount, 0)
	for rows.Next() {
		var c models.JobApplicationCount
		if err := rows.Scan(&c.JobID, &c.Title, &c.Company, &c.Count); err != nil {
			logger.Error().Err(err).Msg("Error scanning job application count")
			return nil, fmt.Errorf("error scanning application count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

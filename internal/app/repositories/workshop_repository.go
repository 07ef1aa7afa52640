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

// IWorkshopRepository defines the interface for workshop storage
type IWorkshopRepository interface {
	Create(ctx context.Context, w *models.Workshop) error
	GetByID(ctx context.Context, id int64) (*models.Workshop, error)
	List(ctx context.Context) ([]*models.Workshop, error)
	Latest(ctx context.Context, limit uint64) ([]*models.Workshop, error)
	Update(ctx context.Context, w *models.Workshop) error
	Delete(ctx context.Context, id int64) error
}

var workshopColumns = []string{"id", "title", "description", "venue", "date", "workshop_image", "added_at", "updated_at"}

// WorkshopRepository handles workshop database operations
type WorkshopRepository struct {
	baseRepository
}

// NewWorkshopRepository creates a new WorkshopRepository
func NewWorkshopRepository(database *db.PostgresDB) *WorkshopRepository {
	return &WorkshopRepository{baseRepository: newBaseRepository(database)}
}

func scanWorkshop(row rowScanner) (*models.Workshop, error) {
	w := &models.Workshop{}
	if err := row.Scan(&w.ID, &w.Title, &w.Description, &w.Venue, &w.Date, &w.WorkshopImage, &w.AddedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	return w, nil
}

func (r *WorkshopRepository) list(ctx context.Context, op string, q squirrel.SelectBuilder) ([]*models.Workshop, error) {
	rows, err := r.query(ctx, op, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	workshops := make([]*models.Workshop, 0)
	for rows.Next() {
		w, err := scanWorkshop(rows)
		if err != nil {
			logger.Error().Err(err).Str("op", op).Msg("Error scanning workshop row")
			return nil, fmt.Errorf("error scanning workshop: %w", err)
		}
		workshops = append(workshops, w)
	}
	return workshops, rows.Err()
}

// Create inserts a workshop and sets its ID
func (r *WorkshopRepository) Create(ctx context.Context, w *models.Workshop) error {
	now := time.Now()
	row, err := r.queryRow(ctx, "create workshop", r.sb.Insert("workshops").
		Columns("title", "description", "venue", "date", "workshop_image", "added_at", "updated_at").
		Values(w.Title, w.Description, w.Venue, w.Date, w.WorkshopImage, now, now).
		Suffix("RETURNING id"))
	if err != nil {
		return err
	}
	if err := row.Scan(&w.ID); err != nil {
		logger.Error().Err(err).Str("title", w.Title).Msg("Error executing create workshop query")
		return fmt.Errorf("error creating workshop: %w", err)
	}
	w.AddedAt = now
	w.UpdatedAt = now
	return nil
}

// GetByID retrieves a workshop by ID
func (r *WorkshopRepository) GetByID(ctx context.Context, id int64) (*models.Workshop, error) {
	row, err := r.queryRow(ctx, "get workshop", r.sb.Select(workshopColumns...).From("workshops").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return nil, err
	}

	w, err := scanWorkshop(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrWorkshopNotFound
		}
		logger.Error().Err(err).Int64("workshopID", id).Msg("Error scanning workshop row")
		return nil, fmt.Errorf("error retrieving workshop: %w", err)
	}
	return w, nil
}

// List returns all workshops by date, soonest first
func (r *WorkshopRepository) List(ctx context.Context) ([]*models.Workshop, error) {
	return r.list(ctx, "list workshops", r.sb.Select(workshopColumns...).From("workshops").OrderBy("date ASC", "id ASC"))
}

// Latest returns the most recently added workshops
func (r *WorkshopRepository) Latest(ctx context.Context, limit uint64) ([]*models.Workshop, error) {
	return r.list(ctx, "latest workshops", r.sb.Select(workshopColumns...).From("workshops").OrderBy("added_at DESC", "id DESC").Limit(limit))
}

// Update overwrites a workshop's fields
func (r *WorkshopRepository) Update(ctx context.Context, w *models.Workshop) error {
	w.UpdatedAt = time.Now()
	tag, err := r.exec(ctx, "update workshop", r.sb.Update("workshops").SetMap(map[string]interface{}{
		"title":          w.Title,
		"description":    w.Description,
		"venue":          w.Venue,
		"date":           w.Date,
		"workshop_image": w.WorkshopImage,
		"updated_at":     w.UpdatedAt,
	}).Where(squirrel.Eq{"id": w.ID}))
	if err != nil {
		logger.Error().Err(err).Int64("workshopID", w.ID).Msg("Error executing update workshop query")
		return fmt.Errorf("error updating workshop: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrWorkshopNotFound
	}
	return nil
}

// Delete removes a workshop
func (r *WorkshopRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.exec(ctx, "delete workshop", r.sb.Delete("workshops").Where(squirrel.Eq{"id": id}))
	if err != nil {
		logger.Error().Err(err).Int64("workshopID", id).Msg("Error executing delete workshop query")
		return fmt.Errorf("error deleting workshop: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrWorkshopNotFound
	}
	return nil
}

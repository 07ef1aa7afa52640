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

// IActivityLogRepository stores the user activity feed
type IActivityLogRepository interface {
	Create(ctx context.Context, userID int64, activity string) error
	LatestByUser(ctx context.Context, userID int64) (*models.ActivityLog, error)
	DeleteByUser(ctx context.Context, userID int64) error
}

// ActivityLogRepository handles activity log database operations
type ActivityLogRepository struct {
	baseRepository
}

// NewActivityLogRepository creates a new ActivityLogRepository
func NewActivityLogRepository(database *db.PostgresDB) *ActivityLogRepository {
	return &ActivityLogRepository{baseRepository: newBaseRepository(database)}
}

// Create appends an activity entry
func (r *ActivityLogRepository) Create(ctx context.Context, userID int64, activity string) error {
	_, err := r.exec(ctx, "create activity log", r.sb.Insert("activity_logs").
		Columns("user_id", "activity", "completed_at").
		Values(userID, activity, time.Now()))
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error executing create activity log query")
		return fmt.Errorf("error creating activity log: %w", err)
	}
	return nil
}

// LatestByUser returns the user's most recent activity entry
func (r *ActivityLogRepository) LatestByUser(ctx context.Context, userID int64) (*models.ActivityLog, error) {
	row, err := r.queryRow(ctx, "latest activity log", r.sb.Select("id", "user_id", "activity", "completed_at").
		From("activity_logs").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("completed_at DESC", "id DESC").
		Limit(1))
	if err != nil {
		return nil, err
	}

	log := &models.ActivityLog{}
	if err := row.Scan(&log.ID, &log.UserID, &log.Activity, &log.CompletedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrActivityNotFound
		}
		logger.Error().Err(err).Int64("userID", userID).Msg("Error scanning activity log row")
		return nil, fmt.Errorf("error retrieving activity log: %w", err)
	}
	return log, nil
}

// DeleteByUser removes every activity entry of a user
func (r *ActivityLogRepository) DeleteByUser(ctx context.Context, userID int64) error {
	_, err := r.exec(ctx, "delete activity logs", r.sb.Delete("activity_logs").Where(squirrel.Eq{"user_id": userID}))
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error deleting activity logs")
		return fmt.Errorf("error deleting activity logs: %w", err)
	}
	return nil
}

package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/gamage-recruiters/platform/internal/app/models"
	"github.com/gamage-recruiters/platform/internal/db"
	"github.com/gamage-recruiters/platform/internal/pkg/apperrors"
	"github.com/gamage-recruiters/platform/internal/pkg/dberrors"
	"github.com/gamage-recruiters/platform/internal/pkg/logger"
)

// ISessionRepository stores one row per login
type ISessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	Exists(ctx context.Context, token string) (bool, error)
	DeleteByToken(ctx context.Context, token string) (bool, error)
	DeleteBySubject(ctx context.Context, role models.SessionRole, subjectID int64) error
}

// SessionRepository handles session database operations
type SessionRepository struct {
	baseRepository
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(database *db.PostgresDB) *SessionRepository {
	return &SessionRepository{baseRepository: newBaseRepository(database)}
}

// Create inserts a session row for a freshly issued token
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.Status == "" {
		session.Status = "active"
	}
	session.CreatedAt = time.Now()

	row, err := r.queryRow(ctx, "create session", r.sb.Insert("sessions").
		Columns("subject_id", "token", "role", "status", "created_at").
		Values(session.SubjectID, session.Token, session.Role, session.Status, session.CreatedAt).
		Suffix("RETURNING id"))
	if err != nil {
		return err
	}

	if err := row.Scan(&session.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "sessions_token_key") {
			logger.Warn().Int64("subjectID", session.SubjectID).Msg("Attempted to create duplicate session token")
			return apperrors.ErrTokenInvalid
		}
		logger.Error().Err(err).Int64("subjectID", session.SubjectID).Msg("Error executing create session query")
		return fmt.Errorf("error creating session: %w", err)
	}
	return nil
}

// Exists reports whether a session row holds this token
func (r *SessionRepository) Exists(ctx context.Context, token string) (bool, error) {
	n, err := r.count(ctx, "session exists", r.sb.Select("COUNT(*)").From("sessions").Where(squirrel.Eq{"token": token}))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteByToken removes the session holding this token and reports whether one existed
func (r *SessionRepository) DeleteByToken(ctx context.Context, token string) (bool, error) {
	tag, err := r.exec(ctx, "delete session", r.sb.Delete("sessions").Where(squirrel.Eq{"token": token}))
	if err != nil {
		logger.Error().Err(err).Msg("Error executing delete session query")
		return false, fmt.Errorf("error deleting session: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteBySubject removes every session of one principal
func (r *SessionRepository) DeleteBySubject(ctx context.Context, role models.SessionRole, subjectID int64) error {
	_, err := r.exec(ctx, "delete subject sessions", r.sb.Delete("sessions").
		Where(squirrel.Eq{"role": role, "subject_id": subjectID}))
	if err != nil {
		logger.Error().Err(err).Int64("subjectID", subjectID).Msg("Error deleting subject sessions")
		return fmt.Errorf("error deleting sessions: %w", err)
	}
	return nil
}

package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/gamage-recruiters/platform/internal/db"
	"github.com/gamage-recruiters/platform/internal/pkg/logger"
)

// IBlogRepository covers the user-owned blog rows removed with an account
type IBlogRepository interface {
	DeleteCommentsByUser(ctx context.Context, userID int64) error
	DeleteLikesByUser(ctx context.Context, userID int64) error
}

// BlogRepository handles blog comment and like rows
type BlogRepository struct {
	baseRepository
}

// NewBlogRepository creates a new BlogRepository
func NewBlogRepository(database *db.PostgresDB) *BlogRepository {
	return &BlogRepository{baseRepository: newBaseRepository(database)}
}

// DeleteCommentsByUser removes every comment written by a user
func (r *BlogRepository) DeleteCommentsByUser(ctx context.Context, userID int64) error {
	if _, err := r.exec(ctx, "delete blog comments", r.sb.Delete("blog_comments").Where(squirrel.Eq{"user_id": userID})); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error deleting blog comments")
		return fmt.Errorf("error deleting blog comments: %w", err)
	}
	return nil
}

// DeleteLikesByUser removes every like given by a user
func (r *BlogRepository) DeleteLikesByUser(ctx context.Context, userID int64) error {
	if _, err := r.exec(ctx, "delete blog likes", r.sb.Delete("blog_likes").Where(squirrel.Eq{"user_id": userID})); err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error deleting blog likes")
		return fmt.Errorf("error deleting blog likes: %w", err)
	}
	return nil
}

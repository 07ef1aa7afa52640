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

// IUserRepository defines the interface for user-related database operations
type IUserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]*models.User, error)
	Count(ctx context.Context) (int64, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdatePhoto(ctx context.Context, id int64, photo string) error
	UpdateCV(ctx context.Context, id int64, cv string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SetNewsletterSubscription(ctx context.Context, email string, subscribed bool) error
	RecordActivity(ctx context.Context, id int64, activity string) error
	Delete(ctx context.Context, id int64) error
}

var userColumns = []string{
	"id", "first_name", "last_name", "email", "password", "gender", "birth_date",
	"address", "address2", "phone_number1", "phone_number2", "linkedin_link",
	"facebook_link", "portfolio_link", "profile_description", "cv", "photo",
	"subscribed_to_newsletter", "recent_activity", "last_active_at", "created_at", "updated_at",
}

// UserRepository handles user database operations
type UserRepository struct {
	baseRepository
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(database *db.PostgresDB) *UserRepository {
	return &UserRepository{baseRepository: newBaseRepository(database)}
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Password, &u.Gender, &u.BirthDate,
		&u.Address, &u.Address2, &u.PhoneNumber1, &u.PhoneNumber2, &u.LinkedInLink,
		&u.FacebookLink, &u.PortfolioLink, &u.ProfileDescription, &u.CV, &u.Photo,
		&u.SubscribedToNewsletter, &u.RecentActivity, &u.LastActiveAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts a user and sets its ID. A duplicate email yields apperrors.ErrEmailAlreadyExists.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now()
	q := r.sb.Insert("users").
		Columns("first_name", "last_name", "email", "password", "gender", "birth_date",
			"address", "address2", "phone_number1", "phone_number2", "linkedin_link",
			"facebook_link", "portfolio_link", "profile_description", "cv", "photo",
			"created_at", "updated_at").
		Values(user.FirstName, user.LastName, user.Email, user.Password, user.Gender, user.BirthDate,
			user.Address, user.Address2, user.PhoneNumber1, user.PhoneNumber2, user.LinkedInLink,
			user.FacebookLink, user.PortfolioLink, user.ProfileDescription, user.CV, user.Photo,
			now, now).
		Suffix("RETURNING id")

	row, err := r.queryRow(ctx, "create user", q)
	if err != nil {
		return err
	}

	if err := row.Scan(&user.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			logger.Warn().Str("email", user.Email).Msg("Attempted to register duplicate email")
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error executing create user query")
		return fmt.Errorf("error creating user: %w", err)
	}

	user.CreatedAt = now
	user.UpdatedAt = now
	return nil
}

func (r *UserRepository) getOne(ctx context.Context, op string, where squirrel.Sqlizer) (*models.User, error) {
	row, err := r.queryRow(ctx, op, r.sb.Select(userColumns...).From("users").Where(where).Limit(1))
	if err != nil {
		return nil, err
	}

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		logger.Error().Err(err).Str("op", op).Msg("Error scanning user row")
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, "get user by id", squirrel.Eq{"id": id})
}

// GetByEmail retrieves a user by exact email match
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "get user by email", squirrel.Eq{"email": email})
}

// EmailExists checks if an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	n, err := r.count(ctx, "user email exists", r.sb.Select("COUNT(*)").From("users").Where(squirrel.Eq{"email": email}))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns every user, newest first
func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.query(ctx, "list users", r.sb.Select(userColumns...).From("users").OrderBy("created_at DESC"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning user row")
			return nil, fmt.Errorf("error scanning user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

// Count returns the number of registered users
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, "count users", r.sb.Select("COUNT(*)").From("users"))
}

func (r *UserRepository) updateByID(ctx context.Context, op string, id int64, set map[string]interface{}) error {
	set["updated_at"] = time.Now()
	tag, err := r.exec(ctx, op, r.sb.Update("users").SetMap(set).Where(squirrel.Eq{"id": id}))
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Int64("userID", id).Str("op", op).Msg("Error executing user update")
		return fmt.Errorf("error updating user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdateProfile overwrites the editable profile fields, including file references
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	return r.updateByID(ctx, "update user profile", user.ID, map[string]interface{}{
		"first_name":          user.FirstName,
		"last_name":           user.LastName,
		"email":               user.Email,
		"gender":              user.Gender,
		"birth_date":          user.BirthDate,
		"address":             user.Address,
		"address2":            user.Address2,
		"phone_number1":       user.PhoneNumber1,
		"phone_number2":       user.PhoneNumber2,
		"linkedin_link":       user.LinkedInLink,
		"facebook_link":       user.FacebookLink,
		"portfolio_link":      user.PortfolioLink,
		"profile_description": user.ProfileDescription,
		"cv":                  user.CV,
		"photo":               user.Photo,
	})
}

// UpdatePhoto stores a new photo filename
func (r *UserRepository) UpdatePhoto(ctx context.Context, id int64, photo string) error {
	return r.updateByID(ctx, "update user photo", id, map[string]interface{}{"photo": photo})
}

// UpdateCV stores a new CV filename
func (r *UserRepository) UpdateCV(ctx context.Context, id int64, cv string) error {
	return r.updateByID(ctx, "update user cv", id, map[string]interface{}{"cv": cv})
}

// UpdatePassword stores a new password hash
func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return r.updateByID(ctx, "update user password", id, map[string]interface{}{"password": passwordHash})
}

// RecordActivity updates the user's latest-activity summary
func (r *UserRepository) RecordActivity(ctx context.Context, id int64, activity string) error {
	return r.updateByID(ctx, "record user activity", id, map[string]interface{}{
		"recent_activity": activity,
		"last_active_at":  time.Now(),
	})
}

// SetNewsletterSubscription flips the newsletter flag for the account with this email
func (r *UserRepository) SetNewsletterSubscription(ctx context.Context, email string, subscribed bool) error {
	tag, err := r.exec(ctx, "set newsletter subscription", r.sb.Update("users").
		Set("subscribed_to_newsletter", subscribed).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"email": email}))
	if err != nil {
		logger.Error().Err(err).Str("email", email).Msg("Error updating newsletter subscription")
		return fmt.Errorf("error updating newsletter subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// Delete removes the user row; dependent rows must be removed first
func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.exec(ctx, "delete user", r.sb.Delete("users").Where(squirrel.Eq{"id": id}))
	if err != nil {
		logger.Error().Err(err).Int64("userID", id).Msg("Error executing delete user query")
		return fmt.Errorf("error deleting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

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

// IAdminRepository defines the interface for admin account storage
type IAdminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	GetByID(ctx context.Context, id int64) (*models.Admin, error)
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	List(ctx context.Context) ([]*models.Admin, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, admin *models.Admin) error
	Delete(ctx context.Context, id int64) error
}

var adminColumns = []string{
	"id", "name", "email", "password", "gender", "role", "status",
	"primary_phone_number", "secondary_phone_number", "image", "created_at", "updated_at",
}

// AdminRepository handles admin database operations
type AdminRepository struct {
	baseRepository
}

// NewAdminRepository creates a new AdminRepository
func NewAdminRepository(database *db.PostgresDB) *AdminRepository {
	return &AdminRepository{baseRepository: newBaseRepository(database)}
}

func scanAdmin(row rowScanner) (*models.Admin, error) {
	a := &models.Admin{}
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.Password, &a.Gender, &a.Role, &a.Status,
		&a.PrimaryPhoneNumber, &a.SecondaryPhoneNumber, &a.Image, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts an admin and sets its ID
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	now := time.Now()
	q := r.sb.Insert("admins").
		Columns("name", "email", "password", "gender", "role", "status",
			"primary_phone_number", "secondary_phone_number", "image", "created_at", "updated_at").
		Values(admin.Name, admin.Email, admin.Password, admin.Gender, admin.Role, admin.Status,
			admin.PrimaryPhoneNumber, admin.SecondaryPhoneNumber, admin.Image, now, now).
		Suffix("RETURNING id")

	row, err := r.queryRow(ctx, "create admin", q)
	if err != nil {
		return err
	}

	if err := row.Scan(&admin.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "admins_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", admin.Email).Msg("Error executing create admin query")
		return fmt.Errorf("error creating admin: %w", err)
	}

	admin.CreatedAt = now
	admin.UpdatedAt = now
	return nil
}

func (r *AdminRepository) getOne(ctx context.Context, op string, where squirrel.Sqlizer) (*models.Admin, error) {
	row, err := r.queryRow(ctx, op, r.sb.Select(adminColumns...).From("admins").Where(where).Limit(1))
	if err != nil {
		return nil, err
	}

	admin, err := scanAdmin(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAdminNotFound
		}
		logger.Error().Err(err).Str("op", op).Msg("Error scanning admin row")
		return nil, fmt.Errorf("error retrieving admin: %w", err)
	}
	return admin, nil
}

// GetByID retrieves an admin by ID
func (r *AdminRepository) GetByID(ctx context.Context, id int64) (*models.Admin, error) {
	return r.getOne(ctx, "get admin by id", squirrel.Eq{"id": id})
}

// GetByEmail retrieves an admin by email
func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	return r.getOne(ctx, "get admin by email", squirrel.Eq{"email": email})
}

// List returns all admins ordered by name
func (r *AdminRepository) List(ctx context.Context) ([]*models.Admin, error) {
	rows, err := r.query(ctx, "list admins", r.sb.Select(adminColumns...).From("admins").OrderBy("name ASC"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	admins := make([]*models.Admin, 0)
	for rows.Next() {
		a, err := scanAdmin(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning admin row")
			return nil, fmt.Errorf("error scanning admin: %w", err)
		}
		admins = append(admins, a)
	}
	return admins, rows.Err()
}

// Count returns the number of admin accounts
func (r *AdminRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, "count admins", r.sb.Select("COUNT(*)").From("admins"))
}

// Update overwrites the editable admin fields
func (r *AdminRepository) Update(ctx context.Context, admin *models.Admin) error {
	admin.UpdatedAt = time.Now()
	tag, err := r.exec(ctx, "update admin", r.sb.Update("admins").SetMap(map[string]interface{}{
		"name":                   admin.Name,
		"email":                  admin.Email,
		"password":               admin.Password,
		"gender":                 admin.Gender,
		"role":                   admin.Role,
		"status":                 admin.Status,
		"primary_phone_number":   admin.PrimaryPhoneNumber,
		"secondary_phone_number": admin.SecondaryPhoneNumber,
		"image":                  admin.Image,
		"updated_at":             admin.UpdatedAt,
	}).Where(squirrel.Eq{"id": admin.ID}))
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "admins_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Int64("adminID", admin.ID).Msg("Error executing update admin query")
		return fmt.Errorf("error updating admin: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAdminNotFound
	}
	return nil
}

// Delete removes an admin account
func (r *AdminRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.exec(ctx, "delete admin", r.sb.Delete("admins").Where(squirrel.Eq{"id": id}))
	if err != nil {
		logger.Error().Err(err).Int64("adminID", id).Msg("Error executing delete admin query")
		return fmt.Errorf("error deleting admin: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrAdminNotFound
	}
	return nil
}

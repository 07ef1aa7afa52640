package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/gamage-recruiters/platform/internal/app/models"
	"github.com/gamage-recruiters/platform/internal/db"
	"github.com/gamage-recruiters/platform/internal/pkg/logger"
)

// IFederatedLoginRepository appends OAuth login audit rows
type IFederatedLoginRepository interface {
	Create(ctx context.Context, login *models.FederatedLogin) error
}

// FederatedLoginRepository handles federated login audit rows
type FederatedLoginRepository struct {
	baseRepository
}

// NewFederatedLoginRepository creates a new FederatedLoginRepository
func NewFederatedLoginRepository(database *db.PostgresDB) *FederatedLoginRepository {
	return &FederatedLoginRepository{baseRepository: newBaseRepository(database)}
}

// Create appends an audit row; there is no uniqueness on any column
func (r *FederatedLoginRepository) Create(ctx context.Context, login *models.FederatedLogin) error {
	if login.LoggedAt.IsZero() {
		login.LoggedAt = time.Now()
	}

	row, err := r.queryRow(ctx, "create federated login", r.sb.Insert("federated_logins").
		Columns("account_id", "name", "email", "photo", "platform", "logged_at").
		Values(login.AccountID, login.Name, login.Email, login.Photo, login.Platform, login.LoggedAt).
		Suffix("RETURNING id"))
	if err != nil {
		return err
	}

	if err := row.Scan(&login.ID); err != nil {
		logger.Error().Err(err).Str("platform", login.Platform).Msg("Error executing create federated login query")
		return fmt.Errorf("error recording federated login: %w", err)
	}
	return nil
}

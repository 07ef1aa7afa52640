package seed

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/gamage-recruiters/platform/internal/config"
)

// AdminSeeder creates the first admin account
type AdminSeeder interface {
	SeedDefault(ctx context.Context, name, email, password string) (bool, error)
}

// CreateDefaultData creates the configured super admin if no admin exists yet.
// Errors are returned to the caller, which logs them and keeps starting.
func CreateDefaultData(ctx context.Context, cfg *config.Config, admins AdminSeeder, lgr zerolog.Logger) error {
	if cfg.Admin.SeedEmail == "" || cfg.Admin.SeedPassword == "" {
		lgr.Info().Msg("No seed admin configured, skipping default data")
		return nil
	}

	lgr.Info().Msg("Checking/Creating default admin...")
	created, err := admins.SeedDefault(ctx, cfg.Admin.SeedName, cfg.Admin.SeedEmail, cfg.Admin.SeedPassword)
	if err != nil {
		lgr.Error().Err(err).Str("email", cfg.Admin.SeedEmail).Msg("Error creating default admin")
		return err
	}
	if created {
		lgr.Info().Str("email", cfg.Admin.SeedEmail).Msg("Default admin created successfully")
	} else {
		lgr.Info().Msg("Admin accounts already exist, skipping creation")
	}
	return nil
}

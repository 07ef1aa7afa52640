package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/gamage-recruiters/platform/internal/config"
)

type fakeSeeder struct {
	calls   int
	created bool
	err     error
	email   string
}

func (f *fakeSeeder) SeedDefault(_ context.Context, _, email, _ string) (bool, error) {
	f.calls++
	f.email = email
	return f.created, f.err
}

func TestCreateDefaultData(t *testing.T) {
	t.Run("skips without credentials", func(t *testing.T) {
		cfg := &config.Config{}
		seeder := &fakeSeeder{}

		assert.NoError(t, CreateDefaultData(context.Background(), cfg, seeder, zerolog.Nop()))
		assert.Zero(t, seeder.calls)
	})

	t.Run("seeds configured admin", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Admin.SeedEmail = "root@example.com"
		cfg.Admin.SeedPassword = "Secret123"
		seeder := &fakeSeeder{created: true}

		assert.NoError(t, CreateDefaultData(context.Background(), cfg, seeder, zerolog.Nop()))
		assert.Equal(t, 1, seeder.calls)
		assert.Equal(t, "root@example.com", seeder.email)
	})

	t.Run("returns seeding errors", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Admin.SeedEmail = "root@example.com"
		cfg.Admin.SeedPassword = "Secret123"
		seeder := &fakeSeeder{err: errors.New("db down")}

		assert.Error(t, CreateDefaultData(context.Background(), cfg, seeder, zerolog.Nop()))
	})
}

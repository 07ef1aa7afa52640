package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamage-recruiters/platform/internal/app/models"
	"github.com/gamage-recruiters/platform/internal/pkg/apperrors"
	"github.com/gamage-recruiters/platform/internal/pkg/oauth"
)

func setupTestFederatedService() (*FederatedService, *mockUserRepository, *mockFederatedLoginRepository, *mockSessionRepository) {
	users := &mockUserRepository{}
	logins := &mockFederatedLoginRepository{}
	sessions := newMockSessionRepository()
	authService := NewAuthService(users, &mockAdminRepository{}, sessions, newTestJWTService(), &fakeEmailService{}, zerolog.Nop())
	service := NewFederatedService(users, logins, authService, "https://jobs.example.com/", zerolog.Nop())
	return service, users, logins, sessions
}

func googleProfile(name, email string) *oauth.Profile {
	return &oauth.Profile{ProviderID: "g-123", Name: name, Email: email, Photo: "https://example.com/p.png", Platform: oauth.PlatformGoogle}
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		in, first, last string
	}{
		{"Jane Q Public", "Jane", "Q Public"},
		{"Jane", "Jane", ""},
		{"  Jane   Public  ", "Jane", "Public"},
		{"", "", ""},
	}
	for _, tt := range tests {
		first, last := SplitName(tt.in)
		assert.Equal(t, tt.first, first, tt.in)
		assert.Equal(t, tt.last, last, tt.in)
	}
}

func TestHandleCallback_ProvisionsUnknownUser(t *testing.T) {
	service, users, logins, sessions := setupTestFederatedService()
	users.getByEmailFunc = func(context.Context, string) (*models.User, error) {
		return nil, apperrors.ErrUserNotFound
	}
	var created []*models.User
	users.createFunc = func(ctx context.Context, user *models.User) error {
		user.ID = 42
		created = append(created, user)
		return nil
	}

	result, err := service.HandleCallback(context.Background(), googleProfile("Jane Q Public", "jane@example.com"))
	require.NoError(t, err)

	require.Len(t, created, 1)
	assert.Equal(t, "Jane", created[0].FirstName)
	assert.Equal(t, "Q Public", created[0].LastName)
	assert.Equal(t, "jane@example.com", created[0].Email)
	assert.Empty(t, created[0].Password)

	assert.True(t, result.Created)
	assert.Equal(t, "https://jobs.example.com/dashboard", result.RedirectURL)
	assert.Equal(t, 1, sessions.count())

	require.Len(t, logins.logins, 1)
	assert.Equal(t, "g-123", logins.logins[0].AccountID)
	assert.Equal(t, "Google", logins.logins[0].Platform)
}

func TestHandleCallback_ExistingUserIsReused(t *testing.T) {
	service, users, logins, _ := setupTestFederatedService()
	users.getByEmailFunc = func(context.Context, string) (*models.User, error) {
		return &models.User{ID: 9, Email: "jane@example.com"}, nil
	}

	result, err := service.HandleCallback(context.Background(), googleProfile("Jane Public", "jane@example.com"))
	require.NoError(t, err)

	assert.False(t, result.Created)
	assert.Equal(t, int64(9), result.User.ID)
	assert.Len(t, logins.logins, 1)
}

func TestHandleCallback_ProvisioningFailureStillAudits(t *testing.T) {
	service, users, logins, sessions := setupTestFederatedService()
	users.getByEmailFunc = func(context.Context, string) (*models.User, error) {
		return nil, apperrors.ErrUserNotFound
	}
	users.createFunc = func(context.Context, *models.User) error {
		return errors.New("insert failed")
	}

	result, err := service.HandleCallback(context.Background(), googleProfile("Jane Q Public", "jane@example.com"))

	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrProvisioning)
	assert.Len(t, logins.logins, 1)
	assert.Zero(t, sessions.count(), "no token without an account")
}

func TestHandleCallback_AuditFailureStops(t *testing.T) {
	service, users, logins, _ := setupTestFederatedService()
	logins.createErr = errors.New("audit insert failed")
	looked := false
	users.getByEmailFunc = func(context.Context, string) (*models.User, error) {
		looked = true
		return nil, apperrors.ErrUserNotFound
	}

	_, err := service.HandleCallback(context.Background(), googleProfile("Jane", "jane@example.com"))

	assert.Error(t, err)
	assert.False(t, looked)
}

func TestHandleCallback_MissingEmail(t *testing.T) {
	service, _, logins, _ := setupTestFederatedService()

	_, err := service.HandleCallback(context.Background(), googleProfile("Jane", ""))

	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	assert.Len(t, logins.logins, 1)
}

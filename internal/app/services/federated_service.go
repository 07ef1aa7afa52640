package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gamage-recruiters/platform/internal/app/models"
	"github.com/gamage-recruiters/platform/internal/app/repositories"
	"github.com/gamage-recruiters/platform/internal/pkg/apperrors"
	"github.com/gamage-recruiters/platform/internal/pkg/auth"
	"github.com/gamage-recruiters/platform/internal/pkg/oauth"
)

// SessionIssuer opens a session for an authenticated subject
type SessionIssuer interface {
	IssueSession(ctx context.Context, subjectID int64, email string, role auth.Role) (*auth.IssuedToken, error)
}

// FederatedResult is the outcome of a successful provider callback
type FederatedResult struct {
	Token       *auth.IssuedToken
	User        *models.User
	Created     bool
	RedirectURL string
}

// FederatedService links provider identities to local user accounts
type FederatedService struct {
	userRepo    repositories.IUserRepository
	loginRepo   repositories.IFederatedLoginRepository
	sessions    SessionIssuer
	frontendURL string
	logger      zerolog.Logger
}

// NewFederatedService creates a new FederatedService
func NewFederatedService(
	userRepo repositories.IUserRepository,
	loginRepo repositories.IFederatedLoginRepository,
	sessions SessionIssuer,
	frontendURL string,
	logger zerolog.Logger,
) *FederatedService {
	return &FederatedService{
		userRepo:    userRepo,
		loginRepo:   loginRepo,
		sessions:    sessions,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		logger:      logger,
	}
}

// SplitName splits a display name at the first run of whitespace.
// "Jane Q Public" becomes ("Jane", "Q Public"); a single word leaves the last name empty.
func SplitName(fullName string) (string, string) {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return "", ""
	}
	return fields[0], strings.Join(fields[1:], " ")
}

// HandleCallback records the login, finds or provisions the user and opens a session
func (s *FederatedService) HandleCallback(ctx context.Context, profile *oauth.Profile) (*FederatedResult, error) {
	// Audit row first, for every callback
	login := &models.FederatedLogin{
		AccountID: profile.ProviderID,
		Name:      profile.Name,
		Email:     profile.Email,
		Photo:     profile.Photo,
		Platform:  string(profile.Platform),
	}
	if err := s.loginRepo.Create(ctx, login); err != nil {
		return nil, fmt.Errorf("error recording federated login: %w", err)
	}

	emailAddr := strings.TrimSpace(profile.Email)
	if emailAddr == "" {
		return nil, apperrors.NewValidationError(fmt.Sprintf("%s did not share an email address", profile.Platform))
	}

	user, created, err := s.findOrProvision(ctx, emailAddr, profile)
	if err != nil {
		return nil, err
	}

	token, err := s.sessions.IssueSession(ctx, user.ID, user.Email, auth.RoleUser)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("userID", user.ID).
		Str("platform", string(profile.Platform)).
		Bool("created", created).
		Msg("Federated login completed")

	return &FederatedResult{
		Token:       token,
		User:        user,
		Created:     created,
		RedirectURL: s.frontendURL + "/dashboard",
	}, nil
}

func (s *FederatedService) findOrProvision(ctx context.Context, emailAddr string, profile *oauth.Profile) (*models.User, bool, error) {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, false, err
	}

	firstName, lastName := SplitName(profile.Name)
	user = &models.User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     emailAddr,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error().Err(err).Str("platform", string(profile.Platform)).Msg("Failed to provision federated user")
		return nil, false, apperrors.NewProvisioningError(err)
	}

	return user, true, nil
}

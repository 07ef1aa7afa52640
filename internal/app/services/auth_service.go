package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gamage-recruiters/platform/internal/app/models"
	"github.com/gamage-recruiters/platform/internal/app/models/dto"
	"github.com/gamage-recruiters/platform/internal/app/repositories"
	"github.com/gamage-recruiters/platform/internal/pkg/apperrors"
	"github.com/gamage-recruiters/platform/internal/pkg/auth"
	"github.com/gamage-recruiters/platform/internal/pkg/email"
)

const sessionStatusActive = "active"

// LoginResult is a signed token together with the principal it was issued for
type LoginResult struct {
	Token *auth.IssuedToken
	User  *models.User
	Admin *models.Admin
}

// AuthService handles registration, login and logout for users and admins
type AuthService struct {
	userRepo     repositories.IUserRepository
	adminRepo    repositories.IAdminRepository
	sessionRepo  repositories.ISessionRepository
	jwtService   *auth.JWTService
	emailService email.EmailService
	logger       zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repositories.IUserRepository,
	adminRepo repositories.IAdminRepository,
	sessionRepo repositories.ISessionRepository,
	jwtService *auth.JWTService,
	emailService email.EmailService,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		adminRepo:    adminRepo,
		sessionRepo:  sessionRepo,
		jwtService:   jwtService,
		emailService: emailService,
		logger:       logger,
	}
}

// Register creates a user account with a hashed password. An existing email is a conflict
// and the existing row is left untouched.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	emailAddr := strings.TrimSpace(req.Email)

	birthDate, err := parseDate(req.BirthDate)
	if err != nil || birthDate == nil {
		return nil, apperrors.NewValidationError("birthDate must be a date in YYYY-MM-DD format")
	}

	// Check if email already exists
	exists, err := s.userRepo.EmailExists(ctx, emailAddr)
	if err != nil {
		return nil, fmt.Errorf("error checking if email exists: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	// Hash password
	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	user := &models.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        emailAddr,
		Password:     hashedPassword,
		Gender:       strings.TrimSpace(req.Gender),
		BirthDate:    birthDate,
		Address:      strings.TrimSpace(req.Address),
		Address2:     strings.TrimSpace(req.Address2),
		PhoneNumber1: strings.TrimSpace(req.PhoneNumber1),
		PhoneNumber2: strings.TrimSpace(req.PhoneNumber2),
	}

	// The unique constraint still guards against a concurrent registration
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Msg("User registered")

	if err := s.emailService.SendWelcomeEmail(user.Email, user.FirstName); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to send welcome email")
	}

	return user, nil
}

// Login checks a user's credentials and opens a new session. Existing sessions stay valid.
func (s *AuthService) Login(ctx context.Context, emailAddr, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(emailAddr))
	if err != nil {
		return nil, err
	}

	if !user.HasPassword() || !auth.CheckPassword(user.Password, password) {
		s.logger.Info().Int64("userID", user.ID).Msg("Login rejected: invalid credentials")
		return nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.openSession(ctx, user.ID, user.Email, auth.RoleUser)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", user.ID).Msg("User logged in")
	return &LoginResult{Token: token, User: user}, nil
}

// AdminLogin checks an admin's credentials and opens an admin session
func (s *AuthService) AdminLogin(ctx context.Context, emailAddr, password string) (*LoginResult, error) {
	admin, err := s.adminRepo.GetByEmail(ctx, strings.TrimSpace(emailAddr))
	if err != nil {
		return nil, err
	}

	if !auth.CheckPassword(admin.Password, password) {
		s.logger.Info().Int64("adminID", admin.ID).Msg("Admin login rejected: invalid credentials")
		return nil, apperrors.ErrInvalidCredentials
	}

	if admin.Status == models.AdminStatusInactive {
		return nil, apperrors.NewForbiddenError("This admin account is inactive")
	}

	token, err := s.openSession(ctx, admin.ID, admin.Email, auth.RoleAdmin)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("adminID", admin.ID).Msg("Admin logged in")
	return &LoginResult{Token: token, Admin: admin}, nil
}

// IssueSession signs a token for a subject and records its session row
func (s *AuthService) IssueSession(ctx context.Context, subjectID int64, emailAddr string, role auth.Role) (*auth.IssuedToken, error) {
	return s.openSession(ctx, subjectID, emailAddr, role)
}

func (s *AuthService) openSession(ctx context.Context, subjectID int64, emailAddr string, role auth.Role) (*auth.IssuedToken, error) {
	token, err := s.jwtService.Issue(subjectID, emailAddr, role)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}

	session := &models.Session{
		SubjectID: subjectID,
		Token:     token.Token,
		Role:      models.SessionRole(role),
		Status:    sessionStatusActive,
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("error recording session: %w", err)
	}

	return token, nil
}

// Logout deletes the session row of token. A missing token or row is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	deleted, err := s.sessionRepo.DeleteByToken(ctx, token)
	if err != nil {
		return err
	}
	if !deleted {
		s.logger.Debug().Msg("Logout for a token without a session row")
	}
	return nil
}

// ProfileData returns the account of the authenticated user
func (s *AuthService) ProfileData(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

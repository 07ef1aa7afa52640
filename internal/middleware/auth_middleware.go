package middleware

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gamage-recruiters/platform/internal/pkg/apperrors"
	"github.com/gamage-recruiters/platform/internal/pkg/auth"
)

// Context keys set by JWTAuth
const (
	ContextSubjectID = "subjectID"
	ContextEmail     = "email"
	ContextRole      = "role"
	ContextToken     = "sessionToken"
)

var errAuthenticationRequired = &apperrors.CustomError{Err: apperrors.ErrUnauthorized, Message: "Authentication required"}

// SessionChecker reports whether a session row still exists for a token
type SessionChecker interface {
	Exists(ctx context.Context, token string) (bool, error)
}

// AuthConfig configures how requests are authenticated
type AuthConfig struct {
	CookieName string
	// StoreBackedRevocation requires the session row to exist in addition to a valid signature
	StoreBackedRevocation bool
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	sessions   SessionChecker
	config     AuthConfig
	logger     zerolog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, sessions SessionChecker, config AuthConfig, logger zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		sessions:   sessions,
		config:     config,
		logger:     logger,
	}
}

// Authenticate verifies a token and, when revocation is store-backed, its session row
func (m *AuthMiddleware) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := m.jwtService.Verify(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			m.logger.Debug().Msg("Rejected expired token")
			return nil, apperrors.ErrTokenExpired
		}
		m.logger.Warn().Err(err).Msg("Rejected invalid token")
		return nil, apperrors.ErrTokenInvalid
	}

	if m.config.StoreBackedRevocation {
		exists, err := m.sessions.Exists(ctx, token)
		if err != nil {
			return nil, err
		}
		if !exists {
			m.logger.Debug().Int64("subjectID", claims.SubjectID).Msg("Token has no session row")
			return nil, apperrors.ErrSessionNotFound
		}
	}

	return claims, nil
}

// JWTAuth middleware reads the session cookie (or a Bearer token) and authenticates it
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.TokenFromRequest(c, m.config.CookieName)
		if err != nil {
			AbortWithError(c, errAuthenticationRequired)
			return
		}

		claims, err := m.Authenticate(c.Request.Context(), token)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(ContextSubjectID, claims.SubjectID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextToken, token)

		c.Next()
	}
}

// AdminRequired rejects callers whose session is not an admin session. Run after JWTAuth.
func (m *AuthMiddleware) AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok {
			AbortWithError(c, errAuthenticationRequired)
			return
		}
		if role != auth.RoleAdmin {
			AbortWithError(c, apperrors.NewForbiddenError("Admin access required"))
			return
		}
		c.Next()
	}
}

// SelfOrAdmin lets a user act on the record named by the path parameter; admins may act on any
func (m *AuthMiddleware) SelfOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param(param), 10, 64)
		if err != nil || id <= 0 {
			AbortWithError(c, apperrors.NewValidationError("Invalid "+param))
			return
		}
		if err := AuthorizeUser(c, id); err != nil {
			AbortWithError(c, err)
			return
		}
		c.Next()
	}
}

// AuthorizeUser checks that the caller may act on the given user account
func AuthorizeUser(c *gin.Context, userID int64) error {
	role, ok := GetRole(c)
	if !ok {
		return errAuthenticationRequired
	}
	if role == auth.RoleAdmin {
		return nil
	}
	subjectID, _ := GetSubjectID(c)
	if subjectID != userID {
		return apperrors.NewForbiddenError("You can only access your own account")
	}
	return nil
}

// GetSubjectID returns the authenticated subject id
func GetSubjectID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(ContextSubjectID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// GetRole returns the role of the authenticated session
func GetRole(c *gin.Context) (auth.Role, bool) {
	v, ok := c.Get(ContextRole)
	if !ok {
		return "", false
	}
	role, ok := v.(auth.Role)
	return role, ok
}

// GetToken returns the raw session token of the request
func GetToken(c *gin.Context) string {
	return c.GetString(ContextToken)
}

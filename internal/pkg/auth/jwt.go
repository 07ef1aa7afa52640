package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWT errors
var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrExpiredToken  = errors.New("token expired")
	ErrInvalidFormat = errors.New("invalid token format")
)

// Role distinguishes the two kinds of principals a token can carry
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Clock returns the current time; tests substitute a fixed one
type Clock func() time.Time

// JWTConfig defines JWT configuration settings
type JWTConfig struct {
	SecretKey   string
	TokenExp    time.Duration
	TokenIssuer string
	Clock       Clock
}

// JWTService handles JWT operations
type JWTService struct {
	config JWTConfig
	now    Clock
}

// NewJWTService creates a new JWT service
func NewJWTService(config JWTConfig) *JWTService {
	now := config.Clock
	if now == nil {
		now = time.Now
	}
	return &JWTService{
		config: config,
		now:    now,
	}
}

// Claims defines JWT token content
type Claims struct {
	SubjectID int64  `json:"id"`
	Email     string `json:"email,omitempty"`
	Role      Role   `json:"role"`
	jwt.RegisteredClaims
}

// IssuedToken is a signed token together with its absolute expiry
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
}

// TTL returns the configured lifetime shared by tokens and session cookies
func (s *JWTService) TTL() time.Duration {
	return s.config.TokenExp
}

// Issue signs a token for the given principal that expires after the configured TTL
func (s *JWTService) Issue(subjectID int64, email string, role Role) (*IssuedToken, error) {
	now := s.now().Truncate(time.Second)
	expiresAt := now.Add(s.config.TokenExp)

	claims := &Claims{
		SubjectID: subjectID,
		Email:     email,
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.config.TokenIssuer,
			Subject:   strconv.FormatInt(subjectID, 10),
			ID:        uuid.New().String(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &IssuedToken{Token: signed, ExpiresAt: expiresAt}, nil
}

// Verify validates the signature and expiry of a token and returns its claims
func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.SecretKey), nil
	},
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.SubjectID <= 0 || (claims.Role != RoleUser && claims.Role != RoleAdmin) {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ExtractBearerToken extracts the token from the Authorization header
func ExtractBearerToken(authHeader string) (string, error) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", ErrInvalidFormat
	}

	if strings.HasPrefix(authHeader, "Bearer ") {
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if token == "" {
			return "", ErrInvalidFormat
		}
		return token, nil
	}

	return authHeader, nil
}

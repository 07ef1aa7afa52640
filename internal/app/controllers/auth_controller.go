package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gamage-recruiters/platform/internal/app/models"
	"github.com/gamage-recruiters/platform/internal/app/models/dto"
	"github.com/gamage-recruiters/platform/internal/app/services"
	"github.com/gamage-recruiters/platform/internal/middleware"
	"github.com/gamage-recruiters/platform/internal/pkg/apperrors"
	"github.com/gamage-recruiters/platform/internal/pkg/auth"
)

// AuthService is the credential and session API used by AuthController
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	AdminLogin(ctx context.Context, email, password string) (*services.LoginResult, error)
	Logout(ctx context.Context, token string) error
	ProfileData(ctx context.Context, userID int64) (*models.User, error)
}

// TokenAuthenticator verifies a session token
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// AuthController handles registration, login, logout and session checks
type AuthController struct {
	authService   AuthService
	authenticator TokenAuthenticator
	cookie        auth.CookieConfig
	logger        zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService AuthService, authenticator TokenAuthenticator, cookie auth.CookieConfig, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService:   authService,
		authenticator: authenticator,
		cookie:        cookie,
		logger:        logger,
	}
}

// Register handles user registration
// @Summary Register a new user
// @Description Creates a user account. Every profile field except address2 and phoneNumber2 is required.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "User registration information"
// @Success 201 {object} dto.APIResponse{data=dto.UserResponse} "User registered"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 409 {object} dto.ErrorResponse "Email already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	user, err := c.authService.Register(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse("User registered successfully", dto.NewUserResponse(user)))
}

// Login handles user login
// @Summary User login
// @Description Verifies the credentials, opens a session and sets the session cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result, err := c.authService.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	auth.SetSessionCookie(ctx, c.cookie, result.Token.Token)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Login successful", dto.LoginResponse{
		Token:     result.Token.Token,
		ExpiresAt: result.Token.ExpiresAt.Unix(),
		UserID:    result.User.ID,
		Role:      string(auth.RoleUser),
	}))
}

// AdminLogin handles admin login
// @Summary Admin login
// @Description Verifies admin credentials, opens an admin session and sets the session cookie
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Login successful"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Account inactive"
// @Router /admin/login [post]
func (c *AuthController) AdminLogin(ctx *gin.Context) {
	var req dto.LoginRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result, err := c.authService.AdminLogin(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	auth.SetSessionCookie(ctx, c.cookie, result.Token.Token)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Login successful", dto.LoginResponse{
		Token:     result.Token.Token,
		ExpiresAt: result.Token.ExpiresAt.Unix(),
		AdminID:   result.Admin.ID,
		Role:      string(auth.RoleAdmin),
	}))
}

// Logout ends the session of the presented cookie
// @Summary Logout
// @Description Deletes the session row and clears the cookie. Succeeds even without a session.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse "Logged out"
// @Router /auth/logout [get]
// @Router /admin/logout [get]
func (c *AuthController) Logout(ctx *gin.Context) {
	if token, err := auth.TokenFromRequest(ctx, c.cookie.Name); err == nil {
		if err := c.authService.Logout(ctx.Request.Context(), token); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
	}

	auth.ClearSessionCookie(ctx, c.cookie)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Logged out successfully", nil))
}

// Check reports whether the presented session is still valid
// @Summary Check session
// @Description Verifies the session cookie and that its session row still exists
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.SessionCheckResponse} "Session is valid"
// @Failure 401 {object} dto.ErrorResponse "Missing, expired or revoked session"
// @Router /auth/check [get]
func (c *AuthController) Check(ctx *gin.Context) {
	token, err := auth.TokenFromRequest(ctx, c.cookie.Name)
	if err != nil {
		middleware.HandleAPIError(ctx, &apperrors.CustomError{Err: apperrors.ErrUnauthorized, Message: "No session"})
		return
	}

	claims, err := c.authenticator.Authenticate(ctx.Request.Context(), token)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Session is valid", dto.SessionCheckResponse{
		SubjectID: claims.SubjectID,
		Email:     claims.Email,
		Role:      string(claims.Role),
		ExpiresAt: claims.ExpiresAt.Unix(),
	}))
}

// ProfileData returns the profile of the logged-in user
// @Summary Session profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Profile"
// @Failure 401 {object} dto.ErrorResponse "Not logged in"
// @Failure 403 {object} dto.ErrorResponse "Not a user session"
// @Router /session/profile-data [get]
func (c *AuthController) ProfileData(ctx *gin.Context) {
	if role, _ := middleware.GetRole(ctx); role != auth.RoleUser {
		middleware.HandleAPIError(ctx, apperrors.NewForbiddenError("Profile data is only available to user sessions"))
		return
	}
	userID, _ := middleware.GetSubjectID(ctx)

	user, err := c.authService.ProfileData(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("", dto.NewUserResponse(user)))
}

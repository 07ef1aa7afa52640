package controllers

import (
	"context"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gamage-recruiters/platform/internal/app/models"
	"github.com/gamage-recruiters/platform/internal/app/models/dto"
	"github.com/gamage-recruiters/platform/internal/middleware"
	"github.com/gamage-recruiters/platform/internal/pkg/auth"
	"github.com/gamage-recruiters/platform/internal/pkg/helpers"
)

// UserService is the profile API used by UserController
type UserService interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	UpdateProfile(ctx context.Context, id int64, req *dto.UpdateProfileRequest, cv, photo *multipart.FileHeader) (*models.User, error)
	UpdatePhoto(ctx context.Context, userID int64, photo *multipart.FileHeader) (*models.User, error)
	UpdateCV(ctx context.Context, userID int64, cv *multipart.FileHeader) (*models.User, error)
	ChangePassword(ctx context.Context, req *dto.ChangePasswordRequest) error
	SubscribeNewsletter(ctx context.Context, email string) error
	Delete(ctx context.Context, userID int64) error
	RecentActivity(ctx context.Context, userID int64) (*models.ActivityLog, error)
}

// OTPService issues and verifies emailed codes
type OTPService interface {
	Send(ctx context.Context, email string) error
	Verify(ctx context.Context, email, code string) error
	TTL() time.Duration
}

// LatestApplicationFinder returns the most recent application of a user
type LatestApplicationFinder interface {
	LatestByUser(ctx context.Context, userID int64) (*models.JobApplication, error)
}

// UserController handles user-related operations
type UserController struct {
	userService  UserService
	otpService   OTPService
	applications LatestApplicationFinder
	cookie       auth.CookieConfig
	logger       zerolog.Logger
	now          func() time.Time
}

// NewUserController creates a new user controller
func NewUserController(
	userService UserService,
	otpService OTPService,
	applications LatestApplicationFinder,
	cookie auth.CookieConfig,
	logger zerolog.Logger,
) *UserController {
	return &UserController{
		userService:  userService,
		otpService:   otpService,
		applications: applications,
		cookie:       cookie,
		logger:       logger,
		now:          time.Now,
	}
}

// GetUser retrieves user information by ID
// @Summary Get user by ID
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "User profile"
// @Failure 403 {object} dto.ErrorResponse "Not your account"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /user/{userId} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	userID, ok := idParam(ctx, "userId")
	if !ok {
		return
	}

	user, err := c.userService.Get(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("", dto.NewUserResponse(user)))
}

// UpdateUserData updates the profile fields and optionally the cv and photo
// @Summary Update profile
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Param firstName formData string true "First name"
// @Param lastName formData string true "Last name"
// @Param cv formData file false "CV"
// @Param photo formData file false "Profile photo"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Updated profile"
// @Failure 400 {object} dto.ErrorResponse "Invalid form"
// @Router /user/update-user-data/{userId} [put]
func (c *UserController) UpdateUserData(ctx *gin.Context) {
	userID, ok := idParam(ctx, "userId")
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !middleware.Bind(ctx, &req) {
		return
	}
	cv, err := optionalFile(ctx, "cv")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	photo, err := optionalFile(ctx, "photo")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	user, err := c.userService.UpdateProfile(ctx.Request.Context(), userID, &req, cv, photo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Profile updated successfully", dto.NewUserResponse(user)))
}

// UploadImage replaces the profile photo
// @Summary Replace profile photo
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param userId formData int true "User ID"
// @Param photo formData file true "Profile photo"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "Photo replaced"
// @Router /user/upload-user-image [put]
func (c *UserController) UploadImage(ctx *gin.Context) {
	c.replaceFile(ctx, "photo", c.userService.UpdatePhoto, "Profile image updated successfully")
}

// UpdateCV replaces the CV
// @Summary Replace CV
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param userId formData int true "User ID"
// @Param cv formData file true "CV"
// @Success 200 {object} dto.APIResponse{data=dto.UserResponse} "CV replaced"
// @Router /user/update-user-cv [put]
func (c *UserController) UpdateCV(ctx *gin.Context) {
	c.replaceFile(ctx, "cv", c.userService.UpdateCV, "CV updated successfully")
}

type fileReplacer func(ctx context.Context, userID int64, fh *multipart.FileHeader) (*models.User, error)

func (c *UserController) replaceFile(ctx *gin.Context, field string, replace fileReplacer, message string) {
	var req dto.UserFileRequest
	if !middleware.Bind(ctx, &req) {
		return
	}
	if err := middleware.AuthorizeUser(ctx, req.UserID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	fh, err := requiredFile(ctx, field)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	user, err := replace(ctx.Request.Context(), req.UserID, fh)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(message, dto.NewUserResponse(user)))
}

// ChangePassword verifies the old password and sets a new one
// @Summary Change password
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.ChangePasswordRequest true "Passwords"
// @Success 200 {object} dto.APIResponse "Password changed"
// @Failure 401 {object} dto.ErrorResponse "Old password is wrong"
// @Router /user/change-password [post]
func (c *UserController) ChangePassword(ctx *gin.Context) {
	var req dto.ChangePasswordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	if err := middleware.AuthorizeUser(ctx, req.UserID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.userService.ChangePassword(ctx.Request.Context(), &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Password changed successfully", nil))
}

// SubscribeNewsletter subscribes the account with this email
// @Summary Subscribe to the newsletter
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.EmailRequest true "Email"
// @Success 200 {object} dto.APIResponse "Subscribed"
// @Failure 404 {object} dto.ErrorResponse "No account with this email"
// @Router /user/subscribe-newsletter [post]
func (c *UserController) SubscribeNewsletter(ctx *gin.Context) {
	var req dto.EmailRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.userService.SubscribeNewsletter(ctx.Request.Context(), req.Email); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Subscribed to the newsletter", nil))
}

// SendOTP mails a one-time code
// @Summary Send OTP
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.EmailRequest true "Email"
// @Success 200 {object} dto.APIResponse{data=dto.OTPSentResponse} "Code sent"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Router /user/sendOTP [post]
func (c *UserController) SendOTP(ctx *gin.Context) {
	var req dto.EmailRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.otpService.Send(ctx.Request.Context(), req.Email); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("OTP sent", dto.OTPSentResponse{
		Email:           req.Email,
		ValidForSeconds: int64(c.otpService.TTL().Seconds()),
	}))
}

// VerifyOTP checks a one-time code
// @Summary Verify OTP
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.VerifyOTPRequest true "Email and code"
// @Success 200 {object} dto.APIResponse "Code verified"
// @Failure 400 {object} dto.ErrorResponse "Invalid or expired code"
// @Router /user/verifyOTP [post]
func (c *UserController) VerifyOTP(ctx *gin.Context) {
	var req dto.VerifyOTPRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	if err := c.otpService.Verify(ctx.Request.Context(), req.Email, req.OTP); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("OTP verified", nil))
}

// DeleteProfile deletes a user and everything that references it
// @Summary Delete account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 200 {object} dto.APIResponse "Account deleted"
// @Router /user/delete-profile/{userId} [delete]
// @Router /admin/users/{userId} [delete]
func (c *UserController) DeleteProfile(ctx *gin.Context) {
	userID, ok := idParam(ctx, "userId")
	if !ok {
		return
	}

	if err := c.userService.Delete(ctx.Request.Context(), userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if role, _ := middleware.GetRole(ctx); role == auth.RoleUser {
		auth.ClearSessionCookie(ctx, c.cookie)
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Account deleted successfully", nil))
}

// ListUsers returns every user account
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.UserResponse} "Users"
// @Router /admin/users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	users, err := c.userService.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	out := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, dto.NewUserResponse(u))
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("", out))
}

// RecentActivity returns the latest recorded action of a user
// @Summary Recent activity
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.RecentActivityResponse} "Latest activity"
// @Failure 404 {object} dto.ErrorResponse "No activity yet"
// @Router /user/recent-activity/{userId} [get]
func (c *UserController) RecentActivity(ctx *gin.Context) {
	userID, ok := idParam(ctx, "userId")
	if !ok {
		return
	}

	entry, err := c.userService.RecentActivity(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("", c.activity(entry.Activity, entry.CompletedAt)))
}

// RecentJobActivity returns the latest job application of a user
// @Summary Recent job activity
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.RecentActivityResponse} "Latest application"
// @Failure 404 {object} dto.ErrorResponse "No application yet"
// @Router /user/recent-job-activity/{userId} [get]
func (c *UserController) RecentJobActivity(ctx *gin.Context) {
	userID, ok := idParam(ctx, "userId")
	if !ok {
		return
	}

	app, err := c.applications.LatestByUser(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	description := "Applied for " + app.JobTitle
	if app.Company != "" {
		description += " at " + app.Company
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("", c.activity(description, app.AppliedAt)))
}

func (c *UserController) activity(description string, at time.Time) dto.RecentActivityResponse {
	return dto.RecentActivityResponse{
		Activity:    description,
		CompletedAt: at.UTC().Format(time.RFC3339),
		TimeStatus:  helpers.TimeAgo(at, c.now()),
	}
}

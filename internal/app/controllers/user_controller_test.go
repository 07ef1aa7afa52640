package controllers

import (
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamage-recruiters/platform/internal/app/models"
	"github.com/gamage-recruiters/platform/internal/app/models/dto"
	"github.com/gamage-recruiters/platform/internal/middleware"
	"github.com/gamage-recruiters/platform/internal/pkg/apperrors"
	"github.com/gamage-recruiters/platform/internal/pkg/auth"
)

type mockUserService struct {
	photoCalls    []int64
	deleted       []int64
	passwordCalls int
	activity      *models.ActivityLog
}

func (m *mockUserService) Get(_ context.Context, id int64) (*models.User, error) {
	return &models.User{ID: id, FirstName: "Jane"}, nil
}

func (m *mockUserService) List(context.Context) ([]*models.User, error) {
	return []*models.User{{ID: 3}}, nil
}

func (m *mockUserService) UpdateProfile(_ context.Context, id int64, _ *dto.UpdateProfileRequest, _, _ *multipart.FileHeader) (*models.User, error) {
	return &models.User{ID: id}, nil
}

func (m *mockUserService) UpdatePhoto(_ context.Context, userID int64, photo *multipart.FileHeader) (*models.User, error) {
	m.photoCalls = append(m.photoCalls, userID)
	return &models.User{ID: userID, Photo: "photo-" + photo.Filename}, nil
}

func (m *mockUserService) UpdateCV(_ context.Context, userID int64, _ *multipart.FileHeader) (*models.User, error) {
	return &models.User{ID: userID}, nil
}

func (m *mockUserService) ChangePassword(context.Context, *dto.ChangePasswordRequest) error {
	m.passwordCalls++
	return nil
}

func (m *mockUserService) SubscribeNewsletter(_ context.Context, email string) error {
	if email != "jane@example.com" {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (m *mockUserService) Delete(_ context.Context, userID int64) error {
	m.deleted = append(m.deleted, userID)
	return nil
}

func (m *mockUserService) RecentActivity(context.Context, int64) (*models.ActivityLog, error) {
	if m.activity == nil {
		return nil, apperrors.ErrActivityNotFound
	}
	return m.activity, nil
}

type fakeOTPService struct {
	sent []string
	code string
}

func (f *fakeOTPService) Send(_ context.Context, email string) error {
	f.sent = append(f.sent, email)
	return nil
}

func (f *fakeOTPService) Verify(_ context.Context, _, code string) error {
	if code != f.code {
		return apperrors.ErrInvalidOTP
	}
	return nil
}

func (f *fakeOTPService) TTL() time.Duration { return 5 * time.Minute }

type fakeLatestApplication struct {
	app *models.JobApplication
}

func (f *fakeLatestApplication) LatestByUser(context.Context, int64) (*models.JobApplication, error) {
	if f.app == nil {
		return nil, apperrors.ErrApplicationNotFound
	}
	return f.app, nil
}

// as marks the request as authenticated the way JWTAuth does
func as(subjectID int64, role auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextSubjectID, subjectID)
		c.Set(middleware.ContextRole, role)
		c.Next()
	}
}

type userFixture struct {
	ctrl  *UserController
	users *mockUserService
	otp   *fakeOTPService
	apps  *fakeLatestApplication
}

func newUserFixture() *userFixture {
	f := &userFixture{
		users: &mockUserService{},
		otp:   &fakeOTPService{code: "123456"},
		apps:  &fakeLatestApplication{},
	}
	cookie := auth.CookieConfig{Name: testCookieName, Secure: true, MaxAge: time.Hour}
	f.ctrl = NewUserController(f.users, f.otp, f.apps, cookie, zerolog.Nop())
	return f
}

func (f *userFixture) router(identity ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(identity...)
	router.PUT("/user/upload-user-image", f.ctrl.UploadImage)
	router.POST("/user/change-password", f.ctrl.ChangePassword)
	router.POST("/user/subscribe-newsletter", f.ctrl.SubscribeNewsletter)
	router.POST("/user/sendOTP", f.ctrl.SendOTP)
	router.POST("/user/verifyOTP", f.ctrl.VerifyOTP)
	router.DELETE("/user/delete-profile/:userId", f.ctrl.DeleteProfile)
	router.GET("/user/recent-activity/:userId", f.ctrl.RecentActivity)
	router.GET("/user/recent-job-activity/:userId", f.ctrl.RecentJobActivity)
	return router
}

func TestUserController_UploadImage(t *testing.T) {
	f := newUserFixture()
	router := f.router(as(3, auth.RoleUser))

	w := serve(router, multipartRequest(t, http.MethodPut, "/user/upload-user-image", map[string]string{"userId": "3"}, map[string]string{"photo": "me.png"}))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var user dto.UserResponse
	decodeSuccess(t, w, &user)
	assert.Equal(t, "photo-me.png", user.Photo)
	assert.Equal(t, []int64{3}, f.users.photoCalls)
}

func TestUserController_UploadImageForAnotherUser(t *testing.T) {
	f := newUserFixture()

	w := serve(f.router(as(3, auth.RoleUser)), multipartRequest(t, http.MethodPut, "/user/upload-user-image", map[string]string{"userId": "4"}, map[string]string{"photo": "me.png"}))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, f.users.photoCalls)

	// admins may act on any account
	w = serve(f.router(as(1, auth.RoleAdmin)), multipartRequest(t, http.MethodPut, "/user/upload-user-image", map[string]string{"userId": "4"}, map[string]string{"photo": "me.png"}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{4}, f.users.photoCalls)
}

func TestUserController_UploadImageRequiresFile(t *testing.T) {
	f := newUserFixture()

	w := serve(f.router(as(3, auth.RoleUser)), multipartRequest(t, http.MethodPut, "/user/upload-user-image", map[string]string{"userId": "3"}, nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "photo file is required", decodeError(t, w).Message)
	assert.Empty(t, f.users.photoCalls)
}

func TestUserController_ChangePassword(t *testing.T) {
	f := newUserFixture()
	router := f.router(as(3, auth.RoleUser))

	body := dto.ChangePasswordRequest{UserID: 4, OldPassword: "Secret123", NewPassword: "Secret456"}
	w := serve(router, jsonRequest(t, http.MethodPost, "/user/change-password", body))
	assert.Equal(t, http.StatusForbidden, w.Code)

	body.UserID = 3
	w = serve(router, jsonRequest(t, http.MethodPost, "/user/change-password", body))
	assert.Equal(t, http.StatusOK, w.Code)

	body.NewPassword = body.OldPassword
	w = serve(router, jsonRequest(t, http.MethodPost, "/user/change-password", body))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, 1, f.users.passwordCalls)
}

func TestUserController_OTP(t *testing.T) {
	f := newUserFixture()
	router := f.router()

	w := serve(router, jsonRequest(t, http.MethodPost, "/user/sendOTP", dto.EmailRequest{Email: "jane@example.com"}))
	require.Equal(t, http.StatusOK, w.Code)
	var sent dto.OTPSentResponse
	decodeSuccess(t, w, &sent)
	assert.Equal(t, int64(300), sent.ValidForSeconds)
	assert.Equal(t, []string{"jane@example.com"}, f.otp.sent)

	w = serve(router, jsonRequest(t, http.MethodPost, "/user/verifyOTP", dto.VerifyOTPRequest{Email: "jane@example.com", OTP: "654321"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(router, jsonRequest(t, http.MethodPost, "/user/verifyOTP", dto.VerifyOTPRequest{Email: "jane@example.com", OTP: "123456"}))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(router, jsonRequest(t, http.MethodPost, "/user/sendOTP", dto.EmailRequest{Email: "nope"}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUserController_SubscribeNewsletter(t *testing.T) {
	router := newUserFixture().router()

	w := serve(router, jsonRequest(t, http.MethodPost, "/user/subscribe-newsletter", dto.EmailRequest{Email: "jane@example.com"}))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(router, jsonRequest(t, http.MethodPost, "/user/subscribe-newsletter", dto.EmailRequest{Email: "ghost@example.com"}))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUserController_DeleteProfile(t *testing.T) {
	f := newUserFixture()

	w := serve(f.router(as(3, auth.RoleUser)), httptest.NewRequest(http.MethodDelete, "/user/delete-profile/3", nil))
	require.Equal(t, http.StatusOK, w.Code)
	cleared := findCookie(w, testCookieName)
	require.NotNil(t, cleared)
	assert.Less(t, cleared.MaxAge, 0)

	// an admin deleting someone keeps their own cookie
	w = serve(f.router(as(1, auth.RoleAdmin)), httptest.NewRequest(http.MethodDelete, "/user/delete-profile/4", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, findCookie(w, testCookieName))

	assert.Equal(t, []int64{3, 4}, f.users.deleted)
}

func TestUserController_RecentActivity(t *testing.T) {
	now := time.Date(2025, 4, 23, 14, 0, 0, 0, time.UTC)
	f := newUserFixture()
	f.ctrl.now = func() time.Time { return now }
	router := f.router(as(3, auth.RoleUser))

	w := serve(router, httptest.NewRequest(http.MethodGet, "/user/recent-activity/3", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	f.users.activity = &models.ActivityLog{UserID: 3, Activity: "Updated User Image", CompletedAt: now.Add(-5 * time.Minute)}
	w = serve(router, httptest.NewRequest(http.MethodGet, "/user/recent-activity/3", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var activity dto.RecentActivityResponse
	decodeSuccess(t, w, &activity)
	assert.Equal(t, dto.RecentActivityResponse{
		Activity:    "Updated User Image",
		CompletedAt: "2025-04-23T13:55:00Z",
		TimeStatus:  "5 minutes ago",
	}, activity)
}

func TestUserController_RecentJobActivity(t *testing.T) {
	now := time.Date(2025, 4, 23, 14, 0, 0, 0, time.UTC)
	f := newUserFixture()
	f.ctrl.now = func() time.Time { return now }
	f.apps.app = &models.JobApplication{JobTitle: "Software Engineer", Company: "Acme", AppliedAt: now.Add(-2 * time.Hour)}

	w := serve(f.router(as(3, auth.RoleUser)), httptest.NewRequest(http.MethodGet, "/user/recent-job-activity/3", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var activity dto.RecentActivityResponse
	decodeSuccess(t, w, &activity)
	assert.Equal(t, "Applied for Software Engineer at Acme", activity.Activity)
	assert.Equal(t, "2 hours ago", activity.TimeStatus)
}

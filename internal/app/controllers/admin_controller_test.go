package controllers

import (
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamage-recruiters/platform/internal/app/models"
	"github.com/gamage-recruiters/platform/internal/app/models/dto"
	"github.com/gamage-recruiters/platform/internal/pkg/apperrors"
	"github.com/gamage-recruiters/platform/internal/pkg/auth"
)

type mockAdminService struct {
	registered *dto.AdminRegisterRequest
	photo      *multipart.FileHeader
	deletes    [][2]int64
}

func (m *mockAdminService) Register(_ context.Context, req *dto.AdminRegisterRequest, photo *multipart.FileHeader) (*models.Admin, error) {
	m.registered, m.photo = req, photo
	return &models.Admin{ID: 2, Name: req.Name, Email: req.Email, Role: models.AdminRole(req.Role), Status: models.AdminStatusActive}, nil
}

func (m *mockAdminService) List(context.Context) ([]*models.Admin, error) {
	return []*models.Admin{{ID: 1}}, nil
}

func (m *mockAdminService) Get(_ context.Context, id int64) (*models.Admin, error) {
	if id != 1 {
		return nil, apperrors.ErrAdminNotFound
	}
	return &models.Admin{ID: 1}, nil
}

func (m *mockAdminService) Update(_ context.Context, id int64, req *dto.AdminUpdateRequest, _ *multipart.FileHeader) (*models.Admin, error) {
	return &models.Admin{ID: id, Name: req.Name}, nil
}

func (m *mockAdminService) Delete(_ context.Context, callerID, id int64) error {
	m.deletes = append(m.deletes, [2]int64{callerID, id})
	if callerID == id {
		return apperrors.NewForbiddenError("You cannot delete your own account")
	}
	return nil
}

func newAdminRouter(svc *mockAdminService) *gin.Engine {
	ctrl := NewAdminController(svc, zerolog.Nop())

	router := gin.New()
	router.Use(as(1, auth.RoleAdmin))
	router.POST("/admin/register", ctrl.Register)
	router.GET("/admin/:adminId", ctrl.Get)
	router.DELETE("/admin/delete/:adminId", ctrl.Delete)
	return router
}

func TestAdminController_Register(t *testing.T) {
	svc := &mockAdminService{}
	router := newAdminRouter(svc)

	form := map[string]string{
		"name":               "Site Admin",
		"email":              "admin@example.com",
		"password":           "Secret123",
		"gender":             "Male",
		"role":               "EDITOR",
		"primaryPhoneNumber": "+94771234567",
	}
	w := serve(router, multipartRequest(t, http.MethodPost, "/admin/register", form, map[string]string{"adminPhoto": "me.jpg"}))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotNil(t, svc.photo)
	assert.Equal(t, "me.jpg", svc.photo.Filename)

	var admin models.Admin
	decodeSuccess(t, w, &admin)
	assert.Equal(t, models.AdminRoleEditor, admin.Role)

	form["role"] = "OWNER"
	svc.registered = nil
	w = serve(router, multipartRequest(t, http.MethodPost, "/admin/register", form, nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.registered)
}

func TestAdminController_Delete(t *testing.T) {
	svc := &mockAdminService{}
	router := newAdminRouter(svc)

	w := serve(router, httptest.NewRequest(http.MethodDelete, "/admin/delete/1", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = serve(router, httptest.NewRequest(http.MethodDelete, "/admin/delete/2", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, [][2]int64{{1, 1}, {1, 2}}, svc.deletes)
}

func TestAdminController_Get(t *testing.T) {
	router := newAdminRouter(&mockAdminService{})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/admin/1", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(router, httptest.NewRequest(http.MethodGet, "/admin/5", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "admin not found", decodeError(t, w).Message)
}

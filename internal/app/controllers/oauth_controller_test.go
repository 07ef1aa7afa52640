package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamage-recruiters/platform/internal/app/models"
	"github.com/gamage-recruiters/platform/internal/app/models/dto"
	"github.com/gamage-recruiters/platform/internal/app/services"
	"github.com/gamage-recruiters/platform/internal/pkg/apperrors"
	"github.com/gamage-recruiters/platform/internal/pkg/auth"
	"github.com/gamage-recruiters/platform/internal/pkg/oauth"
)

const stateCookie = "oauth_state"

type fakeProvider struct {
	profile *oauth.Profile
	err     error
	code    string
}

func (p *fakeProvider) Platform() oauth.Platform { return oauth.PlatformGoogle }

func (p *fakeProvider) AuthCodeURL(state string) string {
	return "https://accounts.example.com/auth?state=" + url.QueryEscape(state)
}

func (p *fakeProvider) FetchProfile(_ context.Context, code string) (*oauth.Profile, error) {
	p.code = code
	return p.profile, p.err
}

type fakeRegistry map[string]oauth.Provider

func (r fakeRegistry) Get(name string) (oauth.Provider, bool) {
	p, ok := r[name]
	return p, ok
}

type fakeFederated struct {
	calls   int
	profile *oauth.Profile
	err     error
}

func (f *fakeFederated) HandleCallback(_ context.Context, profile *oauth.Profile) (*services.FederatedResult, error) {
	f.calls++
	f.profile = profile
	if f.err != nil {
		return nil, f.err
	}
	return &services.FederatedResult{
		Token:       &auth.IssuedToken{Token: "session-token", ExpiresAt: time.Now().Add(time.Hour)},
		User:        &models.User{ID: 5, Email: profile.Email},
		Created:     true,
		RedirectURL: "https://jobs.example.com/dashboard",
	}, nil
}

func newOAuthRouter(provider *fakeProvider, federated *fakeFederated) *gin.Engine {
	cookie := auth.CookieConfig{Name: testCookieName, Secure: true, MaxAge: time.Hour}
	ctrl := NewOAuthController(fakeRegistry{"google": provider}, federated, cookie, stateCookie, "https://jobs.example.com/", zerolog.Nop())

	router := gin.New()
	router.GET("/auth/:provider", ctrl.Redirect)
	router.GET("/auth/:provider/callback", ctrl.Callback)
	return router
}

func callback(query, state string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?"+query, nil)
	if state != "" {
		req.AddCookie(&http.Cookie{Name: stateCookie, Value: state})
	}
	return req
}

func TestOAuthController_RedirectSetsState(t *testing.T) {
	router := newOAuthRouter(&fakeProvider{}, &fakeFederated{})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/auth/google", nil))
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)

	state := findCookie(w, stateCookie)
	require.NotNil(t, state)
	assert.NotEmpty(t, state.Value)
	assert.True(t, state.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, state.SameSite)

	location, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "accounts.example.com", location.Host)
	assert.Equal(t, state.Value, location.Query().Get("state"))
}

func TestOAuthController_UnknownProvider(t *testing.T) {
	router := newOAuthRouter(&fakeProvider{}, &fakeFederated{})

	w := serve(router, httptest.NewRequest(http.MethodGet, "/auth/myspace", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(router, httptest.NewRequest(http.MethodGet, "/auth/myspace/callback?code=x", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOAuthController_CallbackSuccess(t *testing.T) {
	provider := &fakeProvider{profile: &oauth.Profile{ProviderID: "g-1", Name: "Jane Q Public", Email: "jane@example.com", Platform: oauth.PlatformGoogle}}
	federated := &fakeFederated{}
	router := newOAuthRouter(provider, federated)

	w := serve(router, callback("code=abc&state=s1", "s1"))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://jobs.example.com/dashboard", w.Header().Get("Location"))
	assert.Equal(t, "abc", provider.code)
	assert.Equal(t, 1, federated.calls)
	assert.Equal(t, "jane@example.com", federated.profile.Email)

	session := findCookie(w, testCookieName)
	require.NotNil(t, session)
	assert.Equal(t, "session-token", session.Value)

	cleared := findCookie(w, stateCookie)
	require.NotNil(t, cleared)
	assert.Less(t, cleared.MaxAge, 0)
}

func TestOAuthController_CallbackStateMismatch(t *testing.T) {
	tests := []struct {
		name  string
		query string
		state string
	}{
		{"no cookie", "code=abc&state=s1", ""},
		{"different state", "code=abc&state=s1", "s2"},
		{"no state parameter", "code=abc", "s1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeProvider{profile: &oauth.Profile{Email: "jane@example.com"}}
			federated := &fakeFederated{}
			router := newOAuthRouter(provider, federated)

			w := serve(router, callback(tt.query, tt.state))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, dto.ErrorCodeValidationFailed, decodeError(t, w).Code)
			assert.Empty(t, provider.code)
			assert.Zero(t, federated.calls)
		})
	}
}

func TestOAuthController_CallbackProviderError(t *testing.T) {
	router := newOAuthRouter(&fakeProvider{}, &fakeFederated{})

	w := serve(router, callback("error=access_denied&state=s1", "s1"))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://jobs.example.com/login?error=access_denied", w.Header().Get("Location"))
}

func TestOAuthController_CallbackProfileFailure(t *testing.T) {
	federated := &fakeFederated{}
	router := newOAuthRouter(&fakeProvider{err: errors.New("token exchange failed")}, federated)

	w := serve(router, callback("code=abc&state=s1", "s1"))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, dto.ErrorCodeExternalServiceError, decodeError(t, w).Code)
	assert.Zero(t, federated.calls)
}

func TestOAuthController_CallbackProvisioningFailure(t *testing.T) {
	federated := &fakeFederated{err: apperrors.NewProvisioningError(errors.New("insert failed"))}
	router := newOAuthRouter(&fakeProvider{profile: &oauth.Profile{Email: "jane@example.com"}}, federated)

	w := serve(router, callback("code=abc&state=s1", "s1"))
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Nil(t, findCookie(w, testCookieName))
}

type recordingLoginRepo struct {
	logins []*models.FederatedLogin
}

func (r *recordingLoginRepo) Create(_ context.Context, login *models.FederatedLogin) error {
	r.logins = append(r.logins, login)
	return nil
}

func TestOAuthController_CallbackWithoutEmailRecordsLogin(t *testing.T) {
	logins := &recordingLoginRepo{}
	// user lookup and session issue are never reached without an email
	federated := services.NewFederatedService(nil, logins, nil, "https://jobs.example.com", zerolog.Nop())

	provider := &fakeProvider{profile: &oauth.Profile{ProviderID: "f-9", Name: "No Mail", Platform: oauth.PlatformFacebook}}
	cookie := auth.CookieConfig{Name: testCookieName, Secure: true, MaxAge: time.Hour}
	ctrl := NewOAuthController(fakeRegistry{"facebook": provider}, federated, cookie, stateCookie, "https://jobs.example.com", zerolog.Nop())

	router := gin.New()
	router.GET("/auth/:provider/callback", ctrl.Callback)

	req := httptest.NewRequest(http.MethodGet, "/auth/facebook/callback?code=abc&state=s1", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "s1"})
	w := serve(router, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidationFailed, decodeError(t, w).Code)
	assert.Nil(t, findCookie(w, testCookieName))

	require.Len(t, logins.logins, 1)
	assert.Equal(t, "f-9", logins.logins[0].AccountID)
	assert.Equal(t, "Facebook", logins.logins[0].Platform)
	assert.Empty(t, logins.logins[0].Email)
}

package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gamage-recruiters/platform/internal/app/services"
	"github.com/gamage-recruiters/platform/internal/middleware"
	"github.com/gamage-recruiters/platform/internal/pkg/apperrors"
	"github.com/gamage-recruiters/platform/internal/pkg/auth"
	"github.com/gamage-recruiters/platform/internal/pkg/oauth"
)

const stateCookieMaxAge = 10 * time.Minute

// ProviderRegistry resolves identity providers by route name
type ProviderRegistry interface {
	Get(name string) (oauth.Provider, bool)
}

// FederatedService completes a provider login
type FederatedService interface {
	HandleCallback(ctx context.Context, profile *oauth.Profile) (*services.FederatedResult, error)
}

// OAuthController runs the provider consent redirect and callback
type OAuthController struct {
	providers       ProviderRegistry
	federated       FederatedService
	cookie          auth.CookieConfig
	stateCookieName string
	frontendURL     string
	logger          zerolog.Logger
}

// NewOAuthController creates a new OAuthController
func NewOAuthController(
	providers ProviderRegistry,
	federated FederatedService,
	cookie auth.CookieConfig,
	stateCookieName string,
	frontendURL string,
	logger zerolog.Logger,
) *OAuthController {
	return &OAuthController{
		providers:       providers,
		federated:       federated,
		cookie:          cookie,
		stateCookieName: stateCookieName,
		frontendURL:     strings.TrimRight(frontendURL, "/"),
		logger:          logger,
	}
}

func (c *OAuthController) provider(ctx *gin.Context) (oauth.Provider, bool) {
	p, ok := c.providers.Get(ctx.Param("provider"))
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.NewResourceNotFoundError("Unknown login provider"))
	}
	return p, ok
}

// Redirect sends the browser to the provider consent page
// @Summary Start a provider login
// @Description Redirects to the consent page of google, facebook or linkedin
// @Tags auth
// @Param provider path string true "Provider name" Enums(google, facebook, linkedin)
// @Success 307 "Redirect to the provider"
// @Failure 404 {object} dto.ErrorResponse "Unknown provider"
// @Router /auth/{provider} [get]
func (c *OAuthController) Redirect(ctx *gin.Context) {
	p, ok := c.provider(ctx)
	if !ok {
		return
	}

	state := uuid.New().String()
	// Lax so the cookie comes back on the provider's top-level redirect
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.stateCookieName, state, int(stateCookieMaxAge.Seconds()), "/", c.cookie.Domain, c.cookie.Secure, true)

	ctx.Redirect(http.StatusTemporaryRedirect, p.AuthCodeURL(state))
}

// Callback finishes a provider login, sets the session cookie and redirects to the dashboard
// @Summary Provider login callback
// @Tags auth
// @Param provider path string true "Provider name" Enums(google, facebook, linkedin)
// @Param code query string true "Authorization code"
// @Param state query string true "State issued by the redirect"
// @Success 302 "Redirect to the frontend dashboard"
// @Failure 400 {object} dto.ErrorResponse "State mismatch"
// @Failure 502 {object} dto.ErrorResponse "Provider or provisioning failure"
// @Router /auth/{provider}/callback [get]
func (c *OAuthController) Callback(ctx *gin.Context) {
	p, ok := c.provider(ctx)
	if !ok {
		return
	}

	if reason := ctx.Query("error"); reason != "" {
		c.logger.Info().Str("platform", string(p.Platform())).Str("reason", reason).Msg("Provider login cancelled")
		ctx.Redirect(http.StatusFound, c.frontendURL+"/login?error="+url.QueryEscape(reason))
		return
	}

	expected, err := ctx.Cookie(c.stateCookieName)
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(c.stateCookieName, "", -1, "/", c.cookie.Domain, c.cookie.Secure, true)
	if err != nil || expected == "" || ctx.Query("state") != expected {
		middleware.HandleAPIError(ctx, apperrors.NewValidationError("Invalid login state"))
		return
	}

	profile, err := p.FetchProfile(ctx.Request.Context(), ctx.Query("code"))
	if err != nil {
		c.logger.Warn().Err(err).Str("platform", string(p.Platform())).Msg("Failed to fetch provider profile")
		middleware.HandleAPIError(ctx, &apperrors.CustomError{
			Err:     errors.Join(apperrors.ErrProvisioning, err),
			Message: "Could not read the profile from " + string(p.Platform()),
		})
		return
	}

	result, err := c.federated.HandleCallback(ctx.Request.Context(), profile)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	auth.SetSessionCookie(ctx, c.cookie, result.Token.Token)
	ctx.Redirect(http.StatusFound, result.RedirectURL)
}

package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CookieConfig describes how the session cookie is written
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
	MaxAge time.Duration
}

// SetSessionCookie writes the token as an httpOnly, SameSite=None cookie
func SetSessionCookie(ctx *gin.Context, cfg CookieConfig, token string) {
	ctx.SetSameSite(http.SameSiteNoneMode)
	ctx.SetCookie(cfg.Name, token, int(cfg.MaxAge.Seconds()), "/", cfg.Domain, cfg.Secure, true)
}

// ClearSessionCookie expires the session cookie on the client
func ClearSessionCookie(ctx *gin.Context, cfg CookieConfig) {
	ctx.SetSameSite(http.SameSiteNoneMode)
	ctx.SetCookie(cfg.Name, "", -1, "/", cfg.Domain, cfg.Secure, true)
}

// TokenFromRequest reads the session token from the cookie, falling back to the Authorization header
func TokenFromRequest(ctx *gin.Context, cookieName string) (string, error) {
	if token, err := ctx.Cookie(cookieName); err == nil && token != "" {
		return token, nil
	}
	return ExtractBearerToken(ctx.GetHeader("Authorization"))
}

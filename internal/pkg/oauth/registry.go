package oauth

import (
	"sort"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/facebook"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/linkedin"

	"github.com/gamage-recruiters/platform/internal/config"
)

const (
	googleProfileURL   = "https://www.googleapis.com/oauth2/v2/userinfo"
	facebookProfileURL = "https://graph.facebook.com/me?fields=id,name,email,picture.type(large)"
	linkedInProfileURL = "https://api.linkedin.com/v2/userinfo"
)

// Registry resolves the provider named in a route such as /auth/google
type Registry struct {
	providers map[string]Provider
}

// NewRegistry registers every provider that has credentials configured
func NewRegistry(cfg *config.Config) *Registry {
	r := &Registry{providers: make(map[string]Provider)}
	base := strings.TrimRight(cfg.Server.BaseURL, "/")

	if p := cfg.OAuth.Google; p.Enabled() {
		r.Register("google", &oauth2Provider{
			platform:   PlatformGoogle,
			config:     clientConfig(p, base+"/auth/google/callback", google.Endpoint, "openid", "profile", "email"),
			profileURL: googleProfileURL,
			decode:     decodeGoogle,
		})
	}

	if p := cfg.OAuth.Facebook; p.Enabled() {
		r.Register("facebook", &oauth2Provider{
			platform:   PlatformFacebook,
			config:     clientConfig(p, base+"/auth/facebook/callback", facebook.Endpoint, "email", "public_profile"),
			profileURL: facebookProfileURL,
			decode:     decodeFacebook,
		})
	}

	if p := cfg.OAuth.LinkedIn; p.Enabled() {
		r.Register("linkedin", &oauth2Provider{
			platform:   PlatformLinkedIn,
			config:     clientConfig(p, base+"/auth/linkedin/callback", linkedin.Endpoint, "openid", "profile", "email"),
			profileURL: linkedInProfileURL,
			decode:     decodeLinkedIn,
		})
	}

	return r
}

func clientConfig(p config.ProviderConfig, defaultRedirect string, endpoint oauth2.Endpoint, scopes ...string) *oauth2.Config {
	redirect := p.RedirectURL
	if redirect == "" {
		redirect = defaultRedirect
	}
	return &oauth2.Config{
		ClientID:     p.ClientID,
		ClientSecret: p.ClientSecret,
		RedirectURL:  redirect,
		Endpoint:     endpoint,
		Scopes:       scopes,
	}
}

// Register adds or replaces a provider under a route name
func (r *Registry) Register(name string, p Provider) {
	r.providers[strings.ToLower(name)] = p
}

// Get returns the provider registered under name
func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.providers[strings.ToLower(name)]
	return p, ok
}

// Names lists the registered route names in order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

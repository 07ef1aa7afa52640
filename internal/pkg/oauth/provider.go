package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
)

// Platform is the identity provider name recorded on federated login rows
type Platform string

const (
	PlatformGoogle   Platform = "Google"
	PlatformFacebook Platform = "Facebook"
	PlatformLinkedIn Platform = "LinkedIn"
)

// Profile is the identity returned by a provider after a successful consent
type Profile struct {
	ProviderID string
	Name       string
	Email      string
	Photo      string
	Platform   Platform
}

// Provider runs the authorization-code flow against one identity provider
type Provider interface {
	Platform() Platform
	AuthCodeURL(state string) string
	FetchProfile(ctx context.Context, code string) (*Profile, error)
}

type profileDecoder func(body []byte) (*Profile, error)

type oauth2Provider struct {
	platform   Platform
	config     *oauth2.Config
	profileURL string
	decode     profileDecoder
}

func (p *oauth2Provider) Platform() Platform {
	return p.platform
}

func (p *oauth2Provider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// FetchProfile exchanges the authorization code and reads the user's profile
func (p *oauth2Provider) FetchProfile(ctx context.Context, code string) (*Profile, error) {
	if code == "" {
		return nil, fmt.Errorf("missing authorization code")
	}

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s code exchange failed: %w", p.platform, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.profileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build %s profile request: %w", p.platform, err)
	}

	resp, err := p.config.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s profile request failed: %w", p.platform, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s profile: %w", p.platform, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s profile request returned status %d", p.platform, resp.StatusCode)
	}

	profile, err := p.decode(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s profile: %w", p.platform, err)
	}

	profile.Platform = p.platform
	profile.Name = strings.TrimSpace(profile.Name)
	profile.Email = strings.TrimSpace(profile.Email)
	return profile, nil
}

func decodeGoogle(body []byte) (*Profile, error) {
	var raw struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	return &Profile{ProviderID: raw.ID, Email: raw.Email, Name: raw.Name, Photo: raw.Picture}, nil
}

func decodeFacebook(body []byte) (*Profile, error) {
	var raw struct {
		ID      string `json:"id"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture struct {
			Data struct {
				URL string `json:"url"`
			} `json:"data"`
		} `json:"picture"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	return &Profile{ProviderID: raw.ID, Email: raw.Email, Name: raw.Name, Photo: raw.Picture.Data.URL}, nil
}

// LinkedIn's OpenID Connect userinfo endpoint
func decodeLinkedIn(body []byte) (*Profile, error) {
	var raw struct {
		Sub     string `json:"sub"`
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}
	return &Profile{ProviderID: raw.Sub, Email: raw.Email, Name: raw.Name, Photo: raw.Picture}, nil
}

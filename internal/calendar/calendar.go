// Package calendar links user accounts to an external calendar provider and
// pushes task deadlines as events.
package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrNotLinked = errors.New("calendar account is not linked")

// Tokens holds the provider credentials stored on a user after the OAuth
// callback.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

// Event is a calendar entry derived from a task deadline.
type Event struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
}

// Provider abstracts the OAuth and event API of the calendar host.
type Provider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (Tokens, error)
	CreateEvent(ctx context.Context, tokens Tokens, event Event) error
}

// Config identifies this application to the provider.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// GoogleProvider implements Provider against Google's OAuth and Calendar
// endpoints.
type GoogleProvider struct {
	Config     Config
	AuthBase   string
	TokenBase  string
	EventsBase string
	HTTPClient *http.Client
}

// NewGoogleProvider builds a provider with the standard Google endpoints.
func NewGoogleProvider(cfg Config) *GoogleProvider {
	return &GoogleProvider{
		Config:     cfg,
		AuthBase:   "https://accounts.google.com/o/oauth2/v2/auth",
		TokenBase:  "https://oauth2.googleapis.com/token",
		EventsBase: "https://www.googleapis.com/calendar/v3/calendars/primary/events",
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// AuthURL returns the consent URL the frontend redirects the user to. The
// user id travels in state so the callback can identify them.
func (p *GoogleProvider) AuthURL(state string) string {
	q := url.Values{}
	q.Set("client_id", p.Config.ClientID)
	q.Set("redirect_uri", p.Config.RedirectURL)
	q.Set("response_type", "code")
	q.Set("scope", "https://www.googleapis.com/auth/calendar.events")
	q.Set("access_type", "offline")
	q.Set("prompt", "consent")
	q.Set("state", state)
	return p.AuthBase + "?" + q.Encode()
}

// Exchange trades an authorization code for tokens.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (Tokens, error) {
	form := url.Values{}
	form.Set("code", code)
	form.Set("client_id", p.Config.ClientID)
	form.Set("client_secret", p.Config.ClientSecret)
	form.Set("redirect_uri", p.Config.RedirectURL)
	form.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.TokenBase, strings.NewReader(form.Encode()))
	if err != nil {
		return Tokens{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.httpClient().Do(req)
	if err != nil {
		return Tokens{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Tokens{}, fmt.Errorf("token exchange failed with status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Tokens{}, err
	}
	return Tokens{AccessToken: body.AccessToken, RefreshToken: body.RefreshToken}, nil
}

// CreateEvent inserts an event into the user's primary calendar.
func (p *GoogleProvider) CreateEvent(ctx context.Context, tokens Tokens, event Event) error {
	if tokens.AccessToken == "" {
		return ErrNotLinked
	}

	payload := map[string]interface{}{
		"summary":     event.Title,
		"description": event.Description,
		"start":       map[string]string{"dateTime": event.Start.Format(time.RFC3339)},
		"end":         map[string]string{"dateTime": event.End.Format(time.RFC3339)},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.EventsBase, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)

	resp, err := p.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("event creation failed with status %d", resp.StatusCode)
	}
	return nil
}

func (p *GoogleProvider) httpClient() *http.Client {
	if p.HTTPClient != nil {
		return p.HTTPClient
	}
	return http.DefaultClient
}

// Package gcal wraps the Google OAuth flow and the Calendar API behind a
// small interface so handlers can be tested without network access.
package gcal

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

// Client defines the operations the app needs from Google.
type Client interface {
	AuthCodeURL() string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	FetchUserInfo(ctx context.Context, token *oauth2.Token) (*UserInfo, error)
	CreateEvent(ctx context.Context, token *oauth2.Token, event Event) error
}

const defaultDurationMinutes = 90

// APIClient talks to the real Google endpoints.
type APIClient struct {
	oauth *oauth2.Config
}

var _ Client = (*APIClient)(nil)

// NewClient configures the OAuth flow. appURL is the externally reachable
// base URL of this service; the provider redirects back to it.
func NewClient(clientID, clientSecret, appURL string) *APIClient {
	return &APIClient{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  appURL + "/api/auth/google/callback",
			Scopes: []string{
				calendar.CalendarEventsScope,
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

// AuthCodeURL builds the consent-screen URL. Offline access plus forced
// consent guarantees a refresh token on every link, not just the first.
func (c *APIClient) AuthCodeURL() string {
	return c.oauth.AuthCodeURL("state", oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// Exchange trades the authorization code for a token pair.
func (c *APIClient) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return token, nil
}

// FetchUserInfo retrieves the authenticated user's Google profile.
func (c *APIClient) FetchUserInfo(ctx context.Context, token *oauth2.Token) (*UserInfo, error) {
	svc, err := googleoauth2.NewService(ctx, option.WithTokenSource(c.oauth.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth2 service: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user info: %w", err)
	}
	return &UserInfo{
		ID:        info.Id,
		Email:     info.Email,
		Name:      info.Name,
		GivenName: info.GivenName,
	}, nil
}

// CreateEvent inserts a match into the user's primary calendar.
func (c *APIClient) CreateEvent(ctx context.Context, token *oauth2.Token, event Event) error {
	start, end, err := eventWindow(event)
	if err != nil {
		return err
	}

	svc, err := calendar.NewService(ctx, option.WithTokenSource(c.oauth.TokenSource(ctx, token)))
	if err != nil {
		return fmt.Errorf("failed to create calendar service: %w", err)
	}

	created, err := svc.Events.Insert("primary", &calendar.Event{
		Summary: fmt.Sprintf("Tennis with %s - %s", event.Opponent, event.Surface),
		Start:   &calendar.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:     &calendar.EventDateTime{DateTime: end.Format(time.RFC3339)},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to insert calendar event: %w", err)
	}

	log.Info("Created calendar event", "eventID", created.Id, "opponent", event.Opponent)
	return nil
}

// eventWindow computes the start and end times in the server's local zone.
// A zero duration falls back to the standard 90 minutes.
func eventWindow(event Event) (start, end time.Time, err error) {
	start, err = time.ParseInLocation("2006-01-02T15:04", event.Date+"T"+event.StartTime, time.Local)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid event time %q %q: %w", event.Date, event.StartTime, err)
	}

	duration := event.Duration
	if duration <= 0 {
		duration = defaultDurationMinutes
	}
	return start, start.Add(time.Duration(duration) * time.Minute), nil
}

package gcal

import (
	"context"
	"sync"

	"golang.org/x/oauth2"
)

// Mock is a mock implementation of the Client interface for testing.
type Mock struct {
	mu sync.Mutex

	AuthCodeURLFunc   func() string
	ExchangeFunc      func(ctx context.Context, code string) (*oauth2.Token, error)
	FetchUserInfoFunc func(ctx context.Context, token *oauth2.Token) (*UserInfo, error)
	CreateEventFunc   func(ctx context.Context, token *oauth2.Token, event Event) error

	// Call records
	ExchangeCalls    []string
	CreateEventCalls []Event
}

var _ Client = (*Mock)(nil)

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) AuthCodeURL() string {
	if m.AuthCodeURLFunc != nil {
		return m.AuthCodeURLFunc()
	}
	return "https://accounts.google.com/o/oauth2/auth?mock=1"
}

func (m *Mock) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	m.mu.Lock()
	m.ExchangeCalls = append(m.ExchangeCalls, code)
	m.mu.Unlock()
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, code)
	}
	return &oauth2.Token{AccessToken: "mock-access-token", RefreshToken: "mock-refresh-token"}, nil
}

func (m *Mock) FetchUserInfo(ctx context.Context, token *oauth2.Token) (*UserInfo, error) {
	if m.FetchUserInfoFunc != nil {
		return m.FetchUserInfoFunc(ctx, token)
	}
	return &UserInfo{ID: "mock-user", Email: "mock@example.com", Name: "Mock User", GivenName: "Mock"}, nil
}

func (m *Mock) CreateEvent(ctx context.Context, token *oauth2.Token, event Event) error {
	m.mu.Lock()
	m.CreateEventCalls = append(m.CreateEventCalls, event)
	m.mu.Unlock()
	if m.CreateEventFunc != nil {
		return m.CreateEventFunc(ctx, token, event)
	}
	return nil
}

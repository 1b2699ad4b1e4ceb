package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/neurales/dashboard/internal/models"
	"github.com/neurales/dashboard/internal/upstream"
)

var ErrEmptyToken = errors.New("backend returned an empty access token")

// Session is the gateway's signed-in state against the backend. The access
// token itself lives in the upstream client; Session tracks the user and
// claims that go with it.
type Session struct {
	repo   *Repository
	client *upstream.Client
	logger *zap.Logger
	now    func() time.Time

	mu     sync.RWMutex
	user   *models.User
	claims *Claims
	ready  bool
}

// View is the public summary of a Session.
type View struct {
	Logged      bool         `json:"is_logged"`
	Ready       bool         `json:"is_ready"`
	DisplayName string       `json:"display_name"`
	User        *models.User `json:"user"`
	ExpiresAt   *time.Time   `json:"expires_at,omitempty"`
}

// NewSession creates a Session and clears it whenever the backend answers 401.
func NewSession(repo *Repository, client *upstream.Client, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Session{repo: repo, client: client, logger: logger, now: time.Now}
	client.OnUnauthorized(s.expire)
	return s
}

func (s *Session) Login(ctx context.Context, email, password string) error {
	tok, err := s.repo.Login(ctx, LoginRequest{Email: email, Password: password})
	if err != nil {
		return err
	}
	return s.establish(ctx, tok)
}

// Refresh renews the access token from the refresh cookie.
func (s *Session) Refresh(ctx context.Context) error {
	tok, err := s.repo.Refresh(ctx)
	if err != nil {
		return err
	}
	return s.establish(ctx, tok)
}

// Initialize tries a refresh once. Failure leaves the session logged out.
func (s *Session) Initialize(ctx context.Context) {
	s.mu.RLock()
	ready := s.ready
	s.mu.RUnlock()
	if ready {
		return
	}
	if err := s.Refresh(ctx); err != nil {
		s.logger.Info("no session to restore", zap.Error(err))
		s.reset()
	}
}

// Logout ends the session. Backend errors are ignored.
func (s *Session) Logout(ctx context.Context) {
	if err := s.repo.Logout(ctx); err != nil {
		s.logger.Debug("logout request failed", zap.Error(err))
	}
	s.reset()
}

// FetchMe reloads the signed-in user.
func (s *Session) FetchMe(ctx context.Context) (*models.User, error) {
	u, err := s.repo.Me(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
	return u, nil
}

func (s *Session) establish(ctx context.Context, tok *TokenResponse) error {
	if tok.AccessToken == "" {
		return ErrEmptyToken
	}
	claims, err := ParseClaims(tok.AccessToken)
	if err != nil {
		s.logger.Debug("access token is opaque", zap.Error(err))
		claims = nil
	}
	s.client.SetAccessToken(tok.AccessToken)
	s.mu.Lock()
	s.claims = claims
	s.mu.Unlock()

	if _, err := s.FetchMe(ctx); err != nil {
		return fmt.Errorf("fetch user: %w", err)
	}
	s.mu.Lock()
	s.ready = true
	s.mu.Unlock()
	return nil
}

// IsLogged reports whether an unexpired access token is held.
func (s *Session) IsLogged() bool {
	if s.client.AccessToken() == "" {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.claims.Expired(s.now())
}

func (s *Session) DisplayName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.DisplayName()
}

func (s *Session) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) View() View {
	v := View{Logged: s.IsLogged()}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v.Ready = s.ready
	v.DisplayName = s.user.DisplayName()
	if s.user != nil {
		u := *s.user
		v.User = &u
	}
	if exp := s.claims.Expiry(); !exp.IsZero() {
		v.ExpiresAt = &exp
	}
	return v
}

func (s *Session) reset() {
	s.client.SetAccessToken("")
	s.mu.Lock()
	s.user = nil
	s.claims = nil
	s.ready = true
	s.mu.Unlock()
}

// expire runs after the client already dropped the token on a 401.
func (s *Session) expire() {
	s.mu.Lock()
	s.user = nil
	s.claims = nil
	s.mu.Unlock()
	s.logger.Info("backend session expired")
}

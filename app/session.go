package app

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/ludo-technologies/textscope/domain"
)

// SessionListener is called after every session status change. Listeners run
// outside the session lock and may read the session.
type SessionListener func(ctx context.Context, snapshot domain.SessionSnapshot)

// Session owns the bearer token and the authenticated user.
type Session struct {
	api    domain.AuthAPI
	store  domain.TokenStore
	logger *slog.Logger

	mu            sync.Mutex
	status        domain.SessionStatus
	token         string
	user          *domain.UserProfile
	loginInFlight bool
	listeners     []SessionListener
}

// NewSession creates an anonymous session.
func NewSession(api domain.AuthAPI, store domain.TokenStore, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{api: api, store: store, logger: logger}
}

// Subscribe registers a listener for status changes.
func (s *Session) Subscribe(listener SessionListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

// Snapshot returns a copy of the current session.
func (s *Session) Snapshot() domain.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() domain.SessionSnapshot {
	snap := domain.SessionSnapshot{Status: s.status, Token: s.token}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// Token returns the bearer token, or "".
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Restore loads a persisted token and validates it against the backend. No
// stored token leaves the session anonymous without error.
func (s *Session) Restore(ctx context.Context) error {
	token, err := s.store.Load()
	if err != nil {
		s.logger.Warn("could not read stored token", "error", err)
		return nil
	}
	if token == "" {
		return nil
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	s.setStatus(ctx, domain.SessionAuthenticating)

	_, err = s.FetchProfile(ctx)
	return err
}

// Login exchanges credentials for a token and loads the profile. A second
// call while one is in flight fails with ErrCodeBusy.
func (s *Session) Login(ctx context.Context, username, password string) error {
	s.mu.Lock()
	if s.loginInFlight {
		s.mu.Unlock()
		return domain.NewBusyError("login")
	}
	s.loginInFlight = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loginInFlight = false
		s.mu.Unlock()
	}()

	s.setStatus(ctx, domain.SessionAuthenticating)

	resp, err := s.api.Login(ctx, strings.TrimSpace(username), password)
	if err != nil {
		s.logger.Info("login rejected", "username", username, "error", err)
		s.Logout(ctx)
		return err
	}

	s.mu.Lock()
	s.token = resp.AccessToken
	s.mu.Unlock()
	if err := s.store.Save(resp.AccessToken); err != nil {
		s.logger.Warn("could not persist token", "error", err)
	}

	_, err = s.FetchProfile(ctx)
	return err
}

// Register creates an account. It does not sign the user in.
func (s *Session) Register(ctx context.Context, email, username, password string) (*domain.UserProfile, error) {
	user, err := s.api.Register(ctx, domain.Registration{
		Email:    strings.TrimSpace(email),
		Username: strings.TrimSpace(username),
		Password: password,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("account registered", "username", user.Username)
	return user, nil
}

// FetchProfile loads the user behind the current token. Any failure logs the
// session out and is reported as an expired session.
func (s *Session) FetchProfile(ctx context.Context) (*domain.UserProfile, error) {
	token := s.Token()
	if token == "" {
		s.Logout(ctx)
		return nil, domain.NewSessionExpiredError(nil)
	}

	user, err := s.api.Profile(ctx, token)
	if err != nil {
		s.logger.Info("profile fetch failed, logging out", "error", err)
		s.Logout(ctx)
		if domain.IsSessionExpired(err) {
			return nil, err
		}
		return nil, domain.NewSessionExpiredError(err)
	}

	s.mu.Lock()
	if s.token != token {
		// logged out or replaced while the request was in flight
		s.mu.Unlock()
		return nil, domain.NewSessionExpiredError(nil)
	}
	u := *user
	s.user = &u
	s.mu.Unlock()

	s.setStatus(ctx, domain.SessionAuthenticated)
	return user, nil
}

// Logout clears the token and user. It is idempotent and never fails.
func (s *Session) Logout(ctx context.Context) {
	s.mu.Lock()
	changed := s.status != domain.SessionAnonymous
	s.token = ""
	s.user = nil
	s.status = domain.SessionAnonymous
	snap := s.snapshotLocked()
	listeners := append([]SessionListener(nil), s.listeners...)
	s.mu.Unlock()

	if err := s.store.Clear(); err != nil {
		s.logger.Warn("could not remove stored token", "error", err)
	}
	if changed {
		notify(ctx, listeners, snap)
	}
}

// HandleUnauthorized reacts to a 401 from any authenticated call.
func (s *Session) HandleUnauthorized(ctx context.Context) {
	s.logger.Info("session expired")
	s.Logout(ctx)
}

func (s *Session) setStatus(ctx context.Context, status domain.SessionStatus) {
	s.mu.Lock()
	if s.status == status {
		s.mu.Unlock()
		return
	}
	s.status = status
	if status != domain.SessionAuthenticated {
		s.user = nil
	}
	snap := s.snapshotLocked()
	listeners := append([]SessionListener(nil), s.listeners...)
	s.mu.Unlock()

	notify(ctx, listeners, snap)
}

func notify(ctx context.Context, listeners []SessionListener, snap domain.SessionSnapshot) {
	for _, l := range listeners {
		l(ctx, snap)
	}
}

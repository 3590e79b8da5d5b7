package domain

import (
	"context"
	"time"
)

// SessionStatus is the authentication state of the client.
type SessionStatus int

const (
	SessionAnonymous SessionStatus = iota
	SessionAuthenticating
	SessionAuthenticated
)

func (s SessionStatus) String() string {
	switch s {
	case SessionAuthenticating:
		return "authenticating"
	case SessionAuthenticated:
		return "authenticated"
	default:
		return "anonymous"
	}
}

// UserProfile is the user object returned by the backend.
type UserProfile struct {
	ID        int       `json:"id" yaml:"id"`
	Email     string    `json:"email" yaml:"email"`
	Username  string    `json:"username" yaml:"username"`
	IsActive  bool      `json:"is_active" yaml:"is_active"`
	CreatedAt Timestamp `json:"created_at" yaml:"created_at"`
}

// TokenResponse is the body of a successful POST /token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Registration is the JSON payload of POST /users/.
type Registration struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// SessionSnapshot is a read-only copy of the session handed to listeners.
type SessionSnapshot struct {
	Status SessionStatus
	Token  string
	User   *UserProfile
}

// Authenticated reports whether a validated user is present.
func (s SessionSnapshot) Authenticated() bool {
	return s.Status == SessionAuthenticated && s.User != nil
}

// TokenStore persists the bearer token between runs.
type TokenStore interface {
	// Load returns "" with a nil error when no token is stored.
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// AuthAPI is the authentication surface of the backend.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*TokenResponse, error)
	Register(ctx context.Context, reg Registration) (*UserProfile, error)
	Profile(ctx context.Context, token string) (*UserProfile, error)
}

// TokenClaims is the unverified view of a bearer token.
type TokenClaims struct {
	Subject   string     `json:"subject,omitempty" yaml:"subject,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

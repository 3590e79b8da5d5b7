package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ludo-technologies/textscope/domain"
)

// FileTokenStore keeps the bearer token in a single file named after
// domain.TokenStorageKey inside dir.
type FileTokenStore struct {
	dir string
}

// NewFileTokenStore creates a token store rooted at dir. An empty dir selects
// the user config directory.
func NewFileTokenStore(dir string) (*FileTokenStore, error) {
	if dir == "" {
		var err error
		dir, err = DefaultStateDir()
		if err != nil {
			return nil, err
		}
	}
	return &FileTokenStore{dir: dir}, nil
}

// DefaultStateDir returns <user config dir>/textscope.
func DefaultStateDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", domain.NewConfigError("cannot determine user config directory", err)
	}
	return filepath.Join(base, "textscope"), nil
}

// Path returns the token file location.
func (s *FileTokenStore) Path() string {
	return filepath.Join(s.dir, domain.TokenStorageKey)
}

// Load implements domain.TokenStore.
func (s *FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.Path())
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", domain.NewConfigError(fmt.Sprintf("failed to read token file: %s", s.Path()), err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save implements domain.TokenStore. The file is replaced atomically and is
// readable by the owner only.
func (s *FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return domain.NewConfigError(fmt.Sprintf("failed to create state directory: %s", s.dir), err)
	}
	tmp, err := os.CreateTemp(s.dir, ".token-*")
	if err != nil {
		return domain.NewConfigError("failed to create token file", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return domain.NewConfigError("failed to restrict token file permissions", err)
	}
	if _, err := tmp.WriteString(token); err != nil {
		tmp.Close()
		return domain.NewConfigError("failed to write token file", err)
	}
	if err := tmp.Close(); err != nil {
		return domain.NewConfigError("failed to write token file", err)
	}
	if err := os.Rename(tmp.Name(), s.Path()); err != nil {
		return domain.NewConfigError("failed to store token file", err)
	}
	return nil
}

// Clear implements domain.TokenStore. Clearing an absent token succeeds.
func (s *FileTokenStore) Clear() error {
	if err := os.Remove(s.Path()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return domain.NewConfigError("failed to remove token file", err)
	}
	return nil
}

// MemoryTokenStore keeps the token for the lifetime of the process.
type MemoryTokenStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryTokenStore creates an in-memory store holding token ("" for none).
func NewMemoryTokenStore(token string) *MemoryTokenStore {
	return &MemoryTokenStore{token: token}
}

func (s *MemoryTokenStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryTokenStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// InspectToken decodes the claims of a JWT bearer token without verifying
// its signature. The backend stays the only authority on validity.
func InspectToken(token string) (*domain.TokenClaims, error) {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, domain.NewParseFailureError("token is not a readable JWT", err)
	}
	out := &domain.TokenClaims{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		exp := claims.ExpiresAt.Time
		out.ExpiresAt = &exp
	}
	return out, nil
}

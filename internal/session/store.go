package session

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// TokenStore persists the session's bearer token between runs. It is the only
// durable state the client keeps, and the session manager is its only user.
type TokenStore interface {
	// Load returns the persisted token, or "" when none is stored.
	Load() (string, error)

	// Save persists the token, replacing any previous value.
	Save(token string) error

	// Clear removes the persisted token. Clearing an empty store is a no-op.
	Clear() error
}

// tokenFileName is the fixed key under which the token is stored.
const tokenFileName = "access_token"

// FileStore keeps the token in a single file with user-only permissions.
type FileStore struct {
	path string
}

// NewFileStore creates a token store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultStorePath returns the conventional token location under the user
// config directory.
func DefaultStorePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config dir: %w", err)
	}
	return filepath.Join(dir, "medinv", tokenFileName), nil
}

// Load reads the stored token. A missing file means no session.
func (s *FileStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the token with 0600 permissions, creating parent directories.
func (s *FileStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating token dir: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}

// Clear removes the token file.
func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}

// MemoryStore is an in-memory TokenStore for tests and ephemeral sessions.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored token.
func (s *MemoryStore) Load() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

// Save stores the token.
func (s *MemoryStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

// Clear removes the token.
func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

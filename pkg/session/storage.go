package session

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	apperrors "github.com/a1-en/E-Shoe-Store/pkg/errors"
)

// TokenStorage persists the bearer token across process restarts.
// An empty string means no token is stored.
type TokenStorage interface {
	// Load reads the stored token. A missing token is ("", nil), not an error.
	Load(ctx context.Context) (string, error)

	// Save writes the token, replacing any previous value.
	Save(ctx context.Context, token string) error

	// Clear removes the stored token. Idempotent.
	Clear(ctx context.Context) error
}

// FileStorage keeps the token in a single file, the local-storage
// analogue for a native client.
type FileStorage struct {
	path string
}

// NewFileStorage creates a file-backed token storage at path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (s *FileStorage) Load(_ context.Context) (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", apperrors.Wrap(err, "failed to read token file")
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *FileStorage) Save(_ context.Context, token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return apperrors.Wrap(err, "failed to create token dir")
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return apperrors.Wrap(err, "failed to write token file")
	}
	return nil
}

func (s *FileStorage) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return apperrors.Wrap(err, "failed to remove token file")
	}
	return nil
}

// MemoryStorage keeps the token in memory. Useful in tests and for
// callers who explicitly want a non-durable session.
type MemoryStorage struct {
	mu    sync.Mutex
	token string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (s *MemoryStorage) Load(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *MemoryStorage) Save(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStorage) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

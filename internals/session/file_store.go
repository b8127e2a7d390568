package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spiderworks-akhil/website-monitor-client/internals/models"
)

// FileStore mirrors the session to a JSON file, the local-storage
// equivalent for a client that outlives single requests.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create mirror directory: %w", err)
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Save(ctx context.Context, sess models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(map[string]models.Session{MirrorKey: sess})
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// Write-then-rename keeps a crashed write from clobbering the mirror.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session mirror: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace session mirror: %w", err)
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context) (models.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return models.Session{}, false, nil
	}
	if err != nil {
		return models.Session{}, false, fmt.Errorf("failed to read session mirror: %w", err)
	}

	var wrapped map[string]models.Session
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return models.Session{}, false, fmt.Errorf("failed to unmarshal session mirror: %w", err)
	}
	sess, ok := wrapped[MirrorKey]
	if !ok {
		return models.Session{}, false, nil
	}
	return sess, true, nil
}

func (s *FileStore) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session mirror: %w", err)
	}
	return nil
}

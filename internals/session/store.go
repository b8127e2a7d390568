// Package session maintains the in-memory session of the dashboard client
// and keeps it fresh against the monitor backend's who-am-i endpoint. A
// mirrored copy lives in a pluggable Store so a restart rehydrates the
// last known identity.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/spiderworks-akhil/website-monitor-client/internals/models"
)

// MirrorKey is the constant name the mirrored session is stored under.
const MirrorKey = "user"

var (
	// ErrPartialSession is returned when a session missing id, email or
	// token is about to be stored.
	ErrPartialSession = errors.New("session is missing id, email or access token")
)

// Store is the durable mirror of the in-memory session. Writers treat it
// as last-write-wins; there is at most one logical user per client
// instance.
type Store interface {
	// Save writes the mirrored session copy.
	Save(ctx context.Context, sess models.Session) error

	// Load reads the mirrored copy. ok is false when none is stored.
	Load(ctx context.Context) (sess models.Session, ok bool, err error)

	// Delete removes the mirrored copy. Deleting a missing copy is not
	// an error.
	Delete(ctx context.Context) error
}

// MemoryStore is an in-memory implementation of the Store interface.
type MemoryStore struct {
	mu   sync.RWMutex
	sess *models.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(ctx context.Context, sess models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := sess
	s.sess = &copied
	return nil
}

func (s *MemoryStore) Load(ctx context.Context) (models.Session, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.sess == nil {
		return models.Session{}, false, nil
	}
	return *s.sess, true, nil
}

func (s *MemoryStore) Delete(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sess = nil
	return nil
}

package session

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/spiderworks-akhil/website-monitor-client/internals/metrics"
	"github.com/spiderworks-akhil/website-monitor-client/internals/models"
)

// DefaultValidateInterval matches the original client's five-minute
// revalidation timer.
const DefaultValidateInterval = 5 * time.Minute

// WhoAmI is the slice of the monitor backend the manager needs.
type WhoAmI interface {
	GetMe(ctx context.Context, cookies []*http.Cookie) (models.User, error)
}

// Manager owns the in-memory session, writes every mutation through to the
// mirror store and revalidates the session against the who-am-i endpoint.
//
// The sign-in flow is the only writer that takes the session from empty to
// populated; the validator and logout only refresh or clear it. Concurrent
// validations are last-write-wins, acceptable for a single logical user.
type Manager struct {
	store    Store
	api      WhoAmI
	interval time.Duration

	mu      sync.RWMutex
	current *models.Session
	creds   []*http.Cookie
	ready   bool
}

// NewManager creates a manager and rehydrates the mirrored session, if one
// is stored. A rehydrated session is provisional until the first Validate.
func NewManager(ctx context.Context, store Store, api WhoAmI, interval time.Duration) *Manager {
	if interval <= 0 {
		interval = DefaultValidateInterval
	}

	m := &Manager{
		store:    store,
		api:      api,
		interval: interval,
	}

	sess, ok, err := store.Load(ctx)
	if err != nil {
		log.Printf("session: failed to rehydrate mirror: %v", err)
	} else if ok && sess.Populated() {
		m.current = &sess
	}
	return m
}

// Current returns the session, if populated.
func (m *Manager) Current() (models.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil {
		return models.Session{}, false
	}
	return *m.current, true
}

// Ready reports whether the first validation has finished. Consumers must
// treat "no session, not ready" as still loading, not as signed out.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ready
}

// Credentials returns the backend cookies captured at sign-in. They are
// the ambient credentials for every backend call.
func (m *Manager) Credentials() []*http.Cookie {
	m.mu.RLock()
	defer m.mu.RUnlock()

	creds := make([]*http.Cookie, len(m.creds))
	copy(creds, m.creds)
	return creds
}

// Set installs a session minted by the sign-in flow, together with the
// cookies the backend issued for it, and writes through to the mirror.
func (m *Manager) Set(ctx context.Context, sess models.Session, creds []*http.Cookie) error {
	if !sess.Populated() {
		return ErrPartialSession
	}

	m.mu.Lock()
	copied := sess
	m.current = &copied
	m.creds = creds
	m.mu.Unlock()

	if err := m.store.Save(ctx, sess); err != nil {
		log.Printf("session: failed to mirror session: %v", err)
		return err
	}
	return nil
}

// Clear drops the session and removes the mirrored copy.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.current = nil
	m.creds = nil
	m.mu.Unlock()

	return m.store.Delete(ctx)
}

// Validate asks the backend who the ambient credentials belong to. On
// success the session identity is replaced and mirrored; on any failure
// the session and the mirror are cleared and the error tells the caller
// to send the user to sign-in.
func (m *Manager) Validate(ctx context.Context) error {
	m.mu.RLock()
	creds := m.creds
	token := ""
	if m.current != nil {
		token = m.current.AccessToken
	}
	m.mu.RUnlock()

	user, err := m.api.GetMe(ctx, creds)

	m.mu.Lock()
	m.ready = true
	m.mu.Unlock()

	if err != nil {
		metrics.ValidatorRuns.WithLabelValues("failure").Inc()
		if clearErr := m.Clear(ctx); clearErr != nil {
			log.Printf("session: failed to clear mirror: %v", clearErr)
		}
		return err
	}

	// get-me returns identity only; the access token survives from the
	// sign-in flow.
	sess := models.Session{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		AccessToken: token,
	}

	m.mu.Lock()
	m.current = &sess
	m.mu.Unlock()

	if err := m.store.Save(ctx, sess); err != nil {
		log.Printf("session: failed to mirror session: %v", err)
	}
	metrics.ValidatorRuns.WithLabelValues("success").Inc()
	return nil
}

// Run validates once immediately and then on a fixed ticker until ctx is
// cancelled. The ticker is always stopped on the way out.
func (m *Manager) Run(ctx context.Context) {
	if err := m.Validate(ctx); err != nil {
		log.Printf("session: initial validation failed: %v", err)
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.Validate(ctx); err != nil {
				log.Printf("session: validation failed: %v", err)
			}
		}
	}
}

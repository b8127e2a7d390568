// Package signin implements the two-step login state machine: a password
// primary step that yields a QR challenge, then a time-bounded one-time
// code verification that mints the local session.
package signin

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/spiderworks-akhil/website-monitor-client/internals/clients/backend"
	"github.com/spiderworks-akhil/website-monitor-client/internals/metrics"
	"github.com/spiderworks-akhil/website-monitor-client/internals/models"
)

// State is the sign-in flow state.
type State int

const (
	StateIdle State = iota
	StatePrimaryPending
	StateAwaitingSecondFactor
	StateSecondFactorPending
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePrimaryPending:
		return "primary_pending"
	case StateAwaitingSecondFactor:
		return "awaiting_second_factor"
	case StateSecondFactorPending:
		return "second_factor_pending"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

var (
	// ErrPrimaryPending is returned when Submit is called while a primary
	// call is still in flight.
	ErrPrimaryPending = errors.New("sign-in already in progress")

	// ErrVerifyPending is returned when Verify is called while a previous
	// Verify is still in flight.
	ErrVerifyPending = errors.New("verification already in progress")

	// ErrNoChallenge is returned when Verify is called without a pending
	// challenge.
	ErrNoChallenge = errors.New("no pending verification challenge")

	// ErrIncompleteCode is returned when the entered code does not fill
	// all six positions. Incomplete codes never reach the network.
	ErrIncompleteCode = errors.New("verification code is incomplete")
)

// AuthAPI is the slice of the auth backend the flow needs.
type AuthAPI interface {
	Login(ctx context.Context, email, password, accountType string) (*backend.Challenge, []*http.Cookie, error)
	VerifyToken(ctx context.Context, token, email string) (*backend.Credential, []*http.Cookie, error)
}

// Registrar establishes the application-side user record once the auth
// backend has issued a credential.
type Registrar interface {
	RegisterIdentity(ctx context.Context, cookies []*http.Cookie, cred backend.Credential) error
}

// SessionSink receives the minted session. The flow is the only writer
// that takes the session from empty to populated.
type SessionSink interface {
	Set(ctx context.Context, sess models.Session, creds []*http.Cookie) error
}

// Flow drives one sign-in attempt through its states. Transitions that
// fail fall back to their predecessor state with the error message kept
// for the user; nothing here retries on its own.
type Flow struct {
	auth        AuthAPI
	registrar   Registrar
	sessions    SessionSink
	accountType string

	mu        sync.Mutex
	id        string
	state     State
	challenge *backend.Challenge
	cookies   []*http.Cookie
	code      CodeInput
	lastErr   string
}

// New creates an idle flow. accountType is the tenant discriminator the
// auth backend expects in the primary login payload.
func New(auth AuthAPI, registrar Registrar, sessions SessionSink, accountType string) *Flow {
	return &Flow{
		auth:        auth,
		registrar:   registrar,
		sessions:    sessions,
		accountType: accountType,
		id:          uuid.New().String(),
		state:       StateIdle,
	}
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// LastError returns the user-facing message of the most recent failure.
func (f *Flow) LastError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

// Challenge returns the pending second-factor payload, if any.
func (f *Flow) Challenge() (backend.Challenge, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.challenge == nil {
		return backend.Challenge{}, false
	}
	return *f.challenge, true
}

// Cookies returns the backend-issued cookies accumulated so far, for
// forwarding to the browser.
func (f *Flow) Cookies() []*http.Cookie {
	f.mu.Lock()
	defer f.mu.Unlock()

	cookies := make([]*http.Cookie, len(f.cookies))
	copy(cookies, f.cookies)
	return cookies
}

// PasteCode replaces the entered code. Handlers run concurrently, so the
// input model is only touched under the flow's lock; it reports whether
// the pasted text was accepted.
func (f *Flow) PasteCode(code string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.code.Paste(code)
}

// EnteredCode returns the code entered so far.
func (f *Flow) EnteredCode() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.code.String()
}

// Submit runs the primary authentication step. Submitting again while a
// challenge is already pending is allowed and simply regenerates the
// challenge. On any failure the flow returns to Idle with the error
// message retained; there is no automatic retry.
func (f *Flow) Submit(ctx context.Context, email, password string) error {
	f.mu.Lock()
	switch f.state {
	case StatePrimaryPending:
		f.mu.Unlock()
		return ErrPrimaryPending
	case StateSecondFactorPending:
		f.mu.Unlock()
		return ErrVerifyPending
	}
	f.state = StatePrimaryPending
	f.mu.Unlock()

	challenge, cookies, err := f.auth.Login(ctx, email, password, f.accountType)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		f.state = StateIdle
		f.challenge = nil
		f.lastErr = userMessage(err, "Signin failed")
		log.Printf("signin %s: primary step failed: %v", f.id, err)
		metrics.SigninAttempts.WithLabelValues("primary", "failure").Inc()
		return err
	}

	log.Printf("signin %s: challenge issued for %s", f.id, challenge.Email)
	f.state = StateAwaitingSecondFactor
	f.challenge = challenge
	f.cookies = cookies
	f.code.Clear()
	f.lastErr = ""
	metrics.SigninAttempts.WithLabelValues("primary", "success").Inc()
	return nil
}

// Verify runs the second-factor step with the entered code and, on
// success, registers the identity with the monitor backend and mints the
// local session. Failures of either call fall back to awaiting the second
// factor with the entered code preserved for correction.
func (f *Flow) Verify(ctx context.Context) error {
	f.mu.Lock()
	switch {
	case f.state == StateSecondFactorPending:
		f.mu.Unlock()
		return ErrVerifyPending
	case f.state != StateAwaitingSecondFactor || f.challenge == nil:
		f.mu.Unlock()
		return ErrNoChallenge
	case !f.code.Complete():
		f.mu.Unlock()
		return ErrIncompleteCode
	}
	f.state = StateSecondFactorPending
	code := f.code.String()
	email := f.challenge.Email
	loginCookies := f.cookies
	f.mu.Unlock()

	cred, verifyCookies, err := f.auth.VerifyToken(ctx, code, email)
	if err != nil {
		f.fail(StateAwaitingSecondFactor, err, "Verification failed")
		return err
	}

	cookies := mergeCookies(loginCookies, verifyCookies)

	if err := f.registrar.RegisterIdentity(ctx, cookies, *cred); err != nil {
		f.fail(StateAwaitingSecondFactor, err, "User creation failed")
		return err
	}

	sess := models.Session{
		ID:          cred.ID,
		Name:        cred.Name,
		Email:       cred.Email,
		AccessToken: cred.Token,
	}
	if err := f.sessions.Set(ctx, sess, cookies); err != nil {
		f.fail(StateAwaitingSecondFactor, err, "Verification failed")
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = StateAuthenticated
	f.challenge = nil
	f.cookies = cookies
	f.code.Clear()
	f.lastErr = ""
	log.Printf("signin %s: authenticated as %s", f.id, cred.Email)
	metrics.SigninAttempts.WithLabelValues("verify", "success").Inc()
	return nil
}

// Reset abandons the attempt, consuming any pending challenge.
func (f *Flow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.state = StateIdle
	f.challenge = nil
	f.cookies = nil
	f.code.Clear()
	f.lastErr = ""
}

// fail moves the flow back to a predecessor state, keeping the entered
// code so the user can correct it.
func (f *Flow) fail(state State, err error, fallback string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.state = state
	f.lastErr = userMessage(err, fallback)
	log.Printf("signin %s: verification failed: %v", f.id, err)
	metrics.SigninAttempts.WithLabelValues("verify", "failure").Inc()
}

// userMessage prefers the backend's own message over a generic fallback.
func userMessage(err error, fallback string) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if err != nil && (errors.Is(err, backend.ErrNoChallenge) || errors.Is(err, backend.ErrNoCredential) || errors.Is(err, backend.ErrBadResponse)) {
		return err.Error()
	}
	return fallback
}

func mergeCookies(a, b []*http.Cookie) []*http.Cookie {
	merged := make([]*http.Cookie, 0, len(a)+len(b))
	seen := make(map[string]bool, len(b))
	for _, c := range b {
		seen[c.Name] = true
		merged = append(merged, c)
	}
	for _, c := range a {
		if !seen[c.Name] {
			merged = append(merged, c)
		}
	}
	return merged
}

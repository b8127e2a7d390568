package signin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spiderworks-akhil/website-monitor-client/internals/clients/backend"
	"github.com/spiderworks-akhil/website-monitor-client/internals/models"
	"github.com/spiderworks-akhil/website-monitor-client/internals/session"
)

const (
	testEmail    = "a@b.com"
	testPassword = "secret1"
)

// fakeAuthServer imitates the external auth service: password check,
// TOTP-backed second factor, route token cookie on success.
type fakeAuthServer struct {
	*httptest.Server
	secret      string
	loginCalls  atomic.Int64
	verifyCalls atomic.Int64
	verifyGate  chan struct{} // when non-nil, verify blocks until closed
}

func newFakeAuthServer(t *testing.T) *fakeAuthServer {
	t.Helper()

	key, err := totp.Generate(totp.GenerateOpts{Issuer: "Website Monitor", AccountName: testEmail})
	require.NoError(t, err)

	f := &fakeAuthServer{secret: key.Secret()}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/user-auth/login", func(w http.ResponseWriter, r *http.Request) {
		f.loginCalls.Add(1)

		var body struct{ Email, Password, Type string }
		_ = json.NewDecoder(r.Body).Decode(&body)

		if body.Email != testEmail || body.Password != testPassword {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Please enter a valid password"})
			return
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"data": map[string]string{
				"qrcode":  "data:image/png;base64,<img>",
				"email":   body.Email,
				"message": "QR code generated. Please scan to verify and enter the token below.",
			},
		})
	})
	mux.HandleFunc("/api/user-auth/verify", func(w http.ResponseWriter, r *http.Request) {
		f.verifyCalls.Add(1)
		if f.verifyGate != nil {
			<-f.verifyGate
		}

		var body struct{ Token, Email string }
		_ = json.NewDecoder(r.Body).Decode(&body)

		if body.Email != testEmail || !totp.Validate(body.Token, f.secret) {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Invalid verification code"})
			return
		}

		http.SetCookie(w, &http.Cookie{Name: "token", Value: "route.token.value", Path: "/"})
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "success",
			"data": map[string]string{
				"token": "abc.def.ghi",
				"id":    "u1",
				"name":  "Ann",
				"email": body.Email,
			},
		})
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

// code returns the currently valid one-time code.
func (f *fakeAuthServer) code(t *testing.T) string {
	t.Helper()
	code, err := totp.GenerateCode(f.secret, time.Now())
	require.NoError(t, err)
	return code
}

// fakeMonitorServer imitates the monitor backend's identity endpoints.
type fakeMonitorServer struct {
	*httptest.Server
	registered atomic.Int64
	failCreate bool
}

func newFakeMonitorServer(t *testing.T) *fakeMonitorServer {
	t.Helper()

	f := &fakeMonitorServer{}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/create-user", func(w http.ResponseWriter, r *http.Request) {
		if f.failCreate {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "User creation failed"})
			return
		}
		f.registered.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "created"})
	})
	mux.HandleFunc("/api/current-user/get-me", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]string{"id": "u1", "name": "Ann", "email": testEmail},
		})
	})

	f.Server = httptest.NewServer(mux)
	t.Cleanup(f.Close)
	return f
}

type flowFixture struct {
	flow     *Flow
	auth     *fakeAuthServer
	monitor  *fakeMonitorServer
	sessions *session.Manager
}

func newFlowFixture(t *testing.T) *flowFixture {
	t.Helper()

	authSrv := newFakeAuthServer(t)
	monitorSrv := newFakeMonitorServer(t)

	authURL, err := url.Parse(authSrv.URL)
	require.NoError(t, err)
	monitorURL, err := url.Parse(monitorSrv.URL)
	require.NoError(t, err)

	authClient := backend.NewAuthClient(http.DefaultClient, *authURL)
	monitorClient := backend.NewMonitorClient(http.DefaultClient, *monitorURL)
	sessions := session.NewManager(context.Background(), session.NewMemoryStore(), monitorClient, time.Minute)

	return &flowFixture{
		flow:     New(authClient, monitorClient, sessions, "HR"),
		auth:     authSrv,
		monitor:  monitorSrv,
		sessions: sessions,
	}
}

func TestSubmitValidCredentials(t *testing.T) {
	fx := newFlowFixture(t)

	require.NoError(t, fx.flow.Submit(context.Background(), testEmail, testPassword))

	assert.Equal(t, StateAwaitingSecondFactor, fx.flow.State())
	challenge, ok := fx.flow.Challenge()
	require.True(t, ok)
	assert.Equal(t, testEmail, challenge.Email)
	assert.NotEmpty(t, challenge.QRCode)
	assert.Empty(t, fx.flow.LastError())
}

func TestSubmitInvalidCredentials(t *testing.T) {
	fx := newFlowFixture(t)

	err := fx.flow.Submit(context.Background(), testEmail, "wrong")
	require.Error(t, err)

	assert.Equal(t, StateIdle, fx.flow.State())
	assert.NotEmpty(t, fx.flow.LastError())
	_, ok := fx.flow.Challenge()
	assert.False(t, ok)
}

func TestResubmitRegeneratesChallenge(t *testing.T) {
	fx := newFlowFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.flow.Submit(ctx, testEmail, testPassword))
	require.NoError(t, fx.flow.Submit(ctx, testEmail, testPassword))

	assert.Equal(t, StateAwaitingSecondFactor, fx.flow.State())
	assert.Equal(t, int64(2), fx.auth.loginCalls.Load())
}

func TestVerifyIncompleteCodeNeverCallsNetwork(t *testing.T) {
	fx := newFlowFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.flow.Submit(ctx, testEmail, testPassword))

	fx.flow.PasteCode("123")
	err := fx.flow.Verify(ctx)
	assert.ErrorIs(t, err, ErrIncompleteCode)
	assert.Equal(t, int64(0), fx.auth.verifyCalls.Load())
	assert.Equal(t, StateAwaitingSecondFactor, fx.flow.State())
}

func TestVerifyWithoutChallenge(t *testing.T) {
	fx := newFlowFixture(t)

	fx.flow.PasteCode("123456")
	err := fx.flow.Verify(context.Background())
	assert.ErrorIs(t, err, ErrNoChallenge)
	assert.Equal(t, int64(0), fx.auth.verifyCalls.Load())
}

func TestVerifySuccessMintsSession(t *testing.T) {
	fx := newFlowFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.flow.Submit(ctx, testEmail, testPassword))

	fx.flow.PasteCode(fx.auth.code(t))
	require.NoError(t, fx.flow.Verify(ctx))

	assert.Equal(t, StateAuthenticated, fx.flow.State())
	assert.Equal(t, int64(1), fx.monitor.registered.Load(), "identity registration must run")

	sess, ok := fx.sessions.Current()
	require.True(t, ok)
	assert.Equal(t, models.Session{
		ID:          "u1",
		Name:        "Ann",
		Email:       testEmail,
		AccessToken: "abc.def.ghi",
	}, sess)

	// The challenge is consumed and the route token cookie is kept for
	// forwarding.
	_, ok = fx.flow.Challenge()
	assert.False(t, ok)
	var hasToken bool
	for _, c := range fx.flow.Cookies() {
		if c.Name == "token" {
			hasToken = true
		}
	}
	assert.True(t, hasToken)
}

func TestVerifyWrongCodePreservesInput(t *testing.T) {
	fx := newFlowFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.flow.Submit(ctx, testEmail, testPassword))

	fx.flow.PasteCode("000000")
	err := fx.flow.Verify(ctx)
	require.Error(t, err)

	assert.Equal(t, StateAwaitingSecondFactor, fx.flow.State())
	assert.Equal(t, "000000", fx.flow.EnteredCode(), "entered code is kept for correction")
	assert.Equal(t, "Invalid verification code", fx.flow.LastError())

	_, ok := fx.sessions.Current()
	assert.False(t, ok)
}

func TestVerifyFailedRegistrationFallsBack(t *testing.T) {
	fx := newFlowFixture(t)
	fx.monitor.failCreate = true
	ctx := context.Background()

	require.NoError(t, fx.flow.Submit(ctx, testEmail, testPassword))

	fx.flow.PasteCode(fx.auth.code(t))
	err := fx.flow.Verify(ctx)
	require.Error(t, err)

	assert.Equal(t, StateAwaitingSecondFactor, fx.flow.State())
	assert.Equal(t, "User creation failed", fx.flow.LastError())
	_, ok := fx.sessions.Current()
	assert.False(t, ok)
}

func TestConcurrentPasteAndVerify(t *testing.T) {
	fx := newFlowFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.flow.Submit(ctx, testEmail, testPassword))
	code := fx.auth.code(t)

	// Paste and verify from competing handlers; exactly one verification
	// wins and the input model stays consistent throughout.
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fx.flow.PasteCode(code)
			_ = fx.flow.Verify(ctx)
		}()
	}
	wg.Wait()

	assert.Equal(t, StateAuthenticated, fx.flow.State())
	sess, ok := fx.sessions.Current()
	require.True(t, ok)
	assert.Equal(t, testEmail, sess.Email)
}

func TestVerifyIsSerialized(t *testing.T) {
	fx := newFlowFixture(t)
	ctx := context.Background()

	require.NoError(t, fx.flow.Submit(ctx, testEmail, testPassword))
	fx.auth.verifyGate = make(chan struct{})

	fx.flow.PasteCode(fx.auth.code(t))

	firstDone := make(chan error, 1)
	go func() { firstDone <- fx.flow.Verify(ctx) }()

	// Wait for the first Verify to reach the backend, then try a second.
	require.Eventually(t, func() bool { return fx.auth.verifyCalls.Load() == 1 }, time.Second, time.Millisecond)
	assert.ErrorIs(t, fx.flow.Verify(ctx), ErrVerifyPending)

	close(fx.auth.verifyGate)
	require.NoError(t, <-firstDone)
	assert.Equal(t, StateAuthenticated, fx.flow.State())
}

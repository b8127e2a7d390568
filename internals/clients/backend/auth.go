package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
)

var (
	// ErrNoChallenge is returned when a successful login response carries
	// no QR challenge payload.
	ErrNoChallenge = errors.New("signin successful, but no QR code received")

	// ErrNoCredential is returned when a successful verification response
	// carries no issued token.
	ErrNoCredential = errors.New("verification failed: no token returned")
)

// AuthClient talks to the external auth service that owns credentials and
// the TOTP second factor. The dashboard never sees secrets, only the
// opaque QR payload and the issued token.
type AuthClient struct {
	client  httpClient
	baseURL url.URL
}

func NewAuthClient(client httpClient, baseURL url.URL) *AuthClient {
	return &AuthClient{
		client:  client,
		baseURL: baseURL,
	}
}

// Challenge is the second-factor setup payload returned by a successful
// primary login.
type Challenge struct {
	QRCode  string `json:"qrcode"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Credential is the identity issued by a successful token verification.
type Credential struct {
	Token string `json:"token"`
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// envelope is the auth service's uniform response wrapper.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Login performs the primary (password) authentication step. The returned
// cookies carry whatever the auth service set, including the route token,
// and must be forwarded to the browser.
func (c *AuthClient) Login(ctx context.Context, email, password, accountType string) (*Challenge, []*http.Cookie, error) {
	loginURL := c.baseURL.JoinPath("api/user-auth/login")

	body := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Type     string `json:"type"`
	}{Email: email, Password: password, Type: accountType}

	var env envelope
	resp, err := doJSON(ctx, c.client, http.MethodPost, loginURL, nil, body, &env)
	if err != nil {
		return nil, nil, err
	}

	if env.Status != "success" {
		return nil, nil, ErrNoChallenge
	}

	var challenge Challenge
	if err := json.Unmarshal(env.Data, &challenge); err != nil || challenge.QRCode == "" {
		return nil, nil, ErrNoChallenge
	}
	if challenge.Message == "" {
		challenge.Message = env.Message
	}

	return &challenge, resp.Cookies(), nil
}

// VerifyToken performs the second-factor verification step with the
// user-entered one-time code.
func (c *AuthClient) VerifyToken(ctx context.Context, token, email string) (*Credential, []*http.Cookie, error) {
	verifyURL := c.baseURL.JoinPath("api/user-auth/verify")

	body := struct {
		Token string `json:"token"`
		Email string `json:"email"`
	}{Token: token, Email: email}

	var env envelope
	resp, err := doJSON(ctx, c.client, http.MethodPost, verifyURL, nil, body, &env)
	if err != nil {
		return nil, nil, err
	}

	if env.Status != "success" {
		return nil, nil, ErrNoCredential
	}

	var cred Credential
	if err := json.Unmarshal(env.Data, &cred); err != nil || cred.Token == "" {
		return nil, nil, ErrNoCredential
	}

	return &cred, resp.Cookies(), nil
}

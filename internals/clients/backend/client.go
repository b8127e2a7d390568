// Package backend holds the typed HTTP clients for the two external
// services the dashboard talks to: the auth service (primary login and
// token verification) and the monitor service (identity, websites, checks).
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

type httpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

var (
	// ErrNotAuthenticated is returned for 401/403 responses.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrBadResponse is returned when a response body cannot be decoded.
	ErrBadResponse = errors.New("invalid response from server")
)

// APIError carries the backend's own message for a failed request.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// Unwrap lets errors.Is treat 401/403 responses as ErrNotAuthenticated.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden {
		return ErrNotAuthenticated
	}
	return nil
}

// doJSON performs a request with the given ambient cookies, decodes a JSON
// response into out (when out is non-nil) and maps error statuses. The
// response is returned so callers can forward Set-Cookie headers.
func doJSON(ctx context.Context, client httpClient, method string, u *url.URL, cookies []*http.Cookie, body any, out any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp, ErrBadResponse
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, &APIError{StatusCode: resp.StatusCode, Message: apiMessage(raw)}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp, ErrBadResponse
		}
	}
	return resp, nil
}

// apiMessage pulls an "error" or "message" field out of a body, if any.
func apiMessage(raw []byte) string {
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if body.Error != "" {
		return body.Error
	}
	return body.Message
}

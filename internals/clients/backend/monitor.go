package backend

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/spiderworks-akhil/website-monitor-client/internals/models"
)

// MonitorClient talks to the monitor service that owns users, websites and
// status-check history. All calls use ambient cookie credentials.
type MonitorClient struct {
	client  httpClient
	baseURL url.URL
}

func NewMonitorClient(client httpClient, baseURL url.URL) *MonitorClient {
	return &MonitorClient{
		client:  client,
		baseURL: baseURL,
	}
}

// GetMe is the who-am-i call: it returns the identity for the ambient
// cookies or ErrNotAuthenticated.
func (c *MonitorClient) GetMe(ctx context.Context, cookies []*http.Cookie) (models.User, error) {
	meURL := c.baseURL.JoinPath("api/current-user/get-me")

	var out struct {
		User models.User `json:"user"`
	}
	if _, err := doJSON(ctx, c.client, http.MethodGet, meURL, cookies, nil, &out); err != nil {
		return models.User{}, err
	}
	if out.User.ID == "" {
		return models.User{}, ErrBadResponse
	}
	return out.User, nil
}

// UpdateMe updates the current user's profile. Password is optional.
func (c *MonitorClient) UpdateMe(ctx context.Context, cookies []*http.Cookie, name, email, password string) error {
	updateURL := c.baseURL.JoinPath("api/current-user/update-me")

	body := struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password,omitempty"`
	}{Name: name, Email: email, Password: password}

	_, err := doJSON(ctx, c.client, http.MethodPost, updateURL, cookies, body, nil)
	return err
}

// RegisterIdentity establishes the application-side user record after a
// successful verification. The body is ignored beyond the status code.
func (c *MonitorClient) RegisterIdentity(ctx context.Context, cookies []*http.Cookie, cred Credential) error {
	createURL := c.baseURL.JoinPath("api/auth/create-user")

	body := struct {
		ID    string `json:"id"`
		Name  string `json:"name,omitempty"`
		Email string `json:"email"`
		Phone string `json:"phone,omitempty"`
	}{ID: cred.ID, Name: cred.Name, Email: cred.Email, Phone: cred.Phone}

	_, err := doJSON(ctx, c.client, http.MethodPost, createURL, cookies, body, nil)
	return err
}

// CreateUser creates a managed user from the manage-user page.
func (c *MonitorClient) CreateUser(ctx context.Context, cookies []*http.Cookie, user models.User) error {
	createURL := c.baseURL.JoinPath("api/users/create-user")
	_, err := doJSON(ctx, c.client, http.MethodPost, createURL, cookies, user, nil)
	return err
}

// Logout invalidates the backend session for the ambient cookies.
func (c *MonitorClient) Logout(ctx context.Context, cookies []*http.Cookie) error {
	logoutURL := c.baseURL.JoinPath("api/current-user/logout")
	_, err := doJSON(ctx, c.client, http.MethodPost, logoutURL, cookies, nil, nil)
	return err
}

// WebsiteFilter narrows the website list by name and check-date range.
type WebsiteFilter struct {
	Name      string
	StartDate string
	EndDate   string
}

// ListWebsites returns the registered websites, filtered.
func (c *MonitorClient) ListWebsites(ctx context.Context, cookies []*http.Cookie, filter WebsiteFilter) ([]models.Website, error) {
	listURL := c.baseURL.JoinPath("api/websites/get-websites")

	params := url.Values{}
	if filter.Name != "" {
		params.Set("name", filter.Name)
	}
	if filter.StartDate != "" {
		params.Set("startDate", filter.StartDate)
	}
	if filter.EndDate != "" {
		params.Set("endDate", filter.EndDate)
	}
	params.Set("includeToday", "true")
	listURL.RawQuery = params.Encode()

	var out []models.Website
	if _, err := doJSON(ctx, c.client, http.MethodGet, listURL, cookies, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AddWebsite registers a website to watch.
func (c *MonitorClient) AddWebsite(ctx context.Context, cookies []*http.Cookie, siteName, siteURL string) error {
	addURL := c.baseURL.JoinPath("api/websites/add-website")

	body := struct {
		SiteName string `json:"site_name"`
		URL      string `json:"url"`
	}{SiteName: siteName, URL: siteURL}

	_, err := doJSON(ctx, c.client, http.MethodPost, addURL, cookies, body, nil)
	return err
}

// WebsiteDetails returns a website with its status-check history.
func (c *MonitorClient) WebsiteDetails(ctx context.Context, cookies []*http.Cookie, id string) (models.Website, error) {
	detailsURL := c.baseURL.JoinPath("api/websites/website-details", id)

	var out models.Website
	if _, err := doJSON(ctx, c.client, http.MethodGet, detailsURL, cookies, nil, &out); err != nil {
		return models.Website{}, err
	}
	return out, nil
}

// DeleteStatusHistory wipes the stored check history of a website.
func (c *MonitorClient) DeleteStatusHistory(ctx context.Context, cookies []*http.Cookie, id string) error {
	historyURL := c.baseURL.JoinPath("api/websites/website-details", id, "status-history")
	_, err := doJSON(ctx, c.client, http.MethodDelete, historyURL, cookies, nil, nil)
	return err
}

// CheckWebsites asks the backend to probe all websites now.
func (c *MonitorClient) CheckWebsites(ctx context.Context, cookies []*http.Cookie) error {
	checkURL := c.baseURL.JoinPath("api/websites/check-websites")
	_, err := doJSON(ctx, c.client, http.MethodGet, checkURL, cookies, nil, nil)
	return err
}

// GetFrequency returns the user's check frequency in minutes.
func (c *MonitorClient) GetFrequency(ctx context.Context, cookies []*http.Cookie) (int, error) {
	freqURL := c.baseURL.JoinPath("api/cron/user-frequency")

	var out struct {
		Frequency int `json:"frequency"`
	}
	if _, err := doJSON(ctx, c.client, http.MethodGet, freqURL, cookies, nil, &out); err != nil {
		return 0, err
	}
	return out.Frequency, nil
}

// UpdateFrequency changes the user's check frequency.
func (c *MonitorClient) UpdateFrequency(ctx context.Context, cookies []*http.Cookie, minutes int) error {
	freqURL := c.baseURL.JoinPath("api/cron/update-user-frequency")

	body := struct {
		Frequency int `json:"frequency"`
	}{Frequency: minutes}

	_, err := doJSON(ctx, c.client, http.MethodPost, freqURL, cookies, body, nil)
	return err
}

// DefaultHTTPClient is the client used when none is injected.
func DefaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

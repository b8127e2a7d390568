package controllers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/spiderworks-akhil/website-monitor-client/internals/clients/backend"
	"github.com/spiderworks-akhil/website-monitor-client/internals/history"
)

type WebsiteController struct {
	API *backend.MonitorClient
}

func NewWebsiteController(api *backend.MonitorClient) *WebsiteController {
	return &WebsiteController{API: api}
}

// List returns the registered websites, filtered by name and date range.
func (w *WebsiteController) List(c *gin.Context) {
	filter := backend.WebsiteFilter{
		Name:      c.Query("name"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}

	websites, err := w.API.ListWebsites(c.Request.Context(), c.Request.Cookies(), filter)
	if err != nil {
		respondBackendError(c, err, "Failed to fetch websites")
		return
	}
	c.JSON(http.StatusOK, websites)
}

// Add registers a website to watch.
func (w *WebsiteController) Add(c *gin.Context) {
	var body struct {
		SiteName string `json:"site_name" binding:"required"`
		URL      string `json:"url" binding:"required"`
	}

	if c.Bind(&body) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Site name and URL are required"})
		return
	}

	parsed, err := url.Parse(body.URL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid URL"})
		return
	}

	if err := w.API.AddWebsite(c.Request.Context(), c.Request.Cookies(), body.SiteName, body.URL); err != nil {
		respondBackendError(c, err, "Failed to add website")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Website added successfully"})
}

// Details returns one website with its check history grouped by calendar
// day plus the per-status summary.
func (w *WebsiteController) Details(c *gin.Context) {
	website, err := w.API.WebsiteDetails(c.Request.Context(), c.Request.Cookies(), c.Param("id"))
	if err != nil {
		respondBackendError(c, err, "Failed to fetch website")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"website": website,
		"history": history.GroupByDay(website.StatusHistory),
		"summary": history.Summarize(website.StatusHistory),
	})
}

// DeleteHistory wipes the stored check history of a website.
func (w *WebsiteController) DeleteHistory(c *gin.Context) {
	if err := w.API.DeleteStatusHistory(c.Request.Context(), c.Request.Cookies(), c.Param("id")); err != nil {
		respondBackendError(c, err, "Failed to delete status history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status history deleted"})
}

// Check asks the backend to probe all websites now.
func (w *WebsiteController) Check(c *gin.Context) {
	if err := w.API.CheckWebsites(c.Request.Context(), c.Request.Cookies()); err != nil {
		respondBackendError(c, err, "Failed to run checks")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Checks started"})
}

// respondBackendError maps a backend client error onto the response,
// preferring the backend's own status and message.
func respondBackendError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, backend.ErrNotAuthenticated) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated", "redirect": "/signin"})
		return
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = fallback
		}
		c.JSON(apiErr.StatusCode, gin.H{"error": msg})
		return
	}

	c.JSON(http.StatusBadGateway, gin.H{"error": fallback})
}

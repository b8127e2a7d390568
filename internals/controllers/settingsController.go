package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spiderworks-akhil/website-monitor-client/internals/clients/backend"
)

type SettingsController struct {
	API *backend.MonitorClient
}

func NewSettingsController(api *backend.MonitorClient) *SettingsController {
	return &SettingsController{API: api}
}

// GetFrequency returns the user's check frequency in minutes.
func (s *SettingsController) GetFrequency(c *gin.Context) {
	frequency, err := s.API.GetFrequency(c.Request.Context(), c.Request.Cookies())
	if err != nil {
		respondBackendError(c, err, "Failed to fetch frequency")
		return
	}
	c.JSON(http.StatusOK, gin.H{"frequency": frequency})
}

// UpdateFrequency changes the user's check frequency.
func (s *SettingsController) UpdateFrequency(c *gin.Context) {
	var body struct {
		Frequency int `json:"frequency" binding:"required"`
	}

	if c.Bind(&body) != nil || body.Frequency <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Frequency must be a positive number of minutes"})
		return
	}

	if err := s.API.UpdateFrequency(c.Request.Context(), c.Request.Cookies(), body.Frequency); err != nil {
		respondBackendError(c, err, "Failed to update frequency")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Frequency updated successfully"})
}

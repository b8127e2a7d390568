package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spiderworks-akhil/website-monitor-client/internals/clients/backend"
	"github.com/spiderworks-akhil/website-monitor-client/internals/models"
	"github.com/spiderworks-akhil/website-monitor-client/internals/session"
)

type UserController struct {
	API      *backend.MonitorClient
	Sessions *session.Manager
}

func NewUserController(api *backend.MonitorClient, sessions *session.Manager) *UserController {
	return &UserController{API: api, Sessions: sessions}
}

// Create adds a managed user from the manage-user page.
func (u *UserController) Create(c *gin.Context) {
	var body struct {
		Name  string `json:"name" binding:"required"`
		Email string `json:"email" binding:"required"`
		Phone string `json:"phone"`
	}

	if c.Bind(&body) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and email are required"})
		return
	}

	user := models.User{Name: body.Name, Email: body.Email, Phone: body.Phone}
	if err := u.API.CreateUser(c.Request.Context(), c.Request.Cookies(), user); err != nil {
		respondBackendError(c, err, "Failed to create user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User created successfully"})
}

// UpdateProfile updates the signed-in user's own record and refreshes the
// local session so the shell shows the new identity immediately.
func (u *UserController) UpdateProfile(c *gin.Context) {
	var body struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password"`
	}

	if c.Bind(&body) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name and email are required"})
		return
	}

	if err := u.API.UpdateMe(c.Request.Context(), c.Request.Cookies(), body.Name, body.Email, body.Password); err != nil {
		respondBackendError(c, err, "Failed to update profile")
		return
	}

	if err := u.Sessions.Validate(c.Request.Context()); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated", "redirect": "/signin"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

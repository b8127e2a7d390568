package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spiderworks-akhil/website-monitor-client/internals/clients/backend"
	"github.com/spiderworks-akhil/website-monitor-client/internals/config"
	"github.com/spiderworks-akhil/website-monitor-client/internals/session"
	"github.com/spiderworks-akhil/website-monitor-client/internals/signin"
)

// DashboardPath is where a fully authenticated sign-in lands.
const DashboardPath = "/dashboard"

type AuthController struct {
	Flow         *signin.Flow
	Sessions     *session.Manager
	API          *backend.MonitorClient
	CookieConfig *config.CookieConfig
}

func NewAuthController(flow *signin.Flow, sessions *session.Manager, api *backend.MonitorClient, cookieConfig *config.CookieConfig) *AuthController {
	return &AuthController{
		Flow:         flow,
		Sessions:     sessions,
		API:          api,
		CookieConfig: cookieConfig,
	}
}

// SignIn runs the primary authentication step and returns the second
// factor challenge.
func (a *AuthController) SignIn(c *gin.Context) {
	var body struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if c.Bind(&body) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	if err := a.Flow.Submit(c.Request.Context(), body.Email, body.Password); err != nil {
		status := http.StatusUnauthorized
		if err == signin.ErrPrimaryPending || err == signin.ErrVerifyPending {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": a.errorMessage(err, "Signin failed")})
		return
	}

	challenge, _ := a.Flow.Challenge()
	forwardCookies(c, a.Flow.Cookies())

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data": gin.H{
			"qrcode":  challenge.QRCode,
			"email":   challenge.Email,
			"message": challenge.Message,
		},
	})
}

// VerifyToken runs the second-factor step with the entered one-time code
// and, on success, establishes the local session.
func (a *AuthController) VerifyToken(c *gin.Context) {
	var body struct {
		Token string `json:"token" binding:"required"`
	}

	if c.Bind(&body) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Token is required"})
		return
	}

	if !a.Flow.PasteCode(body.Token) {
		c.JSON(http.StatusBadRequest, gin.H{"error": signin.ErrIncompleteCode.Error()})
		return
	}

	if err := a.Flow.Verify(c.Request.Context()); err != nil {
		status := http.StatusUnauthorized
		switch err {
		case signin.ErrVerifyPending:
			status = http.StatusConflict
		case signin.ErrNoChallenge, signin.ErrIncompleteCode:
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": a.errorMessage(err, "Verification failed")})
		return
	}

	forwardCookies(c, a.Flow.Cookies())

	sess, _ := a.Sessions.Current()
	c.JSON(http.StatusOK, gin.H{
		"message":  "Verification successful. Redirecting...",
		"redirect": DashboardPath,
		"user": gin.H{
			"id":    sess.ID,
			"name":  sess.Name,
			"email": sess.Email,
		},
	})
}

// Logout invalidates the backend session, clears the local session and
// the route token cookie. A logout without a session is already done.
func (a *AuthController) Logout(c *gin.Context) {
	if _, ok := a.Sessions.Current(); !ok {
		a.clearTokenCookie(c)
		c.JSON(http.StatusOK, gin.H{"message": "Already logged out"})
		return
	}

	// Best effort: a failed backend logout must not keep the user
	// signed in locally.
	if err := a.API.Logout(c.Request.Context(), c.Request.Cookies()); err != nil {
		_ = c.Error(err)
	}

	if err := a.Sessions.Clear(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear session"})
		return
	}
	a.Flow.Reset()
	a.clearTokenCookie(c)

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// Session is the session probe for the dashboard shell. "No session but
// first check pending" and "no session, checked" are distinct answers so
// the shell can show loading instead of flashing the sign-in page.
func (a *AuthController) Session(c *gin.Context) {
	if sess, ok := a.Sessions.Current(); ok {
		c.JSON(http.StatusOK, gin.H{"user": gin.H{
			"id":    sess.ID,
			"name":  sess.Name,
			"email": sess.Email,
		}})
		return
	}

	if !a.Sessions.Ready() {
		c.JSON(http.StatusAccepted, gin.H{"status": "loading"})
		return
	}

	c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated", "redirect": "/signin"})
}

// RefreshSession is the user-initiated validate. It may overlap a
// timer-driven validation; last response wins.
func (a *AuthController) RefreshSession(c *gin.Context) {
	if err := a.Sessions.Validate(c.Request.Context()); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated", "redirect": "/signin"})
		return
	}
	a.Session(c)
}

func (a *AuthController) clearTokenCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie("token", "", -1, "/", a.CookieConfig.Domain, a.CookieConfig.IsSecure, a.CookieConfig.HttpOnly)
}

func (a *AuthController) errorMessage(err error, fallback string) string {
	if msg := a.Flow.LastError(); msg != "" {
		return msg
	}
	if err != nil {
		return err.Error()
	}
	return fallback
}

// forwardCookies relays backend-issued cookies, including the route
// token, to the browser.
func forwardCookies(c *gin.Context, cookies []*http.Cookie) {
	for _, cookie := range cookies {
		http.SetCookie(c.Writer, cookie)
	}
}

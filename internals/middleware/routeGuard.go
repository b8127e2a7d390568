package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/spiderworks-akhil/website-monitor-client/internals/metrics"
)

// TokenCookie is the route token cookie set by the auth backend at login.
const TokenCookie = "token"

// RouteGuard gates navigation to the protected dashboard tree before any
// handler runs. It is a fast-path signature check only: the authoritative
// identity check is the session validator's who-am-i call, which wins on
// conflict.
type RouteGuard struct {
	JWTSecret  string
	SignInPath string
	public     map[string]bool
}

func NewRouteGuard(jwtSecret, signInPath string) *RouteGuard {
	return &RouteGuard{
		JWTSecret:  jwtSecret,
		SignInPath: signInPath,
		public: map[string]bool{
			"/signin": true,
			"/signup": true,
		},
	}
}

// Guard allows public paths unconditionally and otherwise requires the
// token cookie to carry a verifiable HMAC signature. Every failure mode
// (missing cookie, malformed token, bad signature) redirects to sign-in;
// the reasons are deliberately not distinguished.
func (g *RouteGuard) Guard(c *gin.Context) {
	if g.public[c.Request.URL.Path] {
		c.Next()
		return
	}

	tokenString, err := c.Cookie(TokenCookie)
	if err != nil || tokenString == "" {
		g.redirect(c)
		return
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(g.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		g.redirect(c)
		return
	}

	c.Next()
}

func (g *RouteGuard) redirect(c *gin.Context) {
	metrics.GuardRedirects.Inc()
	c.Redirect(http.StatusFound, g.SignInPath)
	c.Abort()
}

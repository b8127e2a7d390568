package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "guard-test-secret"

func newGuardedRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := gin.New()
	guard := NewRouteGuard(testSecret, "/signin")

	// Guard everything so the public allow-list itself is exercised.
	r.Use(guard.Guard)
	r.GET("/signin", func(c *gin.Context) { c.String(http.StatusOK, "signin") })
	r.GET("/signup", func(c *gin.Context) { c.String(http.StatusOK, "signup") })
	r.GET("/dashboard/anything", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	return r
}

func signToken(t *testing.T, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "u1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestGuardRedirectsWithoutCookie(t *testing.T) {
	r := newGuardedRouter(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/anything", nil)
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, "/signin", rr.Header().Get("Location"))
}

func TestGuardRedirectsOnBadToken(t *testing.T) {
	r := newGuardedRouter(t)

	cases := map[string]string{
		"malformed":    "not-a-jwt",
		"wrong secret": signToken(t, "some-other-secret"),
		"empty":        "",
	}

	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/dashboard/anything", nil)
			req.AddCookie(&http.Cookie{Name: TokenCookie, Value: value})
			r.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusFound, rr.Code)
			assert.Equal(t, "/signin", rr.Header().Get("Location"))
		})
	}
}

func TestGuardAllowsValidToken(t *testing.T) {
	r := newGuardedRouter(t)

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/dashboard/anything", nil)
	req.AddCookie(&http.Cookie{Name: TokenCookie, Value: signToken(t, testSecret)})
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())
}

func TestGuardSkipsPublicPaths(t *testing.T) {
	r := newGuardedRouter(t)

	for _, path := range []string{"/signin", "/signup"} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code, path)
	}
}

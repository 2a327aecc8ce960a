package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newEchoContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/posts/pending", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name           string
		claims         *Claims
		expectedStatus int
	}{
		{
			name:           "admin passes",
			claims:         &Claims{UserID: 1, Role: RoleAdmin},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "plain user is forbidden",
			claims:         &Claims{UserID: 7, Role: RoleUser},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "missing token context",
			claims:         nil,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newEchoContext(t)
			if tt.claims != nil {
				c.Set("user", jwt.NewWithClaims(jwt.SigningMethodHS256, tt.claims))
			}

			err := RequireAdmin(okHandler)(c)

			if tt.expectedStatus == http.StatusOK {
				assert.NoError(t, err)
				return
			}
			httpErr, ok := err.(*echo.HTTPError)
			assert.True(t, ok)
			assert.Equal(t, tt.expectedStatus, httpErr.Code)
		})
	}
}

func TestMiddleware_TokenVerification(t *testing.T) {
	service := NewJWTService("test-secret")
	mw := Middleware("test-secret")

	run := func(authorization string) error {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/user/profile", nil)
		if authorization != "" {
			req.Header.Set(echo.HeaderAuthorization, authorization)
		}
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		return mw(okHandler)(c)
	}

	t.Run("valid bearer token passes and attaches claims", func(t *testing.T) {
		token, err := service.GenerateAccessToken(7, RoleUser)
		assert.NoError(t, err)
		assert.NoError(t, run("Bearer "+token))
	})

	t.Run("missing token", func(t *testing.T) {
		err := run("")
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})

	t.Run("tampered token", func(t *testing.T) {
		token, err := NewJWTService("other-secret").GenerateAccessToken(7, RoleAdmin)
		assert.NoError(t, err)
		err = run("Bearer " + token)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	})
}

func TestClaimsFrom(t *testing.T) {
	c, _ := newEchoContext(t)
	c.Set("user", jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: 42, Role: RoleUser}))

	claims, err := ClaimsFrom(c)
	assert.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.False(t, claims.IsAdmin())
}

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/celaops/cela/config"
	"github.com/celaops/cela/internal/repository"
	"github.com/celaops/cela/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireScopes(t *testing.T) {
	ctx := context.Background()
	reg := repository.NewMemRegistry()
	auth := service.CreateNewAuthService(reg, config.Config{JWTSecret: "test-secret", JWTTTL: time.Minute})
	require.NoError(t, auth.Bootstrap(ctx))

	mw := CreateAuthMiddleware(auth)

	e := echo.New()
	handler := mw.RequireScopes("device:list")(func(c echo.Context) error {
		claims := ClaimsFrom(c)
		assert.NotZero(t, claims.UserID)
		return c.NoContent(http.StatusOK)
	})

	call := func(authHeader string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if authHeader != "" {
			req.Header.Set(echo.HeaderAuthorization, authHeader)
		}
		rec := httptest.NewRecorder()
		require.NoError(t, handler(e.NewContext(req, rec)))
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, call(""))
	assert.Equal(t, http.StatusUnauthorized, call("Bearer garbage"))

	superToken, err := auth.IssueToken(1, []string{service.SuperScope})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, call("Bearer "+superToken))

	scopedToken, err := auth.IssueToken(1, []string{"device:list"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, call("Bearer "+scopedToken))

	wrongScope, err := auth.IssueToken(1, []string{"device:info"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, call("Bearer "+wrongScope))
}

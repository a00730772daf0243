package middleware

import (
	"strings"

	"github.com/celaops/cela/internal/service"
	"github.com/celaops/cela/pkg/errs"
	"github.com/celaops/cela/pkg/response"
	"github.com/celaops/cela/pkg/utils"
	"github.com/labstack/echo/v4"
)

const claimsContextKey = "claims"

type AuthMiddleware struct {
	auth service.AuthService
}

func CreateAuthMiddleware(auth service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// RequireScopes verifies the bearer token and checks the route's declared
// scopes against it before the handler runs.
func (m *AuthMiddleware) RequireScopes(scopes ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				return response.WriteErrorResponse(c, errs.ErrNotLoggedIn, nil)
			}

			claims, err := m.auth.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				return response.WriteErrorResponse(c, err, nil)
			}

			if err := m.auth.Authorize(claims, scopes...); err != nil {
				return response.WriteErrorResponse(c, err, nil)
			}

			c.Set(claimsContextKey, claims)
			return next(c)
		}
	}
}

// ClaimsFrom returns the verified claims RequireScopes stored on the context.
func ClaimsFrom(c echo.Context) utils.Claims {
	claims, _ := c.Get(claimsContextKey).(utils.Claims)
	return claims
}

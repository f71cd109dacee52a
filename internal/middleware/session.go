package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/advice-forum/internal/repository"
)

// usernameKey is where SessionAuth stores the resolved author name.
const usernameKey = "username"

// SessionAuth returns an Echo middleware that resolves a Bearer session
// token against the sessions table and injects the owning username into the
// request context. Tokens carry no claims or expiry; a lookup miss is the
// only failure mode. Handlers read the result via middleware.Username(c).
func SessionAuth(sessions *repository.SessionRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			token := strings.TrimPrefix(auth, "Bearer ")

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			s, err := sessions.Verify(ctx, token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session"})
			}
			c.Set(usernameKey, s.Username)
			return next(c)
		}
	}
}

// Username returns the authenticated username set by SessionAuth, or ""
// when the request did not pass through it.
func Username(c echo.Context) string {
	if v, ok := c.Get(usernameKey).(string); ok {
		return v
	}
	return ""
}

package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minutemart/storefront/internal/core/domain"
	"github.com/minutemart/storefront/internal/core/ports"
)

// RequireUser guards authenticated-only routes. It resolves the session's
// identity against the credential store and injects the user into context;
// anonymous sessions and sessions whose user has vanished are both turned
// away. Fails closed: no identity, no handler.
func RequireUser(sessions ports.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, _ := c.Get("session").(*domain.Session)
			if sess == nil || !sess.Authenticated() {
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrNotAuthenticated.Error())
			}

			user, err := sessions.CurrentUser(c.Request().Context(), sess)
			if err != nil {
				return err
			}
			if user == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, domain.ErrNotAuthenticated.Error())
			}

			c.Set("user", user)
			return next(c)
		}
	}
}

package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minutemart/storefront/internal/core/ports"
)

// SessionCookie is the client-visible name of the opaque session token.
const SessionCookie = "sid"

// ResolveSession looks up or creates a session for every request and injects
// it into context under "session". It never rejects a request: an anonymous
// session is a valid state. A fresh session gets its cookie set here.
func ResolveSession(sessions ports.SessionManager, secureCookies bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var token string
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				token = cookie.Value
			}

			sess, err := sessions.Resolve(c.Request().Context(), token)
			if err != nil {
				return err
			}

			if sess.ID != token {
				c.SetCookie(&http.Cookie{
					Name:     SessionCookie,
					Value:    sess.ID,
					Path:     "/",
					HttpOnly: true,
					Secure:   secureCookies,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set("session", sess)
			return next(c)
		}
	}
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minutemart/storefront/internal/core/domain"
)

// currentSession extracts the session injected by the ResolveSession
// middleware. Its absence means the middleware chain is miswired, which is a
// server fault, not a client one.
func currentSession(c echo.Context) (*domain.Session, error) {
	sess, _ := c.Get("session").(*domain.Session)
	if sess == nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "session middleware not configured")
	}
	return sess, nil
}

// currentUser extracts the user injected by RequireUser.
func currentUser(c echo.Context) (*domain.User, error) {
	user, _ := c.Get("user").(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, domain.ErrNotAuthenticated.Error())
	}
	return user, nil
}

package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minutemart/storefront/internal/api/metrics"
	"github.com/minutemart/storefront/internal/core/domain"
)

// CSRFHeader and CSRFField are where a state-changing request may carry its
// anti-forgery token. The header wins when both are present.
const (
	CSRFHeader = "X-CSRF-Token"
	CSRFField  = "_csrf"
)

// CSRF rejects every non-idempotent request whose token does not match the
// one derivable from the current session, before any business logic runs.
// Read-only methods are exempt. Must run after ResolveSession.
func CSRF() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			switch c.Request().Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			sess, _ := c.Get("session").(*domain.Session)
			if sess == nil {
				metrics.CSRFRejectionsTotal.Inc()
				return echo.NewHTTPError(http.StatusForbidden, domain.ErrCSRFTokenInvalid.Error())
			}

			token := c.Request().Header.Get(CSRFHeader)
			if token == "" {
				token = c.FormValue(CSRFField)
			}
			if !sess.VerifyCSRF(token) {
				metrics.CSRFRejectionsTotal.Inc()
				return echo.NewHTTPError(http.StatusForbidden, domain.ErrCSRFTokenInvalid.Error())
			}

			return next(c)
		}
	}
}

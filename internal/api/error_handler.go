package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/minutemart/storefront/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes, in
//     exactly one place.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes. Credential failures
	// stay generic on purpose: the message never says which part was wrong.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrNotAuthenticated):
		return http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrPasswordMismatch):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrResetTokenInvalid):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrNotAnImage):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, domain.ErrCartEmpty):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrProductNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrOrderNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, err.Error()
	}

	// Infrastructure failure: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

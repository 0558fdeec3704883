package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/minutemart/storefront/internal/core/domain"
)

func handle(t *testing.T, err error) (int, string) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error envelope must be json, got %q", rec.Body.String())
	}
	return rec.Code, body.Error
}

func TestErrorHandler_DomainMapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrNotAuthenticated, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrEmailTaken, http.StatusUnprocessableEntity},
		{domain.ErrPasswordMismatch, http.StatusUnprocessableEntity},
		{domain.ErrResetTokenInvalid, http.StatusUnprocessableEntity},
		{domain.ErrNotAnImage, http.StatusUnprocessableEntity},
		{domain.ErrCartEmpty, http.StatusUnprocessableEntity},
		{domain.ErrImageTooLarge, http.StatusRequestEntityTooLarge},
		{domain.ErrProductNotFound, http.StatusNotFound},
		{domain.ErrUserNotFound, http.StatusNotFound},
		{domain.ErrOrderNotFound, http.StatusNotFound},
	}

	for _, tc := range cases {
		code, _ := handle(t, tc.err)
		if code != tc.code {
			t.Errorf("%v: expected %d, got %d", tc.err, tc.code, code)
		}
	}
}

func TestErrorHandler_WrappedErrorsStillMap(t *testing.T) {
	wrapped := errors.Join(errors.New("update product"), domain.ErrForbidden)
	code, _ := handle(t, wrapped)
	if code != http.StatusForbidden {
		t.Fatalf("wrapped domain errors must keep their mapping, got %d", code)
	}
}

func TestErrorHandler_CredentialMessageIsGeneric(t *testing.T) {
	_, msg := handle(t, domain.ErrInvalidCredentials)
	if strings.Contains(msg, "password hash") || strings.Contains(msg, "user not found") {
		t.Fatalf("credential error must not reveal which part was wrong, got %q", msg)
	}
	if msg != domain.ErrInvalidCredentials.Error() {
		t.Fatalf("unexpected credential message %q", msg)
	}
}

func TestErrorHandler_UnexpectedHidden(t *testing.T) {
	code, msg := handle(t, errors.New("mongo: connection reset by peer"))
	if code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for unknown errors, got %d", code)
	}
	if strings.Contains(msg, "mongo") {
		t.Fatalf("internal details must not leak to the client, got %q", msg)
	}
}

func TestErrorHandler_EchoErrorsPassThrough(t *testing.T) {
	code, msg := handle(t, echo.NewHTTPError(http.StatusNotFound, "Not Found"))
	if code != http.StatusNotFound || msg != "Not Found" {
		t.Fatalf("echo errors must keep their code and message, got %d %q", code, msg)
	}
}

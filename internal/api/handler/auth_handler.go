package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minutemart/storefront/internal/api/middleware"
	"github.com/minutemart/storefront/internal/core/domain"
	"github.com/minutemart/storefront/internal/core/ports"
)

// AuthHandler exposes the auth flows over HTTP.
type AuthHandler struct {
	auth ports.AuthService
}

func NewAuthHandler(auth ports.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type signupRequest struct {
	Email           string `json:"email" form:"email" validate:"required,email"`
	Password        string `json:"password" form:"password" validate:"required,min=5"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type resetRequest struct {
	Email string `json:"email" form:"email" validate:"required,email"`
}

type newPasswordRequest struct {
	Password        string `json:"password" form:"password" validate:"required,min=5"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required"`
}

type sessionResponse struct {
	Authenticated bool         `json:"authenticated"`
	CSRFToken     string       `json:"csrf_token"`
	User          *domain.User `json:"user,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Session reports the caller's auth state and hands the rendering layer the
// CSRF token to embed in forms.
func (h *AuthHandler) Session(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	user, _ := c.Get("user").(*domain.User)
	return c.JSON(http.StatusOK, sessionResponse{
		Authenticated: sess.Authenticated(),
		CSRFToken:     sess.CSRFToken(),
		User:          user,
	})
}

// Signup creates a new account. No session is attached; the user logs in
// explicitly afterwards.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.auth.Signup(c.Request().Context(), ports.SignupInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, user)
}

// Login verifies credentials and binds the identity to the current session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		// Same generic failure as a wrong password: a malformed email must
		// not be distinguishable from an unknown one.
		return domain.ErrInvalidCredentials
	}

	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	user, err := h.auth.Login(c.Request().Context(), sess, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, user)
}

// Logout destroys the server-side session and expires the cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}

	if err := h.auth.Logout(c.Request().Context(), sess); err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{Name: middleware.SessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	return c.NoContent(http.StatusNoContent)
}

// RequestReset issues a reset token. The response is identical whether or
// not the email has an account.
func (h *AuthHandler) RequestReset(c echo.Context) error {
	var req resetRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.auth.RequestPasswordReset(c.Request().Context(), req.Email); err != nil {
		return err
	}

	return c.JSON(http.StatusAccepted, messageResponse{
		Message: "If that email has an account, a reset link is on its way.",
	})
}

// CompleteReset consumes the token from the link and sets the new password.
func (h *AuthHandler) CompleteReset(c echo.Context) error {
	var req newPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.auth.CompletePasswordReset(c.Request().Context(), c.Param("token"), req.Password, req.ConfirmPassword); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "Password updated, please log in."})
}

package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Scribax/followers-shop/internal/middleware"
	"github.com/Scribax/followers-shop/internal/service"
	"github.com/Scribax/followers-shop/internal/transport"
	"github.com/Scribax/followers-shop/pkg/logging"
	"github.com/Scribax/followers-shop/pkg/tokens"
)

type AuthHTTP struct {
	Svc     *service.AuthService
	Profile *service.ProfileService
	Orders  *service.OrderService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Register(ctx, req)
	if err != nil {
		return httpError(err)
	}

	c.SetCookie(tokens.CreateCookie(middleware.SessionCookie, res.Token, "/", res.ExpiresAt))
	return c.JSON(http.StatusCreated, echo.Map{
		"user":  res.User,
		"token": res.Token,
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return httpError(err)
	}

	c.SetCookie(tokens.CreateCookie(middleware.SessionCookie, res.Token, "/", res.ExpiresAt))
	return c.JSON(http.StatusOK, echo.Map{
		"user":  res.User,
		"token": res.Token,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	token := ""
	if cookie, err := c.Cookie(middleware.SessionCookie); err == nil {
		token = cookie.Value
	}

	if err := h.Svc.Logout(ctx, token); err != nil {
		c.SetCookie(tokens.DeleteCookie(middleware.SessionCookie, "/"))
		return httpError(err)
	}

	// Logout also clears the per-user view state of the other stores.
	if user := middleware.UserFromContext(c); user != nil {
		if err := h.Profile.ClearUserInfo(ctx, user); err != nil {
			l.Warn("clear_profile_failed", "error", err)
		}
	}
	h.Orders.ResetStore()

	c.SetCookie(tokens.DeleteCookie(middleware.SessionCookie, "/"))
	l.Info("logout_successful")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me re-validates the session and returns the restored user.
func (h *AuthHTTP) Me(c echo.Context) error {
	user := middleware.UserFromContext(c)
	return c.JSON(http.StatusOK, echo.Map{
		"user":            user,
		"isAuthenticated": true,
	})
}

func (h *AuthHTTP) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.forgot_password")

	var req transport.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("forgot_password_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.RequestPasswordReset(ctx, req.Email); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "reset email sent"})
}

func (h *AuthHTTP) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.reset_password")

	var req transport.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("reset_password_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.ResetPassword(ctx, c.Param("token"), req.Password, req.ConfirmPassword); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}

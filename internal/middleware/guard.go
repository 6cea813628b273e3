package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Scribax/followers-shop/internal/models"
	"github.com/Scribax/followers-shop/internal/service"
	"github.com/Scribax/followers-shop/pkg/logging"
	"github.com/Scribax/followers-shop/pkg/tokens"
)

const (
	SessionCookie = "sessionToken"
	CtxUser       = "user"
)

// Guard re-validates the session before every protected transition and
// redirects (pages) or rejects (API) exactly as the navigation rules demand.
type Guard struct {
	Auth       *service.AuthService
	AdminEmail string
}

func NewGuard(auth *service.AuthService, adminEmail string) *Guard {
	return &Guard{Auth: auth, AdminEmail: adminEmail}
}

// sessionUser runs the full session re-validation for the current request.
func (g *Guard) sessionUser(c echo.Context) *models.User {
	cookie, err := c.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil
	}
	user, err := g.Auth.CheckAuth(c.Request().Context(), cookie.Value)
	if err != nil {
		c.SetCookie(tokens.DeleteCookie(SessionCookie, "/"))
		return nil
	}
	return user
}

// IsAdmin compares the user's email against the single operator-configured
// admin address, case-insensitively. No admin configured means no admins.
func (g *Guard) IsAdmin(user *models.User) bool {
	if user == nil || g.AdminEmail == "" {
		return false
	}
	return strings.EqualFold(user.Email, g.AdminEmail)
}

func UserFromContext(c echo.Context) *models.User {
	if u, ok := c.Get(CtxUser).(*models.User); ok {
		return u
	}
	return nil
}

// RequireAuth protects API routes: 401 without a live session.
func (g *Guard) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := g.sessionUser(c)
		if user == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or expired session")
		}
		c.Set(CtxUser, user)
		return next(c)
	}
}

// RequireAdmin protects admin API routes: 401 without a session, 403 for a
// non-admin. The denial is logged, not detailed to the caller.
func (g *Guard) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := g.sessionUser(c)
		if user == nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or expired session")
		}
		if !g.IsAdmin(user) {
			l := logging.FromContext(c.Request().Context())
			l.Warn("admin_denied", "status", 403, "email", user.Email)
			return echo.NewHTTPError(http.StatusForbidden, "admin access required")
		}
		c.Set(CtxUser, user)
		return next(c)
	}
}

// RequireAuthPage guards browser pages: unauthenticated visitors are
// redirected to the login page.
func (g *Guard) RequireAuthPage(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := g.sessionUser(c)
		if user == nil {
			return c.Redirect(http.StatusFound, "/auth/login")
		}
		c.Set(CtxUser, user)
		return next(c)
	}
}

// RequireAdminPage guards the admin page: a non-admin session lands on the
// dashboard, no session lands on the login page.
func (g *Guard) RequireAdminPage(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := g.sessionUser(c)
		if user == nil {
			return c.Redirect(http.StatusFound, "/auth/login")
		}
		if !g.IsAdmin(user) {
			l := logging.FromContext(c.Request().Context())
			l.Warn("admin_denied", "status", 302, "email", user.Email)
			return c.Redirect(http.StatusFound, "/dashboard")
		}
		c.Set(CtxUser, user)
		return next(c)
	}
}

// GuestOnly bounces an already-authenticated visitor from login/register
// pages back to the dashboard.
func (g *Guard) GuestOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if user := g.sessionUser(c); user != nil {
			return c.Redirect(http.StatusFound, "/dashboard")
		}
		return next(c)
	}
}

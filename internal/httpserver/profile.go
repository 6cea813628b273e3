package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Scribax/followers-shop/internal/middleware"
	"github.com/Scribax/followers-shop/internal/service"
	"github.com/Scribax/followers-shop/internal/transport"
	"github.com/Scribax/followers-shop/pkg/logging"
)

type ProfileHTTP struct {
	Svc *service.ProfileService
}

func (h *ProfileHTTP) Get(c echo.Context) error {
	info, err := h.Svc.FetchUserInfo(c.Request().Context(), middleware.UserFromContext(c))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, info)
}

func (h *ProfileHTTP) SetIGUsername(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.set_ig_username")
	user := middleware.UserFromContext(c)

	var req transport.SetIGUsernameRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("set_ig_username_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.SetIGUsername(ctx, user, req.Username); err != nil {
		return httpError(err)
	}

	info, err := h.Svc.FetchUserInfo(ctx, user)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, info)
}

func (h *ProfileHTTP) ClearIGUsername(c echo.Context) error {
	if err := h.Svc.ClearIGUsername(c.Request().Context(), middleware.UserFromContext(c)); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ProfileHTTP) Patch(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "profile.patch")
	user := middleware.UserFromContext(c)

	var req transport.ProfilePatch
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_profile_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	profile, err := h.Svc.UpdateProfileData(ctx, user, service.ProfilePatch{
		TotalOrders:    req.TotalOrders,
		LastActivityAt: req.LastActivityAt,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

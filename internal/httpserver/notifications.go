package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Scribax/followers-shop/internal/notify"
)

type NotificationHTTP struct {
	Bus *notify.Bus
}

func (h *NotificationHTTP) Current(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Bus.Current())
}

func (h *NotificationHTTP) Hide(c echo.Context) error {
	h.Bus.Hide()
	return c.NoContent(http.StatusNoContent)
}

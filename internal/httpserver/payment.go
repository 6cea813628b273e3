package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Scribax/followers-shop/internal/payment"
	"github.com/Scribax/followers-shop/internal/service"
	"github.com/Scribax/followers-shop/pkg/logging"
)

// PaymentHTTP fronts the gateway stub. The endpoints exist so checkout and
// webhook wiring is in place before the real integration lands.
type PaymentHTTP struct {
	Gateway *payment.Client
	Orders  *service.OrderService
}

func (h *PaymentHTTP) CreatePreference(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.Orders.GetOrderByID(ctx, c.Param("id"))
	if err != nil {
		return httpError(err)
	}

	pref, err := h.Gateway.CreatePreference(ctx, order)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "payment gateway error")
	}
	return c.JSON(http.StatusOK, pref)
}

func (h *PaymentHTTP) Webhook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.webhook")

	var n payment.Notification
	if err := c.Bind(&n); err != nil {
		l.Warn("webhook_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	processed, err := h.Gateway.ProcessNotification(ctx, n)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "payment gateway error")
	}
	return c.JSON(http.StatusOK, processed)
}

func (h *PaymentHTTP) Status(c echo.Context) error {
	status, err := h.Gateway.GetPaymentStatus(c.Request().Context(), c.Param("paymentId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "payment gateway error")
	}
	return c.JSON(http.StatusOK, status)
}

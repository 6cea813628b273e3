package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Scribax/followers-shop/internal/middleware"
	"github.com/Scribax/followers-shop/internal/service"
	"github.com/Scribax/followers-shop/internal/transport"
	"github.com/Scribax/followers-shop/pkg/logging"
)

type OrderHTTP struct {
	Svc     *service.OrderService
	Profile *service.ProfileService
}

func (h *OrderHTTP) ListOwn(c echo.Context) error {
	ctx := c.Request().Context()
	user := middleware.UserFromContext(c)

	orders, err := h.Svc.FetchOrders(ctx, user)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) Create(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")
	user := middleware.UserFromContext(c)

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	// The stored handle rides along on the order, same as the checkout form
	// would send it.
	igUsername := ""
	if info, err := h.Profile.FetchUserInfo(ctx, user); err == nil {
		igUsername = info.IGUsername
	}

	order, err := h.Svc.CreateOrder(ctx, user, igUsername, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) Get(c echo.Context) error {
	order, err := h.Svc.GetOrderByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}

// PollStatus advances the order along its lifecycle and reports the result.
// Unknown ids answer 404 without mutating anything.
func (h *OrderHTTP) PollStatus(c echo.Context) error {
	order, err := h.Svc.PollOrderStatus(c.Request().Context(), c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	if order == nil {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) SetCurrent(c echo.Context) error {
	if !h.Svc.SetCurrentOrder(c.Request().Context(), c.Param("id")) {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	return c.JSON(http.StatusOK, h.Svc.CurrentOrder())
}

func (h *OrderHTTP) Current(c echo.Context) error {
	order := h.Svc.CurrentOrder()
	if order == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) ListAll(c echo.Context) error {
	orders, err := h.Svc.FetchAllOrders(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	var req transport.UpdateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_status_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.UpdateOrderStatus(ctx, c.Param("id"), req.Status)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) Delete(c echo.Context) error {
	if err := h.Svc.DeleteOrder(c.Request().Context(), c.Param("id")); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *OrderHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.search")

	var criteria transport.SearchOrdersCriteria
	if err := c.Bind(&criteria); err != nil {
		l.Warn("search_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	orders, err := h.Svc.SearchOrders(ctx, criteria)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

// Restore clears the tombstone set and returns the refreshed listing.
func (h *OrderHTTP) Restore(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.Svc.ClearDeletedOrderIDs(ctx); err != nil {
		return httpError(err)
	}
	orders, err := h.Svc.FetchAllOrders(ctx)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

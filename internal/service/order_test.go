package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Scribax/followers-shop/internal/apperr"
	"github.com/Scribax/followers-shop/internal/models"
	"github.com/Scribax/followers-shop/internal/transport"
)

func registerAndLogin(t *testing.T, env *testEnv) *models.User {
	t.Helper()
	res, err := env.Auth.Register(context.Background(), validRegister())
	require.NoError(t, err)
	return res.User
}

func TestOrderService_FetchAllOrders_SeededFixture(t *testing.T) {
	env := newTestEnv(t)

	orders, err := env.Orders.FetchAllOrders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 3)

	// Newest first: order_003 is seeded with the latest createdAt.
	assert.Equal(t, "order_003", orders[0].ID)
	assert.Equal(t, "order_001", orders[2].ID)
}

func TestOrderService_CreateOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req := transport.CreateOrderRequest{
		PackageName: "Paquete Premium",
		Quantity:    1000,
		Price:       "19.99",
	}

	t.Run("requires a session", func(t *testing.T) {
		order, err := env.Orders.CreateOrder(ctx, nil, "", req)
		require.Error(t, err)
		assert.Nil(t, order)
		assert.ErrorIs(t, err, apperr.ErrSessionExpired)
	})

	user := registerAndLogin(t, env)

	t.Run("validates the payload", func(t *testing.T) {
		bad := req
		bad.Quantity = 0
		_, err := env.Orders.CreateOrder(ctx, user, "", bad)
		assert.ErrorIs(t, err, apperr.ErrValidation)

		bad = req
		bad.Price = "-1"
		_, err = env.Orders.CreateOrder(ctx, user, "", bad)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("creates pending and sets current", func(t *testing.T) {
		order, err := env.Orders.CreateOrder(ctx, user, "someuser", req)
		require.NoError(t, err)
		require.NotNil(t, order)

		assert.Equal(t, models.OrderStatusPending, order.Status)
		assert.Equal(t, 0, order.Step)
		assert.Equal(t, user.Email, order.CustomerEmail)
		assert.Equal(t, "someuser", order.IGUsername)
		require.NotNil(t, env.Orders.CurrentOrder())
		assert.Equal(t, order.ID, env.Orders.CurrentOrder().ID)

		own, err := env.Orders.FetchOrders(ctx, user)
		require.NoError(t, err)
		require.Len(t, own, 1)
		assert.Equal(t, order.ID, own[0].ID)
	})
}

func TestOrderService_PollOrderStatus_Progression(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := registerAndLogin(t, env)

	order, err := env.Orders.CreateOrder(ctx, user, "", transport.CreateOrderRequest{
		PackageName: "Paquete Básico",
		Quantity:    500,
		Price:       "9.99",
	})
	require.NoError(t, err)

	polled, err := env.Orders.PollOrderStatus(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusProcessing, polled.Status)
	assert.Equal(t, 1, polled.Step)

	polled, err = env.Orders.PollOrderStatus(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, polled.Status)
	assert.Equal(t, 2, polled.Step)

	// Completed is terminal; polling again is a no-op.
	polled, err = env.Orders.PollOrderStatus(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCompleted, polled.Status)
	assert.Equal(t, 2, polled.Step)
}

func TestOrderService_PollOrderStatus_UnknownID(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	before, err := env.Orders.FetchAllOrders(ctx)
	require.NoError(t, err)

	polled, err := env.Orders.PollOrderStatus(ctx, "order_missing")
	require.NoError(t, err)
	assert.Nil(t, polled)

	after, err := env.Orders.FetchAllOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestOrderService_UpdateOrderStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("maps status to step", func(t *testing.T) {
		order, err := env.Orders.UpdateOrderStatus(ctx, "order_003", models.OrderStatusCompleted)
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusCompleted, order.Status)
		assert.Equal(t, 3, order.Step)

		order, err = env.Orders.UpdateOrderStatus(ctx, "order_003", models.OrderStatusProcessing)
		require.NoError(t, err)
		assert.Equal(t, 1, order.Step)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := env.Orders.UpdateOrderStatus(ctx, "order_003", "Shipped")
		assert.ErrorIs(t, err, apperr.ErrValidation)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := env.Orders.UpdateOrderStatus(ctx, "order_missing", models.OrderStatusPending)
		assert.ErrorIs(t, err, apperr.ErrNotFound)

		ok, msg := env.Orders.LastOperation()
		assert.False(t, ok)
		assert.NotEmpty(t, msg)
	})
}

func TestOrderService_DeleteOrder_TombstonePersists(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.Orders.DeleteOrder(ctx, "order_002"))

	orders, err := env.Orders.FetchAllOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	for _, o := range orders {
		assert.NotEqual(t, "order_002", o.ID)
	}

	// A brand-new service over the same database simulates a full store
	// reset. The tombstone is persisted and still filters the listing.
	fresh := &OrderService{Repo: env.Repo}
	orders, err = fresh.FetchAllOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	// Bulk restore brings the fixture row back.
	require.NoError(t, fresh.ClearDeletedOrderIDs(ctx))
	orders, err = fresh.FetchAllOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 3)
}

func TestOrderService_DeleteOrder_Unknown(t *testing.T) {
	env := newTestEnv(t)

	err := env.Orders.DeleteOrder(context.Background(), "order_missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestOrderService_SearchOrders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("by status", func(t *testing.T) {
		orders, err := env.Orders.SearchOrders(ctx, transport.SearchOrdersCriteria{
			Status: models.OrderStatusProcessing,
		})
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, "order_002", orders[0].ID)
	})

	t.Run("case-insensitive term over id, email and handle", func(t *testing.T) {
		orders, err := env.Orders.SearchOrders(ctx, transport.SearchOrdersCriteria{
			SearchTerm: "CLIENTE1",
		})
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, "order_001", orders[0].ID)

		orders, err = env.Orders.SearchOrders(ctx, transport.SearchOrdersCriteria{
			SearchTerm: "USUARIO",
		})
		require.NoError(t, err)
		assert.Len(t, orders, 3)
	})

	t.Run("inclusive date range", func(t *testing.T) {
		start := time.Now().UTC().Add(-2 * 24 * time.Hour)
		end := time.Now().UTC().Add(time.Hour)
		orders, err := env.Orders.SearchOrders(ctx, transport.SearchOrdersCriteria{
			StartDate: &start,
			EndDate:   &end,
		})
		require.NoError(t, err)
		// order_001 is three days old and falls outside the window.
		require.Len(t, orders, 2)
		for _, o := range orders {
			assert.NotEqual(t, "order_001", o.ID)
		}
	})

	t.Run("excludes tombstoned rows", func(t *testing.T) {
		require.NoError(t, env.Orders.DeleteOrder(ctx, "order_001"))
		orders, err := env.Orders.SearchOrders(ctx, transport.SearchOrdersCriteria{
			SearchTerm: "usuario",
		})
		require.NoError(t, err)
		assert.Len(t, orders, 2)
	})
}

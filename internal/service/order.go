package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Scribax/followers-shop/internal/apperr"
	"github.com/Scribax/followers-shop/internal/events"
	"github.com/Scribax/followers-shop/internal/models"
	"github.com/Scribax/followers-shop/internal/repo"
	"github.com/Scribax/followers-shop/internal/transport"
	"github.com/Scribax/followers-shop/pkg/logging"
)

// OrderIndex is the search-index surface the order service writes through.
// *search.OrderIndexer implements it; a disabled index reports Enabled false
// and searches fall back to SQL.
type OrderIndex interface {
	Enabled() bool
	IndexOrder(ctx context.Context, order *models.Order)
	DeleteOrder(ctx context.Context, id string)
	SearchOrders(ctx context.Context, criteria transport.SearchOrdersCriteria) ([]models.Order, error)
}

// statusSequence is the fixed polling progression. Failed is reachable only
// through an explicit admin update.
var statusSequence = []string{
	models.OrderStatusPending,
	models.OrderStatusProcessing,
	models.OrderStatusCompleted,
}

type OrderService struct {
	Repo    *repo.GormRepo
	Indexer OrderIndex
	Events  *events.Producer

	// busy serializes the store: an overlapping call no-ops with ErrBusy
	// instead of queueing.
	busy atomic.Bool

	mu           sync.Mutex
	currentOrder *models.Order
	lastErr      string
	lastOpOK     bool
}

func (s *OrderService) acquire() bool {
	return s.busy.CompareAndSwap(false, true)
}

func (s *OrderService) release() { s.busy.Store(false) }

func (s *OrderService) ok() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = ""
	s.lastOpOK = true
}

func (s *OrderService) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = apperr.Message(err)
	s.lastOpOK = false
}

// LastOperation reports the outcome of the most recent operation: success
// flag and the user-facing error message, empty on success.
func (s *OrderService) LastOperation() (bool, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastOpOK, s.lastErr
}

func (s *OrderService) CurrentOrder() *models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentOrder
}

func (s *OrderService) setCurrent(order *models.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentOrder = order
}

func (s *OrderService) indexEnabled() bool {
	return s.Indexer != nil && s.Indexer.Enabled()
}

func (s *OrderService) indexOrder(ctx context.Context, order *models.Order) {
	if s.indexEnabled() {
		s.Indexer.IndexOrder(ctx, order)
	}
}

func (s *OrderService) dropFromIndex(ctx context.Context, id string) {
	if s.indexEnabled() {
		s.Indexer.DeleteOrder(ctx, id)
	}
}

func (s *OrderService) publish(ctx context.Context, key string, event map[string]any) {
	if err := s.Events.PublishEvent(ctx, events.TopicOrderEvents, key, event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}

// FetchOrders lists the caller's own orders, newest first.
func (s *OrderService) FetchOrders(ctx context.Context, user *models.User) ([]models.Order, error) {
	if user == nil {
		return []models.Order{}, nil
	}
	if !s.acquire() {
		return nil, apperr.ErrBusy
	}
	defer s.release()

	orders, err := s.Repo.ListOrdersByUser(ctx, user.ID)
	if err != nil {
		s.fail(apperr.ErrServer)
		return nil, fmt.Errorf("%w: %v", apperr.ErrServer, err)
	}

	if len(orders) > 0 && s.CurrentOrder() == nil {
		s.setCurrent(&orders[0])
	}
	s.ok()
	return orders, nil
}

func (s *OrderService) CreateOrder(ctx context.Context, user *models.User, igUsername string, req transport.CreateOrderRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.create_order")

	if user == nil {
		s.fail(apperr.ErrSessionExpired)
		return nil, apperr.ErrSessionExpired
	}
	if !s.acquire() {
		return nil, apperr.ErrBusy
	}
	defer s.release()

	if req.PackageName == "" {
		s.fail(apperr.ErrValidation)
		return nil, fmt.Errorf("%w: packageName required", apperr.ErrValidation)
	}
	if req.Quantity == 0 {
		s.fail(apperr.ErrValidation)
		return nil, fmt.Errorf("%w: quantity must be > 0", apperr.ErrValidation)
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() {
		s.fail(apperr.ErrValidation)
		return nil, fmt.Errorf("%w: price must be a non-negative number", apperr.ErrValidation)
	}

	order := &models.Order{
		ID:            "order_" + uuid.NewString(),
		UserID:        user.ID,
		CustomerEmail: user.Email,
		IGUsername:    igUsername,
		PackageName:   req.PackageName,
		Quantity:      req.Quantity,
		Price:         price,
		Status:        models.OrderStatusPending,
		Step:          0,
		CreatedAt:     time.Now().UTC(),
	}

	if _, err := s.Repo.CreateOrder(ctx, order); err != nil {
		l.Error("create_order_failed", "status", 500, "error", err)
		s.fail(apperr.ErrServer)
		return nil, fmt.Errorf("%w: %v", apperr.ErrServer, err)
	}

	s.setCurrent(order)
	s.indexOrder(ctx, order)
	s.publish(ctx, order.ID, map[string]any{"type": "order_created", "order_id": order.ID, "package": order.PackageName})

	s.ok()
	l.Info("create_order_successful", "order_id", order.ID)
	return order, nil
}

// PollOrderStatus advances the order one step along the fixed progression and
// returns the updated record. Completed orders are returned unchanged. An
// unknown id yields (nil, nil) without mutating anything.
func (s *OrderService) PollOrderStatus(ctx context.Context, orderID string) (*models.Order, error) {
	if orderID == "" {
		return nil, nil
	}

	order, err := s.Repo.OrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrServer, err)
	}

	idx := -1
	for i, st := range statusSequence {
		if order.Status == st {
			idx = i
			break
		}
	}
	if idx >= 0 && idx < len(statusSequence)-1 {
		order.Status = statusSequence[idx+1]
		if order.Step < 3 {
			order.Step++
		}
		if err := s.Repo.SaveOrder(ctx, order); err != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrServer, err)
		}
		s.indexOrder(ctx, order)
	}

	if cur := s.CurrentOrder(); cur != nil && cur.ID == orderID {
		s.setCurrent(order)
	}
	return order, nil
}

func (s *OrderService) GetOrderByID(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.Repo.OrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrServer, err)
	}
	return order, nil
}

func (s *OrderService) SetCurrentOrder(ctx context.Context, orderID string) bool {
	order, err := s.Repo.OrderByID(ctx, orderID)
	if err != nil {
		return false
	}
	s.setCurrent(order)
	return true
}

// FetchAllOrders lists every non-tombstoned order, newest first. Admin only;
// the guard sits in the HTTP layer.
func (s *OrderService) FetchAllOrders(ctx context.Context) ([]models.Order, error) {
	if !s.acquire() {
		return nil, apperr.ErrBusy
	}
	defer s.release()

	orders, err := s.Repo.ListAllOrders(ctx)
	if err != nil {
		s.fail(apperr.ErrServer)
		return nil, fmt.Errorf("%w: %v", apperr.ErrServer, err)
	}
	s.ok()
	return orders, nil
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID, status string) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.update_status", "order_id", orderID)

	if !s.acquire() {
		return nil, apperr.ErrBusy
	}
	defer s.release()

	switch status {
	case models.OrderStatusPending, models.OrderStatusProcessing,
		models.OrderStatusCompleted, models.OrderStatusFailed:
	default:
		s.fail(apperr.ErrValidation)
		return nil, fmt.Errorf("%w: unknown status %q", apperr.ErrValidation, status)
	}

	order, err := s.Repo.OrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			s.fail(apperr.ErrNotFound)
			return nil, apperr.ErrNotFound
		}
		s.fail(apperr.ErrServer)
		return nil, fmt.Errorf("%w: %v", apperr.ErrServer, err)
	}

	order.Status = status
	if step, mapped := models.StepForStatus(status); mapped {
		order.Step = step
	}

	if err := s.Repo.SaveOrder(ctx, order); err != nil {
		l.Error("update_status_failed", "status", 500, "error", err)
		s.fail(apperr.ErrServer)
		return nil, fmt.Errorf("%w: %v", apperr.ErrServer, err)
	}

	if cur := s.CurrentOrder(); cur != nil && cur.ID == orderID {
		s.setCurrent(order)
	}
	s.indexOrder(ctx, order)
	s.publish(ctx, order.ID, map[string]any{"type": "order_status_updated", "order_id": order.ID, "order_status": status})

	s.ok()
	l.Info("update_status_successful", "new_status", status)
	return order, nil
}

// DeleteOrder tombstones an order. The row itself survives, so a later
// ClearDeletedOrderIDs restores it in listings.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID string) error {
	l := logging.FromContext(ctx).With("svc", "order.delete_order", "order_id", orderID)

	if !s.acquire() {
		return apperr.ErrBusy
	}
	defer s.release()

	if _, err := s.Repo.OrderByID(ctx, orderID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			s.fail(apperr.ErrNotFound)
			return apperr.ErrNotFound
		}
		s.fail(apperr.ErrServer)
		return fmt.Errorf("%w: %v", apperr.ErrServer, err)
	}

	if err := s.Repo.AddTombstone(ctx, orderID); err != nil {
		l.Error("delete_order_failed", "status", 500, "error", err)
		s.fail(apperr.ErrServer)
		return fmt.Errorf("%w: %v", apperr.ErrServer, err)
	}

	if cur := s.CurrentOrder(); cur != nil && cur.ID == orderID {
		s.setCurrent(nil)
	}
	s.dropFromIndex(ctx, orderID)
	s.publish(ctx, orderID, map[string]any{"type": "order_deleted", "order_id": orderID})

	s.ok()
	l.Info("delete_order_successful")
	return nil
}

// SearchOrders filters by status, an inclusive createdAt range, and a
// case-insensitive substring over id, customer email, and handle. The
// Elasticsearch index answers when configured; any index failure falls back
// to the SQL store.
func (s *OrderService) SearchOrders(ctx context.Context, criteria transport.SearchOrdersCriteria) ([]models.Order, error) {
	if s.indexEnabled() {
		orders, err := s.Indexer.SearchOrders(ctx, criteria)
		if err == nil {
			return orders, nil
		}
		logging.FromContext(ctx).Warn("es search failed, falling back to sql", "error", err)
	}

	orders, err := s.Repo.SearchOrders(ctx, criteria)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrServer, err)
	}
	return orders, nil
}

// ClearDeletedOrderIDs drops the whole tombstone set, restoring every
// soft-deleted order at once. Restored rows are mirrored back into the
// search index, which only ever saw their deletion.
func (s *OrderService) ClearDeletedOrderIDs(ctx context.Context) error {
	l := logging.FromContext(ctx).With("svc", "order.clear_deleted")

	if err := s.Repo.ClearTombstones(ctx); err != nil {
		l.Error("clear_deleted_failed", "status", 500, "error", err)
		s.fail(apperr.ErrServer)
		return fmt.Errorf("%w: %v", apperr.ErrServer, err)
	}

	if err := s.SyncSearchIndex(ctx); err != nil {
		l.Warn("reindex_after_restore_failed", "error", err)
	}

	s.ok()
	l.Info("clear_deleted_successful")
	return nil
}

// SyncSearchIndex mirrors every live order into the search index. Rows that
// never pass through CreateOrder, the seeded fixture and restored orders,
// are only searchable after a sync, so this runs at startup and after a
// tombstone reset.
func (s *OrderService) SyncSearchIndex(ctx context.Context) error {
	if !s.indexEnabled() {
		return nil
	}

	orders, err := s.Repo.ListAllOrders(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrServer, err)
	}
	for i := range orders {
		s.Indexer.IndexOrder(ctx, &orders[i])
	}
	return nil
}

// ResetStore drops the in-memory view (current order, operation flags). The
// tombstone set is persistent state and survives a reset.
func (s *OrderService) ResetStore() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentOrder = nil
	s.lastErr = ""
	s.lastOpOK = true
}

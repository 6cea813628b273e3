package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/Scribax/followers-shop/internal/apperr"
	"github.com/Scribax/followers-shop/internal/models"
	"github.com/Scribax/followers-shop/internal/transport"
)

func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.DB.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// OrderByID looks up a single order. Tombstoned orders are reported as not
// found, same as in listings.
func (r *GormRepo) OrderByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.DB.WithContext(ctx).
		Where("id = ?", id).
		Where("id NOT IN (?)", r.tombstoneIDs(ctx)).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) SaveOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Save(order).Error
}

func (r *GormRepo) ListOrdersByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("user_id = ?", userID).
		Where("id NOT IN (?)", r.tombstoneIDs(ctx)).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// ListAllOrders returns every order not covered by a tombstone, newest first.
func (r *GormRepo) ListAllOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id NOT IN (?)", r.tombstoneIDs(ctx)).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) SearchOrders(ctx context.Context, criteria transport.SearchOrdersCriteria) ([]models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id NOT IN (?)", r.tombstoneIDs(ctx))

	if criteria.Status != "" {
		q = q.Where("status = ?", criteria.Status)
	}
	if criteria.StartDate != nil && criteria.EndDate != nil {
		q = q.Where("created_at BETWEEN ? AND ?", *criteria.StartDate, *criteria.EndDate)
	}
	if criteria.SearchTerm != "" {
		term := "%" + strings.ToLower(criteria.SearchTerm) + "%"
		q = q.Where(
			"LOWER(id) LIKE ? OR LOWER(customer_email) LIKE ? OR LOWER(ig_username) LIKE ?",
			term, term, term,
		)
	}

	var orders []models.Order
	if err := q.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// AddTombstone marks id deleted without touching the order row.
func (r *GormRepo) AddTombstone(ctx context.Context, id string) error {
	row := models.DeletedOrder{OrderID: id}
	tx := r.DB.WithContext(ctx).Where("order_id = ?", id).FirstOrCreate(&row)
	return tx.Error
}

// ClearTombstones drops the whole tombstone set at once. There is no
// per-order restore.
func (r *GormRepo) ClearTombstones(ctx context.Context) error {
	return r.DB.WithContext(ctx).
		Where("1 = 1").
		Delete(&models.DeletedOrder{}).Error
}

func (r *GormRepo) TombstonedIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.DB.WithContext(ctx).Model(&models.DeletedOrder{}).
		Pluck("order_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *GormRepo) tombstoneIDs(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).Model(&models.DeletedOrder{}).Select("order_id")
}

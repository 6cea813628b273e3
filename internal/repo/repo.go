package repo

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Scribax/followers-shop/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) Migrate(ctx context.Context) error {
	if err := r.DB.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.SessionToken{},
		&models.PasswordReset{},
		&models.Order{},
		&models.DeletedOrder{},
		&models.Profile{},
	); err != nil {
		return err
	}
	return r.seedSampleOrders(ctx)
}

// seedSampleOrders inserts the three demo orders the admin panel ships with.
// Rows are keyed by fixed ids, so reseeding is a no-op. Deleting one of them
// only tombstones it; the row stays and a tombstone reset brings it back.
func (r *GormRepo) seedSampleOrders(ctx context.Context) error {
	now := time.Now().UTC()
	fixture := []models.Order{
		{
			ID:            "order_001",
			PackageName:   "Paquete Básico",
			Status:        models.OrderStatusCompleted,
			Step:          3,
			Quantity:      500,
			Price:         decimal.RequireFromString("9.99"),
			CreatedAt:     now.Add(-3 * 24 * time.Hour),
			PaymentID:     "pay_001",
			CustomerEmail: "cliente1@example.com",
			IGUsername:    "usuario1",
		},
		{
			ID:            "order_002",
			PackageName:   "Paquete Premium",
			Status:        models.OrderStatusProcessing,
			Step:          1,
			Quantity:      1000,
			Price:         decimal.RequireFromString("19.99"),
			CreatedAt:     now.Add(-24 * time.Hour),
			PaymentID:     "pay_002",
			CustomerEmail: "cliente2@example.com",
			IGUsername:    "usuario2",
		},
		{
			ID:            "order_003",
			PackageName:   "Paquete Estándar",
			Status:        models.OrderStatusPending,
			Step:          0,
			Quantity:      750,
			Price:         decimal.RequireFromString("14.99"),
			CreatedAt:     now,
			PaymentID:     "pay_003",
			CustomerEmail: "cliente3@example.com",
			IGUsername:    "usuario3",
		},
	}

	for i := range fixture {
		tx := r.DB.WithContext(ctx).Where("id = ?", fixture[i].ID).FirstOrCreate(&fixture[i])
		if tx.Error != nil {
			return tx.Error
		}
	}
	return nil
}

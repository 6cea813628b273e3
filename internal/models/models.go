package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string    `gorm:"not null"                 json:"name"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type SessionToken struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"unique;not null" json:"token"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	Email     string `gorm:"not null"        json:"email"`
	JTI       string `gorm:"uniqueIndex"     json:"jti"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Revoked   bool   `gorm:"default:false"   json:"revoked"`
}

type PasswordReset struct {
	ID        uint   `gorm:"primaryKey"      json:"id"`
	Token     string `gorm:"uniqueIndex"     json:"-"`
	UserID    uint   `gorm:"index;not null"  json:"user_id"`
	ExpiresAt int64  `gorm:"not null"        json:"expires_at"`
	Used      bool   `gorm:"default:false"   json:"used"`
}

const (
	OrderStatusPending    = "Pending"
	OrderStatusProcessing = "Processing"
	OrderStatusCompleted  = "Completed"
	OrderStatusFailed     = "Failed"
)

// StepForStatus returns the progress ordinal paired with a status. Status and
// step are parallel encodings of the same lifecycle position.
func StepForStatus(status string) (int, bool) {
	switch status {
	case OrderStatusPending:
		return 0, true
	case OrderStatusProcessing:
		return 1, true
	case OrderStatusCompleted:
		return 3, true
	default:
		return 0, false
	}
}

type Order struct {
	ID            string          `gorm:"primaryKey"                json:"id"`
	UserID        uint            `gorm:"index"                     json:"user_id"`
	CustomerEmail string          `gorm:"index"                     json:"customerEmail"`
	IGUsername    string          `json:"igUsername"`
	PackageName   string          `gorm:"not null"                  json:"packageName"`
	Quantity      uint            `gorm:"check:quantity>0"          json:"quantity"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2)"        json:"price"`
	Status        string          `gorm:"not null"                  json:"status"`
	Step          int             `gorm:"check:step>=0 AND step<=3" json:"step"`
	PaymentID     string          `json:"paymentId,omitempty"`
	CreatedAt     time.Time       `gorm:"index"                     json:"createdAt"`
}

// DeletedOrder is a tombstone row. Deleting an order records its id here and
// leaves the order row itself untouched, so clearing the tombstones restores
// the order in admin listings.
type DeletedOrder struct {
	OrderID   string    `gorm:"primaryKey" json:"order_id"`
	DeletedAt time.Time `json:"deleted_at"`
}

type Profile struct {
	ID             uint      `gorm:"primaryKey"           json:"id"`
	UserID         uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	IGUsername     string    `json:"ig_username"`
	JoinDate       time.Time `json:"join_date"`
	TotalOrders    int       `json:"total_orders"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

// ProfileComplete is derived, not stored.
func (p Profile) ProfileComplete() bool { return p.IGUsername != "" }

package db_models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusCompleted  PaymentStatus = "completed"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusCancelled  PaymentStatus = "cancelled"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusProcessing, PaymentStatusCompleted,
		PaymentStatusFailed, PaymentStatusCancelled, PaymentStatusRefunded:
		return true
	}
	return false
}

// Terminal reports whether no automatic transition leaves s.
func (s PaymentStatus) Terminal() bool {
	switch s {
	case PaymentStatusCompleted, PaymentStatusFailed, PaymentStatusRefunded, PaymentStatusCancelled:
		return true
	}
	return false
}

type Payment struct {
	BaseModel
	PaymentID     string          `gorm:"size:32;uniqueIndex;not null"`
	OrderID       int64           `gorm:"index"`
	UserID        string          `gorm:"size:64;index"`
	Amount        decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Currency      string          `gorm:"size:3;default:USD"`
	PaymentMethod string          `gorm:"size:32"`
	Status        PaymentStatus   `gorm:"size:20;index"`

	GatewayTransactionID *string        `gorm:"size:64;index"`
	GatewayResponse      datatypes.JSON `gorm:"type:jsonb"`

	ProcessedAt *time.Time
}

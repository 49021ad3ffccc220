package db_models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Refund struct {
	BaseModel
	RefundID  string          `gorm:"size:32;uniqueIndex;not null"`
	PaymentID string          `gorm:"size:32;index"`
	Amount    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Reason    string
	Status    PaymentStatus `gorm:"size:20;index"`

	GatewayRefundID *string `gorm:"size:64"`
	GatewayResponse datatypes.JSON `gorm:"type:jsonb"`

	ProcessedAt *time.Time
}

package response_models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"payflow/internal/models/db_models"
)

type RefundResponse struct {
	ID              uuid.UUID               `json:"id"`
	RefundID        string                  `json:"refund_id"`
	PaymentID       string                  `json:"payment_id"`
	Amount          decimal.Decimal         `json:"amount"`
	Reason          string                  `json:"reason"`
	Status          db_models.PaymentStatus `json:"status"`
	GatewayRefundID *string                 `json:"gateway_refund_id"`
	CreatedAt       time.Time               `json:"created_at"`
	ProcessedAt     *time.Time              `json:"processed_at"`
}

func NewRefundResponse(r *db_models.Refund) RefundResponse {
	return RefundResponse{
		ID:              r.ID,
		RefundID:        r.RefundID,
		PaymentID:       r.PaymentID,
		Amount:          r.Amount,
		Reason:          r.Reason,
		Status:          r.Status,
		GatewayRefundID: r.GatewayRefundID,
		CreatedAt:       r.CreatedAt,
		ProcessedAt:     r.ProcessedAt,
	}
}

func NewRefundListResponse(refunds []db_models.Refund) []RefundResponse {
	out := make([]RefundResponse, 0, len(refunds))
	for i := range refunds {
		out = append(out, NewRefundResponse(&refunds[i]))
	}
	return out
}

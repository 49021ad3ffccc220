package response_models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"payflow/internal/models/db_models"
)

type PaymentResponse struct {
	ID                   uuid.UUID               `json:"id"`
	PaymentID            string                  `json:"payment_id"`
	OrderID              int64                   `json:"order_id"`
	UserID               string                  `json:"user_id"`
	Amount               decimal.Decimal         `json:"amount"`
	Currency             string                  `json:"currency"`
	PaymentMethod        string                  `json:"payment_method"`
	Status               db_models.PaymentStatus `json:"status"`
	GatewayTransactionID *string                 `json:"gateway_transaction_id"`
	CreatedAt            time.Time               `json:"created_at"`
	UpdatedAt            time.Time               `json:"updated_at"`
	ProcessedAt          *time.Time              `json:"processed_at"`
}

func NewPaymentResponse(p *db_models.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                   p.ID,
		PaymentID:            p.PaymentID,
		OrderID:              p.OrderID,
		UserID:               p.UserID,
		Amount:               p.Amount,
		Currency:             p.Currency,
		PaymentMethod:        p.PaymentMethod,
		Status:               p.Status,
		GatewayTransactionID: p.GatewayTransactionID,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
		ProcessedAt:          p.ProcessedAt,
	}
}

func NewPaymentListResponse(payments []db_models.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(payments))
	for i := range payments {
		out = append(out, NewPaymentResponse(&payments[i]))
	}
	return out
}

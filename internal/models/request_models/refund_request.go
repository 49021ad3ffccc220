package request_models

import "github.com/shopspring/decimal"

type CreateRefundRequest struct {
	PaymentID string `json:"payment_id" binding:"required"`
	// Amount is optional; nil or zero refunds the full payment.
	Amount *decimal.Decimal `json:"amount"`
	Reason string           `json:"reason" binding:"required"`
}

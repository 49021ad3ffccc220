package request_models

import "github.com/shopspring/decimal"

type CreatePaymentRequest struct {
	OrderID        int64           `json:"order_id" binding:"required"`
	UserID         string          `json:"user_id" binding:"required"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	PaymentMethod  string          `json:"payment_method" binding:"required,oneof=credit_card debit_card paypal stripe bank_transfer"`
	PaymentDetails map[string]any  `json:"payment_details"`
}

type ListPaymentsQuery struct {
	UserID  string `form:"user_id"`
	OrderID *int64 `form:"order_id"`
	Status  string `form:"status"`
	Skip    int    `form:"skip,default=0"`
	Limit   int    `form:"limit,default=10"`
}

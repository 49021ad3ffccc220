package utils

import "errors"

var (
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrRefundNotFound        = errors.New("refund not found")
	ErrPaymentMethodNotFound = errors.New("payment method not found")
	ErrPaymentMethodInactive = errors.New("payment method is not active")
	ErrInvalidState          = errors.New("payment not completed")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrInvalidStatus         = errors.New("invalid status filter")
	ErrInvalidPage           = errors.New("invalid skip parameter")
	ErrInvalidPageSize       = errors.New("invalid limit parameter")
	ErrUpstreamUnavailable   = errors.New("upstream service unavailable")
	ErrDatabaseError         = errors.New("database error")
)

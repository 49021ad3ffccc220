package utils

import (
	"strings"

	"github.com/google/uuid"
)

func hexID(n int) string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:n]
}

func NewPaymentID() string { return "PAY-" + strings.ToUpper(hexID(8)) }

func NewRefundID() string { return "REF-" + strings.ToUpper(hexID(8)) }

func NewTransactionID() string { return "txn_" + hexID(12) }

func NewGatewayRefundID() string { return "rfnd_" + hexID(12) }

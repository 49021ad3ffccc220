package gateway

import (
	"context"

	"github.com/shopspring/decimal"
	"payflow/pkg/utils"
)

const (
	CodeSuccess  = "SUCCESS"
	CodeDeclined = "DECLINED"

	DefaultDeclineThreshold = 10000
)

type ChargeRequest struct {
	Amount        decimal.Decimal
	Currency      string
	PaymentMethod string
	Details       map[string]any
}

type RefundRequest struct {
	PaymentID string
	Amount    decimal.Decimal
	Reason    string
}

// Result is the gateway's verdict. Response is stored verbatim on the record.
type Result struct {
	Success       bool
	TransactionID string
	Error         string
	Response      map[string]any
}

type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (Result, error)
	Refund(ctx context.Context, req RefundRequest) (Result, error)
}

// Simulator declines any charge above its threshold and approves everything
// else. Refunds always succeed. No other input affects the outcome.
type Simulator struct {
	threshold decimal.Decimal
}

func NewSimulator(threshold float64) *Simulator {
	if threshold <= 0 {
		threshold = DefaultDeclineThreshold
	}
	return &Simulator{threshold: decimal.NewFromFloat(threshold)}
}

func (s *Simulator) Charge(ctx context.Context, req ChargeRequest) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if req.Amount.GreaterThan(s.threshold) {
		return Result{
			Success: false,
			Error:   "Payment declined - amount too high",
			Response: map[string]any{
				"code":    CodeDeclined,
				"message": "Amount exceeds limit",
			},
		}, nil
	}

	txnID := utils.NewTransactionID()
	return Result{
		Success:       true,
		TransactionID: txnID,
		Response: map[string]any{
			"code":           CodeSuccess,
			"message":        "Payment processed successfully",
			"transaction_id": txnID,
		},
	}, nil
}

func (s *Simulator) Refund(ctx context.Context, req RefundRequest) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	refundID := utils.NewGatewayRefundID()
	return Result{
		Success:       true,
		TransactionID: refundID,
		Response: map[string]any{
			"code":      CodeSuccess,
			"message":   "Refund processed successfully",
			"refund_id": refundID,
		},
	}, nil
}

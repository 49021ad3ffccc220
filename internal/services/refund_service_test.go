package services

import (
	"context"
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	dbm "payflow/internal/models/db_models"
	"payflow/internal/models/request_models"
	"payflow/pkg/utils"
)

var (
	refundIDPattern        = regexp.MustCompile(`^REF-[0-9A-F]{8}$`)
	gatewayRefundIDPattern = regexp.MustCompile(`^rfnd_[0-9a-f]{12}$`)
)

func amountPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCreateRefund_Rejections(t *testing.T) {
	f := newFixture(t, nil)
	completed := f.settledPayment(t, "100")
	declined := f.settledPayment(t, "20000")
	inFlight := f.createPayment(t, "10")

	tests := []struct {
		name    string
		req     request_models.CreateRefundRequest
		wantErr error
	}{
		{name: "unknown payment", req: request_models.CreateRefundRequest{PaymentID: "PAY-00000000", Reason: "x"}, wantErr: utils.ErrPaymentNotFound},
		{name: "failed payment", req: request_models.CreateRefundRequest{PaymentID: declined.PaymentID, Reason: "x"}, wantErr: utils.ErrInvalidState},
		{name: "processing payment", req: request_models.CreateRefundRequest{PaymentID: inFlight.PaymentID, Reason: "x"}, wantErr: utils.ErrInvalidState},
		{name: "more than paid", req: request_models.CreateRefundRequest{PaymentID: completed.PaymentID, Amount: amountPtr("100.01"), Reason: "x"}, wantErr: utils.ErrInvalidAmount},
		{name: "negative", req: request_models.CreateRefundRequest{PaymentID: completed.PaymentID, Amount: amountPtr("-1"), Reason: "x"}, wantErr: utils.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.refundSvc.CreateRefund(context.Background(), tt.req)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	for _, p := range []*dbm.Payment{completed, declined, inFlight} {
		refunds, err := f.refunds.ListByPaymentID(context.Background(), p.PaymentID)
		require.NoError(t, err)
		require.Empty(t, refunds)
		require.Equal(t, p.Status, f.reload(t, p.PaymentID).Status)
	}
}

func TestRefund_FullRefundMarksPaymentRefunded(t *testing.T) {
	f := newFixture(t, nil)
	p := f.settledPayment(t, "75.25")
	ctx := context.Background()

	refund, err := f.refundSvc.CreateRefund(ctx, request_models.CreateRefundRequest{PaymentID: p.PaymentID, Reason: "customer request"})
	require.NoError(t, err)
	require.Regexp(t, refundIDPattern, refund.RefundID)
	require.Equal(t, dbm.PaymentStatusProcessing, refund.Status)
	require.True(t, refund.Amount.Equal(p.Amount))
	require.Len(t, f.tasksOfKind(t, refund.RefundID, dbm.TaskProcessRefund), 1)

	require.NoError(t, f.refundSvc.ProcessRefund(ctx, refund.RefundID))

	stored, err := f.refundSvc.GetRefund(ctx, refund.RefundID)
	require.NoError(t, err)
	require.Equal(t, dbm.PaymentStatusCompleted, stored.Status)
	require.NotNil(t, stored.GatewayRefundID)
	require.Regexp(t, gatewayRefundIDPattern, *stored.GatewayRefundID)
	require.NotNil(t, stored.ProcessedAt)

	require.Equal(t, dbm.PaymentStatusRefunded, f.reload(t, p.PaymentID).Status)
}

func TestRefund_PartialRefundKeepsPaymentCompleted(t *testing.T) {
	f := newFixture(t, nil)
	p := f.settledPayment(t, "100")
	ctx := context.Background()

	refund, err := f.refundSvc.CreateRefund(ctx, request_models.CreateRefundRequest{
		PaymentID: p.PaymentID,
		Amount:    amountPtr("40"),
		Reason:    "damaged item",
	})
	require.NoError(t, err)
	require.NoError(t, f.refundSvc.ProcessRefund(ctx, refund.RefundID))

	require.Equal(t, dbm.PaymentStatusCompleted, f.reload(t, p.PaymentID).Status)

	refunds, err := f.refundSvc.ListRefunds(ctx, p.PaymentID)
	require.NoError(t, err)
	require.Len(t, refunds, 1)
	require.Equal(t, dbm.PaymentStatusCompleted, refunds[0].Status)
}

func TestRefund_ZeroAmountMeansFull(t *testing.T) {
	f := newFixture(t, nil)
	p := f.settledPayment(t, "12.34")

	refund, err := f.refundSvc.CreateRefund(context.Background(), request_models.CreateRefundRequest{
		PaymentID: p.PaymentID,
		Amount:    amountPtr("0"),
		Reason:    "duplicate",
	})
	require.NoError(t, err)
	require.True(t, refund.Amount.Equal(decimal.RequireFromString("12.34")))
}

func TestProcessRefund_ReplayIsNoop(t *testing.T) {
	f := newFixture(t, nil)
	p := f.settledPayment(t, "10")
	ctx := context.Background()

	refund, err := f.refundSvc.CreateRefund(ctx, request_models.CreateRefundRequest{PaymentID: p.PaymentID, Reason: "r"})
	require.NoError(t, err)
	require.NoError(t, f.refundSvc.ProcessRefund(ctx, refund.RefundID))
	first, err := f.refundSvc.GetRefund(ctx, refund.RefundID)
	require.NoError(t, err)

	require.NoError(t, f.refundSvc.ProcessRefund(ctx, refund.RefundID))
	second, err := f.refundSvc.GetRefund(ctx, refund.RefundID)
	require.NoError(t, err)
	require.Equal(t, *first.GatewayRefundID, *second.GatewayRefundID)
}

func TestRefundLookups_NotFound(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.refundSvc.GetRefund(context.Background(), "REF-00000000")
	require.ErrorIs(t, err, utils.ErrRefundNotFound)

	_, err = f.refundSvc.ListRefunds(context.Background(), "PAY-00000000")
	require.ErrorIs(t, err, utils.ErrPaymentNotFound)
}

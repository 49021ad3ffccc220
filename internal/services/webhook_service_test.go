package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	dbm "payflow/internal/models/db_models"
	"payflow/internal/models/request_models"
)

func webhook(eventType, txnID string) request_models.WebhookPayload {
	return request_models.WebhookPayload{
		EventType: eventType,
		Data:      map[string]any{"transaction_id": txnID},
	}
}

func TestWebhook_CompletedIsIdempotent(t *testing.T) {
	f := newFixture(t, nil)
	p := f.settledPayment(t, "30")
	ctx := context.Background()
	processedAt := *p.ProcessedAt

	for i := 0; i < 2; i++ {
		outcome, err := f.webhookSvc.HandleEvent(ctx, webhook(EventPaymentCompleted, *p.GatewayTransactionID))
		require.NoError(t, err)
		require.Equal(t, dbm.WebhookApplied, outcome)
	}

	stored := f.reload(t, p.PaymentID)
	require.Equal(t, dbm.PaymentStatusCompleted, stored.Status)
	require.WithinDuration(t, processedAt, *stored.ProcessedAt, time.Millisecond)
	// The charge already notified; a no-op status change adds nothing.
	require.Len(t, f.tasksOfKind(t, p.PaymentID, dbm.TaskNotifyOrder), 1)

	events, err := f.events.ListByTransactionID(ctx, *p.GatewayTransactionID)
	require.NoError(t, err)
	require.Len(t, events, 2)
}

func TestWebhook_FailedOverridesCompleted(t *testing.T) {
	f := newFixture(t, nil)
	p := f.settledPayment(t, "30")

	outcome, err := f.webhookSvc.HandleEvent(context.Background(), webhook(EventPaymentFailed, *p.GatewayTransactionID))
	require.NoError(t, err)
	require.Equal(t, dbm.WebhookApplied, outcome)

	require.Equal(t, dbm.PaymentStatusFailed, f.reload(t, p.PaymentID).Status)
	require.Len(t, f.tasksOfKind(t, p.PaymentID, dbm.TaskNotifyOrder), 2)
}

func TestWebhook_NeverLeavesRefunded(t *testing.T) {
	f := newFixture(t, nil)
	p := f.settledPayment(t, "30")
	ok, err := f.payments.Transition(context.Background(), p.ID,
		[]dbm.PaymentStatus{dbm.PaymentStatusCompleted},
		map[string]any{"status": dbm.PaymentStatusRefunded})
	require.NoError(t, err)
	require.True(t, ok)

	outcome, err := f.webhookSvc.HandleEvent(context.Background(), webhook(EventPaymentFailed, *p.GatewayTransactionID))
	require.NoError(t, err)
	require.Equal(t, dbm.WebhookIgnored, outcome)
	require.Equal(t, dbm.PaymentStatusRefunded, f.reload(t, p.PaymentID).Status)
}

func TestWebhook_UnmatchedAndUnknownEvents(t *testing.T) {
	f := newFixture(t, nil)
	p := f.settledPayment(t, "30")
	ctx := context.Background()

	tests := []struct {
		name    string
		payload request_models.WebhookPayload
		want    dbm.WebhookOutcome
	}{
		{name: "unknown transaction", payload: webhook(EventPaymentCompleted, "txn_000000000000"), want: dbm.WebhookUnmatched},
		{name: "unknown event type", payload: webhook("payment.disputed", *p.GatewayTransactionID), want: dbm.WebhookIgnored},
		{name: "missing data", payload: request_models.WebhookPayload{EventType: EventPaymentFailed}, want: dbm.WebhookIgnored},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome, err := f.webhookSvc.HandleEvent(ctx, tt.payload)
			require.NoError(t, err)
			require.Equal(t, tt.want, outcome)
		})
	}

	require.Equal(t, dbm.PaymentStatusCompleted, f.reload(t, p.PaymentID).Status)
}

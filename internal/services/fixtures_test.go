package services

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"payflow/internal/gateway"
	dbm "payflow/internal/models/db_models"
	"payflow/internal/models/request_models"
	"payflow/internal/repositories"
	"payflow/internal/testutil"
)

type kickCounter struct {
	mu sync.Mutex
	n  int
}

func (k *kickCounter) Kick() {
	k.mu.Lock()
	k.n++
	k.mu.Unlock()
}

func (k *kickCounter) count() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.n
}

type gatewayMock struct{ mock.Mock }

func (m *gatewayMock) Charge(ctx context.Context, req gateway.ChargeRequest) (gateway.Result, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(gateway.Result), args.Error(1)
}

func (m *gatewayMock) Refund(ctx context.Context, req gateway.RefundRequest) (gateway.Result, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(gateway.Result), args.Error(1)
}

type notifierMock struct{ mock.Mock }

func (m *notifierMock) NotifyPaymentOutcome(ctx context.Context, orderID int64, outcome string) error {
	args := m.Called(ctx, orderID, outcome)
	return args.Error(0)
}

// fixture wires every service against one sqlite database.
type fixture struct {
	db        *gorm.DB
	payments  repositories.PaymentRepository
	refunds   repositories.RefundRepository
	tasks     repositories.TaskRepository
	events    repositories.WebhookEventRepository
	methods   repositories.PaymentMethodRepository
	scheduler *kickCounter

	paymentSvc PaymentService
	refundSvc  RefundService
	webhookSvc WebhookService
	methodSvc  PaymentMethodService
}

func newFixture(t *testing.T, gw gateway.Gateway) *fixture {
	t.Helper()
	if gw == nil {
		gw = gateway.NewSimulator(gateway.DefaultDeclineThreshold)
	}

	db := testutil.NewDB(t)
	log := zap.NewNop()
	f := &fixture{
		db:        db,
		payments:  repositories.NewPaymentRepository(db),
		refunds:   repositories.NewRefundRepository(db),
		tasks:     repositories.NewTaskRepository(db),
		events:    repositories.NewWebhookEventRepository(db),
		methods:   repositories.NewPaymentMethodRepository(db),
		scheduler: &kickCounter{},
	}
	f.paymentSvc = NewPaymentService(db, f.payments, f.tasks, gw, f.scheduler, log)
	f.refundSvc = NewRefundService(db, f.payments, f.refunds, f.tasks, gw, f.scheduler, log)
	f.webhookSvc = NewWebhookService(db, f.payments, f.tasks, f.events, f.scheduler, log)
	f.methodSvc = NewPaymentMethodService(db, f.methods, "test-key", log)
	return f
}

func (f *fixture) createPayment(t *testing.T, amount string) *dbm.Payment {
	t.Helper()
	p, err := f.paymentSvc.CreatePayment(context.Background(), request_models.CreatePaymentRequest{
		OrderID:       42,
		UserID:        "user-1",
		Amount:        decimal.RequireFromString(amount),
		Currency:      "usd",
		PaymentMethod: "credit_card",
	})
	require.NoError(t, err)
	return p
}

// settledPayment creates a payment and runs the charge synchronously.
func (f *fixture) settledPayment(t *testing.T, amount string) *dbm.Payment {
	t.Helper()
	p := f.createPayment(t, amount)
	require.NoError(t, f.paymentSvc.ProcessPayment(context.Background(), p.PaymentID, nil))
	return f.reload(t, p.PaymentID)
}

func (f *fixture) reload(t *testing.T, paymentID string) *dbm.Payment {
	t.Helper()
	p, err := f.payments.FindByPaymentID(context.Background(), paymentID)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func (f *fixture) tasksOfKind(t *testing.T, aggregateID string, kind dbm.TaskKind) []dbm.Task {
	t.Helper()
	all, err := f.tasks.ListByAggregate(context.Background(), aggregateID)
	require.NoError(t, err)
	var out []dbm.Task
	for _, task := range all {
		if task.Kind == kind {
			out = append(out, task)
		}
	}
	return out
}

package controllers

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"payflow/internal/models/db_models"
	"payflow/internal/models/request_models"
	"payflow/internal/repositories"
)

type paymentServiceMock struct{ mock.Mock }

func (m *paymentServiceMock) CreatePayment(ctx context.Context, req request_models.CreatePaymentRequest) (*db_models.Payment, error) {
	args := m.Called(ctx, req)
	p, _ := args.Get(0).(*db_models.Payment)
	return p, args.Error(1)
}

func (m *paymentServiceMock) GetPayment(ctx context.Context, paymentID string) (*db_models.Payment, error) {
	args := m.Called(ctx, paymentID)
	p, _ := args.Get(0).(*db_models.Payment)
	return p, args.Error(1)
}

func (m *paymentServiceMock) ListPayments(ctx context.Context, filter repositories.PaymentFilter) ([]db_models.Payment, error) {
	args := m.Called(ctx, filter)
	p, _ := args.Get(0).([]db_models.Payment)
	return p, args.Error(1)
}

func (m *paymentServiceMock) ProcessPayment(ctx context.Context, paymentID string, details map[string]any) error {
	return m.Called(ctx, paymentID, details).Error(0)
}

func (m *paymentServiceMock) HandleProcessPaymentTask(ctx context.Context, task *db_models.Task) error {
	return m.Called(ctx, task).Error(0)
}

type refundServiceMock struct{ mock.Mock }

func (m *refundServiceMock) CreateRefund(ctx context.Context, req request_models.CreateRefundRequest) (*db_models.Refund, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*db_models.Refund)
	return r, args.Error(1)
}

func (m *refundServiceMock) GetRefund(ctx context.Context, refundID string) (*db_models.Refund, error) {
	args := m.Called(ctx, refundID)
	r, _ := args.Get(0).(*db_models.Refund)
	return r, args.Error(1)
}

func (m *refundServiceMock) ListRefunds(ctx context.Context, paymentID string) ([]db_models.Refund, error) {
	args := m.Called(ctx, paymentID)
	r, _ := args.Get(0).([]db_models.Refund)
	return r, args.Error(1)
}

func (m *refundServiceMock) ProcessRefund(ctx context.Context, refundID string) error {
	return m.Called(ctx, refundID).Error(0)
}

func (m *refundServiceMock) HandleProcessRefundTask(ctx context.Context, task *db_models.Task) error {
	return m.Called(ctx, task).Error(0)
}

type methodServiceMock struct{ mock.Mock }

func (m *methodServiceMock) Register(ctx context.Context, req request_models.CreatePaymentMethodRequest) (*db_models.PaymentMethod, error) {
	args := m.Called(ctx, req)
	pm, _ := args.Get(0).(*db_models.PaymentMethod)
	return pm, args.Error(1)
}

func (m *methodServiceMock) ListForUser(ctx context.Context, userID string) ([]db_models.PaymentMethod, error) {
	args := m.Called(ctx, userID)
	pm, _ := args.Get(0).([]db_models.PaymentMethod)
	return pm, args.Error(1)
}

func (m *methodServiceMock) Get(ctx context.Context, id uuid.UUID) (*db_models.PaymentMethod, error) {
	args := m.Called(ctx, id)
	pm, _ := args.Get(0).(*db_models.PaymentMethod)
	return pm, args.Error(1)
}

func (m *methodServiceMock) Deactivate(ctx context.Context, id uuid.UUID) (*db_models.PaymentMethod, error) {
	args := m.Called(ctx, id)
	pm, _ := args.Get(0).(*db_models.PaymentMethod)
	return pm, args.Error(1)
}

func (m *methodServiceMock) SetDefault(ctx context.Context, id uuid.UUID) (*db_models.PaymentMethod, error) {
	args := m.Called(ctx, id)
	pm, _ := args.Get(0).(*db_models.PaymentMethod)
	return pm, args.Error(1)
}

type webhookServiceMock struct{ mock.Mock }

func (m *webhookServiceMock) HandleEvent(ctx context.Context, payload request_models.WebhookPayload) (db_models.WebhookOutcome, error) {
	args := m.Called(ctx, payload)
	return args.Get(0).(db_models.WebhookOutcome), args.Error(1)
}

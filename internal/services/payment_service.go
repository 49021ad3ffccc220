package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"payflow/internal/gateway"
	"payflow/internal/infra"
	dbm "payflow/internal/models/db_models"
	"payflow/internal/models/request_models"
	"payflow/internal/repositories"
	"payflow/pkg/utils"
)

const (
	defaultCurrency = "USD"
	defaultLimit    = 10
	maxLimit        = 100

	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
)

type PaymentService interface {
	CreatePayment(ctx context.Context, req request_models.CreatePaymentRequest) (*dbm.Payment, error)
	GetPayment(ctx context.Context, paymentID string) (*dbm.Payment, error)
	ListPayments(ctx context.Context, filter repositories.PaymentFilter) ([]dbm.Payment, error)
	// ProcessPayment runs the gateway charge for a PROCESSING payment. Missing
	// or already settled payments are left alone.
	ProcessPayment(ctx context.Context, paymentID string, details map[string]any) error
	HandleProcessPaymentTask(ctx context.Context, task *dbm.Task) error
}

type paymentService struct {
	db        *gorm.DB
	payments  repositories.PaymentRepository
	tasks     repositories.TaskRepository
	gateway   gateway.Gateway
	scheduler TaskScheduler
	log       *zap.Logger
}

func NewPaymentService(
	db *gorm.DB,
	payments repositories.PaymentRepository,
	tasks repositories.TaskRepository,
	gw gateway.Gateway,
	scheduler TaskScheduler,
	log *zap.Logger,
) PaymentService {
	return &paymentService{
		db:        db,
		payments:  payments,
		tasks:     tasks,
		gateway:   gw,
		scheduler: scheduler,
		log:       log.With(zap.String("component", "payment")),
	}
}

func (p *paymentService) CreatePayment(ctx context.Context, req request_models.CreatePaymentRequest) (*dbm.Payment, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than zero", utils.ErrInvalidAmount)
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	// PENDING is never observable: the record is created already in flight.
	payment := &dbm.Payment{
		PaymentID:     utils.NewPaymentID(),
		OrderID:       req.OrderID,
		UserID:        req.UserID,
		Amount:        req.Amount,
		Currency:      currency,
		PaymentMethod: req.PaymentMethod,
		Status:        dbm.PaymentStatusProcessing,
	}

	task, err := newTask(dbm.TaskProcessPayment, payment.PaymentID, processPaymentPayload{
		PaymentID: payment.PaymentID,
		Details:   req.PaymentDetails,
	})
	if err != nil {
		return nil, err
	}

	err = infra.WithTransaction(p.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := p.payments.WithTx(tx).Create(ctx, payment); err != nil {
			return err
		}
		return p.tasks.WithTx(tx).Enqueue(ctx, task)
	})
	if err != nil {
		p.log.Error("create payment", zap.Int64("order_id", req.OrderID), zap.String("user_id", req.UserID), zap.Error(err))
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}

	p.scheduler.Kick()
	p.log.Info("payment created",
		zap.String("payment_id", payment.PaymentID),
		zap.Int64("order_id", payment.OrderID),
		zap.String("amount", payment.Amount.String()))
	return payment, nil
}

func (p *paymentService) GetPayment(ctx context.Context, paymentID string) (*dbm.Payment, error) {
	payment, err := p.payments.FindByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}
	if payment == nil {
		return nil, utils.ErrPaymentNotFound
	}
	return payment, nil
}

func (p *paymentService) ListPayments(ctx context.Context, filter repositories.PaymentFilter) ([]dbm.Payment, error) {
	if filter.Skip < 0 {
		return nil, utils.ErrInvalidPage
	}
	if filter.Limit == 0 {
		filter.Limit = defaultLimit
	}
	if filter.Limit < 1 || filter.Limit > maxLimit {
		return nil, utils.ErrInvalidPageSize
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, utils.ErrInvalidStatus
	}

	payments, err := p.payments.List(ctx, filter)
	if err != nil {
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}
	return payments, nil
}

func (p *paymentService) HandleProcessPaymentTask(ctx context.Context, task *dbm.Task) error {
	var payload processPaymentPayload
	if err := decodePayload(task, &payload); err != nil {
		return err
	}
	return p.ProcessPayment(ctx, payload.PaymentID, payload.Details)
}

func (p *paymentService) ProcessPayment(ctx context.Context, paymentID string, details map[string]any) error {
	log := p.log.With(zap.String("payment_id", paymentID))

	payment, err := p.payments.FindByPaymentID(ctx, paymentID)
	if err != nil {
		return fmt.Errorf("load payment: %w", err)
	}
	if payment == nil {
		log.Warn("payment vanished before processing")
		return nil
	}
	if payment.Status != dbm.PaymentStatusProcessing {
		log.Info("payment already settled, skipping", zap.String("status", string(payment.Status)))
		return nil
	}

	result, err := p.gateway.Charge(ctx, gateway.ChargeRequest{
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		PaymentMethod: payment.PaymentMethod,
		Details:       details,
	})
	if err != nil {
		return fmt.Errorf("gateway charge: %w", err)
	}

	now := time.Now()
	updates := map[string]any{
		"gateway_response": datatypes.JSON(jsonRaw(result.Response)),
		"processed_at":     now,
	}
	outcome := OutcomeFailed
	if result.Success {
		outcome = OutcomeCompleted
		updates["status"] = dbm.PaymentStatusCompleted
		updates["gateway_transaction_id"] = result.TransactionID
	} else {
		updates["status"] = dbm.PaymentStatusFailed
	}

	notify, err := newTask(dbm.TaskNotifyOrder, payment.PaymentID, notifyOrderPayload{
		PaymentID: payment.PaymentID,
		OrderID:   payment.OrderID,
		Outcome:   outcome,
	})
	if err != nil {
		return err
	}

	var applied bool
	err = infra.WithTransaction(p.db.WithContext(ctx), func(tx *gorm.DB) error {
		ok, err := p.payments.WithTx(tx).Transition(ctx, payment.ID,
			[]dbm.PaymentStatus{dbm.PaymentStatusProcessing}, updates)
		if err != nil || !ok {
			return err
		}
		applied = true
		return p.tasks.WithTx(tx).Enqueue(ctx, notify)
	})
	if err != nil {
		return fmt.Errorf("persist payment outcome: %w", err)
	}
	if !applied {
		log.Info("payment changed while charging, outcome discarded")
		return nil
	}

	p.scheduler.Kick()
	if result.Success {
		log.Info("payment completed", zap.String("transaction_id", result.TransactionID))
	} else {
		log.Info("payment failed", zap.String("reason", result.Error))
	}
	return nil
}

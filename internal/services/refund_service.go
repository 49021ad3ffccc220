package services

import (
	"context"
	"errors"
	"fmt"
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

type RefundService interface {
	CreateRefund(ctx context.Context, req request_models.CreateRefundRequest) (*dbm.Refund, error)
	GetRefund(ctx context.Context, refundID string) (*dbm.Refund, error)
	ListRefunds(ctx context.Context, paymentID string) ([]dbm.Refund, error)
	ProcessRefund(ctx context.Context, refundID string) error
	HandleProcessRefundTask(ctx context.Context, task *dbm.Task) error
}

type refundService struct {
	db        *gorm.DB
	payments  repositories.PaymentRepository
	refunds   repositories.RefundRepository
	tasks     repositories.TaskRepository
	gateway   gateway.Gateway
	scheduler TaskScheduler
	log       *zap.Logger
}

func NewRefundService(
	db *gorm.DB,
	payments repositories.PaymentRepository,
	refunds repositories.RefundRepository,
	tasks repositories.TaskRepository,
	gw gateway.Gateway,
	scheduler TaskScheduler,
	log *zap.Logger,
) RefundService {
	return &refundService{
		db:        db,
		payments:  payments,
		refunds:   refunds,
		tasks:     tasks,
		gateway:   gw,
		scheduler: scheduler,
		log:       log.With(zap.String("component", "refund")),
	}
}

func (s *refundService) CreateRefund(ctx context.Context, req request_models.CreateRefundRequest) (*dbm.Refund, error) {
	payment, err := s.payments.FindByPaymentID(ctx, req.PaymentID)
	if err != nil {
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}
	if payment == nil {
		return nil, utils.ErrPaymentNotFound
	}
	if payment.Status != dbm.PaymentStatusCompleted {
		return nil, fmt.Errorf("%w: payment %s is %s", utils.ErrInvalidState, payment.PaymentID, payment.Status)
	}

	amount := payment.Amount
	if req.Amount != nil && !req.Amount.IsZero() {
		amount = *req.Amount
	}
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: refund amount must be positive", utils.ErrInvalidAmount)
	}
	if amount.GreaterThan(payment.Amount) {
		return nil, fmt.Errorf("%w: refund amount exceeds payment amount", utils.ErrInvalidAmount)
	}

	refund := &dbm.Refund{
		RefundID:  utils.NewRefundID(),
		PaymentID: payment.PaymentID,
		Amount:    amount,
		Reason:    req.Reason,
		Status:    dbm.PaymentStatusProcessing,
	}

	task, err := newTask(dbm.TaskProcessRefund, refund.RefundID, processRefundPayload{RefundID: refund.RefundID})
	if err != nil {
		return nil, err
	}

	err = infra.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := s.refunds.WithTx(tx).Create(ctx, refund); err != nil {
			return err
		}
		return s.tasks.WithTx(tx).Enqueue(ctx, task)
	})
	if err != nil {
		s.log.Error("create refund", zap.String("payment_id", payment.PaymentID), zap.Error(err))
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}

	s.scheduler.Kick()
	s.log.Info("refund created",
		zap.String("refund_id", refund.RefundID),
		zap.String("payment_id", refund.PaymentID),
		zap.String("amount", refund.Amount.String()))
	return refund, nil
}

func (s *refundService) GetRefund(ctx context.Context, refundID string) (*dbm.Refund, error) {
	refund, err := s.refunds.FindByRefundID(ctx, refundID)
	if err != nil {
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}
	if refund == nil {
		return nil, utils.ErrRefundNotFound
	}
	return refund, nil
}

func (s *refundService) ListRefunds(ctx context.Context, paymentID string) ([]dbm.Refund, error) {
	payment, err := s.payments.FindByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}
	if payment == nil {
		return nil, utils.ErrPaymentNotFound
	}

	refunds, err := s.refunds.ListByPaymentID(ctx, paymentID)
	if err != nil {
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}
	return refunds, nil
}

func (s *refundService) HandleProcessRefundTask(ctx context.Context, task *dbm.Task) error {
	var payload processRefundPayload
	if err := decodePayload(task, &payload); err != nil {
		return err
	}
	return s.ProcessRefund(ctx, payload.RefundID)
}

func (s *refundService) ProcessRefund(ctx context.Context, refundID string) error {
	log := s.log.With(zap.String("refund_id", refundID))

	refund, err := s.refunds.FindByRefundID(ctx, refundID)
	if err != nil {
		return fmt.Errorf("load refund: %w", err)
	}
	if refund == nil {
		log.Warn("refund vanished before processing")
		return nil
	}
	if refund.Status != dbm.PaymentStatusProcessing {
		log.Info("refund already settled, skipping", zap.String("status", string(refund.Status)))
		return nil
	}

	payment, err := s.payments.FindByPaymentID(ctx, refund.PaymentID)
	if err != nil {
		return fmt.Errorf("load payment: %w", err)
	}

	result, err := s.gateway.Refund(ctx, gateway.RefundRequest{
		PaymentID: refund.PaymentID,
		Amount:    refund.Amount,
		Reason:    refund.Reason,
	})
	if err != nil {
		return fmt.Errorf("gateway refund: %w", err)
	}

	updates := map[string]any{
		"gateway_response": datatypes.JSON(jsonRaw(result.Response)),
		"processed_at":     time.Now(),
	}
	if result.Success {
		updates["status"] = dbm.PaymentStatusCompleted
		updates["gateway_refund_id"] = result.TransactionID
	} else {
		updates["status"] = dbm.PaymentStatusFailed
	}
	fullRefund := result.Success && payment != nil && refund.Amount.Equal(payment.Amount)

	err = infra.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		ok, err := s.refunds.WithTx(tx).Transition(ctx, refund.ID,
			[]dbm.PaymentStatus{dbm.PaymentStatusProcessing}, updates)
		if err != nil || !ok || !fullRefund {
			return err
		}
		_, err = s.payments.WithTx(tx).Transition(ctx, payment.ID,
			[]dbm.PaymentStatus{dbm.PaymentStatusCompleted},
			map[string]any{"status": dbm.PaymentStatusRefunded})
		return err
	})
	if err != nil {
		return fmt.Errorf("persist refund outcome: %w", err)
	}

	if result.Success {
		log.Info("refund completed", zap.String("gateway_refund_id", result.TransactionID), zap.Bool("full_refund", fullRefund))
	} else {
		log.Info("refund failed", zap.String("reason", result.Error))
	}
	return nil
}

package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"payflow/internal/infra"
	dbm "payflow/internal/models/db_models"
	"payflow/internal/models/request_models"
	"payflow/internal/repositories"
)

const (
	EventPaymentCompleted = "payment.completed"
	EventPaymentFailed    = "payment.failed"
)

// Webhooks may move a payment between in-flight and settled states, never out
// of REFUNDED or CANCELLED.
var reconcilableStatuses = []dbm.PaymentStatus{
	dbm.PaymentStatusProcessing,
	dbm.PaymentStatusCompleted,
	dbm.PaymentStatusFailed,
}

type WebhookService interface {
	// HandleEvent reconciles a gateway event. Unknown events and unmatched
	// transaction ids are accepted without changes.
	HandleEvent(ctx context.Context, payload request_models.WebhookPayload) (dbm.WebhookOutcome, error)
}

type webhookService struct {
	db        *gorm.DB
	payments  repositories.PaymentRepository
	tasks     repositories.TaskRepository
	events    repositories.WebhookEventRepository
	scheduler TaskScheduler
	log       *zap.Logger
}

func NewWebhookService(
	db *gorm.DB,
	payments repositories.PaymentRepository,
	tasks repositories.TaskRepository,
	events repositories.WebhookEventRepository,
	scheduler TaskScheduler,
	log *zap.Logger,
) WebhookService {
	return &webhookService{
		db:        db,
		payments:  payments,
		tasks:     tasks,
		events:    events,
		scheduler: scheduler,
		log:       log.With(zap.String("component", "webhook")),
	}
}

func (w *webhookService) HandleEvent(ctx context.Context, payload request_models.WebhookPayload) (dbm.WebhookOutcome, error) {
	txnID := payload.TransactionID()
	event := &dbm.WebhookEvent{
		EventType:     payload.EventType,
		TransactionID: txnID,
		Outcome:       dbm.WebhookIgnored,
		Payload:       jsonRaw(payload),
	}

	outcome, err := w.reconcile(ctx, payload.EventType, txnID, event)
	event.Outcome = outcome
	if logErr := w.events.Create(ctx, event); logErr != nil {
		w.log.Error("record webhook event", zap.String("event_type", payload.EventType), zap.Error(logErr))
	}

	w.log.Info("webhook processed",
		zap.String("event_type", payload.EventType),
		zap.String("transaction_id", txnID),
		zap.String("outcome", string(outcome)))
	return outcome, err
}

func (w *webhookService) reconcile(ctx context.Context, eventType, txnID string, event *dbm.WebhookEvent) (dbm.WebhookOutcome, error) {
	var target dbm.PaymentStatus
	switch eventType {
	case EventPaymentCompleted:
		target = dbm.PaymentStatusCompleted
	case EventPaymentFailed:
		target = dbm.PaymentStatusFailed
	default:
		return dbm.WebhookIgnored, nil
	}
	if txnID == "" {
		return dbm.WebhookIgnored, nil
	}

	payment, err := w.payments.FindByTransactionID(ctx, txnID)
	if err != nil {
		return dbm.WebhookIgnored, fmt.Errorf("load payment by transaction: %w", err)
	}
	if payment == nil {
		return dbm.WebhookUnmatched, nil
	}
	event.PaymentID = &payment.PaymentID

	updates := map[string]any{"status": target}
	if target == dbm.PaymentStatusCompleted {
		updates["processed_at"] = gorm.Expr("COALESCE(processed_at, ?)", time.Now())
	}

	changed := payment.Status != target
	var applied bool
	err = infra.WithTransaction(w.db.WithContext(ctx), func(tx *gorm.DB) error {
		ok, err := w.payments.WithTx(tx).Transition(ctx, payment.ID, reconcilableStatuses, updates)
		if err != nil || !ok {
			return err
		}
		applied = true
		if !changed {
			return nil
		}
		outcome := OutcomeFailed
		if target == dbm.PaymentStatusCompleted {
			outcome = OutcomeCompleted
		}
		task, err := newTask(dbm.TaskNotifyOrder, payment.PaymentID, notifyOrderPayload{
			PaymentID: payment.PaymentID,
			OrderID:   payment.OrderID,
			Outcome:   outcome,
		})
		if err != nil {
			return err
		}
		return w.tasks.WithTx(tx).Enqueue(ctx, task)
	})
	if err != nil {
		return dbm.WebhookIgnored, fmt.Errorf("apply webhook: %w", err)
	}
	if !applied {
		return dbm.WebhookIgnored, nil
	}
	if changed {
		w.scheduler.Kick()
	}
	return dbm.WebhookApplied, nil
}

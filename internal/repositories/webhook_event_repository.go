package repositories

import (
	"context"

	"gorm.io/gorm"
	"payflow/internal/models/db_models"
)

type WebhookEventRepository interface {
	Create(ctx context.Context, event *db_models.WebhookEvent) error
	ListByTransactionID(ctx context.Context, transactionID string) ([]db_models.WebhookEvent, error)
}

type webhookEventRepository struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepository{db: db}
}

func (r *webhookEventRepository) Create(ctx context.Context, event *db_models.WebhookEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *webhookEventRepository) ListByTransactionID(ctx context.Context, transactionID string) ([]db_models.WebhookEvent, error) {
	var events []db_models.WebhookEvent
	err := r.db.WithContext(ctx).
		Where("transaction_id = ?", transactionID).
		Order("created_at ASC").
		Find(&events).Error
	return events, err
}

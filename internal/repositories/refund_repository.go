package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"payflow/internal/models/db_models"
)

type RefundRepository interface {
	WithTx(tx *gorm.DB) RefundRepository
	Create(ctx context.Context, refund *db_models.Refund) error
	FindByRefundID(ctx context.Context, refundID string) (*db_models.Refund, error)
	ListByPaymentID(ctx context.Context, paymentID string) ([]db_models.Refund, error)
	Transition(ctx context.Context, id uuid.UUID, from []db_models.PaymentStatus, updates map[string]any) (bool, error)
}

type refundRepository struct {
	db *gorm.DB
}

func NewRefundRepository(db *gorm.DB) RefundRepository {
	return &refundRepository{db: db}
}

func (r *refundRepository) WithTx(tx *gorm.DB) RefundRepository {
	return &refundRepository{db: tx}
}

func (r *refundRepository) Create(ctx context.Context, refund *db_models.Refund) error {
	return r.db.WithContext(ctx).Create(refund).Error
}

func (r *refundRepository) FindByRefundID(ctx context.Context, refundID string) (*db_models.Refund, error) {
	var refund db_models.Refund
	err := r.db.WithContext(ctx).First(&refund, "refund_id = ?", refundID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &refund, nil
}

func (r *refundRepository) ListByPaymentID(ctx context.Context, paymentID string) ([]db_models.Refund, error) {
	var refunds []db_models.Refund
	err := r.db.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		Order("created_at ASC").
		Find(&refunds).Error
	return refunds, err
}

func (r *refundRepository) Transition(ctx context.Context, id uuid.UUID, from []db_models.PaymentStatus, updates map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.Refund{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

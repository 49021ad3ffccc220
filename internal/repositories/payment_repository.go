package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"payflow/internal/models/db_models"
)

type PaymentFilter struct {
	UserID  string
	OrderID *int64
	Status  db_models.PaymentStatus
	Skip    int
	Limit   int
}

type PaymentRepository interface {
	WithTx(tx *gorm.DB) PaymentRepository
	Create(ctx context.Context, payment *db_models.Payment) error
	FindByPaymentID(ctx context.Context, paymentID string) (*db_models.Payment, error)
	FindByTransactionID(ctx context.Context, transactionID string) (*db_models.Payment, error)
	List(ctx context.Context, filter PaymentFilter) ([]db_models.Payment, error)
	// Transition applies updates only while the payment is in one of from.
	Transition(ctx context.Context, id uuid.UUID, from []db_models.PaymentStatus, updates map[string]any) (bool, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) WithTx(tx *gorm.DB) PaymentRepository {
	return &paymentRepository{db: tx}
}

func (r *paymentRepository) Create(ctx context.Context, payment *db_models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) FindByPaymentID(ctx context.Context, paymentID string) (*db_models.Payment, error) {
	return r.first(ctx, "payment_id = ?", paymentID)
}

func (r *paymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (*db_models.Payment, error) {
	return r.first(ctx, "gateway_transaction_id = ?", transactionID)
}

func (r *paymentRepository) first(ctx context.Context, query string, args ...any) (*db_models.Payment, error) {
	var payment db_models.Payment
	err := r.db.WithContext(ctx).Where(query, args...).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) List(ctx context.Context, filter PaymentFilter) ([]db_models.Payment, error) {
	q := r.db.WithContext(ctx).Model(&db_models.Payment{})
	if filter.UserID != "" {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.OrderID != nil {
		q = q.Where("order_id = ?", *filter.OrderID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var payments []db_models.Payment
	err := q.Order("created_at ASC").
		Offset(filter.Skip).
		Limit(filter.Limit).
		Find(&payments).Error
	return payments, err
}

func (r *paymentRepository) Transition(ctx context.Context, id uuid.UUID, from []db_models.PaymentStatus, updates map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&db_models.Payment{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"payflow/internal/models/db_models"
)

type PaymentMethodRepository interface {
	WithTx(tx *gorm.DB) PaymentMethodRepository
	Create(ctx context.Context, method *db_models.PaymentMethod) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.PaymentMethod, error)
	ListActiveByUser(ctx context.Context, userID string) ([]db_models.PaymentMethod, error)
	CountActiveByUser(ctx context.Context, userID string) (int64, error)
	// OldestActive returns the earliest registered active method of the user,
	// skipping exclude.
	OldestActive(ctx context.Context, userID string, exclude uuid.UUID) (*db_models.PaymentMethod, error)
	ClearDefault(ctx context.Context, userID string) error
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

type paymentMethodRepository struct {
	db *gorm.DB
}

func NewPaymentMethodRepository(db *gorm.DB) PaymentMethodRepository {
	return &paymentMethodRepository{db: db}
}

func (r *paymentMethodRepository) WithTx(tx *gorm.DB) PaymentMethodRepository {
	return &paymentMethodRepository{db: tx}
}

func (r *paymentMethodRepository) Create(ctx context.Context, method *db_models.PaymentMethod) error {
	return r.db.WithContext(ctx).Create(method).Error
}

func (r *paymentMethodRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.PaymentMethod, error) {
	var method db_models.PaymentMethod
	err := r.db.WithContext(ctx).First(&method, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &method, nil
}

func (r *paymentMethodRepository) ListActiveByUser(ctx context.Context, userID string) ([]db_models.PaymentMethod, error) {
	var methods []db_models.PaymentMethod
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at ASC").
		Find(&methods).Error
	return methods, err
}

func (r *paymentMethodRepository) CountActiveByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db_models.PaymentMethod{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Count(&count).Error
	return count, err
}

func (r *paymentMethodRepository) OldestActive(ctx context.Context, userID string, exclude uuid.UUID) (*db_models.PaymentMethod, error) {
	var method db_models.PaymentMethod
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ? AND id <> ?", userID, true, exclude).
		Order("created_at ASC").
		First(&method).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &method, nil
}

func (r *paymentMethodRepository) ClearDefault(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).
		Model(&db_models.PaymentMethod{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}

func (r *paymentMethodRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&db_models.PaymentMethod{}).
		Where("id = ?", id).
		Updates(updates).Error
}

package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"payflow/internal/infra"
	dbm "payflow/internal/models/db_models"
	"payflow/internal/models/request_models"
	"payflow/internal/repositories"
	"payflow/pkg/utils"
)

type PaymentMethodService interface {
	Register(ctx context.Context, req request_models.CreatePaymentMethodRequest) (*dbm.PaymentMethod, error)
	ListForUser(ctx context.Context, userID string) ([]dbm.PaymentMethod, error)
	Get(ctx context.Context, id uuid.UUID) (*dbm.PaymentMethod, error)
	// Deactivate retires a method. When it was the default, the oldest
	// remaining active method of the same user becomes the default.
	Deactivate(ctx context.Context, id uuid.UUID) (*dbm.PaymentMethod, error)
	SetDefault(ctx context.Context, id uuid.UUID) (*dbm.PaymentMethod, error)
}

type paymentMethodService struct {
	db      *gorm.DB
	methods repositories.PaymentMethodRepository
	key     []byte
	log     *zap.Logger
}

func NewPaymentMethodService(db *gorm.DB, methods repositories.PaymentMethodRepository, tokenizationKey string, log *zap.Logger) PaymentMethodService {
	return &paymentMethodService{
		db:      db,
		methods: methods,
		key:     []byte(tokenizationKey),
		log:     log.With(zap.String("component", "payment_method")),
	}
}

func (s *paymentMethodService) Register(ctx context.Context, req request_models.CreatePaymentMethodRequest) (*dbm.PaymentMethod, error) {
	token, err := utils.TokenizeCard(req.CardNumber, s.key)
	if err != nil {
		return nil, err
	}

	method := &dbm.PaymentMethod{
		UserID:      req.UserID,
		MethodType:  req.MethodType,
		Provider:    req.Provider,
		Token:       token,
		LastFour:    utils.LastFour(req.CardNumber),
		ExpiryMonth: req.ExpiryMonth,
		ExpiryYear:  req.ExpiryYear,
		IsActive:    true,
	}

	// A concurrent first registration for the same user loses on the default
	// index and is retried once, by then it sees the winner's row.
	for attempt := 0; attempt < 2; attempt++ {
		method.ID = uuid.Nil
		err = infra.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
			repo := s.methods.WithTx(tx)
			existing, err := repo.CountActiveByUser(ctx, req.UserID)
			if err != nil {
				return err
			}
			method.IsDefault = existing == 0
			return repo.Create(ctx, method)
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
	}
	if err != nil {
		s.log.Error("register payment method", zap.String("user_id", req.UserID), zap.Error(err))
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}

	s.log.Info("payment method registered",
		zap.String("user_id", method.UserID),
		zap.String("method_id", method.ID.String()),
		zap.Bool("is_default", method.IsDefault))
	return method, nil
}

func (s *paymentMethodService) ListForUser(ctx context.Context, userID string) ([]dbm.PaymentMethod, error) {
	methods, err := s.methods.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}
	return methods, nil
}

func (s *paymentMethodService) Get(ctx context.Context, id uuid.UUID) (*dbm.PaymentMethod, error) {
	method, err := s.methods.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}
	if method == nil {
		return nil, utils.ErrPaymentMethodNotFound
	}
	return method, nil
}

func (s *paymentMethodService) Deactivate(ctx context.Context, id uuid.UUID) (*dbm.PaymentMethod, error) {
	method, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !method.IsActive {
		return method, nil
	}

	var promoted *dbm.PaymentMethod
	err = infra.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		repo := s.methods.WithTx(tx)
		if err := repo.Update(ctx, id, map[string]any{"is_active": false, "is_default": false}); err != nil {
			return err
		}
		if !method.IsDefault {
			return nil
		}
		next, err := repo.OldestActive(ctx, method.UserID, id)
		if err != nil || next == nil {
			return err
		}
		promoted = next
		return repo.Update(ctx, next.ID, map[string]any{"is_default": true})
	})
	if err != nil {
		s.log.Error("deactivate payment method", zap.String("method_id", id.String()), zap.Error(err))
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}

	fields := []zap.Field{zap.String("method_id", id.String()), zap.String("user_id", method.UserID)}
	if promoted != nil {
		fields = append(fields, zap.String("promoted_default", promoted.ID.String()))
	}
	s.log.Info("payment method deactivated", fields...)
	return s.Get(ctx, id)
}

func (s *paymentMethodService) SetDefault(ctx context.Context, id uuid.UUID) (*dbm.PaymentMethod, error) {
	method, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !method.IsActive {
		return nil, utils.ErrPaymentMethodInactive
	}
	if method.IsDefault {
		return method, nil
	}

	err = infra.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		repo := s.methods.WithTx(tx)
		if err := repo.ClearDefault(ctx, method.UserID); err != nil {
			return err
		}
		return repo.Update(ctx, id, map[string]any{"is_default": true})
	})
	if err != nil {
		s.log.Error("set default payment method", zap.String("method_id", id.String()), zap.Error(err))
		return nil, errors.Join(utils.ErrDatabaseError, err)
	}
	return s.Get(ctx, id)
}

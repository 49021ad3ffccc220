package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	dbm "payflow/internal/models/db_models"
	"payflow/internal/models/request_models"
	"payflow/internal/repositories"
	"payflow/pkg/utils"
)

func cardRequest(userID, number string) request_models.CreatePaymentMethodRequest {
	return request_models.CreatePaymentMethodRequest{
		UserID:         userID,
		MethodType:     "credit_card",
		Provider:       "visa",
		CardNumber:     number,
		ExpiryMonth:    12,
		ExpiryYear:     2030,
		CVV:            "123",
		CardholderName: "Test User",
	}
}

func TestRegister_FirstMethodBecomesDefault(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	first, err := f.methodSvc.Register(ctx, cardRequest("u1", "4111 1111 1111 1111"))
	require.NoError(t, err)
	require.True(t, first.IsDefault)
	require.True(t, first.IsActive)
	require.Equal(t, "1111", first.LastFour)
	require.NotContains(t, first.Token, "4111")
	require.Len(t, first.Token, 32)

	second, err := f.methodSvc.Register(ctx, cardRequest("u1", "5555555555554444"))
	require.NoError(t, err)
	require.False(t, second.IsDefault)

	other, err := f.methodSvc.Register(ctx, cardRequest("u2", "5555555555554444"))
	require.NoError(t, err)
	require.True(t, other.IsDefault)
	require.Equal(t, second.Token, other.Token)
}

func TestDeactivate_PromotesOldestRemaining(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	var methods []*dbm.PaymentMethod
	for _, number := range []string{"4000000000000002", "4000000000000010", "4000000000000028"} {
		m, err := f.methodSvc.Register(ctx, cardRequest("u1", number))
		require.NoError(t, err)
		methods = append(methods, m)
		time.Sleep(2 * time.Millisecond)
	}

	retired, err := f.methodSvc.Deactivate(ctx, methods[0].ID)
	require.NoError(t, err)
	require.False(t, retired.IsActive)
	require.False(t, retired.IsDefault)

	promoted, err := f.methodSvc.Get(ctx, methods[1].ID)
	require.NoError(t, err)
	require.True(t, promoted.IsDefault)

	active, err := f.methodSvc.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, active, 2)
}

func TestSetDefault(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	a, err := f.methodSvc.Register(ctx, cardRequest("u1", "4000000000000002"))
	require.NoError(t, err)
	b, err := f.methodSvc.Register(ctx, cardRequest("u1", "4000000000000010"))
	require.NoError(t, err)

	updated, err := f.methodSvc.SetDefault(ctx, b.ID)
	require.NoError(t, err)
	require.True(t, updated.IsDefault)

	previous, err := f.methodSvc.Get(ctx, a.ID)
	require.NoError(t, err)
	require.False(t, previous.IsDefault)

	_, err = f.methodSvc.Deactivate(ctx, a.ID)
	require.NoError(t, err)
	_, err = f.methodSvc.SetDefault(ctx, a.ID)
	require.ErrorIs(t, err, utils.ErrPaymentMethodInactive)

	_, err = f.methodSvc.SetDefault(ctx, uuid.New())
	require.ErrorIs(t, err, utils.ErrPaymentMethodNotFound)
}

// staleCountRepo reports no active methods for the first stale counts, the
// view a concurrent first registration has before the other one commits.
type staleCountRepo struct {
	repositories.PaymentMethodRepository
	stale *int
}

func (r staleCountRepo) WithTx(tx *gorm.DB) repositories.PaymentMethodRepository {
	return staleCountRepo{PaymentMethodRepository: r.PaymentMethodRepository.WithTx(tx), stale: r.stale}
}

func (r staleCountRepo) CountActiveByUser(ctx context.Context, userID string) (int64, error) {
	if *r.stale > 0 {
		*r.stale--
		return 0, nil
	}
	return r.PaymentMethodRepository.CountActiveByUser(ctx, userID)
}

func TestRegister_RacingFirstMethodKeepsOneDefault(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	first, err := f.methodSvc.Register(ctx, cardRequest("u1", "4111111111111111"))
	require.NoError(t, err)
	require.True(t, first.IsDefault)

	stale := 1
	svc := NewPaymentMethodService(f.db, staleCountRepo{PaymentMethodRepository: f.methods, stale: &stale}, "test-key", zap.NewNop())
	second, err := svc.Register(ctx, cardRequest("u1", "5555555555554444"))
	require.NoError(t, err)
	require.False(t, second.IsDefault)
	require.Zero(t, stale)

	methods, err := f.methodSvc.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, methods, 2)
	defaults := 0
	for _, m := range methods {
		if m.IsDefault {
			defaults++
		}
	}
	require.Equal(t, 1, defaults)
}

package payment_service_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"payflow/internal/api/controllers"
	"payflow/internal/config"
	"payflow/internal/repositories"
	"payflow/internal/services"
	mem "payflow/pkg/memcache"
)

var Module = fx.Provide(
	repositories.NewPaymentRepository,
	services.NewPaymentService,
	providePaymentController,
)

func providePaymentController(paymentService services.PaymentService, store mem.IdempotencyStore, cfg *config.Config, log *zap.Logger) *controllers.PaymentController {
	return controllers.NewPaymentController(paymentService, store, cfg.IdempotencyTTL, log)
}

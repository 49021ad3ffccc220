package refund_fx

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
	repositories.NewRefundRepository,
	services.NewRefundService,
	provideRefundController,
)

func provideRefundController(refundService services.RefundService, store mem.IdempotencyStore, cfg *config.Config, log *zap.Logger) *controllers.RefundController {
	return controllers.NewRefundController(refundService, store, cfg.IdempotencyTTL, log)
}

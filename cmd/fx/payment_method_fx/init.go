package payment_method_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"payflow/internal/api/controllers"
	"payflow/internal/config"
	"payflow/internal/repositories"
	"payflow/internal/services"
)

var Module = fx.Provide(
	repositories.NewPaymentMethodRepository,
	providePaymentMethodService,
	controllers.NewPaymentMethodController,
)

func providePaymentMethodService(db *gorm.DB, repo repositories.PaymentMethodRepository, cfg *config.Config, log *zap.Logger) services.PaymentMethodService {
	if cfg.TokenizationKey == "" {
		log.Warn("TOKENIZATION_KEY is empty, card tokens are unkeyed digests")
	}
	return services.NewPaymentMethodService(db, repo, cfg.TokenizationKey, log)
}

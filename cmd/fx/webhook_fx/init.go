package webhook_fx

import (
	"go.uber.org/fx"
	"payflow/internal/api/controllers"
	"payflow/internal/repositories"
	"payflow/internal/services"
)

var Module = fx.Provide(
	repositories.NewWebhookEventRepository,
	services.NewWebhookService,
	controllers.NewWebhookController,
)

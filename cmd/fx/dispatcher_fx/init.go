package dispatcher_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"payflow/internal/config"
	"payflow/internal/models/db_models"
	"payflow/internal/repositories"
	"payflow/internal/services"
)

var Module = fx.Options(
	fx.Provide(
		repositories.NewTaskRepository,
		provideDispatcher,
		provideScheduler,
		provideOrderNotifier,
	),
	fx.Invoke(registerHandlers),
)

func provideDispatcher(repo repositories.TaskRepository, cfg *config.Config, log *zap.Logger) *services.TaskDispatcher {
	return services.NewTaskDispatcher(repo, log.Named("dispatcher"), services.DispatcherConfig{
		Workers:      cfg.WorkerCount,
		PollInterval: cfg.TaskPollInterval,
		MaxAttempts:  cfg.TaskMaxAttempts,
		Lease:        cfg.TaskLease,
	})
}

func provideScheduler(d *services.TaskDispatcher) services.TaskScheduler {
	return d
}

func provideOrderNotifier(cfg *config.Config, log *zap.Logger) services.OrderNotifier {
	return services.NewOrderClient(cfg.OrderServiceURL, cfg.NotifyTimeout, log)
}

func registerHandlers(
	lc fx.Lifecycle,
	d *services.TaskDispatcher,
	payments services.PaymentService,
	refunds services.RefundService,
	notifier services.OrderNotifier,
) {
	d.Register(db_models.TaskProcessPayment, payments.HandleProcessPaymentTask)
	d.Register(db_models.TaskProcessRefund, refunds.HandleProcessRefundTask)
	d.Register(db_models.TaskNotifyOrder, services.NotifyOrderTaskHandler(notifier))

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			d.Start(ctx)
			return nil
		},
		OnStop: d.Stop,
	})
}

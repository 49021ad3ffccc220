package logger_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"payflow/internal/config"
	"payflow/internal/infra"
)

var Module = fx.Options(
	fx.Provide(infra.NewLogger),
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log.Named("fx")}
	}),
	fx.Invoke(registerSync, logEnvSource),
)

func logEnvSource(cfg *config.Config, log *zap.Logger) {
	if !cfg.EnvFileLoaded {
		log.Info("no .env file found, using process environment")
	}
}

func registerSync(lc fx.Lifecycle, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = log.Sync()
			return nil
		},
	})
}

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"payflow/cmd/fx/config_fx"
	"payflow/cmd/fx/controllers_fx"
	"payflow/cmd/fx/db_fx"
	"payflow/cmd/fx/dispatcher_fx"
	"payflow/cmd/fx/gateway_fx"
	"payflow/cmd/fx/logger_fx"
	"payflow/cmd/fx/memcache_fx"
	"payflow/cmd/fx/payment_method_fx"
	"payflow/cmd/fx/payment_service_fx"
	"payflow/cmd/fx/refund_fx"
	"payflow/cmd/fx/webhook_fx"
	"payflow/internal/config"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the task dispatcher",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := fx.New(
				config_fx.Module,
				logger_fx.Module,
				db_fx.Module,
				memcache_fx.Module,
				gateway_fx.Module,
				dispatcher_fx.Module,
				payment_service_fx.Module,
				refund_fx.Module,
				payment_method_fx.Module,
				webhook_fx.Module,
				controllers_fx.Module,

				fx.Provide(ProvideRouter),
				fx.Invoke(StartServer),
			)

			app.Run()
			return app.Err()
		},
	}
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine, cfg *config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				log.Info("starting HTTP server", zap.String("addr", srv.Addr))
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("HTTP server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("stopping HTTP server")
			return srv.Shutdown(ctx)
		},
	})
}

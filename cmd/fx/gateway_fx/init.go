package gateway_fx

import (
	"go.uber.org/fx"
	"payflow/internal/config"
	"payflow/internal/gateway"
)

var Module = fx.Provide(provideGateway)

func provideGateway(cfg *config.Config) gateway.Gateway {
	return gateway.NewSimulator(cfg.GatewayDeclineThreshold)
}

package config_fx

import (
	"go.uber.org/fx"
	"payflow/internal/config"
)

var Module = fx.Provide(config.Load)

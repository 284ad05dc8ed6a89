package bootstrap

import (
	"hostpanel/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		func(cfg config.Config) config.CookieConfig { return cfg.Cookie },
		func(cfg config.Config) config.GatewayConfig { return cfg.Gateway },
		func(cfg config.Config) config.ProvisionConfig { return cfg.Provision },
		func(cfg config.Config) config.RedisConfig { return cfg.Redis },
	),
)

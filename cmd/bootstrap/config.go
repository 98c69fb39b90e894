package bootstrap

import (
	"vintour/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		func(cfg config.Config) config.BookingConfig { return cfg.Booking },
		func(cfg config.Config) config.WorkerConfig { return cfg.Worker },
	),
)

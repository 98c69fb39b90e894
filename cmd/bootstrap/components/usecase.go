package components

import (
	"vintour/internal/domain/booking"
	"vintour/internal/pkg/clock"
	"vintour/internal/pkg/config"
	"vintour/internal/usecase/commands"
	"vintour/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewPriceCalculator,
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewAvailabilityQueries,
		queries.NewBookingQueries,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingCommands,
	),
)

func NewPriceCalculator(cfg config.BookingConfig) booking.PriceCalculator {
	return booking.NewPricingEngine(
		cfg.HourlyRateCents,
		cfg.PerPersonRateCents,
		cfg.WeekendMultiplier,
		cfg.DepositPercent,
	)
}

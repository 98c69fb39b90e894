package components

import (
	"context"

	"vintour/internal/pkg/clock"
	"vintour/internal/pkg/config"
	"vintour/internal/usecase/shared"
	"vintour/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewNotifier,
	),
	fx.Invoke(runNotifier),
)

func NewNotifier(uow shared.UnitOfWork, blocks shared.BlockStore, clk clock.Clock, cfg config.Config) *worker.Notifier {
	return worker.NewNotifier(uow, blocks, worker.LogDispatcher{}, clk, cfg.Worker, cfg.Booking.HoldTTL)
}

func runNotifier(lc fx.Lifecycle, n *worker.Notifier) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			n.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return n.Stop(ctx)
		},
	})
}

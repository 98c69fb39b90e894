package worker

import (
	"context"
	"log/slog"
	"time"

	"vintour/internal/pkg/clock"
	"vintour/internal/pkg/config"
	"vintour/internal/usecase/shared"
)

// Dispatcher delivers one claimed outbox job. Implementations are expected
// to be idempotent on the receiving side: a crash between delivery and
// MarkDone redelivers the job.
type Dispatcher interface {
	Dispatch(ctx context.Context, job shared.NotificationJob) error
}

// LogDispatcher is the default delivery backend. It stands in for the CRM
// webhook and calendar integrations, which live outside this service.
type LogDispatcher struct{}

func (LogDispatcher) Dispatch(_ context.Context, job shared.NotificationJob) error {
	slog.Info("notification dispatched",
		slog.String("job_id", job.ID.String()),
		slog.String("kind", job.Kind),
		slog.String("topic", job.Topic))
	return nil
}

// Notifier drains the notification outbox and sweeps orphaned hold blocks.
// Claiming happens inside a transaction with SKIP LOCKED, so running more
// than one instance is safe.
type Notifier struct {
	uow        shared.UnitOfWork
	blocks     shared.BlockStore
	dispatcher Dispatcher
	clk        clock.Clock
	cfg        config.WorkerConfig
	holdTTL    time.Duration

	stop chan struct{}
	done chan struct{}
}

func NewNotifier(
	uow shared.UnitOfWork,
	blocks shared.BlockStore,
	dispatcher Dispatcher,
	clk clock.Clock,
	cfg config.WorkerConfig,
	holdTTL time.Duration,
) *Notifier {
	return &Notifier{
		uow:        uow,
		blocks:     blocks,
		dispatcher: dispatcher,
		clk:        clk,
		cfg:        cfg,
		holdTTL:    holdTTL,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

func (n *Notifier) Start() {
	go n.loop()
}

func (n *Notifier) Stop(ctx context.Context) error {
	close(n.stop)
	select {
	case <-n.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *Notifier) loop() {
	defer close(n.done)
	ticker := time.NewTicker(n.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-n.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), n.cfg.PollInterval*4)
			n.RunOnce(ctx)
			cancel()
		}
	}
}

// RunOnce performs a single poll cycle: sweep expired holds, then claim
// and dispatch due jobs. Exported so tests and the sweep itself don't
// depend on ticker timing.
func (n *Notifier) RunOnce(ctx context.Context) {
	n.sweepHolds(ctx)
	if err := n.dispatchDue(ctx); err != nil {
		slog.Error("notification dispatch cycle failed", slog.String("error", err.Error()))
	}
}

// sweepHolds deletes hold blocks that were never converted or released,
// e.g. after a process crash between hold creation and transaction start.
func (n *Notifier) sweepHolds(ctx context.Context) {
	cutoff := n.clk.Now().Add(-n.holdTTL)
	removed, err := n.blocks.DeleteExpiredHolds(ctx, cutoff)
	if err != nil {
		slog.Error("hold sweep failed", slog.String("error", err.Error()))
		return
	}
	if removed > 0 {
		slog.Warn("swept orphaned hold blocks", slog.Int64("count", removed))
	}
}

func (n *Notifier) dispatchDue(ctx context.Context) error {
	return n.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := n.clk.Now()
		jobs, err := tx.Notifications().ClaimDue(ctx, now, n.cfg.BatchSize)
		if err != nil {
			return err
		}
		for _, job := range jobs {
			if err := n.dispatcher.Dispatch(ctx, job); err != nil {
				n.recordFailure(ctx, tx, job, err)
				continue
			}
			if err := tx.Notifications().MarkDone(ctx, job.ID, now); err != nil {
				return err
			}
		}
		return nil
	})
}

func (n *Notifier) recordFailure(ctx context.Context, tx shared.Tx, job shared.NotificationJob, cause error) {
	attempts := job.Attempts + 1
	if attempts >= n.cfg.MaxAttempts {
		slog.Error("notification job exhausted",
			slog.String("job_id", job.ID.String()),
			slog.String("topic", job.Topic),
			slog.Int("attempts", int(attempts)),
			slog.String("error", cause.Error()))
		if err := tx.Notifications().MarkExhausted(ctx, job.ID, cause.Error()); err != nil {
			slog.Error("failed to park notification job", slog.String("error", err.Error()))
		}
		return
	}
	retryAt := n.clk.Now().Add(n.cfg.RetryBackoff * time.Duration(1<<attempts))
	if err := tx.Notifications().MarkFailed(ctx, job.ID, cause.Error(), retryAt); err != nil {
		slog.Error("failed to reschedule notification job", slog.String("error", err.Error()))
	}
}

package repository

import (
	"context"
	"time"

	"vintour/internal/infra"
	"vintour/internal/infra/db"
	"vintour/internal/pkg/pgconv"
	"vintour/internal/usecase/shared"

	"github.com/google/uuid"
)

// NotificationRepository is the outbox for fire-and-forget side effects.
// Jobs written inside the booking transaction become visible to the
// dispatcher only when the booking commits.
type NotificationRepository struct {
	db db.DBTX
}

func NewNotificationRepository(dbtx db.DBTX) *NotificationRepository {
	return &NotificationRepository{db: dbtx}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO notification_jobs (id, kind, topic, payload, run_at) VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), kind, topic, payload, pgconv.TimeToPgtype(runAt))
	if err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}
	return nil
}

const claimDueJobsSQL = `
SELECT id, kind, topic, payload, attempts
FROM notification_jobs
WHERE done_at IS NULL AND run_at <= $1
ORDER BY run_at
LIMIT $2
FOR UPDATE SKIP LOCKED
`

// ClaimDue must run inside a transaction; SKIP LOCKED keeps concurrent
// dispatcher instances from double-delivering a job.
func (r *NotificationRepository) ClaimDue(ctx context.Context, now time.Time, limit int32) ([]shared.NotificationJob, error) {
	rows, err := r.db.Query(ctx, claimDueJobsSQL, pgconv.TimeToPgtype(now), limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim notification jobs", err)
	}
	defer rows.Close()

	var jobs []shared.NotificationJob
	for rows.Next() {
		var j shared.NotificationJob
		if err := rows.Scan(&j.ID, &j.Kind, &j.Topic, &j.Payload, &j.Attempts); err != nil {
			return nil, infra.WrapRepoErr("failed to scan notification job", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read notification jobs", err)
	}
	return jobs, nil
}

func (r *NotificationRepository) MarkDone(ctx context.Context, id uuid.UUID, doneAt time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE notification_jobs SET done_at = $2, attempts = attempts + 1 WHERE id = $1`,
		id, pgconv.TimeToPgtype(doneAt))
	if err != nil {
		return infra.WrapRepoErr("failed to mark notification job done", err)
	}
	return nil
}

func (r *NotificationRepository) MarkFailed(ctx context.Context, id uuid.UUID, lastError string, retryAt time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE notification_jobs SET attempts = attempts + 1, last_error = $2, run_at = $3 WHERE id = $1`,
		id, lastError, pgconv.TimeToPgtype(retryAt))
	if err != nil {
		return infra.WrapRepoErr("failed to mark notification job failed", err)
	}
	return nil
}

// Exhausted jobs are parked far in the future rather than deleted so the
// failure stays auditable.
func (r *NotificationRepository) MarkExhausted(ctx context.Context, id uuid.UUID, lastError string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE notification_jobs SET attempts = attempts + 1, last_error = $2, done_at = now() WHERE id = $1`,
		id, lastError)
	if err != nil {
		return infra.WrapRepoErr("failed to park notification job", err)
	}
	return nil
}

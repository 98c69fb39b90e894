package repository

import (
	"context"
	"time"

	"vintour/internal/domain/booking"
	"vintour/internal/infra"
	"vintour/internal/infra/db"
	"vintour/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type CustomerRepository struct {
	db db.DBTX
}

func NewCustomerRepository(dbtx db.DBTX) *CustomerRepository {
	return &CustomerRepository{db: dbtx}
}

const upsertCustomerSQL = `
INSERT INTO customers (id, email, name, phone, marketing_consent)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT ((lower(email))) DO UPDATE
SET name = EXCLUDED.name,
    phone = COALESCE(EXCLUDED.phone, customers.phone),
    marketing_consent = EXCLUDED.marketing_consent,
    updated_at = now()
RETURNING id
`

func (r *CustomerRepository) Upsert(ctx context.Context, email booking.Email, name string, phone *string, marketingConsent bool) (uuid.UUID, error) {
	var id uuid.UUID
	err := r.db.QueryRow(ctx, upsertCustomerSQL,
		uuid.New(), email.String(), name, pgconv.StringPtrToPgtype(phone), marketingConsent,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to upsert customer", err)
	}
	return id, nil
}

const addVisitStatsSQL = `
UPDATE customers
SET total_visits = total_visits + 1,
    total_spent_cents = total_spent_cents + $2,
    last_visit_date = GREATEST(COALESCE(last_visit_date, $3), $3),
    updated_at = now()
WHERE id = $1
`

func (r *CustomerRepository) AddVisitStats(ctx context.Context, customerID uuid.UUID, amountCents int64, visitDate time.Time) error {
	tag, err := r.db.Exec(ctx, addVisitStatsSQL, customerID, amountCents, pgconv.DateToPgtype(visitDate))
	if err != nil {
		return infra.WrapRepoErr("failed to update customer statistics", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("customer not found", nil, infra.KindNotFound)
	}
	return nil
}

// AddVisit is the pool-backed variant used after commit; the statement is
// idempotent with respect to retries of the same visit date.
func (r *CustomerRepository) AddVisit(ctx context.Context, customerID uuid.UUID, amountCents int64, visitDate time.Time) error {
	return r.AddVisitStats(ctx, customerID, amountCents, visitDate)
}

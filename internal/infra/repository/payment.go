package repository

import (
	"context"

	"vintour/internal/infra"
	"vintour/internal/infra/db"
	"vintour/internal/pkg/pgconv"
	"vintour/internal/usecase/shared"

	"github.com/google/uuid"
)

type PaymentRepository struct {
	db db.DBTX
}

func NewPaymentRepository(dbtx db.DBTX) *PaymentRepository {
	return &PaymentRepository{db: dbtx}
}

const createPaymentSQL = `
INSERT INTO payments (id, booking_id, customer_id, amount_cents, currency, payment_type, payment_method, external_ref, status, brand_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`

func (r *PaymentRepository) Create(ctx context.Context, rec shared.PaymentRecord) error {
	currency := rec.Currency
	if currency == "" {
		currency = "USD"
	}
	_, err := r.db.Exec(ctx, createPaymentSQL,
		uuid.New(),
		rec.BookingID,
		rec.CustomerID,
		rec.AmountCents,
		currency,
		string(rec.Type),
		rec.Method,
		pgconv.StringPtrToPgtype(rec.ExternalRef),
		string(rec.Status),
		pgconv.UUIDPtrToPgtype(rec.BrandID),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create payment record", err)
	}
	return nil
}

package readstore

import (
	"context"

	"hostpanel/internal/infra"
	"hostpanel/internal/infra/db"
	"hostpanel/internal/usecase/queries"

	"github.com/google/uuid"
)

type PaymentReadStore struct {
	db db.DBTX
}

func NewPaymentReadStore(pool db.DBTX) *PaymentReadStore {
	return &PaymentReadStore{db: pool}
}

const paymentViewColumns = `id, idempotency_key, user_id, plan_id, coupon_code,
	amount_cents, currency, status, external_order_id, failure_reason, created_at, updated_at`

func (r *PaymentReadStore) FindByKey(ctx context.Context, idempotencyKey uuid.UUID) (*queries.PaymentView, uuid.UUID, error) {
	var (
		v       queries.PaymentView
		ownerID uuid.UUID
	)
	err := r.db.QueryRow(ctx, `
		SELECT `+paymentViewColumns+`
		FROM payments WHERE idempotency_key = $1`, idempotencyKey,
	).Scan(
		&v.ID, &v.IdempotencyKey, &ownerID, &v.PlanID, &v.CouponCode,
		&v.AmountCents, &v.Currency, &v.Status, &v.ExternalOrderID,
		&v.FailureReason, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, uuid.Nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, uuid.Nil, infra.WrapRepoErr("failed to find payment by key", err)
	}
	return &v, ownerID, nil
}

func (r *PaymentReadStore) FindByUserID(ctx context.Context, userID uuid.UUID, limit int32) ([]*queries.PaymentView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+paymentViewColumns+`
		FROM payments WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, userID, limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list payments", err)
	}
	defer rows.Close()

	var items []*queries.PaymentView
	for rows.Next() {
		var (
			v       queries.PaymentView
			ownerID uuid.UUID
		)
		err := rows.Scan(
			&v.ID, &v.IdempotencyKey, &ownerID, &v.PlanID, &v.CouponCode,
			&v.AmountCents, &v.Currency, &v.Status, &v.ExternalOrderID,
			&v.FailureReason, &v.CreatedAt, &v.UpdatedAt,
		)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan payment", err)
		}
		items = append(items, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate payments", err)
	}
	return items, nil
}

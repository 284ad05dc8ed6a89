package repository

import (
	"context"
	"encoding/json"

	"hostpanel/internal/domain/payment"
	"hostpanel/internal/domain/redemption"
	"hostpanel/internal/infra"
	"hostpanel/internal/infra/db"
	"hostpanel/internal/usecase/commands"

	"github.com/google/uuid"
)

type PaymentRepository struct {
	db db.DBTX
}

func NewPaymentRepository(pool db.DBTX) *PaymentRepository {
	return &PaymentRepository{db: pool}
}

func (r *PaymentRepository) FindByKey(ctx context.Context, tx db.DBTX, idempotencyKey uuid.UUID) (*commands.PaymentSnapshot, error) {
	if tx == nil {
		tx = r.db
	}

	var (
		s          commands.PaymentSnapshot
		status     string
		effectJSON []byte
	)
	err := tx.QueryRow(ctx, `
		SELECT id, idempotency_key, user_id, plan_id, coupon_code, amount_cents,
			currency, status, external_order_id, applied_effect, failure_reason, version
		FROM payments WHERE idempotency_key = $1`, idempotencyKey,
	).Scan(
		&s.ID, &s.IdempotencyKey, &s.UserID, &s.PlanID, &s.CouponCode, &s.AmountCents,
		&s.Currency, &status, &s.ExternalOrderID, &effectJSON, &s.FailureReason, &s.Version,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment by idempotency key", err)
	}

	s.Status = payment.Status(status)
	if len(effectJSON) > 0 {
		var effect redemption.Effect
		if err := json.Unmarshal(effectJSON, &effect); err != nil {
			return nil, infra.WrapRepoErr("failed to decode applied effect", err)
		}
		s.AppliedEffect = &effect
	}
	return &s, nil
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO payments (id, idempotency_key, user_id, plan_id, coupon_code, amount_cents, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID(), p.IdempotencyKey(), p.UserID(), p.PlanID(), p.CouponCode(),
		p.AmountCents(), p.Currency(), string(p.Status()),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("payment already exists for idempotency key", err, infra.KindDuplicateKey)
		}
		if isForeignKeyViolation(err) {
			return infra.WrapRepoErr("payment references missing user or plan", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to create payment", err)
	}
	return nil
}

func (r *PaymentRepository) AttachExternalOrder(ctx context.Context, id uuid.UUID, expectedVersion int64, externalOrderID string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE payments SET external_order_id = $3, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $2 AND status = 'pending'`,
		id, expectedVersion, externalOrderID,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to attach external order", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("payment version mismatch", nil, infra.KindConflict)
	}
	return nil
}

// MarkCaptured stores the computed effect with the status flip so a replay
// can return it without recomputation. Only pending payments transition.
func (r *PaymentRepository) MarkCaptured(ctx context.Context, tx db.DBTX, id uuid.UUID, expectedVersion int64, effect redemption.Effect) error {
	effectJSON, err := json.Marshal(effect)
	if err != nil {
		return infra.WrapRepoErr("failed to encode applied effect", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE payments SET status = 'captured', applied_effect = $3, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $2 AND status = 'pending'`,
		id, expectedVersion, effectJSON,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to mark payment captured", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("payment version mismatch", nil, infra.KindConflict)
	}
	return nil
}

func (r *PaymentRepository) MarkFailed(ctx context.Context, tx db.DBTX, id uuid.UUID, expectedVersion int64, reason string) error {
	if tx == nil {
		tx = r.db
	}

	tag, err := tx.Exec(ctx, `
		UPDATE payments SET status = 'failed', failure_reason = $3, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $2 AND status = 'pending'`,
		id, expectedVersion, reason,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to mark payment failed", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("payment version mismatch", nil, infra.KindConflict)
	}
	return nil
}

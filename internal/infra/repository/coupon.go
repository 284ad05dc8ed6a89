package repository

import (
	"context"

	"hostpanel/internal/infra"
	"hostpanel/internal/infra/db"
	"hostpanel/internal/usecase/commands"

	"github.com/google/uuid"
)

type CouponRepository struct {
	db db.DBTX
}

func NewCouponRepository(pool db.DBTX) *CouponRepository {
	return &CouponRepository{db: pool}
}

func (r *CouponRepository) FindByCode(ctx context.Context, tx db.DBTX, code string) (*commands.CouponSnapshot, error) {
	if tx == nil {
		tx = r.db
	}

	var s commands.CouponSnapshot
	err := tx.QueryRow(ctx, `
		SELECT id, code, amount_off_cents, percent_off, usage_limit, used_count,
			enabled, expires_at, eligible_plan_ids, version
		FROM coupons WHERE code = $1`, code,
	).Scan(
		&s.ID, &s.Code, &s.AmountOffCents, &s.PercentOff, &s.UsageLimit, &s.UsedCount,
		&s.Enabled, &s.ExpiresAt, &s.EligiblePlanIDs, &s.Version,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by code", err)
	}
	return &s, nil
}

// IncrementUsage re-checks the cap inside the guarded write, so a stale
// snapshot can never push used_count past usage_limit. Zero rows affected
// means either a lost version race or an exhausted cap; the caller re-reads
// and re-evaluates to tell them apart.
func (r *CouponRepository) IncrementUsage(ctx context.Context, tx db.DBTX, id uuid.UUID, expectedVersion int64) error {
	tag, err := tx.Exec(ctx, `
		UPDATE coupons SET used_count = used_count + 1, version = version + 1, updated_at = now()
		WHERE id = $1 AND version = $2
			AND (usage_limit IS NULL OR used_count < usage_limit)`,
		id, expectedVersion,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to increment coupon usage", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon version mismatch or cap reached", nil, infra.KindConflict)
	}
	return nil
}

package repository

import (
	"context"
	"time"

	"hostpanel/internal/domain/giftcode"
	"hostpanel/internal/infra"
	"hostpanel/internal/infra/db"
	"hostpanel/internal/usecase/commands"

	"github.com/google/uuid"
)

type GiftCodeRepository struct {
	db db.DBTX
}

func NewGiftCodeRepository(pool db.DBTX) *GiftCodeRepository {
	return &GiftCodeRepository{db: pool}
}

func (r *GiftCodeRepository) FindByCode(ctx context.Context, tx db.DBTX, code string) (*commands.GiftCodeSnapshot, error) {
	if tx == nil {
		tx = r.db
	}

	var s commands.GiftCodeSnapshot
	err := tx.QueryRow(ctx, `
		SELECT id, code, coins, max_redemptions, redeemed_count, enabled,
			valid_until, description, version
		FROM gift_codes WHERE code = $1`, code,
	).Scan(
		&s.ID, &s.Code, &s.Coins, &s.MaxRedemptions, &s.RedeemedCount, &s.Enabled,
		&s.ValidUntil, &s.Description, &s.Version,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("gift code not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find gift code", err)
	}

	rows, err := tx.Query(ctx, `
		SELECT user_id, redeemed_at FROM gift_code_redemptions WHERE gift_code_id = $1`, s.ID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load gift code redemptions", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec giftcode.Redemption
		if err := rows.Scan(&rec.UserID, &rec.RedeemedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan gift code redemption", err)
		}
		s.Redemptions = append(s.Redemptions, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate gift code redemptions", err)
	}

	return &s, nil
}

func (r *GiftCodeRepository) Create(ctx context.Context, g *giftcode.GiftCode) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO gift_codes (id, code, coins, max_redemptions, redeemed_count, enabled, valid_until, description)
		VALUES ($1, $2, $3, $4, 0, $5, $6, $7)`,
		g.ID(), g.Code(), g.Coins(), g.MaxRedemptions(), g.Enabled(), g.ValidUntil(), g.Description(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("gift code already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create gift code", err)
	}
	return nil
}

// Redeem is the guarded write for the shared counter plus the per-user
// record, in one statement pair inside the caller's transaction. The cap is
// re-checked in SQL and the unique (gift_code_id, user_id) index rejects a
// double redemption that slipped past the snapshot check.
func (r *GiftCodeRepository) Redeem(
	ctx context.Context,
	tx db.DBTX,
	id uuid.UUID,
	expectedVersion int64,
	userID uuid.UUID,
	at time.Time,
) error {
	tag, err := tx.Exec(ctx, `
		UPDATE gift_codes SET redeemed_count = redeemed_count + 1, version = version + 1
		WHERE id = $1 AND version = $2
			AND (max_redemptions IS NULL OR redeemed_count < max_redemptions)`,
		id, expectedVersion,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to increment gift code redemptions", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("gift code version mismatch or cap reached", nil, infra.KindConflict)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO gift_code_redemptions (gift_code_id, user_id, redeemed_at)
		VALUES ($1, $2, $3)`,
		id, userID, at,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return infra.WrapRepoErr("gift code already redeemed by user", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to record gift code redemption", err)
	}
	return nil
}

package repository

import (
	"context"
	"time"

	"hostpanel/internal/domain/redemption"
	"hostpanel/internal/infra"
	"hostpanel/internal/infra/db"

	"github.com/google/uuid"
)

type UserPlanRepository struct {
	db db.DBTX
}

func NewUserPlanRepository(pool db.DBTX) *UserPlanRepository {
	return &UserPlanRepository{db: pool}
}

// CreateGrant inserts the UserPlan row for an applied effect. Rows are
// keyed by their own id; redemption idempotency is carried by the payment
// row, so replays never reach this insert twice.
func (r *UserPlanRepository) CreateGrant(ctx context.Context, tx db.DBTX, userID uuid.UUID, grant redemption.PlanGrant, now time.Time) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO user_plans (id, user_id, plan_id, status, created_at, expires_at)
		VALUES ($1, $2, $3, 'active', $4, $5)`,
		uuid.New(), userID, grant.PlanID, now, grant.ExpiresAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return infra.WrapRepoErr("user plan references missing user or plan", err, infra.KindForeignKeyViolated)
		}
		return infra.WrapRepoErr("failed to create user plan", err)
	}
	return nil
}

package readstore

import (
	"context"

	"hostpanel/internal/infra"
	"hostpanel/internal/infra/db"
	"hostpanel/internal/usecase/queries"

	"github.com/google/uuid"
)

type EntitlementReadStore struct {
	db db.DBTX
}

func NewEntitlementReadStore(pool db.DBTX) *EntitlementReadStore {
	return &EntitlementReadStore{db: pool}
}

func (r *EntitlementReadStore) FindByUserID(ctx context.Context, userID uuid.UUID) (*queries.EntitlementView, error) {
	var v queries.EntitlementView
	err := r.db.QueryRow(ctx, `
		SELECT id, coins, disk_mb, memory_mb, cpu_percent, backups, databases,
			allocations, server_limit, updated_at
		FROM users WHERE id = $1`, userID,
	).Scan(
		&v.UserID, &v.Coins, &v.DiskMb, &v.MemoryMb, &v.CpuPercent,
		&v.Backups, &v.Databases, &v.Allocations, &v.ServerLimit, &v.VersionUpdated,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("entitlement not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find entitlement", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT up.id, up.plan_id, p.name, up.status, up.expires_at, up.created_at
		FROM user_plans up
		JOIN plans p ON p.id = up.plan_id
		WHERE up.user_id = $1
		ORDER BY up.created_at DESC`, userID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list user plans", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p queries.UserPlanView
		if err := rows.Scan(&p.ID, &p.PlanID, &p.PlanName, &p.Status, &p.ExpiresAt, &p.CreatedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan user plan", err)
		}
		v.Plans = append(v.Plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate user plans", err)
	}

	return &v, nil
}

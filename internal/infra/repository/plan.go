package repository

import (
	"context"

	"hostpanel/internal/infra"
	"hostpanel/internal/infra/db"
	"hostpanel/internal/usecase/commands"

	"github.com/google/uuid"
)

type PlanRepository struct {
	db db.DBTX
}

func NewPlanRepository(pool db.DBTX) *PlanRepository {
	return &PlanRepository{db: pool}
}

func (r *PlanRepository) FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*commands.PlanSnapshot, error) {
	if tx == nil {
		tx = r.db
	}

	var s commands.PlanSnapshot
	err := tx.QueryRow(ctx, `
		SELECT id, name, price_cents, strike_price_cents, lifetime, duration_days,
			res_disk_mb, res_memory_mb, res_cpu_percent, res_backups, res_databases,
			res_allocations, res_server_limit,
			grant_coins, grant_server_limit, grant_allocations,
			egg_ids, location_ids, enabled, version
		FROM plans WHERE id = $1`, id,
	).Scan(
		&s.ID, &s.Name, &s.PriceCents, &s.StrikePriceCents, &s.Lifetime, &s.DurationDays,
		&s.Content.RecurringResources.DiskMb, &s.Content.RecurringResources.MemoryMb,
		&s.Content.RecurringResources.CpuPercent, &s.Content.RecurringResources.Backups,
		&s.Content.RecurringResources.Databases, &s.Content.RecurringResources.Allocations,
		&s.Content.RecurringResources.ServerLimit,
		&s.Content.Coins, &s.Content.ServerLimit, &s.Content.AdditionalAllocations,
		&s.EggIDs, &s.LocationIDs, &s.Enabled, &s.Version,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("plan not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find plan by ID", err)
	}
	return &s, nil
}

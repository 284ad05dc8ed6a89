package readstore

import (
	"context"

	"hostpanel/internal/infra"
	"hostpanel/internal/infra/db"
	"hostpanel/internal/usecase/queries"

	"github.com/google/uuid"
)

type PlanReadStore struct {
	db db.DBTX
}

func NewPlanReadStore(pool db.DBTX) *PlanReadStore {
	return &PlanReadStore{db: pool}
}

const planViewColumns = `id, name, price_cents, strike_price_cents, lifetime, duration_days,
	grant_coins, res_disk_mb, res_memory_mb, res_cpu_percent, res_backups, res_databases,
	res_allocations, res_server_limit, egg_ids, location_ids`

func (r *PlanReadStore) FindEnabled(ctx context.Context) ([]*queries.PlanListItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+planViewColumns+`
		FROM plans WHERE enabled
		ORDER BY price_cents ASC, name ASC`,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list plans", err)
	}
	defer rows.Close()

	var items []*queries.PlanListItem
	for rows.Next() {
		item, err := scanPlanListItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate plans", err)
	}
	return items, nil
}

func (r *PlanReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.PlanListItem, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+planViewColumns+`
		FROM plans WHERE id = $1`, id,
	)
	item, err := scanPlanListItem(row)
	if err != nil {
		if isNoRows(err) {
			return nil, infra.WrapRepoErr("plan not found", err, infra.KindNotFound)
		}
		return nil, err
	}
	return item, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlanListItem(row rowScanner) (*queries.PlanListItem, error) {
	var item queries.PlanListItem
	err := row.Scan(
		&item.ID, &item.Name, &item.PriceCents, &item.StrikePriceCents,
		&item.Lifetime, &item.DurationDays, &item.Coins,
		&item.DiskMb, &item.MemoryMb, &item.CpuPercent, &item.Backups,
		&item.Databases, &item.Allocations, &item.ServerLimit,
		&item.EggIDs, &item.LocationIDs,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, err
		}
		return nil, infra.WrapRepoErr("failed to scan plan", err)
	}
	return &item, nil
}

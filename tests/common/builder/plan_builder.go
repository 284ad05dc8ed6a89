//go:build unit || e2e

package builder

import (
	"time"

	domplan "hostpanel/internal/domain/plan"
	"hostpanel/internal/domain/user"
	"hostpanel/internal/usecase/commands"
	"hostpanel/internal/usecase/queries"

	"github.com/google/uuid"
)

type PlanBuilder struct {
	ID               uuid.UUID
	Name             string
	PriceCents       int64
	StrikePriceCents *int64
	Lifetime         bool
	DurationDays     int
	Content          domplan.ProductContent
	EggIDs           []int64
	LocationIDs      []int64
	Enabled          bool
	Version          int64
}

func NewPlanBuilder() *PlanBuilder {
	return &PlanBuilder{
		ID:           uuid.New(),
		Name:         "Starter",
		PriceCents:   999,
		Lifetime:     false,
		DurationDays: 30,
		Content: domplan.ProductContent{
			RecurringResources: user.ResourceLimits{
				DiskMb:      10240,
				MemoryMb:    2048,
				CpuPercent:  100,
				Backups:     2,
				Databases:   2,
				Allocations: 1,
			},
			Coins:       50,
			ServerLimit: 1,
		},
		Enabled: true,
		Version: 1,
	}
}

func (b *PlanBuilder) With(mutate func(*PlanBuilder)) *PlanBuilder {
	mutate(b)
	return b
}

func (b *PlanBuilder) WithPriceCents(price int64) *PlanBuilder {
	b.PriceCents = price
	return b
}

func (b *PlanBuilder) AsLifetime() *PlanBuilder {
	b.Lifetime = true
	b.DurationDays = 0
	return b
}

func (b *PlanBuilder) AsDisabled() *PlanBuilder {
	b.Enabled = false
	return b
}

func (b *PlanBuilder) AsFree() *PlanBuilder {
	b.PriceCents = 0
	return b
}

func (b *PlanBuilder) BuildDomain() *domplan.Plan {
	return domplan.ReconstructPlan(
		b.ID, b.Name, b.PriceCents, b.StrikePriceCents, b.Lifetime, b.DurationDays,
		b.Content,
		domplan.Eligibility{EggIDs: b.EggIDs, LocationIDs: b.LocationIDs},
		b.Enabled,
		time.Time{}, time.Time{},
	)
}

func (b *PlanBuilder) BuildSnapshot() *commands.PlanSnapshot {
	return &commands.PlanSnapshot{
		ID:               b.ID,
		Name:             b.Name,
		PriceCents:       b.PriceCents,
		StrikePriceCents: b.StrikePriceCents,
		Lifetime:         b.Lifetime,
		DurationDays:     b.DurationDays,
		Content:          b.Content,
		EggIDs:           b.EggIDs,
		LocationIDs:      b.LocationIDs,
		Enabled:          b.Enabled,
		Version:          b.Version,
	}
}

func (b *PlanBuilder) BuildListItem() *queries.PlanListItem {
	return &queries.PlanListItem{
		ID:               b.ID,
		Name:             b.Name,
		PriceCents:       b.PriceCents,
		StrikePriceCents: b.StrikePriceCents,
		Lifetime:         b.Lifetime,
		DurationDays:     b.DurationDays,
		Coins:            b.Content.Coins,
		DiskMb:           b.Content.RecurringResources.DiskMb,
		MemoryMb:         b.Content.RecurringResources.MemoryMb,
		CpuPercent:       b.Content.RecurringResources.CpuPercent,
		Backups:          b.Content.RecurringResources.Backups,
		Databases:        b.Content.RecurringResources.Databases,
		Allocations:      b.Content.RecurringResources.Allocations,
		ServerLimit:      b.Content.RecurringResources.ServerLimit,
		EggIDs:           b.EggIDs,
		LocationIDs:      b.LocationIDs,
	}
}

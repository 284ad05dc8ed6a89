package plan

import (
	"errors"
	"time"

	"hostpanel/internal/domain/user"

	"github.com/google/uuid"
)

var (
	ErrInvalidPrice    = errors.New("plan price cannot be negative")
	ErrInvalidDuration = errors.New("recurring plan requires a positive duration")
)

// ProductContent is the entitlement delta a plan grants on redemption.
type ProductContent struct {
	RecurringResources    user.ResourceLimits
	Coins                 int64
	ServerLimit           int64
	AdditionalAllocations int64
}

// Eligibility restricts which eggs/locations a plan's servers may use.
// Empty slices mean unrestricted.
type Eligibility struct {
	EggIDs      []int64
	LocationIDs []int64
}

type Plan struct {
	id               uuid.UUID
	name             string
	priceCents       int64
	strikePriceCents *int64
	lifetime         bool
	durationDays     int
	content          ProductContent
	eligibility      Eligibility
	enabled          bool
	createdAt        time.Time
	updatedAt        time.Time
}

func NewPlan(
	name string,
	priceCents int64,
	strikePriceCents *int64,
	lifetime bool,
	durationDays int,
	content ProductContent,
	eligibility Eligibility,
) (*Plan, error) {
	if priceCents < 0 {
		return nil, ErrInvalidPrice
	}
	if !lifetime && durationDays <= 0 {
		return nil, ErrInvalidDuration
	}
	return &Plan{
		id:               uuid.New(),
		name:             name,
		priceCents:       priceCents,
		strikePriceCents: strikePriceCents,
		lifetime:         lifetime,
		durationDays:     durationDays,
		content:          content,
		eligibility:      eligibility,
		enabled:          true,
	}, nil
}

func ReconstructPlan(
	id uuid.UUID,
	name string,
	priceCents int64,
	strikePriceCents *int64,
	lifetime bool,
	durationDays int,
	content ProductContent,
	eligibility Eligibility,
	enabled bool,
	createdAt, updatedAt time.Time,
) *Plan {
	return &Plan{
		id:               id,
		name:             name,
		priceCents:       priceCents,
		strikePriceCents: strikePriceCents,
		lifetime:         lifetime,
		durationDays:     durationDays,
		content:          content,
		eligibility:      eligibility,
		enabled:          enabled,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
	}
}

// ExpiresAt returns the plan-grant expiry for a redemption at now,
// or nil for lifetime plans.
func (p *Plan) ExpiresAt(now time.Time) *time.Time {
	if p.lifetime {
		return nil
	}
	t := now.AddDate(0, 0, p.durationDays)
	return &t
}

func (p *Plan) ID() uuid.UUID            { return p.id }
func (p *Plan) Name() string             { return p.name }
func (p *Plan) PriceCents() int64        { return p.priceCents }
func (p *Plan) StrikePriceCents() *int64 { return p.strikePriceCents }
func (p *Plan) Lifetime() bool           { return p.lifetime }
func (p *Plan) DurationDays() int        { return p.durationDays }
func (p *Plan) Content() ProductContent  { return p.content }
func (p *Plan) Eligibility() Eligibility { return p.eligibility }
func (p *Plan) Enabled() bool            { return p.enabled }
func (p *Plan) CreatedAt() time.Time     { return p.createdAt }
func (p *Plan) UpdatedAt() time.Time     { return p.updatedAt }

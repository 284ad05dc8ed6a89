package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type AuthorizedUserView struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Role     string    `json:"role"`
	IsActive bool      `json:"is_active"`
}

type EntitlementView struct {
	UserID         uuid.UUID      `json:"user_id"`
	Coins          int64          `json:"coins"`
	DiskMb         int64          `json:"disk_mb"`
	MemoryMb       int64          `json:"memory_mb"`
	CpuPercent     int64          `json:"cpu_percent"`
	Backups        int64          `json:"backups"`
	Databases      int64          `json:"databases"`
	Allocations    int64          `json:"allocations"`
	ServerLimit    int64          `json:"server_limit"`
	Plans          []UserPlanView `json:"plans"`
	VersionUpdated time.Time      `json:"updated_at"`
}

type UserPlanView struct {
	ID        uuid.UUID  `json:"id"`
	PlanID    uuid.UUID  `json:"plan_id"`
	PlanName  string     `json:"plan_name"`
	Status    string     `json:"status"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type PlanListItem struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	PriceCents       int64     `json:"price_cents"`
	StrikePriceCents *int64    `json:"strike_price_cents,omitempty"`
	Lifetime         bool      `json:"lifetime"`
	DurationDays     int       `json:"duration_days"`
	Coins            int64     `json:"coins"`
	DiskMb           int64     `json:"disk_mb"`
	MemoryMb         int64     `json:"memory_mb"`
	CpuPercent       int64     `json:"cpu_percent"`
	Backups          int64     `json:"backups"`
	Databases        int64     `json:"databases"`
	Allocations      int64     `json:"allocations"`
	ServerLimit      int64     `json:"server_limit"`
	EggIDs           []int64   `json:"egg_ids,omitempty"`
	LocationIDs      []int64   `json:"location_ids,omitempty"`
}

type PaymentView struct {
	ID              uuid.UUID `json:"id"`
	IdempotencyKey  uuid.UUID `json:"idempotency_key"`
	PlanID          uuid.UUID `json:"plan_id"`
	CouponCode      *string   `json:"coupon_code,omitempty"`
	AmountCents     int64     `json:"amount_cents"`
	Currency        string    `json:"currency"`
	Status          string    `json:"status"`
	ExternalOrderID *string   `json:"external_order_id,omitempty"`
	FailureReason   *string   `json:"failure_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

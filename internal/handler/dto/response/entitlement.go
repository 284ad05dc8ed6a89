package response

import (
	"time"

	"hostpanel/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type EntitlementResponse struct {
	UserID      uuid.UUID          `json:"userId"`
	Coins       int64              `json:"coins"`
	DiskMb      int64              `json:"diskMb"`
	MemoryMb    int64              `json:"memoryMb"`
	CpuPercent  int64              `json:"cpuPercent"`
	Backups     int64              `json:"backups"`
	Databases   int64              `json:"databases"`
	Allocations int64              `json:"allocations"`
	ServerLimit int64              `json:"serverLimit"`
	Plans       []UserPlanResponse `json:"plans"`
}

type UserPlanResponse struct {
	ID        uuid.UUID  `json:"id"`
	PlanID    uuid.UUID  `json:"planId"`
	PlanName  string     `json:"planName"`
	Status    string     `json:"status"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type PlanResponse struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	PriceCents       int64     `json:"priceCents"`
	StrikePriceCents *int64    `json:"strikePriceCents,omitempty"`
	Lifetime         bool      `json:"lifetime"`
	DurationDays     int       `json:"durationDays"`
	Coins            int64     `json:"coins"`
	DiskMb           int64     `json:"diskMb"`
	MemoryMb         int64     `json:"memoryMb"`
	CpuPercent       int64     `json:"cpuPercent"`
	Backups          int64     `json:"backups"`
	Databases        int64     `json:"databases"`
	Allocations      int64     `json:"allocations"`
	ServerLimit      int64     `json:"serverLimit"`
}

func FromEntitlementView(v *queries.EntitlementView) *EntitlementResponse {
	var resp EntitlementResponse
	_ = copier.Copy(&resp, v)
	if resp.Plans == nil {
		resp.Plans = []UserPlanResponse{}
	}
	return &resp
}

func FromPlanListItem(v *queries.PlanListItem) *PlanResponse {
	var resp PlanResponse
	_ = copier.Copy(&resp, v)
	return &resp
}

//go:build unit || e2e

package builder

import (
	"time"

	domcoupon "hostpanel/internal/domain/coupon"
	"hostpanel/internal/usecase/commands"

	"github.com/google/uuid"
)

type CouponBuilder struct {
	ID              uuid.UUID
	Code            string
	AmountOffCents  *int64
	PercentOff      *float64
	UsageLimit      *int32
	UsedCount       int32
	Enabled         bool
	ExpiresAt       *time.Time
	EligiblePlanIDs []uuid.UUID
	Version         int64
}

func NewCouponBuilder() *CouponBuilder {
	amount := int64(200)
	return &CouponBuilder{
		ID:             uuid.New(),
		Code:           "LAUNCH-200",
		AmountOffCents: &amount,
		Enabled:        true,
		Version:        1,
	}
}

func (b *CouponBuilder) With(mutate func(*CouponBuilder)) *CouponBuilder {
	mutate(b)
	return b
}

func (b *CouponBuilder) WithCode(code string) *CouponBuilder {
	b.Code = code
	return b
}

func (b *CouponBuilder) WithFixedDiscount(amountOffCents int64) *CouponBuilder {
	b.AmountOffCents = &amountOffCents
	b.PercentOff = nil
	return b
}

func (b *CouponBuilder) WithPercentDiscount(percent float64) *CouponBuilder {
	b.PercentOff = &percent
	b.AmountOffCents = nil
	return b
}

func (b *CouponBuilder) WithUsageLimit(limit int32) *CouponBuilder {
	b.UsageLimit = &limit
	return b
}

func (b *CouponBuilder) WithUsedCount(count int32) *CouponBuilder {
	b.UsedCount = count
	return b
}

func (b *CouponBuilder) WithEligiblePlans(planIDs ...uuid.UUID) *CouponBuilder {
	b.EligiblePlanIDs = planIDs
	return b
}

func (b *CouponBuilder) AsDisabled() *CouponBuilder {
	b.Enabled = false
	return b
}

func (b *CouponBuilder) AsExpiredAt(t time.Time) *CouponBuilder {
	b.ExpiresAt = &t
	return b
}

func (b *CouponBuilder) BuildDomain() (*domcoupon.Coupon, error) {
	return domcoupon.NewCoupon(
		b.ID, b.Code, b.AmountOffCents, b.PercentOff,
		b.UsageLimit, b.UsedCount, b.Enabled, b.ExpiresAt, b.EligiblePlanIDs,
	)
}

func (b *CouponBuilder) BuildSnapshot() *commands.CouponSnapshot {
	return &commands.CouponSnapshot{
		ID:              b.ID,
		Code:            b.Code,
		AmountOffCents:  b.AmountOffCents,
		PercentOff:      b.PercentOff,
		UsageLimit:      b.UsageLimit,
		UsedCount:       b.UsedCount,
		Enabled:         b.Enabled,
		ExpiresAt:       b.ExpiresAt,
		EligiblePlanIDs: b.EligiblePlanIDs,
		Version:         b.Version,
	}
}

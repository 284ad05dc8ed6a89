package coupon

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCouponExpired   = errors.New("coupon has expired")
	ErrCouponDisabled  = errors.New("coupon is disabled")
	ErrCouponExhausted = errors.New("coupon usage limit reached")
	ErrPlanNotEligible = errors.New("coupon is not valid for this plan")
)

type Coupon struct {
	id              uuid.UUID
	code            Code
	discount        Discount
	usageLimit      *int32
	usedCount       int32
	enabled         bool
	expiresAt       *time.Time
	eligiblePlanIDs []uuid.UUID
	createdAt       time.Time
	updatedAt       time.Time
}

func NewCoupon(
	id uuid.UUID,
	code string,
	amountOffCents *int64,
	percentOff *float64,
	usageLimit *int32,
	usedCount int32,
	enabled bool,
	expiresAt *time.Time,
	eligiblePlanIDs []uuid.UUID,
) (*Coupon, error) {
	couponCode, err := NewCouponCode(code)
	if err != nil {
		return nil, err
	}

	discount, err := NewDiscount(amountOffCents, percentOff)
	if err != nil {
		return nil, err
	}

	return &Coupon{
		id:              id,
		code:            couponCode,
		discount:        discount,
		usageLimit:      usageLimit,
		usedCount:       usedCount,
		enabled:         enabled,
		expiresAt:       expiresAt,
		eligiblePlanIDs: eligiblePlanIDs,
	}, nil
}

func (c *Coupon) IsExpiredAt(t time.Time) bool {
	return c.expiresAt != nil && t.After(*c.expiresAt)
}

// IsExhausted reports whether the usage cap has been reached against this
// snapshot. The authoritative check is the version-guarded increment at
// apply time; this one exists to reject early without a transaction.
func (c *Coupon) IsExhausted() bool {
	return c.usageLimit != nil && c.usedCount >= *c.usageLimit
}

func (c *Coupon) IsEligibleForPlan(planID uuid.UUID) bool {
	if len(c.eligiblePlanIDs) == 0 {
		return true
	}
	for _, id := range c.eligiblePlanIDs {
		if id == planID {
			return true
		}
	}
	return false
}

func (c *Coupon) ApplyDiscount(basePriceCents int64) int64 {
	return c.discount.Apply(basePriceCents)
}

func (c *Coupon) ID() uuid.UUID                 { return c.id }
func (c *Coupon) Code() Code                    { return c.code }
func (c *Coupon) Discount() Discount            { return c.discount }
func (c *Coupon) UsageLimit() *int32            { return c.usageLimit }
func (c *Coupon) UsedCount() int32              { return c.usedCount }
func (c *Coupon) Enabled() bool                 { return c.enabled }
func (c *Coupon) ExpiresAt() *time.Time         { return c.expiresAt }
func (c *Coupon) EligiblePlanIDs() []uuid.UUID  { return c.eligiblePlanIDs }
func (c *Coupon) CreatedAt() time.Time          { return c.createdAt }
func (c *Coupon) UpdatedAt() time.Time          { return c.updatedAt }

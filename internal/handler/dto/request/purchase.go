package request

import (
	"strings"

	"github.com/google/uuid"
)

type BeginPurchaseRequest struct {
	PlanID     uuid.UUID `json:"plan_id" binding:"required"`
	CouponCode *string   `json:"coupon_code,omitempty" binding:"omitempty,promocode"`
}

// GetCouponCode normalizes the optional code to its canonical uppercase
// form; whitespace-only input counts as absent.
func (r BeginPurchaseRequest) GetCouponCode() *string {
	if r.CouponCode == nil {
		return nil
	}
	normalized := strings.ToUpper(strings.TrimSpace(*r.CouponCode))
	if normalized == "" {
		return nil
	}
	return &normalized
}

type CapturePurchaseRequest struct {
	IdempotencyKey uuid.UUID `json:"idempotency_key" binding:"required"`
}

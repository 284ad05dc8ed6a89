package commands

import (
	"time"

	"hostpanel/internal/domain/coupon"
	"hostpanel/internal/domain/giftcode"
	"hostpanel/internal/domain/plan"
)

// Snapshot-to-entity reconstruction used by the orchestrators. Snapshots are
// plain rows; the entities carry the actual validation behavior.

func planFromSnapshot(s *PlanSnapshot) *plan.Plan {
	return plan.ReconstructPlan(
		s.ID,
		s.Name,
		s.PriceCents,
		s.StrikePriceCents,
		s.Lifetime,
		s.DurationDays,
		s.Content,
		plan.Eligibility{EggIDs: s.EggIDs, LocationIDs: s.LocationIDs},
		s.Enabled,
		time.Time{}, time.Time{},
	)
}

func couponFromSnapshot(s *CouponSnapshot) (*coupon.Coupon, error) {
	return coupon.NewCoupon(
		s.ID,
		s.Code,
		s.AmountOffCents,
		s.PercentOff,
		s.UsageLimit,
		s.UsedCount,
		s.Enabled,
		s.ExpiresAt,
		s.EligiblePlanIDs,
	)
}

func giftCodeFromSnapshot(s *GiftCodeSnapshot) *giftcode.GiftCode {
	return giftcode.ReconstructGiftCode(
		s.ID,
		s.Code,
		s.Coins,
		s.MaxRedemptions,
		s.RedeemedCount,
		s.Enabled,
		s.ValidUntil,
		s.Description,
		s.Redemptions,
		time.Time{},
	)
}

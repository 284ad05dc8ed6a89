package redemption

import (
	"time"

	"hostpanel/internal/domain/coupon"
	"hostpanel/internal/domain/giftcode"
	"hostpanel/internal/domain/plan"
	"hostpanel/internal/domain/user"

	"github.com/google/uuid"
)

// The evaluator is pure: it looks at snapshots and the clock, never the
// store. Rules run in order and the first failure wins. The order is held
// in one slice because the upstream panel never documented it as
// load-bearing; callers may substitute their own.

type purchaseRule func(p *plan.Plan, c *coupon.Coupon, now time.Time) *Rejection

var DefaultPurchaseRules = []purchaseRule{
	ruleDisabled,
	ruleExpired,
	ruleExhausted,
	ruleEligible,
}

func ruleDisabled(p *plan.Plan, c *coupon.Coupon, _ time.Time) *Rejection {
	if !p.Enabled() {
		return Reject(ReasonDisabled, "plan is disabled")
	}
	if c != nil && !c.Enabled() {
		return Reject(ReasonDisabled, "coupon is disabled")
	}
	return nil
}

func ruleExpired(_ *plan.Plan, c *coupon.Coupon, now time.Time) *Rejection {
	if c != nil && c.IsExpiredAt(now) {
		return Reject(ReasonExpired, "coupon has expired")
	}
	return nil
}

func ruleExhausted(_ *plan.Plan, c *coupon.Coupon, _ time.Time) *Rejection {
	if c != nil && c.IsExhausted() {
		return Reject(ReasonExhaustedCap, "coupon usage limit reached")
	}
	return nil
}

func ruleEligible(p *plan.Plan, c *coupon.Coupon, _ time.Time) *Rejection {
	if c != nil && !c.IsEligibleForPlan(p.ID()) {
		return Reject(ReasonNotEligible, "coupon is not valid for this plan")
	}
	return nil
}

// EvaluatePurchase validates a plan purchase with an optional coupon and
// computes the resulting effect. A discount exceeding the price clamps the
// payable amount to zero, never rejects.
func EvaluatePurchase(p *plan.Plan, c *coupon.Coupon, now time.Time) (Effect, *Rejection) {
	return evaluatePurchase(p, c, now, DefaultPurchaseRules)
}

func evaluatePurchase(p *plan.Plan, c *coupon.Coupon, now time.Time, rules []purchaseRule) (Effect, *Rejection) {
	for _, rule := range rules {
		if rej := rule(p, c, now); rej != nil {
			return Effect{}, rej
		}
	}

	price := p.PriceCents()
	if c != nil {
		price = c.ApplyDiscount(price)
	}
	if price < 0 {
		price = 0
	}

	content := p.Content()
	resources := content.RecurringResources
	resources.ServerLimit += content.ServerLimit
	resources.Allocations += content.AdditionalAllocations

	return Effect{
		CoinsDelta:      content.Coins,
		Resources:       resources,
		FinalPriceCents: price,
		PlanGrant: &PlanGrant{
			PlanID:    p.ID(),
			ExpiresAt: p.ExpiresAt(now),
		},
	}, nil
}

// EvaluateGift validates a gift-code redemption for one user. Per-user
// uniqueness is decided against the redemption record set in the snapshot;
// the guarded write re-checks it before committing.
func EvaluateGift(g *giftcode.GiftCode, userID uuid.UUID, now time.Time) (Effect, *Rejection) {
	if !g.Enabled() {
		return Effect{}, Reject(ReasonDisabled, "gift code is disabled")
	}
	if g.IsExpiredAt(now) {
		return Effect{}, Reject(ReasonExpired, "gift code has expired")
	}
	if g.IsExhausted() {
		return Effect{}, Reject(ReasonExhaustedCap, "gift code redemption limit reached")
	}
	if g.HasRedeemed(userID) {
		return Effect{}, Reject(ReasonNotEligible, "gift code already redeemed by this user")
	}

	return Effect{
		CoinsDelta: g.Coins(),
		Resources:  user.ResourceLimits{},
	}, nil
}

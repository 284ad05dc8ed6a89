package redemption

import (
	"time"

	"hostpanel/internal/domain/user"

	"github.com/google/uuid"
)

// PlanGrant is the UserPlan row to create when an effect is applied.
// ExpiresAt is nil for lifetime plans.
type PlanGrant struct {
	PlanID    uuid.UUID  `json:"plan_id"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Effect is the single tagged delta every code path applies. It is computed
// once by the evaluator, stored on the payment row at capture time, and
// replayed verbatim for duplicate capture calls.
type Effect struct {
	CoinsDelta      int64               `json:"coins_delta"`
	Resources       user.ResourceLimits `json:"resources"`
	PlanGrant       *PlanGrant          `json:"plan_grant,omitempty"`
	FinalPriceCents int64               `json:"final_price_cents"`
}

func (e Effect) IsZero() bool {
	return e.CoinsDelta == 0 && e.Resources.IsZero() && e.PlanGrant == nil
}

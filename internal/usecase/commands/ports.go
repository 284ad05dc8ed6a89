package commands

import (
	"context"
	"time"

	"hostpanel/internal/domain/giftcode"
	"hostpanel/internal/domain/payment"
	"hostpanel/internal/domain/plan"
	"hostpanel/internal/domain/redemption"
	"hostpanel/internal/domain/user"
	"hostpanel/internal/infra/db"

	"github.com/google/uuid"
)

// Write-side snapshots prevent dependency on read-side query types. Every
// snapshot carries the stored row version used as the optimistic-concurrency
// precondition for the guarded updates below.

type UserSnapshot struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	Coins        int64
	Limits       user.ResourceLimits
	IsActive     bool
	Version      int64
}

type PlanSnapshot struct {
	ID               uuid.UUID
	Name             string
	PriceCents       int64
	StrikePriceCents *int64
	Lifetime         bool
	DurationDays     int
	Content          plan.ProductContent
	EggIDs           []int64
	LocationIDs      []int64
	Enabled          bool
	Version          int64
}

type CouponSnapshot struct {
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

type GiftCodeSnapshot struct {
	ID             uuid.UUID
	Code           string
	Coins          int64
	MaxRedemptions *int32
	RedeemedCount  int32
	Enabled        bool
	ValidUntil     *time.Time
	Description    string
	Redemptions    []giftcode.Redemption
	Version        int64
}

type PaymentSnapshot struct {
	ID              uuid.UUID
	IdempotencyKey  uuid.UUID
	UserID          uuid.UUID
	PlanID          uuid.UUID
	CouponCode      *string
	AmountCents     int64
	Currency        string
	Status          payment.Status
	ExternalOrderID *string
	AppliedEffect   *redemption.Effect
	FailureReason   *string
	Version         int64
}

type UserRepository interface {
	FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*UserSnapshot, error)
	FindByEmail(ctx context.Context, email string) (*UserSnapshot, error)
	// ApplyEffect credits coins and adds resource deltas under a version guard.
	ApplyEffect(ctx context.Context, tx db.DBTX, id uuid.UUID, expectedVersion int64, coinsDelta int64, resources user.ResourceLimits) error
}

type PlanRepository interface {
	FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*PlanSnapshot, error)
}

type CouponRepository interface {
	FindByCode(ctx context.Context, tx db.DBTX, code string) (*CouponSnapshot, error)
	// IncrementUsage bumps used_count under a version guard; the SQL also
	// re-checks the cap so a stale snapshot can never over-redeem.
	IncrementUsage(ctx context.Context, tx db.DBTX, id uuid.UUID, expectedVersion int64) error
}

type GiftCodeRepository interface {
	FindByCode(ctx context.Context, tx db.DBTX, code string) (*GiftCodeSnapshot, error)
	Create(ctx context.Context, g *giftcode.GiftCode) error
	// Redeem bumps redeemed_count and appends the redemption record in one
	// guarded write; the unique (gift_code_id, user_id) index backstops the
	// per-user check.
	Redeem(ctx context.Context, tx db.DBTX, id uuid.UUID, expectedVersion int64, userID uuid.UUID, at time.Time) error
}

type PaymentRepository interface {
	FindByKey(ctx context.Context, tx db.DBTX, idempotencyKey uuid.UUID) (*PaymentSnapshot, error)
	Create(ctx context.Context, p *payment.Payment) error
	AttachExternalOrder(ctx context.Context, id uuid.UUID, expectedVersion int64, externalOrderID string) error
	MarkCaptured(ctx context.Context, tx db.DBTX, id uuid.UUID, expectedVersion int64, effect redemption.Effect) error
	MarkFailed(ctx context.Context, tx db.DBTX, id uuid.UUID, expectedVersion int64, reason string) error
}

type UserPlanRepository interface {
	CreateGrant(ctx context.Context, tx db.DBTX, userID uuid.UUID, grant redemption.PlanGrant, now time.Time) error
}

// TxManager scopes a function to one database transaction. Gateway calls
// must never happen inside fn.
type TxManager interface {
	Within(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error
}

type OrderMetadata struct {
	PaymentID uuid.UUID
	UserID    uuid.UUID
	PlanName  string
}

type CaptureResult struct {
	Success        bool
	AmountCaptured int64
	FailureReason  string
}

// GatewayError is the adapter's normalized provider failure. Retryable
// errors (timeouts, 5xx) are retried by the adapter with jittered backoff;
// terminal ones surface immediately.
type GatewayError struct {
	Retryable bool
	Reason    string
}

func (e *GatewayError) Error() string {
	if e.Retryable {
		return "gateway retryable error: " + e.Reason
	}
	return "gateway terminal error: " + e.Reason
}

type PaymentGateway interface {
	CreateOrder(ctx context.Context, amountCents int64, currency string, meta OrderMetadata) (string, error)
	CaptureOrder(ctx context.Context, externalOrderID string) (CaptureResult, error)
}

// AuditRecorder is best-effort; implementations swallow their own failures.
type AuditRecorder interface {
	Record(ctx context.Context, actor, action, subject, outcome string)
}

// Provisioner nudges the game-server panel after an effect is applied.
// The ledger is the source of truth; provisioning failures are reconciled
// asynchronously and never roll back an applied effect.
type Provisioner interface {
	SyncUser(ctx context.Context, userID uuid.UUID) error
}

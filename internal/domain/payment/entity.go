package payment

import (
	"errors"
	"time"

	"hostpanel/internal/domain/redemption"

	"github.com/google/uuid"
)

var (
	ErrInvalidAmount     = errors.New("payment amount cannot be negative")
	ErrInvalidTransition = errors.New("invalid payment status transition")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusCaptured  Status = "captured"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusCaptured, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Terminal statuses never transition again; only pending moves on.
func (s Status) IsTerminal() bool {
	return s != StatusPending
}

func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusPending && next.IsTerminal()
}

// Payment is one redemption attempt, keyed by its idempotency key. Created
// in pending before any external call; the applied effect is recorded on
// capture so replays can return it without recomputation.
type Payment struct {
	id              uuid.UUID
	idempotencyKey  uuid.UUID
	userID          uuid.UUID
	planID          uuid.UUID
	couponCode      *string
	amountCents     int64
	currency        string
	status          Status
	externalOrderID *string
	appliedEffect   *redemption.Effect
	failureReason   *string
	createdAt       time.Time
	updatedAt       time.Time
}

func NewPayment(
	idempotencyKey uuid.UUID,
	userID uuid.UUID,
	planID uuid.UUID,
	couponCode *string,
	amountCents int64,
	currency string,
) (*Payment, error) {
	if amountCents < 0 {
		return nil, ErrInvalidAmount
	}
	return &Payment{
		id:             uuid.New(),
		idempotencyKey: idempotencyKey,
		userID:         userID,
		planID:         planID,
		couponCode:     couponCode,
		amountCents:    amountCents,
		currency:       currency,
		status:         StatusPending,
	}, nil
}

func ReconstructPayment(
	id, idempotencyKey, userID, planID uuid.UUID,
	couponCode *string,
	amountCents int64,
	currency string,
	status Status,
	externalOrderID *string,
	appliedEffect *redemption.Effect,
	failureReason *string,
	createdAt, updatedAt time.Time,
) *Payment {
	return &Payment{
		id:              id,
		idempotencyKey:  idempotencyKey,
		userID:          userID,
		planID:          planID,
		couponCode:      couponCode,
		amountCents:     amountCents,
		currency:        currency,
		status:          status,
		externalOrderID: externalOrderID,
		appliedEffect:   appliedEffect,
		failureReason:   failureReason,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

func (p *Payment) AttachExternalOrder(orderID string) {
	p.externalOrderID = &orderID
}

func (p *Payment) MarkCaptured(effect redemption.Effect) error {
	if !p.status.CanTransitionTo(StatusCaptured) {
		return ErrInvalidTransition
	}
	p.status = StatusCaptured
	p.appliedEffect = &effect
	return nil
}

func (p *Payment) MarkFailed(reason string) error {
	if !p.status.CanTransitionTo(StatusFailed) {
		return ErrInvalidTransition
	}
	p.status = StatusFailed
	p.failureReason = &reason
	return nil
}

func (p *Payment) MarkCancelled() error {
	if !p.status.CanTransitionTo(StatusCancelled) {
		return ErrInvalidTransition
	}
	p.status = StatusCancelled
	return nil
}

func (p *Payment) IsZeroAmount() bool {
	return p.amountCents == 0
}

func (p *Payment) ID() uuid.UUID                      { return p.id }
func (p *Payment) IdempotencyKey() uuid.UUID          { return p.idempotencyKey }
func (p *Payment) UserID() uuid.UUID                  { return p.userID }
func (p *Payment) PlanID() uuid.UUID                  { return p.planID }
func (p *Payment) CouponCode() *string                { return p.couponCode }
func (p *Payment) AmountCents() int64                 { return p.amountCents }
func (p *Payment) Currency() string                   { return p.currency }
func (p *Payment) Status() Status                     { return p.status }
func (p *Payment) ExternalOrderID() *string           { return p.externalOrderID }
func (p *Payment) AppliedEffect() *redemption.Effect  { return p.appliedEffect }
func (p *Payment) FailureReason() *string             { return p.failureReason }
func (p *Payment) CreatedAt() time.Time               { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time               { return p.updatedAt }

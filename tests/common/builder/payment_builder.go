//go:build unit || e2e

package builder

import (
	"time"

	"hostpanel/internal/domain/payment"
	"hostpanel/internal/domain/redemption"
	reqdto "hostpanel/internal/handler/dto/request"
	"hostpanel/internal/usecase/commands"
	"hostpanel/internal/usecase/queries"

	"github.com/google/uuid"
)

type PaymentBuilder struct {
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

func NewPaymentBuilder() *PaymentBuilder {
	return &PaymentBuilder{
		ID:             uuid.New(),
		IdempotencyKey: uuid.New(),
		UserID:         uuid.New(),
		PlanID:         uuid.New(),
		AmountCents:    999,
		Currency:       "USD",
		Status:         payment.StatusPending,
		Version:        1,
	}
}

func (b *PaymentBuilder) With(mutate func(*PaymentBuilder)) *PaymentBuilder {
	mutate(b)
	return b
}

func (b *PaymentBuilder) WithPlanID(planID uuid.UUID) *PaymentBuilder {
	b.PlanID = planID
	return b
}

func (b *PaymentBuilder) WithIdempotencyKey(key uuid.UUID) *PaymentBuilder {
	b.IdempotencyKey = key
	return b
}

func (b *PaymentBuilder) WithUserID(userID uuid.UUID) *PaymentBuilder {
	b.UserID = userID
	return b
}

func (b *PaymentBuilder) WithAmountCents(amount int64) *PaymentBuilder {
	b.AmountCents = amount
	return b
}

func (b *PaymentBuilder) WithExternalOrderID(orderID string) *PaymentBuilder {
	b.ExternalOrderID = &orderID
	return b
}

func (b *PaymentBuilder) AsCaptured(effect redemption.Effect) *PaymentBuilder {
	b.Status = payment.StatusCaptured
	b.AppliedEffect = &effect
	return b
}

func (b *PaymentBuilder) AsFailed(reason string) *PaymentBuilder {
	b.Status = payment.StatusFailed
	b.FailureReason = &reason
	return b
}

func (b *PaymentBuilder) BuildSnapshot() *commands.PaymentSnapshot {
	return &commands.PaymentSnapshot{
		ID:              b.ID,
		IdempotencyKey:  b.IdempotencyKey,
		UserID:          b.UserID,
		PlanID:          b.PlanID,
		CouponCode:      b.CouponCode,
		AmountCents:     b.AmountCents,
		Currency:        b.Currency,
		Status:          b.Status,
		ExternalOrderID: b.ExternalOrderID,
		AppliedEffect:   b.AppliedEffect,
		FailureReason:   b.FailureReason,
		Version:         b.Version,
	}
}

func (b *PaymentBuilder) BuildView() *queries.PaymentView {
	now := time.Now()
	return &queries.PaymentView{
		ID:              b.ID,
		IdempotencyKey:  b.IdempotencyKey,
		PlanID:          b.PlanID,
		CouponCode:      b.CouponCode,
		AmountCents:     b.AmountCents,
		Currency:        b.Currency,
		Status:          string(b.Status),
		ExternalOrderID: b.ExternalOrderID,
		FailureReason:   b.FailureReason,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (b *PaymentBuilder) BuildBeginRequestDTO() reqdto.BeginPurchaseRequest {
	return reqdto.BeginPurchaseRequest{
		PlanID:     b.PlanID,
		CouponCode: b.CouponCode,
	}
}

func (b *PaymentBuilder) BuildCaptureRequestDTO() reqdto.CapturePurchaseRequest {
	return reqdto.CapturePurchaseRequest{
		IdempotencyKey: b.IdempotencyKey,
	}
}

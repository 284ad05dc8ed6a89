package response

import (
	"hostpanel/internal/domain/redemption"
	"hostpanel/internal/usecase/commands"

	"github.com/google/uuid"
)

type BeginPurchaseResponse struct {
	IdempotencyKey  uuid.UUID        `json:"idempotencyKey"`
	PaymentID       uuid.UUID        `json:"paymentId"`
	AmountCents     int64            `json:"amountCents"`
	Currency        string           `json:"currency"`
	Status          string           `json:"status"`
	ExternalOrderID *string          `json:"externalOrderId,omitempty"`
	Rejection       *RejectionDetail `json:"rejection,omitempty"`
	Replayed        bool             `json:"replayed"`
}

type CapturePurchaseResponse struct {
	Status        string           `json:"status"`
	Effect        *EffectDetail    `json:"effect,omitempty"`
	FailureReason *string          `json:"failureReason,omitempty"`
	Rejection     *RejectionDetail `json:"rejection,omitempty"`
	Replayed      bool             `json:"replayed"`
}

type RejectionDetail struct {
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type EffectDetail struct {
	CoinsDelta      int64      `json:"coinsDelta"`
	DiskMb          int64      `json:"diskMb"`
	MemoryMb        int64      `json:"memoryMb"`
	CpuPercent      int64      `json:"cpuPercent"`
	Backups         int64      `json:"backups"`
	Databases       int64      `json:"databases"`
	Allocations     int64      `json:"allocations"`
	ServerLimit     int64      `json:"serverLimit"`
	PlanID          *uuid.UUID `json:"planId,omitempty"`
	FinalPriceCents int64      `json:"finalPriceCents"`
}

func FromBeginPurchaseResult(r *commands.BeginPurchaseResult) *BeginPurchaseResponse {
	return &BeginPurchaseResponse{
		IdempotencyKey:  r.IdempotencyKey,
		PaymentID:       r.PaymentID,
		AmountCents:     r.AmountCents,
		Currency:        r.Currency,
		Status:          string(r.Status),
		ExternalOrderID: r.ExternalOrderID,
		Rejection:       fromRejection(r.Rejection),
		Replayed:        r.IsReplayed,
	}
}

func FromCapturePurchaseResult(r *commands.CapturePurchaseResult) *CapturePurchaseResponse {
	return &CapturePurchaseResponse{
		Status:        string(r.Status),
		Effect:        fromEffect(r.Effect),
		FailureReason: r.FailureReason,
		Rejection:     fromRejection(r.Rejection),
		Replayed:      r.IsReplayed,
	}
}

func fromRejection(rej *redemption.Rejection) *RejectionDetail {
	if rej == nil {
		return nil
	}
	return &RejectionDetail{
		Reason:  string(rej.Reason),
		Message: rej.Message,
	}
}

func fromEffect(e *redemption.Effect) *EffectDetail {
	if e == nil {
		return nil
	}
	detail := &EffectDetail{
		CoinsDelta:      e.CoinsDelta,
		DiskMb:          e.Resources.DiskMb,
		MemoryMb:        e.Resources.MemoryMb,
		CpuPercent:      e.Resources.CpuPercent,
		Backups:         e.Resources.Backups,
		Databases:       e.Resources.Databases,
		Allocations:     e.Resources.Allocations,
		ServerLimit:     e.Resources.ServerLimit,
		FinalPriceCents: e.FinalPriceCents,
	}
	if e.PlanGrant != nil {
		id := e.PlanGrant.PlanID
		detail.PlanID = &id
	}
	return detail
}

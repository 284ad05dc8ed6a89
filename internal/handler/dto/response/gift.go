package response

import (
	"hostpanel/internal/usecase/commands"

	"github.com/google/uuid"
)

type RedeemGiftResponse struct {
	Status       string           `json:"status"`
	CoinsGranted int64            `json:"coinsGranted"`
	Rejection    *RejectionDetail `json:"rejection,omitempty"`
}

type CreateGiftResponse struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
}

func FromRedeemGiftResult(r *commands.RedeemGiftResult) *RedeemGiftResponse {
	resp := &RedeemGiftResponse{
		CoinsGranted: r.CoinsGranted,
		Rejection:    fromRejection(r.Rejection),
	}
	if r.Rejection != nil {
		resp.Status = "rejected"
	} else {
		resp.Status = "applied"
	}
	return resp
}

func FromCreateGiftResult(r *commands.CreateGiftResult) *CreateGiftResponse {
	return &CreateGiftResponse{ID: r.ID, Code: r.Code}
}

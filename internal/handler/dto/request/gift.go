package request

import (
	"strings"
)

type RedeemGiftRequest struct {
	Code string `json:"code" binding:"required,promocode"`
}

func (r RedeemGiftRequest) NormalizedCode() string {
	return strings.ToUpper(strings.TrimSpace(r.Code))
}

type CreateGiftRequest struct {
	Coins          int64   `json:"coins" binding:"required,gt=0"`
	MaxRedemptions *int32  `json:"max_redemptions,omitempty" binding:"omitempty,gt=0"`
	ExpiresInDays  *int    `json:"expires_in_days,omitempty" binding:"omitempty,gt=0"`
	Description    *string `json:"description,omitempty" binding:"omitempty,max=200"`
}

func (r CreateGiftRequest) GetDescription() string {
	if r.Description == nil {
		return ""
	}
	return strings.TrimSpace(*r.Description)
}

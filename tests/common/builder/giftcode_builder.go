//go:build unit || e2e

package builder

import (
	"time"

	domgift "hostpanel/internal/domain/giftcode"
	reqdto "hostpanel/internal/handler/dto/request"
	"hostpanel/internal/usecase/commands"

	"github.com/google/uuid"
)

type GiftCodeBuilder struct {
	ID             uuid.UUID
	Code           string
	Coins          int64
	MaxRedemptions *int32
	RedeemedCount  int32
	Enabled        bool
	ValidUntil     *time.Time
	Description    string
	Redemptions    []domgift.Redemption
	Version        int64
}

func NewGiftCodeBuilder() *GiftCodeBuilder {
	return &GiftCodeBuilder{
		ID:      uuid.New(),
		Code:    "GIFT-WELCOME-2024",
		Coins:   250,
		Enabled: true,
		Version: 1,
	}
}

func (b *GiftCodeBuilder) With(mutate func(*GiftCodeBuilder)) *GiftCodeBuilder {
	mutate(b)
	return b
}

func (b *GiftCodeBuilder) WithCode(code string) *GiftCodeBuilder {
	b.Code = code
	return b
}

func (b *GiftCodeBuilder) WithCoins(coins int64) *GiftCodeBuilder {
	b.Coins = coins
	return b
}

func (b *GiftCodeBuilder) WithMaxRedemptions(limit int32) *GiftCodeBuilder {
	b.MaxRedemptions = &limit
	return b
}

func (b *GiftCodeBuilder) WithRedeemedBy(userID uuid.UUID, at time.Time) *GiftCodeBuilder {
	b.Redemptions = append(b.Redemptions, domgift.Redemption{UserID: userID, RedeemedAt: at})
	b.RedeemedCount++
	return b
}

func (b *GiftCodeBuilder) AsDisabled() *GiftCodeBuilder {
	b.Enabled = false
	return b
}

func (b *GiftCodeBuilder) AsExpiredAt(t time.Time) *GiftCodeBuilder {
	b.ValidUntil = &t
	return b
}

func (b *GiftCodeBuilder) BuildDomain() *domgift.GiftCode {
	return domgift.ReconstructGiftCode(
		b.ID, b.Code, b.Coins, b.MaxRedemptions, b.RedeemedCount,
		b.Enabled, b.ValidUntil, b.Description, b.Redemptions, time.Time{},
	)
}

func (b *GiftCodeBuilder) BuildSnapshot() *commands.GiftCodeSnapshot {
	return &commands.GiftCodeSnapshot{
		ID:             b.ID,
		Code:           b.Code,
		Coins:          b.Coins,
		MaxRedemptions: b.MaxRedemptions,
		RedeemedCount:  b.RedeemedCount,
		Enabled:        b.Enabled,
		ValidUntil:     b.ValidUntil,
		Description:    b.Description,
		Redemptions:    b.Redemptions,
		Version:        b.Version,
	}
}

func (b *GiftCodeBuilder) BuildRedeemRequestDTO() reqdto.RedeemGiftRequest {
	return reqdto.RedeemGiftRequest{Code: b.Code}
}

func (b *GiftCodeBuilder) BuildCreateRequestDTO() reqdto.CreateGiftRequest {
	return reqdto.CreateGiftRequest{
		Coins:          b.Coins,
		MaxRedemptions: b.MaxRedemptions,
	}
}

package giftcode

import (
	"crypto/rand"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidGiftCode    = errors.New("invalid gift code format")
	ErrInvalidCoinReward  = errors.New("coin reward must be positive")
	ErrInvalidRedemptions = errors.New("max redemptions must be positive")
	ErrAlreadyRedeemed    = errors.New("gift code already redeemed by this user")
	ErrCodeDisabled       = errors.New("gift code is disabled")
	ErrCodeExpired        = errors.New("gift code has expired")
	ErrCodeExhausted      = errors.New("gift code redemption limit reached")
)

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Redemption is one user's claim on a gift code. Per-user uniqueness is
// checked against this set, not a separate flag.
type Redemption struct {
	UserID     uuid.UUID
	RedeemedAt time.Time
}

type GiftCode struct {
	id             uuid.UUID
	code           string
	coins          int64
	maxRedemptions *int32
	redeemedCount  int32
	enabled        bool
	validUntil     *time.Time
	description    string
	redemptions    []Redemption
	createdAt      time.Time
}

// NewGiftCode mints a fresh code. Issuance is a single-writer path; the
// generated code is unique with overwhelming probability and the store's
// unique index backstops collisions.
func NewGiftCode(coins int64, maxRedemptions *int32, validUntil *time.Time, description string) (*GiftCode, error) {
	if coins <= 0 {
		return nil, ErrInvalidCoinReward
	}
	if maxRedemptions != nil && *maxRedemptions <= 0 {
		return nil, ErrInvalidRedemptions
	}

	code, err := generateCode()
	if err != nil {
		return nil, err
	}

	return &GiftCode{
		id:             uuid.New(),
		code:           code,
		coins:          coins,
		maxRedemptions: maxRedemptions,
		enabled:        true,
		validUntil:     validUntil,
		description:    description,
	}, nil
}

func ReconstructGiftCode(
	id uuid.UUID,
	code string,
	coins int64,
	maxRedemptions *int32,
	redeemedCount int32,
	enabled bool,
	validUntil *time.Time,
	description string,
	redemptions []Redemption,
	createdAt time.Time,
) *GiftCode {
	return &GiftCode{
		id:             id,
		code:           code,
		coins:          coins,
		maxRedemptions: maxRedemptions,
		redeemedCount:  redeemedCount,
		enabled:        enabled,
		validUntil:     validUntil,
		description:    description,
		redemptions:    redemptions,
		createdAt:      createdAt,
	}
}

func (g *GiftCode) IsExpiredAt(t time.Time) bool {
	return g.validUntil != nil && t.After(*g.validUntil)
}

func (g *GiftCode) IsExhausted() bool {
	return g.maxRedemptions != nil && g.redeemedCount >= *g.maxRedemptions
}

func (g *GiftCode) HasRedeemed(userID uuid.UUID) bool {
	for _, r := range g.redemptions {
		if r.UserID == userID {
			return true
		}
	}
	return false
}

func (g *GiftCode) ID() uuid.UUID             { return g.id }
func (g *GiftCode) Code() string              { return g.code }
func (g *GiftCode) Coins() int64              { return g.coins }
func (g *GiftCode) MaxRedemptions() *int32    { return g.maxRedemptions }
func (g *GiftCode) RedeemedCount() int32      { return g.redeemedCount }
func (g *GiftCode) Enabled() bool             { return g.enabled }
func (g *GiftCode) ValidUntil() *time.Time    { return g.validUntil }
func (g *GiftCode) Description() string       { return g.description }
func (g *GiftCode) Redemptions() []Redemption { return g.redemptions }
func (g *GiftCode) CreatedAt() time.Time      { return g.createdAt }

func NormalizeCode(code string) (string, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if len(code) < 8 || len(code) > 40 {
		return "", ErrInvalidGiftCode
	}
	return code, nil
}

func generateCode() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString("GIFT-")
	for i, b := range buf {
		if i > 0 && i%4 == 0 {
			sb.WriteByte('-')
		}
		sb.WriteByte(codeAlphabet[int(b)%len(codeAlphabet)])
	}
	return sb.String(), nil
}

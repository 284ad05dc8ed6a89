package coupon

import (
	"errors"
	"math"
	"regexp"
	"strings"
)

var (
	ErrInvalidCouponCode      = errors.New("invalid coupon code format")
	ErrInvalidDiscountAmount  = errors.New("discount amount cannot be negative")
	ErrInvalidDiscountPercent = errors.New("percentage discount must be between 0 and 100")
)

var couponCodeRegex = regexp.MustCompile(`^[A-Z0-9\-]{3,32}$`)

type Code string

func NewCouponCode(code string) (Code, error) {
	code = strings.TrimSpace(strings.ToUpper(code))
	if !couponCodeRegex.MatchString(code) {
		return Code(""), ErrInvalidCouponCode
	}
	return Code(code), nil
}

func (c Code) String() string {
	return string(c)
}

type Discount struct {
	amountOffCents *int64
	percentOff     *float64
}

func NewFixedDiscount(amountOffCents int64) (Discount, error) {
	if amountOffCents < 0 {
		return Discount{}, ErrInvalidDiscountAmount
	}
	return Discount{amountOffCents: &amountOffCents}, nil
}

func NewPercentageDiscount(percentOff float64) (Discount, error) {
	if math.IsNaN(percentOff) || percentOff < 0 || percentOff > 100 {
		return Discount{}, ErrInvalidDiscountPercent
	}
	return Discount{percentOff: &percentOff}, nil
}

func NewDiscount(amountOffCents *int64, percentOff *float64) (Discount, error) {
	if amountOffCents != nil && percentOff != nil {
		return Discount{}, errors.New("discount can only be either fixed amount or percentage, not both")
	}

	if amountOffCents == nil && percentOff == nil {
		return Discount{}, errors.New("discount must have either fixed amount or percentage")
	}

	if amountOffCents != nil {
		return NewFixedDiscount(*amountOffCents)
	}

	return NewPercentageDiscount(*percentOff)
}

func (d Discount) IsPercentage() bool {
	return d.percentOff != nil
}

func (d Discount) IsFixed() bool {
	return d.amountOffCents != nil
}

func (d Discount) AmountOffCents() int64 {
	if d.amountOffCents != nil {
		return *d.amountOffCents
	}
	return 0
}

func (d Discount) PercentOff() float64 {
	if d.percentOff != nil {
		return *d.percentOff
	}
	return 0
}

// Apply discounts a price in minor units. Fixed discounts floor at zero;
// percentage discounts round half-up to the cent. The result is never
// negative and never NaN.
func (d Discount) Apply(basePriceCents int64) int64 {
	if basePriceCents <= 0 {
		return 0
	}

	var result int64
	if d.IsPercentage() {
		discounted := float64(basePriceCents) * (1 - d.PercentOff()/100.0)
		if math.IsNaN(discounted) {
			return 0
		}
		result = int64(math.Floor(discounted + 0.5))
	} else {
		result = basePriceCents - d.AmountOffCents()
	}

	if result < 0 {
		return 0
	}
	return result
}

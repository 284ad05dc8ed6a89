//go:build unit

package coupon_test

import (
	"testing"
	"time"

	"hostpanel/internal/domain/coupon"
	"hostpanel/tests/common/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCouponCode(t *testing.T) {
	t.Run("normalizes to uppercase and trims whitespace", func(t *testing.T) {
		code, err := coupon.NewCouponCode("  launch-200  ")
		require.NoError(t, err)
		assert.Equal(t, "LAUNCH-200", code.String())
	})

	t.Run("format validation", func(t *testing.T) {
		cases := []struct {
			name  string
			input string
			valid bool
		}{
			{name: "minimum length", input: "ABC", valid: true},
			{name: "with digits and hyphens", input: "SAVE-10-NOW", valid: true},
			{name: "too short", input: "AB", valid: false},
			{name: "too long", input: "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", valid: false},
			{name: "invalid characters", input: "SAVE_10", valid: false},
			{name: "empty", input: "", valid: false},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				_, err := coupon.NewCouponCode(c.input)
				if c.valid {
					assert.NoError(t, err)
				} else {
					assert.ErrorIs(t, err, coupon.ErrInvalidCouponCode)
				}
			})
		}
	})
}

func TestDiscountValidation(t *testing.T) {
	t.Run("negative fixed amount", func(t *testing.T) {
		_, err := coupon.NewFixedDiscount(-1)
		assert.ErrorIs(t, err, coupon.ErrInvalidDiscountAmount)
	})

	t.Run("percentage out of range", func(t *testing.T) {
		for _, pct := range []float64{-0.1, 100.1} {
			_, err := coupon.NewPercentageDiscount(pct)
			assert.ErrorIs(t, err, coupon.ErrInvalidDiscountPercent)
		}
	})

	t.Run("NaN percentage", func(t *testing.T) {
		nan := 0.0
		nan /= nan
		_, err := coupon.NewPercentageDiscount(nan)
		assert.ErrorIs(t, err, coupon.ErrInvalidDiscountPercent)
	})

	t.Run("both kinds set", func(t *testing.T) {
		amount := int64(100)
		pct := 10.0
		_, err := coupon.NewDiscount(&amount, &pct)
		assert.Error(t, err)
	})

	t.Run("neither kind set", func(t *testing.T) {
		_, err := coupon.NewDiscount(nil, nil)
		assert.Error(t, err)
	})
}

func TestDiscountApply(t *testing.T) {
	t.Run("fixed discounts floor at zero", func(t *testing.T) {
		cases := []struct {
			name     string
			off      int64
			base     int64
			expected int64
		}{
			{name: "partial discount", off: 200, base: 999, expected: 799},
			{name: "exact discount", off: 999, base: 999, expected: 0},
			{name: "discount exceeds price", off: 2000, base: 999, expected: 0},
			{name: "free base price", off: 200, base: 0, expected: 0},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				d, err := coupon.NewFixedDiscount(c.off)
				require.NoError(t, err)
				assert.Equal(t, c.expected, d.Apply(c.base))
			})
		}
	})

	t.Run("percentage discounts round half up", func(t *testing.T) {
		cases := []struct {
			name     string
			pct      float64
			base     int64
			expected int64
		}{
			{name: "rounds down below half a cent", pct: 10, base: 999, expected: 899},
			{name: "rounds up at exactly half a cent", pct: 50, base: 999, expected: 500},
			{name: "full discount", pct: 100, base: 999, expected: 0},
			{name: "no discount", pct: 0, base: 999, expected: 999},
			{name: "free base price", pct: 25, base: 0, expected: 0},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				d, err := coupon.NewPercentageDiscount(c.pct)
				require.NoError(t, err)
				assert.Equal(t, c.expected, d.Apply(c.base))
			})
		}
	})
}

func TestCoupon(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("expiry is exclusive of the deadline itself", func(t *testing.T) {
		c, err := builder.NewCouponBuilder().AsExpiredAt(now).BuildDomain()
		require.NoError(t, err)

		assert.False(t, c.IsExpiredAt(now))
		assert.True(t, c.IsExpiredAt(now.Add(time.Second)))
	})

	t.Run("no expiry means never expired", func(t *testing.T) {
		c, err := builder.NewCouponBuilder().BuildDomain()
		require.NoError(t, err)
		assert.False(t, c.IsExpiredAt(now.AddDate(10, 0, 0)))
	})

	t.Run("usage cap", func(t *testing.T) {
		c, err := builder.NewCouponBuilder().WithUsageLimit(5).WithUsedCount(4).BuildDomain()
		require.NoError(t, err)
		assert.False(t, c.IsExhausted())

		c, err = builder.NewCouponBuilder().WithUsageLimit(5).WithUsedCount(5).BuildDomain()
		require.NoError(t, err)
		assert.True(t, c.IsExhausted())
	})

	t.Run("unlimited usage when no cap", func(t *testing.T) {
		c, err := builder.NewCouponBuilder().WithUsedCount(1000000).BuildDomain()
		require.NoError(t, err)
		assert.False(t, c.IsExhausted())
	})

	t.Run("plan eligibility", func(t *testing.T) {
		planID := uuid.New()
		otherID := uuid.New()

		c, err := builder.NewCouponBuilder().WithEligiblePlans(planID).BuildDomain()
		require.NoError(t, err)
		assert.True(t, c.IsEligibleForPlan(planID))
		assert.False(t, c.IsEligibleForPlan(otherID))

		unrestricted, err := builder.NewCouponBuilder().BuildDomain()
		require.NoError(t, err)
		assert.True(t, unrestricted.IsEligibleForPlan(otherID))
	})
}

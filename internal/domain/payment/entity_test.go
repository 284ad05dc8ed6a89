//go:build unit

package payment_test

import (
	"testing"

	"hostpanel/internal/domain/payment"
	"hostpanel/internal/domain/redemption"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPendingPayment(t *testing.T) *payment.Payment {
	t.Helper()
	p, err := payment.NewPayment(uuid.New(), uuid.New(), uuid.New(), nil, 999, "USD")
	require.NoError(t, err)
	return p
}

func TestNewPayment(t *testing.T) {
	t.Run("starts pending", func(t *testing.T) {
		p := newPendingPayment(t)
		assert.Equal(t, payment.StatusPending, p.Status())
		assert.Nil(t, p.AppliedEffect())
		assert.Nil(t, p.FailureReason())
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		_, err := payment.NewPayment(uuid.New(), uuid.New(), uuid.New(), nil, -1, "USD")
		assert.ErrorIs(t, err, payment.ErrInvalidAmount)
	})

	t.Run("zero amount is a valid fully discounted purchase", func(t *testing.T) {
		p, err := payment.NewPayment(uuid.New(), uuid.New(), uuid.New(), nil, 0, "USD")
		require.NoError(t, err)
		assert.True(t, p.IsZeroAmount())
	})
}

func TestStatusTransitions(t *testing.T) {
	effect := redemption.Effect{CoinsDelta: 50, FinalPriceCents: 999}

	t.Run("pending to captured records the effect", func(t *testing.T) {
		p := newPendingPayment(t)
		require.NoError(t, p.MarkCaptured(effect))

		assert.Equal(t, payment.StatusCaptured, p.Status())
		require.NotNil(t, p.AppliedEffect())
		assert.Equal(t, effect, *p.AppliedEffect())
	})

	t.Run("pending to failed records the reason", func(t *testing.T) {
		p := newPendingPayment(t)
		require.NoError(t, p.MarkFailed("ExhaustedCap: coupon usage limit reached"))

		assert.Equal(t, payment.StatusFailed, p.Status())
		require.NotNil(t, p.FailureReason())
	})

	t.Run("terminal states never transition again", func(t *testing.T) {
		captured := newPendingPayment(t)
		require.NoError(t, captured.MarkCaptured(effect))
		assert.ErrorIs(t, captured.MarkFailed("late"), payment.ErrInvalidTransition)
		assert.ErrorIs(t, captured.MarkCancelled(), payment.ErrInvalidTransition)
		assert.ErrorIs(t, captured.MarkCaptured(effect), payment.ErrInvalidTransition)

		failed := newPendingPayment(t)
		require.NoError(t, failed.MarkFailed("declined"))
		assert.ErrorIs(t, failed.MarkCaptured(effect), payment.ErrInvalidTransition)
	})

	t.Run("status predicates", func(t *testing.T) {
		assert.False(t, payment.StatusPending.IsTerminal())
		assert.True(t, payment.StatusCaptured.IsTerminal())
		assert.True(t, payment.StatusFailed.IsTerminal())
		assert.True(t, payment.StatusCancelled.IsTerminal())

		assert.True(t, payment.StatusPending.CanTransitionTo(payment.StatusCaptured))
		assert.False(t, payment.StatusCaptured.CanTransitionTo(payment.StatusFailed))
		assert.False(t, payment.StatusPending.CanTransitionTo(payment.StatusPending))
	})
}

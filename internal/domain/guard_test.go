package domain_test

import (
	"testing"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRefundOrCapture(t *testing.T) {
	prior := newAttempt(t, domain.TypePurchase)
	require.NoError(t, prior.Apply(domain.PaymentOutcome{PaymentID: "pay_abc", Status: domain.IntentSucceeded}))

	t.Run("accepts full amount", func(t *testing.T) {
		assert.NoError(t, domain.ValidateRefundOrCapture(prior, decimal.RequireFromString("10.00")))
	})

	t.Run("accepts partial amount", func(t *testing.T) {
		assert.NoError(t, domain.ValidateRefundOrCapture(prior, decimal.RequireFromString("2.50")))
	})

	t.Run("rejects amount above original", func(t *testing.T) {
		err := domain.ValidateRefundOrCapture(prior, decimal.RequireFromString("11.00"))

		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeAmountExceedsOriginal))
		assert.Contains(t, err.Error(), "more than the transaction amount")
	})

	t.Run("rejects zero", func(t *testing.T) {
		err := domain.ValidateRefundOrCapture(prior, decimal.Zero)

		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeZeroAmount))
	})

	t.Run("rejects amount that rounds to zero minor units", func(t *testing.T) {
		err := domain.ValidateRefundOrCapture(prior, decimal.RequireFromString("0.004"))

		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeZeroAmount))
	})

	t.Run("accepts amount that rounds up to one minor unit", func(t *testing.T) {
		assert.NoError(t, domain.ValidateRefundOrCapture(prior, decimal.RequireFromString("0.005")))
	})

	t.Run("rejects amount that rounds above original", func(t *testing.T) {
		err := domain.ValidateRefundOrCapture(prior, decimal.RequireFromString("10.005"))

		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeAmountExceedsOriginal))
	})

	t.Run("accepts amount that rounds to original", func(t *testing.T) {
		assert.NoError(t, domain.ValidateRefundOrCapture(prior, decimal.RequireFromString("10.004")))
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		err := domain.ValidateRefundOrCapture(prior, decimal.RequireFromString("-1.00"))

		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidAmount))
	})

	t.Run("rejects missing prior", func(t *testing.T) {
		err := domain.ValidateRefundOrCapture(nil, decimal.NewFromInt(1))

		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeNoPriorTransaction))
	})

	t.Run("rejects prior that did not succeed", func(t *testing.T) {
		pending := newAttempt(t, domain.TypeAuthorize)
		require.NoError(t, pending.MarkPending("pay_x", "timeout"))

		err := domain.ValidateRefundOrCapture(pending, decimal.NewFromInt(1))

		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeNoPriorTransaction))
	})
}

func TestValidateRefundBalance(t *testing.T) {
	prior := newAttempt(t, domain.TypePurchase)
	require.NoError(t, prior.Apply(domain.PaymentOutcome{PaymentID: "pay_abc", Status: domain.IntentSucceeded}))

	assert.NoError(t, domain.ValidateRefundBalance(prior, decimal.RequireFromString("6.00"), decimal.RequireFromString("4.00")))
	assert.NoError(t, domain.ValidateRefundBalance(prior, decimal.Zero, decimal.RequireFromString("10.00")))

	err := domain.ValidateRefundBalance(prior, decimal.RequireFromString("6.00"), decimal.RequireFromString("4.01"))
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeAmountExceedsOriginal))
}

func TestValidateCurrency(t *testing.T) {
	prior := newAttempt(t, domain.TypeAuthorize)

	assert.NoError(t, domain.ValidateCurrency(prior, ""))
	assert.NoError(t, domain.ValidateCurrency(prior, "usd"))

	err := domain.ValidateCurrency(prior, "EUR")
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeCurrencyMismatch))
}

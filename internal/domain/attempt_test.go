package domain_test

import (
	"testing"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAttempt(t *testing.T, txType domain.TransactionType) *domain.TransactionAttempt {
	t.Helper()
	a, err := domain.NewTransactionAttempt(domain.NewAttemptParams{
		TenantID:        "tenant-1",
		AccountID:       "acct-1",
		KbPaymentID:     "pay-1",
		KbTransactionID: "txn-1",
		Type:            txType,
		Amount:          decimal.RequireFromString("10.00"),
		Currency:        "usd",
	})
	require.NoError(t, err)
	return a
}

func TestNewTransactionAttempt(t *testing.T) {
	t.Run("creates attempt in initiated state", func(t *testing.T) {
		a := newAttempt(t, domain.TypeAuthorize)

		assert.Equal(t, domain.StatusInitiated, a.Status)
		assert.Equal(t, "USD", a.Currency)
		assert.NotEmpty(t, a.ID)
		assert.Equal(t, domain.AttemptKey{
			TenantID:        "tenant-1",
			KbPaymentID:     "pay-1",
			KbTransactionID: "txn-1",
			Type:            domain.TypeAuthorize,
		}, a.Key())
	})

	t.Run("rejects missing payment id", func(t *testing.T) {
		_, err := domain.NewTransactionAttempt(domain.NewAttemptParams{
			TenantID:        "tenant-1",
			KbTransactionID: "txn-1",
			Type:            domain.TypeAuthorize,
		})

		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeMissingRequiredField))
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		_, err := domain.NewTransactionAttempt(domain.NewAttemptParams{
			TenantID:        "tenant-1",
			KbPaymentID:     "pay-1",
			KbTransactionID: "txn-1",
			Type:            domain.TypeRefund,
			Amount:          decimal.NewFromInt(-1),
		})

		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidAmount))
	})
}

func TestTransactionAttempt_Apply(t *testing.T) {
	t.Run("records payment outcome", func(t *testing.T) {
		a := newAttempt(t, domain.TypeAuthorize)

		err := a.Apply(domain.PaymentOutcome{
			PaymentID:  "pay_abc",
			Status:     domain.IntentRequiresCapture,
			Amount:     1000,
			CustomerID: "acct-1",
		})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusProcessed, a.Status)
		assert.Equal(t, "pay_abc", a.GatewayReferenceID)
		assert.Equal(t, "requires_capture", a.AdditionalData["status"])
		assert.Equal(t, "acct-1", a.AdditionalData["customer_id"])
	})

	t.Run("records refund outcome under the refund id", func(t *testing.T) {
		a := newAttempt(t, domain.TypeRefund)

		err := a.Apply(domain.RefundOutcome{RefundID: "ref_1", PaymentID: "pay_abc", Status: domain.RefundPending})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, a.Status)
		assert.Equal(t, "ref_1", a.GatewayReferenceID)
		assert.Equal(t, "pay_abc", a.AdditionalData["payment_id"])
	})

	t.Run("pending moves forward and merges data", func(t *testing.T) {
		a := newAttempt(t, domain.TypePurchase)
		require.NoError(t, a.Apply(domain.PaymentOutcome{PaymentID: "pay_abc", Status: domain.IntentProcessing, ProfileID: "pro_1"}))

		require.NoError(t, a.Apply(domain.PaymentOutcome{PaymentID: "pay_abc", Status: domain.IntentSucceeded}))

		assert.Equal(t, domain.StatusProcessed, a.Status)
		assert.Equal(t, "pay_abc", a.GatewayReferenceID)
		assert.Equal(t, "pro_1", a.AdditionalData["profile_id"])
		assert.Equal(t, "succeeded", a.AdditionalData["status"])
	})

	t.Run("terminal status is never overwritten", func(t *testing.T) {
		a := newAttempt(t, domain.TypeAuthorize)
		require.NoError(t, a.Apply(domain.PaymentOutcome{PaymentID: "pay_abc", Status: domain.IntentSucceeded}))

		err := a.Apply(domain.PaymentOutcome{PaymentID: "pay_abc", Status: domain.IntentProcessing})

		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Equal(t, domain.StatusProcessed, a.Status)
	})

	t.Run("pending cannot degrade to undefined", func(t *testing.T) {
		a := newAttempt(t, domain.TypeAuthorize)
		require.NoError(t, a.MarkPending("pay_abc", "gateway timeout"))

		err := a.Apply(domain.PaymentOutcome{PaymentID: "pay_abc", Status: "something_new"})

		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Equal(t, domain.StatusPending, a.Status)
	})
}

func TestTransactionAttempt_IsSuccessfulPayment(t *testing.T) {
	auth := newAttempt(t, domain.TypeAuthorize)
	require.NoError(t, auth.Apply(domain.PaymentOutcome{Status: domain.IntentSucceeded}))
	assert.True(t, auth.IsSuccessfulPayment())

	capture := newAttempt(t, domain.TypeCapture)
	require.NoError(t, capture.Apply(domain.PaymentOutcome{Status: domain.IntentSucceeded}))
	assert.False(t, capture.IsSuccessfulPayment())

	failed := newAttempt(t, domain.TypePurchase)
	require.NoError(t, failed.Apply(domain.PaymentOutcome{Status: domain.IntentFailed}))
	assert.False(t, failed.IsSuccessfulPayment())
}

func TestTransactionAttempt_MarkError(t *testing.T) {
	a := newAttempt(t, domain.TypeRefund)
	require.NoError(t, a.MarkPending("ref_abc", "gateway timeout"))

	require.NoError(t, a.MarkError("GATEWAY_RESOURCE_NOT_FOUND", "refund not found"))
	assert.Equal(t, domain.StatusError, a.Status)
	assert.Equal(t, "refund not found", a.ErrorMessage)
	assert.Equal(t, "ref_abc", a.GatewayReferenceID)

	processed := newAttempt(t, domain.TypeAuthorize)
	require.NoError(t, processed.Apply(domain.PaymentOutcome{Status: domain.IntentSucceeded}))
	assert.ErrorIs(t, processed.MarkError("X", "late"), domain.ErrInvalidTransition)
}

package domain_test

import (
	"testing"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCurrency(t *testing.T) {
	for _, code := range []string{"EUR", "USD", "GBP", "aud", "CAD", "DKK", "NZD", "SEK"} {
		c, err := domain.LookupCurrency(code)
		require.NoError(t, err, code)
		assert.Len(t, c.Code, 3)
	}

	eur, _ := domain.LookupCurrency("EUR")
	assert.Equal(t, "EUR", eur.Code)

	_, err := domain.LookupCurrency("JPY")
	assert.True(t, domain.IsErrorCode(err, domain.ErrCodeUnsupportedCurrency))
}

func TestCurrency_MinorUnits(t *testing.T) {
	usd, err := domain.LookupCurrency("USD")
	require.NoError(t, err)

	assert.Equal(t, int64(1000), usd.ToMinorUnits(decimal.RequireFromString("10.00")))
	assert.Equal(t, int64(1999), usd.ToMinorUnits(decimal.RequireFromString("19.99")))
	assert.Equal(t, int64(3), usd.ToMinorUnits(decimal.RequireFromString("0.025")))
}

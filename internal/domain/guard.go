package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ValidateRefundOrCapture checks a follow-up amount against the payment it draws on.
// Amounts are compared in the minor units the gateway receives.
func ValidateRefundOrCapture(prior *TransactionAttempt, amount decimal.Decimal) error {
	if prior == nil || !prior.IsSuccessfulPayment() {
		return NewNoPriorTransactionError()
	}
	if amount.IsNegative() {
		return NewInvalidAmountError(amount)
	}

	requested := minorUnits(prior.Currency, amount)
	original := minorUnits(prior.Currency, prior.Amount)
	if requested.GreaterThan(original) {
		return NewAmountExceedsOriginalError(amount, prior.Amount)
	}
	if requested.IsZero() {
		return NewZeroAmountError()
	}
	return nil
}

// ValidateRefundBalance rejects a refund that would take the refunded total
// for the payment past the amount originally taken.
func ValidateRefundBalance(prior *TransactionAttempt, refunded, amount decimal.Decimal) error {
	total := refunded.Add(amount)
	if minorUnits(prior.Currency, total).GreaterThan(minorUnits(prior.Currency, prior.Amount)) {
		return NewAmountExceedsOriginalError(total, prior.Amount)
	}
	return nil
}

// ValidateCurrency rejects a follow-up in a different currency than the prior
// payment. An empty currency inherits the prior one.
func ValidateCurrency(prior *TransactionAttempt, currency string) error {
	if currency == "" || prior == nil {
		return nil
	}
	if !strings.EqualFold(strings.TrimSpace(currency), prior.Currency) {
		return NewCurrencyMismatchError(strings.ToUpper(currency), prior.Currency)
	}
	return nil
}

// minorUnits returns amount in the currency's minor units, or unchanged when
// the currency is unknown.
func minorUnits(code string, amount decimal.Decimal) decimal.Decimal {
	currency, err := LookupCurrency(code)
	if err != nil {
		return amount
	}
	return decimal.NewFromInt(currency.ToMinorUnits(amount))
}

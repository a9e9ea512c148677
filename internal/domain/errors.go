package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// DomainError represents a business logic error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Retryable interface for errors that can be retried
type Retryable interface {
	IsRetryable() bool
}

const (
	ErrCodeConfigurationMissing   = "CONFIGURATION_MISSING"
	ErrCodePaymentMethodNotFound  = "PAYMENT_METHOD_NOT_FOUND"
	ErrCodeNoPriorTransaction     = "NO_PRIOR_TRANSACTION"
	ErrCodeAmountExceedsOriginal  = "AMOUNT_EXCEEDS_ORIGINAL"
	ErrCodeZeroAmount             = "ZERO_AMOUNT"
	ErrCodeInvalidAmount          = "INVALID_AMOUNT"
	ErrCodeUnsupportedCurrency    = "UNSUPPORTED_CURRENCY"
	ErrCodeCurrencyMismatch       = "CURRENCY_MISMATCH"
	ErrCodeGatewayBusinessError   = "GATEWAY_BUSINESS_ERROR"
	ErrCodeGatewayTransportError  = "GATEWAY_TRANSPORT_ERROR"
	ErrCodeLedgerWriteFailed      = "LEDGER_WRITE_FAILED"
	ErrCodeLedgerReadFailed       = "LEDGER_READ_FAILED"
	ErrCodeInvalidTransition      = "INVALID_TRANSITION"
	ErrCodeMissingRequiredField   = "MISSING_REQUIRED_FIELD"
	ErrCodeNotImplemented         = "NOT_IMPLEMENTED"
	ErrCodePaymentMethodDuplicate = "PAYMENT_METHOD_DUPLICATE"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrAttemptNotFound   = errors.New("attempt not found")
	ErrLinkNotFound      = errors.New("payment method link not found")

	ErrGatewayResourceNotFound = errors.New("gateway resource not found")
)

func NewConfigurationMissingError(tenantID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeConfigurationMissing,
		Message: fmt.Sprintf("no gateway api key configured for tenant %s", tenantID),
	}
}

func NewPaymentMethodNotFoundError(paymentMethodID string) *DomainError {
	return &DomainError{
		Code:    ErrCodePaymentMethodNotFound,
		Message: fmt.Sprintf("no active mandate for payment method %s", paymentMethodID),
		Err:     ErrLinkNotFound,
	}
}

func NewNoPriorTransactionError() *DomainError {
	return &DomainError{
		Code:    ErrCodeNoPriorTransaction,
		Message: "Purchase do not exists",
	}
}

func NewAmountExceedsOriginalError(requested, original decimal.Decimal) *DomainError {
	return &DomainError{
		Code:    ErrCodeAmountExceedsOriginal,
		Message: "The refund amount is more than the transaction amount",
		Err:     fmt.Errorf("requested %s, original %s", requested.String(), original.String()),
	}
}

func NewZeroAmountError() *DomainError {
	return &DomainError{
		Code:    ErrCodeZeroAmount,
		Message: "The refund amount can not be zero",
	}
}

func NewInvalidAmountError(amount decimal.Decimal) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidAmount,
		Message: fmt.Sprintf("invalid amount %s", amount.String()),
	}
}

func NewUnsupportedCurrencyError(currency string) *DomainError {
	return &DomainError{
		Code:    ErrCodeUnsupportedCurrency,
		Message: fmt.Sprintf("currency %q is not supported by the gateway", currency),
	}
}

func NewCurrencyMismatchError(requested, original string) *DomainError {
	return &DomainError{
		Code:    ErrCodeCurrencyMismatch,
		Message: fmt.Sprintf("The currency %s does not match the transaction currency %s", requested, original),
	}
}

func NewGatewayBusinessError(message string, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeGatewayBusinessError,
		Message: message,
		Err:     err,
	}
}

func NewGatewayTransportError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeGatewayTransportError,
		Message: "gateway unreachable",
		Err:     err,
	}
}

func NewLedgerReadFailedError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeLedgerReadFailed,
		Message: "failed to read attempts",
		Err:     err,
	}
}

func NewInvalidTransitionError(from, to AttemptStatus) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition from %s to %s", from, to),
		Err:     ErrInvalidTransition,
	}
}

func NewMissingRequiredFieldError(field string) *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingRequiredField,
		Message: fmt.Sprintf("%s is required", field),
	}
}

func NewNotImplementedError(operation string) *DomainError {
	return &DomainError{
		Code:    ErrCodeNotImplemented,
		Message: fmt.Sprintf("%s is not implemented", operation),
	}
}

func NewPaymentMethodDuplicateError(paymentMethodID string) *DomainError {
	return &DomainError{
		Code:    ErrCodePaymentMethodDuplicate,
		Message: fmt.Sprintf("payment method %s already has an active mandate", paymentMethodID),
	}
}

// IsErrorCode checks if an error is a DomainError with a specific code
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// ErrorCode returns the code of the first DomainError in err's chain.
func ErrorCode(err error) string {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

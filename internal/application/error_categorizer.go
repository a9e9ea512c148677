package application

import (
	"context"
	"errors"
	"net/http"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/domain"
)

// ErrorCategory represents the nature of an error for retry logic
type ErrorCategory string

const (
	CategoryTransient      ErrorCategory = "TRANSIENT"
	CategoryPermanent      ErrorCategory = "PERMANENT"
	CategoryBusinessRule   ErrorCategory = "BUSINESS_RULE"
	CategoryClientError    ErrorCategory = "CLIENT_ERROR"
	CategoryInfrastructure ErrorCategory = "INFRASTRUCTURE"
)

// CategorizeError determines error category for retry and logging purposes
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CategoryTransient
	}

	if svcErr, ok := IsServiceError(err); ok {
		switch svcErr.Code {
		case ErrCodeInvalidInput, ErrCodeUnauthorized:
			return CategoryClientError
		case ErrCodeInternal:
			return CategoryInfrastructure
		case ErrCodeRequestProcessing, ErrCodeTimeout:
			return CategoryTransient
		}
	}

	switch domain.ErrorCode(err) {
	case domain.ErrCodeNoPriorTransaction,
		domain.ErrCodeAmountExceedsOriginal,
		domain.ErrCodeZeroAmount,
		domain.ErrCodeCurrencyMismatch,
		domain.ErrCodeInvalidTransition,
		domain.ErrCodePaymentMethodDuplicate:
		return CategoryBusinessRule
	case domain.ErrCodeMissingRequiredField,
		domain.ErrCodeInvalidAmount,
		domain.ErrCodeUnsupportedCurrency,
		domain.ErrCodePaymentMethodNotFound:
		return CategoryClientError
	case domain.ErrCodeConfigurationMissing,
		domain.ErrCodeNotImplemented:
		return CategoryPermanent
	case domain.ErrCodeGatewayBusinessError:
		return CategoryPermanent
	case domain.ErrCodeGatewayTransportError:
		return CategoryTransient
	case domain.ErrCodeLedgerReadFailed, domain.ErrCodeLedgerWriteFailed:
		return CategoryInfrastructure
	}

	var retryable domain.Retryable
	if errors.As(err, &retryable) {
		if retryable.IsRetryable() {
			return CategoryTransient
		}
		return CategoryPermanent
	}

	// Default: Transient (safe fallback)
	return CategoryTransient
}

// IsRetryable returns true if the error category suggests retry
func IsRetryable(err error) bool {
	category := CategorizeError(err)
	return category == CategoryTransient || category == CategoryInfrastructure
}

// ToHTTPStatus maps error to appropriate HTTP status code
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.HTTPStatus
	}

	switch domain.ErrorCode(err) {
	case domain.ErrCodeMissingRequiredField,
		domain.ErrCodeInvalidAmount,
		domain.ErrCodeUnsupportedCurrency:
		return http.StatusBadRequest
	case domain.ErrCodePaymentMethodNotFound:
		return http.StatusNotFound
	case domain.ErrCodeConfigurationMissing:
		return http.StatusPreconditionFailed
	case domain.ErrCodeGatewayBusinessError:
		return http.StatusUnprocessableEntity
	case domain.ErrCodeGatewayTransportError:
		return http.StatusBadGateway
	case domain.ErrCodeNotImplemented:
		return http.StatusNotImplemented
	case domain.ErrCodeInvalidTransition,
		domain.ErrCodePaymentMethodDuplicate,
		domain.ErrCodeNoPriorTransaction,
		domain.ErrCodeAmountExceedsOriginal,
		domain.ErrCodeZeroAmount,
		domain.ErrCodeCurrencyMismatch:
		return http.StatusConflict
	}

	switch {
	case errors.Is(err, domain.ErrAttemptNotFound), errors.Is(err, domain.ErrLinkNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	}

	// Default to 500
	return http.StatusInternalServerError
}

// ToErrorCode clear error code for API responses
func ToErrorCode(err error) string {
	if svcErr, ok := IsServiceError(err); ok {
		return svcErr.Code
	}

	if code := domain.ErrorCode(err); code != "" {
		return code
	}

	if errors.Is(err, domain.ErrAttemptNotFound) {
		return "ATTEMPT_NOT_FOUND"
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrCodeTimeout
	}

	return ErrCodeInternal
}

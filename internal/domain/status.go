package domain

import "strings"

// Gateway payment intent statuses.
const (
	IntentSucceeded                      = "succeeded"
	IntentFailed                         = "failed"
	IntentCancelled                      = "cancelled"
	IntentProcessing                     = "processing"
	IntentRequiresCustomerAction         = "requires_customer_action"
	IntentRequiresMerchantAction         = "requires_merchant_action"
	IntentRequiresPaymentMethod          = "requires_payment_method"
	IntentRequiresConfirmation           = "requires_confirmation"
	IntentRequiresCapture                = "requires_capture"
	IntentPartiallyCaptured              = "partially_captured"
	IntentPartiallyCapturedAndCapturable = "partially_captured_and_capturable"
)

// Gateway refund statuses.
const (
	RefundSucceeded = "succeeded"
	RefundFailed    = "failed"
	RefundPending   = "pending"
	RefundReview    = "review"
)

// PaymentIntentStatuses lists every payment status the gateway declares.
var PaymentIntentStatuses = []string{
	IntentSucceeded,
	IntentFailed,
	IntentCancelled,
	IntentProcessing,
	IntentRequiresCustomerAction,
	IntentRequiresMerchantAction,
	IntentRequiresPaymentMethod,
	IntentRequiresConfirmation,
	IntentRequiresCapture,
	IntentPartiallyCaptured,
	IntentPartiallyCapturedAndCapturable,
}

// RefundStatuses lists every refund status the gateway declares.
var RefundStatuses = []string{RefundSucceeded, RefundFailed, RefundPending, RefundReview}

// TranslatePaymentStatus folds a gateway payment status into the canonical set.
// Unknown values yield StatusUndefined.
func TranslatePaymentStatus(status string) AttemptStatus {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case IntentSucceeded, IntentRequiresCapture, IntentPartiallyCaptured, IntentPartiallyCapturedAndCapturable:
		return StatusProcessed
	case IntentProcessing:
		return StatusPending
	case IntentCancelled:
		return StatusCanceled
	case IntentFailed:
		return StatusError
	default:
		return StatusUndefined
	}
}

// TranslateRefundStatus folds a gateway refund status into the canonical set.
func TranslateRefundStatus(status string) AttemptStatus {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case RefundSucceeded:
		return StatusProcessed
	case RefundPending, RefundReview:
		return StatusPending
	case RefundFailed:
		return StatusError
	default:
		return StatusUndefined
	}
}

// TranslateFollowUpStatus folds the status of a payment read back for a capture
// or void whose own response was lost. The payment reports the follow-up's
// effect only once it landed, so a payment still awaiting capture keeps the
// follow-up PENDING.
func TranslateFollowUpStatus(txType TransactionType, status string) AttemptStatus {
	status = strings.ToLower(strings.TrimSpace(status))
	switch txType {
	case TypeCapture:
		switch status {
		case IntentSucceeded, IntentPartiallyCaptured:
			return StatusProcessed
		case IntentRequiresCapture, IntentPartiallyCapturedAndCapturable, IntentProcessing:
			return StatusPending
		case IntentFailed:
			return StatusError
		case IntentCancelled:
			return StatusCanceled
		}
		return StatusUndefined
	case TypeVoid:
		switch status {
		case IntentCancelled:
			return StatusCanceled
		case IntentRequiresCapture, IntentProcessing:
			return StatusPending
		case IntentSucceeded, IntentPartiallyCaptured, IntentPartiallyCapturedAndCapturable, IntentFailed:
			return StatusError
		}
		return StatusUndefined
	}
	return TranslatePaymentStatus(status)
}

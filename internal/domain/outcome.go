package domain

import "strings"

// AttemptOutcome is the normalized result of a gateway call. It is either a
// PaymentOutcome or a RefundOutcome; the unexported marker keeps the set closed.
type AttemptOutcome interface {
	CanonicalStatus() AttemptStatus
	ReferenceID() string
	Failure() (code, message string)
	AdditionalData() map[string]any

	isAttemptOutcome()
}

// PaymentOutcome mirrors a gateway payment object.
type PaymentOutcome struct {
	PaymentID    string
	Status       string
	Amount       int64
	Currency     string
	CustomerID   string
	MerchantRef  string
	ProfileID    string
	ErrorCode    string
	ErrorMessage string
}

func (PaymentOutcome) isAttemptOutcome() {}

func (o PaymentOutcome) CanonicalStatus() AttemptStatus {
	return TranslatePaymentStatus(o.Status)
}

func (o PaymentOutcome) ReferenceID() string {
	return o.PaymentID
}

func (o PaymentOutcome) Failure() (string, string) {
	return o.ErrorCode, o.ErrorMessage
}

func (o PaymentOutcome) AdditionalData() map[string]any {
	data := map[string]any{
		"payment_id": o.PaymentID,
		"status":     o.Status,
		"amount":     o.Amount,
	}
	putIfSet(data, "currency", o.Currency)
	putIfSet(data, "customer_id", o.CustomerID)
	putIfSet(data, "reference_id", o.MerchantRef)
	putIfSet(data, "profile_id", o.ProfileID)
	return data
}

// FollowUpOutcome is a payment object read on behalf of a capture or void.
type FollowUpOutcome struct {
	PaymentOutcome
	Type TransactionType
}

func (o FollowUpOutcome) CanonicalStatus() AttemptStatus {
	return TranslateFollowUpStatus(o.Type, o.Status)
}

func (o FollowUpOutcome) Failure() (string, string) {
	if o.ErrorCode != "" || o.ErrorMessage != "" {
		return o.ErrorCode, o.ErrorMessage
	}
	if o.CanonicalStatus() == StatusError {
		return "", "payment is " + o.Status + ", " + strings.ToLower(string(o.Type)) + " did not take effect"
	}
	return "", ""
}

// RefundOutcome mirrors a gateway refund object.
type RefundOutcome struct {
	RefundID     string
	PaymentID    string
	Status       string
	Amount       int64
	Currency     string
	Reason       string
	ErrorCode    string
	ErrorMessage string
}

func (RefundOutcome) isAttemptOutcome() {}

func (o RefundOutcome) CanonicalStatus() AttemptStatus {
	return TranslateRefundStatus(o.Status)
}

func (o RefundOutcome) ReferenceID() string {
	return o.RefundID
}

func (o RefundOutcome) Failure() (string, string) {
	return o.ErrorCode, o.ErrorMessage
}

func (o RefundOutcome) AdditionalData() map[string]any {
	data := map[string]any{
		"refund_id":  o.RefundID,
		"payment_id": o.PaymentID,
		"status":     o.Status,
		"amount":     o.Amount,
	}
	putIfSet(data, "currency", o.Currency)
	putIfSet(data, "reason", o.Reason)
	return data
}

// GatewayStatus returns the raw gateway status carried by an outcome.
func GatewayStatus(o AttemptOutcome) string {
	switch v := o.(type) {
	case PaymentOutcome:
		return v.Status
	case FollowUpOutcome:
		return v.Status
	case RefundOutcome:
		return v.Status
	}
	return ""
}

func putIfSet(m map[string]any, key, value string) {
	if value != "" {
		m[key] = value
	}
}

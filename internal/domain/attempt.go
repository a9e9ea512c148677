// Package domain holds the transaction attempt ledger model and the pure rules around it.
package domain

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the billing-side lifecycle operation an attempt belongs to.
type TransactionType string

const (
	TypeAuthorize TransactionType = "AUTHORIZE"
	TypeCapture   TransactionType = "CAPTURE"
	TypePurchase  TransactionType = "PURCHASE"
	TypeVoid      TransactionType = "VOID"
	TypeRefund    TransactionType = "REFUND"
	TypeCredit    TransactionType = "CREDIT"
)

func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToUpper(s))
	switch t {
	case TypeAuthorize, TypeCapture, TypePurchase, TypeVoid, TypeRefund, TypeCredit:
		return t, nil
	}
	return "", fmt.Errorf("unknown transaction type %q", s)
}

// AttemptStatus is the canonical status vocabulary observed by the billing host.
// StatusInitiated only exists in memory between building an attempt and recording it.
type AttemptStatus string

const (
	StatusInitiated AttemptStatus = "INITIATED"
	StatusPending   AttemptStatus = "PENDING"
	StatusProcessed AttemptStatus = "PROCESSED"
	StatusCanceled  AttemptStatus = "CANCELED"
	StatusError     AttemptStatus = "ERROR"
	StatusUndefined AttemptStatus = "UNDEFINED"
)

func ParseAttemptStatus(s string) (AttemptStatus, error) {
	st := AttemptStatus(strings.ToUpper(s))
	switch st {
	case StatusInitiated, StatusPending, StatusProcessed, StatusCanceled, StatusError, StatusUndefined:
		return st, nil
	}
	return "", fmt.Errorf("unknown attempt status %q", s)
}

// AttemptKey identifies one logical transaction attempt.
type AttemptKey struct {
	TenantID        string
	KbPaymentID     string
	KbTransactionID string
	Type            TransactionType
}

func (k AttemptKey) String() string {
	return fmt.Sprintf("%s:%s:%s:%s", k.TenantID, k.KbPaymentID, k.KbTransactionID, k.Type)
}

// TransactionAttempt is one durable record of a single gateway call.
type TransactionAttempt struct {
	ID                 uuid.UUID
	TenantID           string
	AccountID          string
	KbPaymentID        string
	KbTransactionID    string
	KbPaymentMethodID  string
	Type               TransactionType
	Amount             decimal.Decimal
	Currency           string
	Status             AttemptStatus
	GatewayReferenceID string
	ErrorCode          string
	ErrorMessage       string
	AdditionalData     map[string]any
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type NewAttemptParams struct {
	TenantID          string
	AccountID         string
	KbPaymentID       string
	KbTransactionID   string
	KbPaymentMethodID string
	Type              TransactionType
	Amount            decimal.Decimal
	Currency          string
}

func NewTransactionAttempt(p NewAttemptParams) (*TransactionAttempt, error) {
	switch {
	case p.TenantID == "":
		return nil, NewMissingRequiredFieldError("tenant id")
	case p.KbPaymentID == "":
		return nil, NewMissingRequiredFieldError("payment id")
	case p.KbTransactionID == "":
		return nil, NewMissingRequiredFieldError("transaction id")
	case p.Type == "":
		return nil, NewMissingRequiredFieldError("transaction type")
	}
	if p.Amount.IsNegative() {
		return nil, NewInvalidAmountError(p.Amount)
	}

	now := time.Now().UTC()
	return &TransactionAttempt{
		ID:                uuid.New(),
		TenantID:          p.TenantID,
		AccountID:         p.AccountID,
		KbPaymentID:       p.KbPaymentID,
		KbTransactionID:   p.KbTransactionID,
		KbPaymentMethodID: p.KbPaymentMethodID,
		Type:              p.Type,
		Amount:            p.Amount,
		Currency:          strings.ToUpper(p.Currency),
		Status:            StatusInitiated,
		AdditionalData:    map[string]any{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

func (a *TransactionAttempt) Key() AttemptKey {
	return AttemptKey{
		TenantID:        a.TenantID,
		KbPaymentID:     a.KbPaymentID,
		KbTransactionID: a.KbTransactionID,
		Type:            a.Type,
	}
}

// Apply records a gateway outcome on the attempt. The status moves forward only
// and the additional data is merged, never replaced.
func (a *TransactionAttempt) Apply(outcome AttemptOutcome) error {
	target := outcome.CanonicalStatus()
	if err := a.transition(target); err != nil {
		return err
	}

	if ref := outcome.ReferenceID(); ref != "" {
		a.GatewayReferenceID = ref
	}
	code, msg := outcome.Failure()
	if code != "" || msg != "" {
		a.ErrorCode = code
		a.ErrorMessage = msg
	}
	a.MergeAdditionalData(outcome.AdditionalData())
	return nil
}

// MarkPending records an attempt whose gateway outcome is unknown.
func (a *TransactionAttempt) MarkPending(referenceID, reason string) error {
	if err := a.transition(StatusPending); err != nil {
		return err
	}
	if referenceID != "" {
		a.GatewayReferenceID = referenceID
	}
	a.ErrorMessage = reason
	return nil
}

// MarkError settles an attempt the gateway has no record of.
func (a *TransactionAttempt) MarkError(code, message string) error {
	if err := a.transition(StatusError); err != nil {
		return err
	}
	a.ErrorCode = code
	a.ErrorMessage = message
	return nil
}

func (a *TransactionAttempt) MergeAdditionalData(data map[string]any) {
	if len(data) == 0 {
		return
	}
	if a.AdditionalData == nil {
		a.AdditionalData = make(map[string]any, len(data))
	}
	maps.Copy(a.AdditionalData, data)
}

func (a *TransactionAttempt) transition(target AttemptStatus) error {
	if a.Status == target && a.Status != StatusInitiated {
		return nil
	}
	if err := a.canTransitionTo(target); err != nil {
		return err
	}
	a.Status = target
	a.UpdatedAt = time.Now().UTC()
	return nil
}

func (a *TransactionAttempt) canTransitionTo(target AttemptStatus) error {
	switch a.Status {
	case StatusInitiated:
		return a.allow(target, StatusPending, StatusProcessed, StatusCanceled, StatusError, StatusUndefined)
	case StatusPending:
		return a.allow(target, StatusProcessed, StatusCanceled, StatusError)
	}
	return NewInvalidTransitionError(a.Status, target)
}

func (a *TransactionAttempt) allow(target AttemptStatus, allowed ...AttemptStatus) error {
	if slices.Contains(allowed, target) {
		return nil
	}
	return NewInvalidTransitionError(a.Status, target)
}

// IsTerminal reports whether no further transitions are possible.
func (a *TransactionAttempt) IsTerminal() bool {
	return a.Status != StatusInitiated && a.Status != StatusPending
}

func (a *TransactionAttempt) IsPending() bool {
	return a.Status == StatusPending
}

// IsSuccessfulPayment reports whether the attempt can anchor a capture, void or refund.
func (a *TransactionAttempt) IsSuccessfulPayment() bool {
	return a.Status == StatusProcessed && (a.Type == TypeAuthorize || a.Type == TypePurchase)
}

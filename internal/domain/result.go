package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionResult is what the billing host receives for every lifecycle call.
type TransactionResult struct {
	KbPaymentID        string           `json:"kb_payment_id,omitempty"`
	KbTransactionID    string           `json:"kb_transaction_id,omitempty"`
	Type               TransactionType  `json:"transaction_type"`
	Amount             *decimal.Decimal `json:"amount,omitempty"`
	Currency           string           `json:"currency,omitempty"`
	Status             AttemptStatus    `json:"status"`
	ErrorCode          string           `json:"gateway_error_code,omitempty"`
	ErrorMessage       string           `json:"gateway_error,omitempty"`
	GatewayReferenceID string           `json:"first_payment_reference_id,omitempty"`
	CreatedAt          *time.Time       `json:"created_date,omitempty"`
	EffectiveAt        *time.Time       `json:"effective_date,omitempty"`
	Properties         map[string]any   `json:"properties,omitempty"`
}

func ResultFromAttempt(a *TransactionAttempt) *TransactionResult {
	amount := a.Amount
	created := a.CreatedAt
	effective := a.UpdatedAt
	return &TransactionResult{
		KbPaymentID:        a.KbPaymentID,
		KbTransactionID:    a.KbTransactionID,
		Type:               a.Type,
		Amount:             &amount,
		Currency:           a.Currency,
		Status:             a.Status,
		ErrorCode:          a.ErrorCode,
		ErrorMessage:       a.ErrorMessage,
		GatewayReferenceID: a.GatewayReferenceID,
		CreatedAt:          &created,
		EffectiveAt:        &effective,
		Properties:         a.AdditionalData,
	}
}

// CanceledResult reports a call that ended without a usable ledger row.
func CanceledResult(key AttemptKey, code, message string) *TransactionResult {
	return &TransactionResult{
		KbPaymentID:     key.KbPaymentID,
		KbTransactionID: key.KbTransactionID,
		Type:            key.Type,
		Status:          StatusCanceled,
		ErrorCode:       code,
		ErrorMessage:    message,
	}
}

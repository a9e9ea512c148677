package postgres

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AttemptModel mirrors a payment_attempts row.
type AttemptModel struct {
	ID                 uuid.UUID
	TenantID           string
	AccountID          string
	KbPaymentID        string
	KbTransactionID    string
	KbPaymentMethodID  string
	TransactionType    string
	Amount             decimal.Decimal
	Currency           string
	Status             string
	GatewayReferenceID string
	ErrorCode          string
	ErrorMessage       string
	AdditionalData     []byte
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// PaymentMethodLinkModel mirrors a payment_method_links row.
type PaymentMethodLinkModel struct {
	ID                uuid.UUID
	TenantID          string
	AccountID         string
	KbPaymentMethodID string
	MandateID         string
	IsDefault         bool
	IsDeleted         bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

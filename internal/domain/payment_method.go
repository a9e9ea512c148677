package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethodLink maps a billing payment method to the gateway mandate used for
// off-session charges.
type PaymentMethodLink struct {
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

func NewPaymentMethodLink(tenantID, accountID, paymentMethodID, mandateID string, isDefault bool) (*PaymentMethodLink, error) {
	switch {
	case tenantID == "":
		return nil, NewMissingRequiredFieldError("tenant id")
	case accountID == "":
		return nil, NewMissingRequiredFieldError("account id")
	case paymentMethodID == "":
		return nil, NewMissingRequiredFieldError("payment method id")
	case mandateID == "":
		return nil, NewMissingRequiredFieldError("mandateId")
	}

	now := time.Now().UTC()
	return &PaymentMethodLink{
		ID:                uuid.New(),
		TenantID:          tenantID,
		AccountID:         accountID,
		KbPaymentMethodID: paymentMethodID,
		MandateID:         mandateID,
		IsDefault:         isDefault,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

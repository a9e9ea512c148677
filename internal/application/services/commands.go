package services

import "github.com/shopspring/decimal"

// PaymentCommand drives authorize and purchase.
type PaymentCommand struct {
	TenantID          string
	AccountID         string
	KbPaymentID       string
	KbTransactionID   string
	KbPaymentMethodID string
	Amount            decimal.Decimal
	Currency          string
	Description       string
	Properties        map[string]string
}

type CaptureCommand struct {
	TenantID        string
	AccountID       string
	KbPaymentID     string
	KbTransactionID string
	Amount          decimal.Decimal
	Currency        string
}

// VoidCommand carries no amount; the void reuses the authorized one.
type VoidCommand struct {
	TenantID        string
	AccountID       string
	KbPaymentID     string
	KbTransactionID string
	Reason          string
}

type RefundCommand struct {
	TenantID        string
	AccountID       string
	KbPaymentID     string
	KbTransactionID string
	Amount          decimal.Decimal
	Currency        string
	Reason          string
}

type CreditCommand struct {
	TenantID        string
	AccountID       string
	KbPaymentID     string
	KbTransactionID string
	Amount          decimal.Decimal
	Currency        string
}

type AddPaymentMethodCommand struct {
	TenantID          string
	AccountID         string
	KbPaymentMethodID string
	MandateID         string
	SetDefault        bool
}

package application

import (
	"context"
	"errors"
	"time"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/domain"
	"github.com/shopspring/decimal"
)

type CaptureMethod string

const (
	CaptureManual    CaptureMethod = "manual"
	CaptureAutomatic CaptureMethod = "automatic"
)

// PaymentRequest is the normalized authorize/purchase request.
type PaymentRequest struct {
	PaymentID     string
	Amount        decimal.Decimal
	Currency      string
	CustomerID    string
	MandateID     string
	CaptureMethod CaptureMethod
	Description   string
	Metadata      map[string]string
}

type CaptureRequest struct {
	PaymentID string
	Amount    decimal.Decimal
	Currency  string
}

type VoidRequest struct {
	PaymentID string
	Reason    string
}

type RefundRequest struct {
	RefundID  string
	PaymentID string
	Amount    decimal.Decimal
	Currency  string
	Reason    string
	Metadata  map[string]string
}

// Gateway is the port for the remote payment gateway. Errors are domain errors:
// ConfigurationMissing, UnsupportedCurrency, GatewayBusinessError or GatewayTransportError.
type Gateway interface {
	Authorize(ctx context.Context, tenantID string, req PaymentRequest) (domain.PaymentOutcome, error)
	Capture(ctx context.Context, tenantID string, req CaptureRequest) (domain.PaymentOutcome, error)
	Void(ctx context.Context, tenantID string, req VoidRequest) (domain.PaymentOutcome, error)
	Refund(ctx context.Context, tenantID string, req RefundRequest) (domain.RefundOutcome, error)
	RetrievePayment(ctx context.Context, tenantID, paymentID string) (domain.PaymentOutcome, error)
	RetrieveRefund(ctx context.Context, tenantID, refundID string) (domain.RefundOutcome, error)
}

// AttemptLedger is the durable, append-only store of transaction attempts.
type AttemptLedger interface {
	// InsertIfAbsent stores a new attempt. It reports false when an attempt with
	// the same key already exists, leaving the stored row untouched.
	InsertIfAbsent(ctx context.Context, attempt *domain.TransactionAttempt) (bool, error)
	FindByKey(ctx context.Context, key domain.AttemptKey) (*domain.TransactionAttempt, error)
	// FindLatestSuccessful returns the newest PROCESSED authorize or purchase for the payment.
	FindLatestSuccessful(ctx context.Context, tenantID, kbPaymentID string) (*domain.TransactionAttempt, error)
	ListByPayment(ctx context.Context, tenantID, kbPaymentID string) ([]*domain.TransactionAttempt, error)
	// UpdateStatus persists a reconciled attempt if the stored row is still PENDING.
	UpdateStatus(ctx context.Context, attempt *domain.TransactionAttempt) (bool, error)
}

type PaymentMethodRepository interface {
	Add(ctx context.Context, link *domain.PaymentMethodLink) error
	FindActive(ctx context.Context, tenantID, kbPaymentMethodID string) (*domain.PaymentMethodLink, error)
	SoftDelete(ctx context.Context, tenantID, kbPaymentMethodID string) error
	ListByAccount(ctx context.Context, tenantID, kbAccountID string) ([]*domain.PaymentMethodLink, error)
}

var ErrLockHeld = errors.New("lock held by another request")

// KeyLocker serializes in-flight requests for the same attempt key.
type KeyLocker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(context.Context), err error)
}

type ArchiveEntry struct {
	Key        domain.AttemptKey
	Operation  string
	Status     string
	Data       map[string]any
	Error      string
	ReceivedAt time.Time
}

// ResponseArchive keeps a copy of gateway responses for audit. Failures never
// affect the transaction result.
type ResponseArchive interface {
	Record(ctx context.Context, entry ArchiveEntry) error
}

type Metrics interface {
	GatewayCall(operation, outcome string, elapsed time.Duration)
	AttemptRecorded(txType domain.TransactionType, status domain.AttemptStatus)
	UndefinedStatus(kind, value string)
	Reconciliation(result string)
}

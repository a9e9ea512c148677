package testhelpers

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/application/services"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/config"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/domain"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/infrastructure/lock"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/infrastructure/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	TenantID  = "tenant-1"
	AccountID = "acct-1"
	PMID      = "pm-1"
	MandateID = "man_123"
)

var TestLockConfig = config.LockConfig{
	TTL:          5 * time.Second,
	WaitTimeout:  200 * time.Millisecond,
	PollInterval: 10 * time.Millisecond,
}

// Fixture wires every service over in-memory dependencies.
type Fixture struct {
	Ledger         *MockAttemptLedger
	PaymentMethods *MockPaymentMethodRepository
	Gateway        *MockGateway
	Archive        *RecordingArchive
	Locker         *lock.MemoryLocker
	Executor       *services.Executor

	Authorize     *services.AuthorizeService
	Capture       *services.CaptureService
	Void          *services.VoidService
	Refund        *services.RefundService
	Query         *services.QueryService
	PaymentMethod *services.PaymentMethodService
}

func NewFixture(t *testing.T) *Fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f := &Fixture{
		Ledger:         NewMockAttemptLedger(),
		PaymentMethods: NewMockPaymentMethodRepository(),
		Gateway:        &MockGateway{},
		Archive:        &RecordingArchive{},
		Locker:         lock.NewMemoryLocker(),
	}
	f.Executor = services.NewExecutor(f.Ledger, f.Locker, f.Archive, metrics.Noop{}, TestLockConfig, logger)
	f.Authorize = services.NewAuthorizeService(f.Executor, f.Gateway, f.PaymentMethods)
	f.Capture = services.NewCaptureService(f.Executor, f.Gateway)
	f.Void = services.NewVoidService(f.Executor, f.Gateway)
	f.Refund = services.NewRefundService(f.Executor, f.Gateway)
	f.Query = services.NewQueryService(f.Ledger, f.Gateway, metrics.Noop{}, logger)
	f.PaymentMethod = services.NewPaymentMethodService(f.PaymentMethods, logger)

	link, err := domain.NewPaymentMethodLink(TenantID, AccountID, PMID, MandateID, true)
	require.NoError(t, err)
	f.PaymentMethods.links[linkKey(TenantID, PMID)] = link

	t.Cleanup(func() { f.Gateway.AssertExpectations(t) })
	return f
}

// DefaultPaymentCommand returns an authorize/purchase command for 10.00 USD.
func DefaultPaymentCommand() services.PaymentCommand {
	return services.PaymentCommand{
		TenantID:          TenantID,
		AccountID:         AccountID,
		KbPaymentID:       uuid.NewString(),
		KbTransactionID:   uuid.NewString(),
		KbPaymentMethodID: PMID,
		Amount:            decimal.RequireFromString("10.00"),
		Currency:          "USD",
	}
}

func DefaultCaptureCommand(kbPaymentID string) services.CaptureCommand {
	return services.CaptureCommand{
		TenantID:        TenantID,
		AccountID:       AccountID,
		KbPaymentID:     kbPaymentID,
		KbTransactionID: uuid.NewString(),
		Amount:          decimal.RequireFromString("10.00"),
		Currency:        "USD",
	}
}

func DefaultRefundCommand(kbPaymentID string) services.RefundCommand {
	return services.RefundCommand{
		TenantID:        TenantID,
		AccountID:       AccountID,
		KbPaymentID:     kbPaymentID,
		KbTransactionID: uuid.NewString(),
		Amount:          decimal.RequireFromString("4.00"),
		Currency:        "USD",
	}
}

// SeedAttempt stores an attempt of the given type and status for kbPaymentID.
func (f *Fixture) SeedAttempt(t *testing.T, kbPaymentID string, txType domain.TransactionType, status domain.AttemptStatus, reference string) *domain.TransactionAttempt {
	t.Helper()

	a, err := domain.NewTransactionAttempt(domain.NewAttemptParams{
		TenantID:          TenantID,
		AccountID:         AccountID,
		KbPaymentID:       kbPaymentID,
		KbTransactionID:   uuid.NewString(),
		KbPaymentMethodID: PMID,
		Type:              txType,
		Amount:            decimal.RequireFromString("10.00"),
		Currency:          "USD",
	})
	require.NoError(t, err)
	a.Status = status
	a.GatewayReferenceID = reference
	f.Ledger.Seed(a)
	return a
}

// SeedAuthorized stores a PROCESSED authorization of 10.00 USD.
func (f *Fixture) SeedAuthorized(t *testing.T, kbPaymentID string) *domain.TransactionAttempt {
	t.Helper()
	return f.SeedAttempt(t, kbPaymentID, domain.TypeAuthorize, domain.StatusProcessed, "pay_"+kbPaymentID)
}

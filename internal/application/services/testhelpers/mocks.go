package testhelpers

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/application"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockAttemptLedger is an in-memory AttemptLedger. Set a ...Fn field to
// override one method.
type MockAttemptLedger struct {
	mu       sync.RWMutex
	attempts map[domain.AttemptKey]*domain.TransactionAttempt

	InsertIfAbsentFn       func(ctx context.Context, attempt *domain.TransactionAttempt) (bool, error)
	FindByKeyFn            func(ctx context.Context, key domain.AttemptKey) (*domain.TransactionAttempt, error)
	FindLatestSuccessfulFn func(ctx context.Context, tenantID, kbPaymentID string) (*domain.TransactionAttempt, error)
	ListByPaymentFn        func(ctx context.Context, tenantID, kbPaymentID string) ([]*domain.TransactionAttempt, error)
	UpdateStatusFn         func(ctx context.Context, attempt *domain.TransactionAttempt) (bool, error)
}

var _ application.AttemptLedger = (*MockAttemptLedger)(nil)

func NewMockAttemptLedger() *MockAttemptLedger {
	return &MockAttemptLedger{attempts: make(map[domain.AttemptKey]*domain.TransactionAttempt)}
}

func (m *MockAttemptLedger) InsertIfAbsent(ctx context.Context, attempt *domain.TransactionAttempt) (bool, error) {
	if m.InsertIfAbsentFn != nil {
		return m.InsertIfAbsentFn(ctx, attempt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.attempts[attempt.Key()]; ok {
		return false, nil
	}
	m.attempts[attempt.Key()] = clone(attempt)
	return true, nil
}

func (m *MockAttemptLedger) FindByKey(ctx context.Context, key domain.AttemptKey) (*domain.TransactionAttempt, error) {
	if m.FindByKeyFn != nil {
		return m.FindByKeyFn(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if a, ok := m.attempts[key]; ok {
		return clone(a), nil
	}
	return nil, domain.ErrAttemptNotFound
}

func (m *MockAttemptLedger) FindLatestSuccessful(ctx context.Context, tenantID, kbPaymentID string) (*domain.TransactionAttempt, error) {
	if m.FindLatestSuccessfulFn != nil {
		return m.FindLatestSuccessfulFn(ctx, tenantID, kbPaymentID)
	}
	var latest *domain.TransactionAttempt
	for _, a := range m.list(tenantID, kbPaymentID) {
		if a.IsSuccessfulPayment() && (latest == nil || !a.CreatedAt.Before(latest.CreatedAt)) {
			latest = a
		}
	}
	if latest == nil {
		return nil, domain.ErrAttemptNotFound
	}
	return latest, nil
}

func (m *MockAttemptLedger) ListByPayment(ctx context.Context, tenantID, kbPaymentID string) ([]*domain.TransactionAttempt, error) {
	if m.ListByPaymentFn != nil {
		return m.ListByPaymentFn(ctx, tenantID, kbPaymentID)
	}
	return m.list(tenantID, kbPaymentID), nil
}

func (m *MockAttemptLedger) UpdateStatus(ctx context.Context, attempt *domain.TransactionAttempt) (bool, error) {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, attempt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.attempts[attempt.Key()]
	if !ok || !stored.IsPending() {
		return false, nil
	}
	updated := clone(attempt)
	updated.AdditionalData = maps.Clone(stored.AdditionalData)
	updated.MergeAdditionalData(attempt.AdditionalData)
	m.attempts[attempt.Key()] = updated
	return true, nil
}

// Seed stores an attempt as-is, bypassing the hooks.
func (m *MockAttemptLedger) Seed(attempt *domain.TransactionAttempt) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts[attempt.Key()] = clone(attempt)
}

// Count returns the number of stored attempts.
func (m *MockAttemptLedger) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.attempts)
}

func (m *MockAttemptLedger) list(tenantID, kbPaymentID string) []*domain.TransactionAttempt {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.TransactionAttempt
	for key, a := range m.attempts {
		if key.TenantID == tenantID && key.KbPaymentID == kbPaymentID {
			out = append(out, clone(a))
		}
	}
	slices.SortFunc(out, func(a, b *domain.TransactionAttempt) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out
}

func clone(a *domain.TransactionAttempt) *domain.TransactionAttempt {
	c := *a
	c.AdditionalData = maps.Clone(a.AdditionalData)
	return &c
}

// MockPaymentMethodRepository is an in-memory PaymentMethodRepository keyed by
// tenant and payment method.
type MockPaymentMethodRepository struct {
	mu    sync.RWMutex
	links map[string]*domain.PaymentMethodLink

	AddFn        func(ctx context.Context, link *domain.PaymentMethodLink) error
	FindActiveFn func(ctx context.Context, tenantID, kbPaymentMethodID string) (*domain.PaymentMethodLink, error)
}

var _ application.PaymentMethodRepository = (*MockPaymentMethodRepository)(nil)

func NewMockPaymentMethodRepository() *MockPaymentMethodRepository {
	return &MockPaymentMethodRepository{links: make(map[string]*domain.PaymentMethodLink)}
}

func (m *MockPaymentMethodRepository) Add(ctx context.Context, link *domain.PaymentMethodLink) error {
	if m.AddFn != nil {
		return m.AddFn(ctx, link)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if link.IsDefault {
		for _, l := range m.links {
			if l.TenantID == link.TenantID && l.AccountID == link.AccountID {
				l.IsDefault = false
			}
		}
	}
	stored := *link
	m.links[linkKey(link.TenantID, link.KbPaymentMethodID)] = &stored
	return nil
}

func (m *MockPaymentMethodRepository) FindActive(ctx context.Context, tenantID, kbPaymentMethodID string) (*domain.PaymentMethodLink, error) {
	if m.FindActiveFn != nil {
		return m.FindActiveFn(ctx, tenantID, kbPaymentMethodID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.links[linkKey(tenantID, kbPaymentMethodID)]
	if !ok || l.IsDeleted {
		return nil, domain.ErrLinkNotFound
	}
	found := *l
	return &found, nil
}

func (m *MockPaymentMethodRepository) SoftDelete(_ context.Context, tenantID, kbPaymentMethodID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.links[linkKey(tenantID, kbPaymentMethodID)]
	if !ok || l.IsDeleted {
		return domain.ErrLinkNotFound
	}
	l.IsDeleted = true
	l.IsDefault = false
	return nil
}

func (m *MockPaymentMethodRepository) ListByAccount(_ context.Context, tenantID, kbAccountID string) ([]*domain.PaymentMethodLink, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.PaymentMethodLink
	for _, l := range m.links {
		if l.TenantID == tenantID && l.AccountID == kbAccountID && !l.IsDeleted {
			found := *l
			out = append(out, &found)
		}
	}
	slices.SortFunc(out, func(a, b *domain.PaymentMethodLink) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}

func linkKey(tenantID, kbPaymentMethodID string) string {
	return tenantID + "/" + kbPaymentMethodID
}

// MockGateway is a testify mock of application.Gateway.
type MockGateway struct {
	mock.Mock
}

var _ application.Gateway = (*MockGateway)(nil)

func (m *MockGateway) Authorize(ctx context.Context, tenantID string, req application.PaymentRequest) (domain.PaymentOutcome, error) {
	args := m.Called(ctx, tenantID, req)
	return args.Get(0).(domain.PaymentOutcome), args.Error(1)
}

func (m *MockGateway) Capture(ctx context.Context, tenantID string, req application.CaptureRequest) (domain.PaymentOutcome, error) {
	args := m.Called(ctx, tenantID, req)
	return args.Get(0).(domain.PaymentOutcome), args.Error(1)
}

func (m *MockGateway) Void(ctx context.Context, tenantID string, req application.VoidRequest) (domain.PaymentOutcome, error) {
	args := m.Called(ctx, tenantID, req)
	return args.Get(0).(domain.PaymentOutcome), args.Error(1)
}

func (m *MockGateway) Refund(ctx context.Context, tenantID string, req application.RefundRequest) (domain.RefundOutcome, error) {
	args := m.Called(ctx, tenantID, req)
	return args.Get(0).(domain.RefundOutcome), args.Error(1)
}

func (m *MockGateway) RetrievePayment(ctx context.Context, tenantID, paymentID string) (domain.PaymentOutcome, error) {
	args := m.Called(ctx, tenantID, paymentID)
	return args.Get(0).(domain.PaymentOutcome), args.Error(1)
}

func (m *MockGateway) RetrieveRefund(ctx context.Context, tenantID, refundID string) (domain.RefundOutcome, error) {
	args := m.Called(ctx, tenantID, refundID)
	return args.Get(0).(domain.RefundOutcome), args.Error(1)
}

// RecordingArchive keeps archived entries in memory.
type RecordingArchive struct {
	mu      sync.Mutex
	entries []application.ArchiveEntry
	Err     error
}

func (a *RecordingArchive) Record(_ context.Context, entry application.ArchiveEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
	return a.Err
}

func (a *RecordingArchive) Entries() []application.ArchiveEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return slices.Clone(a.entries)
}

package postgres_test

import (
	"context"
	"testing"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/application/services/testhelpers"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/domain"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/infrastructure/persistence/postgres"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type AttemptRepositoryTestSuite struct {
	suite.Suite
	testDB *testhelpers.TestDatabase
	repo   *postgres.AttemptRepository
}

func TestAttemptRepositorySuite(t *testing.T) {
	suite.Run(t, new(AttemptRepositoryTestSuite))
}

func (s *AttemptRepositoryTestSuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDatabase(s.T())
	s.repo = postgres.NewAttemptRepository(s.testDB.DB)
}

func (s *AttemptRepositoryTestSuite) TearDownSuite() {
	if s.testDB != nil {
		s.testDB.Cleanup(s.T())
	}
}

func (s *AttemptRepositoryTestSuite) TearDownTest() {
	s.testDB.CleanTables(s.T())
}

func (s *AttemptRepositoryTestSuite) newAttempt(paymentID string, txType domain.TransactionType, status domain.AttemptStatus) *domain.TransactionAttempt {
	a, err := domain.NewTransactionAttempt(domain.NewAttemptParams{
		TenantID:          "tenant-1",
		AccountID:         "acct-1",
		KbPaymentID:       paymentID,
		KbTransactionID:   uuid.NewString(),
		KbPaymentMethodID: "pm-1",
		Type:              txType,
		Amount:            decimal.RequireFromString("10.50"),
		Currency:          "USD",
	})
	s.Require().NoError(err)
	a.Status = status
	a.GatewayReferenceID = "pay_" + paymentID
	a.AdditionalData = map[string]any{"status": "succeeded", "amount": float64(1050)}
	return a
}

func (s *AttemptRepositoryTestSuite) TestInsertIfAbsent_RoundTrip() {
	ctx := context.Background()
	attempt := s.newAttempt("kb-pay-1", domain.TypeAuthorize, domain.StatusProcessed)

	inserted, err := s.repo.InsertIfAbsent(ctx, attempt)
	s.Require().NoError(err)
	s.True(inserted)

	found, err := s.repo.FindByKey(ctx, attempt.Key())
	s.Require().NoError(err)
	s.Equal(attempt.ID, found.ID)
	s.Equal(domain.StatusProcessed, found.Status)
	s.True(attempt.Amount.Equal(found.Amount))
	s.Equal("pay_kb-pay-1", found.GatewayReferenceID)
	s.Equal("succeeded", found.AdditionalData["status"])
}

func (s *AttemptRepositoryTestSuite) TestInsertIfAbsent_DuplicateKeyKeepsFirstRow() {
	ctx := context.Background()
	first := s.newAttempt("kb-pay-2", domain.TypePurchase, domain.StatusProcessed)

	inserted, err := s.repo.InsertIfAbsent(ctx, first)
	s.Require().NoError(err)
	s.True(inserted)

	second := s.newAttempt("kb-pay-2", domain.TypePurchase, domain.StatusError)
	second.KbTransactionID = first.KbTransactionID

	inserted, err = s.repo.InsertIfAbsent(ctx, second)
	s.Require().NoError(err)
	s.False(inserted)

	stored, err := s.repo.FindByKey(ctx, first.Key())
	s.Require().NoError(err)
	s.Equal(first.ID, stored.ID)
	s.Equal(domain.StatusProcessed, stored.Status)
}

func (s *AttemptRepositoryTestSuite) TestFindByKey_NotFound() {
	_, err := s.repo.FindByKey(context.Background(), domain.AttemptKey{
		TenantID:        "tenant-1",
		KbPaymentID:     "missing",
		KbTransactionID: "missing",
		Type:            domain.TypeVoid,
	})
	s.ErrorIs(err, domain.ErrAttemptNotFound)
}

func (s *AttemptRepositoryTestSuite) TestFindLatestSuccessful_IgnoresFailuresAndFollowOns() {
	ctx := context.Background()

	failed := s.newAttempt("kb-pay-3", domain.TypeAuthorize, domain.StatusError)
	_, err := s.repo.InsertIfAbsent(ctx, failed)
	s.Require().NoError(err)

	_, err = s.repo.FindLatestSuccessful(ctx, "tenant-1", "kb-pay-3")
	s.ErrorIs(err, domain.ErrAttemptNotFound)

	ok := s.newAttempt("kb-pay-3", domain.TypeAuthorize, domain.StatusProcessed)
	_, err = s.repo.InsertIfAbsent(ctx, ok)
	s.Require().NoError(err)

	capture := s.newAttempt("kb-pay-3", domain.TypeCapture, domain.StatusProcessed)
	_, err = s.repo.InsertIfAbsent(ctx, capture)
	s.Require().NoError(err)

	latest, err := s.repo.FindLatestSuccessful(ctx, "tenant-1", "kb-pay-3")
	s.Require().NoError(err)
	s.Equal(ok.ID, latest.ID)
}

func (s *AttemptRepositoryTestSuite) TestListByPayment_ScopedToTenant() {
	ctx := context.Background()

	for _, txType := range []domain.TransactionType{domain.TypeAuthorize, domain.TypeCapture, domain.TypeRefund} {
		_, err := s.repo.InsertIfAbsent(ctx, s.newAttempt("kb-pay-4", txType, domain.StatusProcessed))
		s.Require().NoError(err)
	}
	other := s.newAttempt("kb-pay-4", domain.TypeAuthorize, domain.StatusProcessed)
	other.TenantID = "tenant-2"
	_, err := s.repo.InsertIfAbsent(ctx, other)
	s.Require().NoError(err)

	attempts, err := s.repo.ListByPayment(ctx, "tenant-1", "kb-pay-4")
	s.Require().NoError(err)
	s.Len(attempts, 3)
	for _, a := range attempts {
		s.Equal("tenant-1", a.TenantID)
	}
}

func (s *AttemptRepositoryTestSuite) TestUpdateStatus_MergesAdditionalData() {
	ctx := context.Background()
	attempt := s.newAttempt("kb-pay-5", domain.TypePurchase, domain.StatusPending)
	attempt.AdditionalData = map[string]any{"payment_id": "pay_5", "status": "processing"}
	_, err := s.repo.InsertIfAbsent(ctx, attempt)
	s.Require().NoError(err)

	attempt.Status = domain.StatusProcessed
	attempt.AdditionalData = map[string]any{"status": "succeeded"}

	updated, err := s.repo.UpdateStatus(ctx, attempt)
	s.Require().NoError(err)
	s.True(updated)

	stored, err := s.repo.FindByKey(ctx, attempt.Key())
	s.Require().NoError(err)
	s.Equal(domain.StatusProcessed, stored.Status)
	s.Equal("succeeded", stored.AdditionalData["status"])
	s.Equal("pay_5", stored.AdditionalData["payment_id"])
}

func (s *AttemptRepositoryTestSuite) TestUpdateStatus_SkipsSettledRows() {
	ctx := context.Background()
	attempt := s.newAttempt("kb-pay-6", domain.TypeAuthorize, domain.StatusProcessed)
	_, err := s.repo.InsertIfAbsent(ctx, attempt)
	s.Require().NoError(err)

	attempt.Status = domain.StatusError
	updated, err := s.repo.UpdateStatus(ctx, attempt)
	s.Require().NoError(err)
	s.False(updated)

	stored, err := s.repo.FindByKey(ctx, attempt.Key())
	s.Require().NoError(err)
	s.Equal(domain.StatusProcessed, stored.Status)
}

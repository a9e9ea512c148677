package services

import (
	"context"
	"errors"
	"log/slog"
	"maps"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/application"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/domain"
)

const errCodeGatewayResourceMissing = "GATEWAY_RESOURCE_NOT_FOUND"

// Reconciliation results reported to metrics.
const (
	reconcileChanged   = "changed"
	reconcileUnchanged = "unchanged"
	reconcileUndefined = "undefined"
	reconcileFailed    = "failed"
	reconcileSkipped   = "skipped"
)

// QueryService reads the ledger and reconciles PENDING attempts inline.
type QueryService struct {
	ledger  application.AttemptLedger
	gateway application.Gateway
	metrics application.Metrics
	logger  *slog.Logger
}

func NewQueryService(
	ledger application.AttemptLedger,
	gateway application.Gateway,
	metrics application.Metrics,
	logger *slog.Logger,
) *QueryService {
	return &QueryService{
		ledger:  ledger,
		gateway: gateway,
		metrics: metrics,
		logger:  logger,
	}
}

// GetStatus returns every attempt recorded for the payment. PENDING attempts are
// refreshed from the gateway first; a failed refresh keeps the stored value.
func (s *QueryService) GetStatus(ctx context.Context, tenantID, kbPaymentID string) ([]*domain.TransactionResult, error) {
	attempts, err := s.ledger.ListByPayment(ctx, tenantID, kbPaymentID)
	if err != nil {
		return nil, domain.NewLedgerReadFailedError(err)
	}

	results := make([]*domain.TransactionResult, 0, len(attempts))
	for _, attempt := range attempts {
		if attempt.IsPending() {
			attempt = s.reconcile(ctx, attempt)
		}
		results = append(results, domain.ResultFromAttempt(attempt))
	}
	return results, nil
}

// SearchPayments is not offered by the gateway integration.
func (s *QueryService) SearchPayments(_ context.Context, _, _ string) ([]*domain.TransactionResult, error) {
	return nil, domain.NewNotImplementedError("search payments")
}

func (s *QueryService) reconcile(ctx context.Context, stale *domain.TransactionAttempt) *domain.TransactionAttempt {
	logger := s.logger.With("key", stale.Key().String(), "gateway_reference_id", stale.GatewayReferenceID)

	if stale.GatewayReferenceID == "" {
		s.metrics.Reconciliation(reconcileSkipped)
		return stale
	}

	updated := *stale
	updated.AdditionalData = maps.Clone(stale.AdditionalData)

	outcome, err := s.retrieve(ctx, stale)
	switch {
	case err == nil:
		status := outcome.CanonicalStatus()
		if status == domain.StatusUndefined {
			raw := domain.GatewayStatus(outcome)
			s.metrics.UndefinedStatus(outcomeKind(outcome), raw)
			s.metrics.Reconciliation(reconcileUndefined)
			logger.Warn("gateway returned an unmapped status during reconciliation", "status", raw)
			return stale
		}
		if status == stale.Status {
			s.metrics.Reconciliation(reconcileUnchanged)
			return stale
		}
		if err := updated.Apply(outcome); err != nil {
			s.metrics.Reconciliation(reconcileFailed)
			logger.Warn("cannot apply reconciled outcome", "error", err)
			return stale
		}
	case errors.Is(err, domain.ErrGatewayResourceNotFound):
		if err := updated.MarkError(errCodeGatewayResourceMissing, err.Error()); err != nil {
			s.metrics.Reconciliation(reconcileFailed)
			return stale
		}
	default:
		s.metrics.Reconciliation(reconcileFailed)
		logger.Warn("reconciliation lookup failed", "error", err)
		return stale
	}

	ok, err := s.ledger.UpdateStatus(ctx, &updated)
	if err != nil {
		s.metrics.Reconciliation(reconcileFailed)
		logger.Error("failed to persist reconciled attempt", "status", updated.Status, "error", err)
		return stale
	}
	if !ok {
		// settled by a concurrent reader
		current, err := s.ledger.FindByKey(ctx, stale.Key())
		if err != nil {
			return stale
		}
		return current
	}

	s.metrics.Reconciliation(reconcileChanged)
	logger.Info("reconciled pending attempt", "from", stale.Status, "to", updated.Status)
	return &updated
}

func (s *QueryService) retrieve(ctx context.Context, a *domain.TransactionAttempt) (domain.AttemptOutcome, error) {
	switch a.Type {
	case domain.TypeRefund:
		return refundOutcome(s.gateway.RetrieveRefund(ctx, a.TenantID, a.GatewayReferenceID))
	case domain.TypeCapture, domain.TypeVoid:
		// the reference is the authorization's payment, not the follow-up itself
		payment, err := s.gateway.RetrievePayment(ctx, a.TenantID, a.GatewayReferenceID)
		if err != nil {
			return nil, err
		}
		return domain.FollowUpOutcome{PaymentOutcome: payment, Type: a.Type}, nil
	}
	return paymentOutcome(s.gateway.RetrievePayment(ctx, a.TenantID, a.GatewayReferenceID))
}

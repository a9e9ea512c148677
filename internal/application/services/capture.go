package services

import (
	"context"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/application"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/domain"
)

type CaptureService struct {
	exec    *Executor
	gateway application.Gateway
}

func NewCaptureService(exec *Executor, gateway application.Gateway) *CaptureService {
	return &CaptureService{exec: exec, gateway: gateway}
}

// Capture settles funds held by a prior authorization, on the gateway's own
// payment reference.
func (s *CaptureService) Capture(ctx context.Context, cmd CaptureCommand) (*domain.TransactionResult, error) {
	key := domain.AttemptKey{
		TenantID:        cmd.TenantID,
		KbPaymentID:     cmd.KbPaymentID,
		KbTransactionID: cmd.KbTransactionID,
		Type:            domain.TypeCapture,
	}

	return s.exec.Run(ctx, key, opCapture, func(ctx context.Context) (*domain.TransactionResult, error) {
		prior, failed := s.exec.priorPayment(ctx, key, opCapture)
		if failed != nil {
			return failed, nil
		}
		if err := domain.ValidateRefundOrCapture(prior, cmd.Amount); err != nil {
			return rejected(key, err), nil
		}
		if err := domain.ValidateCurrency(prior, cmd.Currency); err != nil {
			return rejected(key, err), nil
		}

		req := application.CaptureRequest{
			PaymentID: prior.GatewayReferenceID,
			Amount:    cmd.Amount,
			Currency:  prior.Currency,
		}

		return s.exec.record(ctx, attemptSpec{
			op: opCapture,
			params: domain.NewAttemptParams{
				TenantID:          cmd.TenantID,
				AccountID:         accountOf(cmd.AccountID, prior),
				KbPaymentID:       cmd.KbPaymentID,
				KbTransactionID:   cmd.KbTransactionID,
				KbPaymentMethodID: prior.KbPaymentMethodID,
				Type:              domain.TypeCapture,
				Amount:            cmd.Amount,
				Currency:          prior.Currency,
			},
			reference: prior.GatewayReferenceID,
			call: func(ctx context.Context) (domain.AttemptOutcome, error) {
				return paymentOutcome(s.gateway.Capture(ctx, cmd.TenantID, req))
			},
		})
	})
}

func accountOf(accountID string, prior *domain.TransactionAttempt) string {
	if accountID != "" {
		return accountID
	}
	return prior.AccountID
}

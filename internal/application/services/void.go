package services

import (
	"context"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/application"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/domain"
)

type VoidService struct {
	exec    *Executor
	gateway application.Gateway
}

func NewVoidService(exec *Executor, gateway application.Gateway) *VoidService {
	return &VoidService{exec: exec, gateway: gateway}
}

// Void cancels a prior authorization. The VOID row carries the authorized amount.
func (s *VoidService) Void(ctx context.Context, cmd VoidCommand) (*domain.TransactionResult, error) {
	key := domain.AttemptKey{
		TenantID:        cmd.TenantID,
		KbPaymentID:     cmd.KbPaymentID,
		KbTransactionID: cmd.KbTransactionID,
		Type:            domain.TypeVoid,
	}

	return s.exec.Run(ctx, key, opVoid, func(ctx context.Context) (*domain.TransactionResult, error) {
		prior, failed := s.exec.priorPayment(ctx, key, opVoid)
		if failed != nil {
			return failed, nil
		}
		if prior == nil {
			return domain.CanceledResult(key, domain.ErrCodeNoPriorTransaction, readFailedMessage(opVoid)), nil
		}

		req := application.VoidRequest{
			PaymentID: prior.GatewayReferenceID,
			Reason:    cmd.Reason,
		}

		return s.exec.record(ctx, attemptSpec{
			op: opVoid,
			params: domain.NewAttemptParams{
				TenantID:          cmd.TenantID,
				AccountID:         accountOf(cmd.AccountID, prior),
				KbPaymentID:       cmd.KbPaymentID,
				KbTransactionID:   cmd.KbTransactionID,
				KbPaymentMethodID: prior.KbPaymentMethodID,
				Type:              domain.TypeVoid,
				Amount:            prior.Amount,
				Currency:          prior.Currency,
			},
			reference: prior.GatewayReferenceID,
			call: func(ctx context.Context) (domain.AttemptOutcome, error) {
				return paymentOutcome(s.gateway.Void(ctx, cmd.TenantID, req))
			},
		})
	})
}

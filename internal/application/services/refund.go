package services

import (
	"context"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/application"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/domain"
)

type RefundService struct {
	exec    *Executor
	gateway application.Gateway
}

func NewRefundService(exec *Executor, gateway application.Gateway) *RefundService {
	return &RefundService{exec: exec, gateway: gateway}
}

func (s *RefundService) Refund(ctx context.Context, cmd RefundCommand) (*domain.TransactionResult, error) {
	key := domain.AttemptKey{
		TenantID:        cmd.TenantID,
		KbPaymentID:     cmd.KbPaymentID,
		KbTransactionID: cmd.KbTransactionID,
		Type:            domain.TypeRefund,
	}

	return s.exec.Run(ctx, key, opRefund, func(ctx context.Context) (*domain.TransactionResult, error) {
		prior, failed := s.exec.priorPayment(ctx, key, opRefund)
		if failed != nil {
			return failed, nil
		}
		if err := domain.ValidateRefundOrCapture(prior, cmd.Amount); err != nil {
			return rejected(key, err), nil
		}
		if err := domain.ValidateCurrency(prior, cmd.Currency); err != nil {
			return rejected(key, err), nil
		}

		refunded, failed := s.exec.refunded(ctx, key, opRefund)
		if failed != nil {
			return failed, nil
		}
		if err := domain.ValidateRefundBalance(prior, refunded, cmd.Amount); err != nil {
			return rejected(key, err), nil
		}

		refundID := gatewayRefundID(cmd.KbTransactionID)
		req := application.RefundRequest{
			RefundID:  refundID,
			PaymentID: prior.GatewayReferenceID,
			Amount:    cmd.Amount,
			Currency:  prior.Currency,
			Reason:    cmd.Reason,
			Metadata: map[string]string{
				"kb_payment_id":     cmd.KbPaymentID,
				"kb_transaction_id": cmd.KbTransactionID,
			},
		}

		return s.exec.record(ctx, attemptSpec{
			op: opRefund,
			params: domain.NewAttemptParams{
				TenantID:          cmd.TenantID,
				AccountID:         accountOf(cmd.AccountID, prior),
				KbPaymentID:       cmd.KbPaymentID,
				KbTransactionID:   cmd.KbTransactionID,
				KbPaymentMethodID: prior.KbPaymentMethodID,
				Type:              domain.TypeRefund,
				Amount:            cmd.Amount,
				Currency:          prior.Currency,
			},
			reference: refundID,
			data:      map[string]any{"payment_id": prior.GatewayReferenceID},
			call: func(ctx context.Context) (domain.AttemptOutcome, error) {
				return refundOutcome(s.gateway.Refund(ctx, cmd.TenantID, req))
			},
		})
	})
}

// Credit is not offered by the gateway integration; nothing is called or recorded.
func (s *RefundService) Credit(_ context.Context, _ CreditCommand) (*domain.TransactionResult, error) {
	return nil, domain.NewNotImplementedError("credit")
}

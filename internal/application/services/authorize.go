package services

import (
	"context"
	"errors"
	"maps"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/application"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/domain"
)

// AuthorizeService charges a stored mandate, either holding funds (authorize)
// or capturing immediately (purchase).
type AuthorizeService struct {
	exec           *Executor
	gateway        application.Gateway
	paymentMethods application.PaymentMethodRepository
}

func NewAuthorizeService(
	exec *Executor,
	gateway application.Gateway,
	paymentMethods application.PaymentMethodRepository,
) *AuthorizeService {
	return &AuthorizeService{
		exec:           exec,
		gateway:        gateway,
		paymentMethods: paymentMethods,
	}
}

func (s *AuthorizeService) Authorize(ctx context.Context, cmd PaymentCommand) (*domain.TransactionResult, error) {
	return s.charge(ctx, cmd, domain.TypeAuthorize, application.CaptureManual, opAuthorize)
}

func (s *AuthorizeService) Purchase(ctx context.Context, cmd PaymentCommand) (*domain.TransactionResult, error) {
	return s.charge(ctx, cmd, domain.TypePurchase, application.CaptureAutomatic, opPurchase)
}

func (s *AuthorizeService) charge(
	ctx context.Context,
	cmd PaymentCommand,
	txType domain.TransactionType,
	captureMethod application.CaptureMethod,
	op string,
) (*domain.TransactionResult, error) {
	key := domain.AttemptKey{
		TenantID:        cmd.TenantID,
		KbPaymentID:     cmd.KbPaymentID,
		KbTransactionID: cmd.KbTransactionID,
		Type:            txType,
	}

	return s.exec.Run(ctx, key, op, func(ctx context.Context) (*domain.TransactionResult, error) {
		link, err := s.paymentMethods.FindActive(ctx, cmd.TenantID, cmd.KbPaymentMethodID)
		if err != nil {
			if errors.Is(err, domain.ErrLinkNotFound) {
				return nil, domain.NewPaymentMethodNotFoundError(cmd.KbPaymentMethodID)
			}
			return nil, domain.NewLedgerReadFailedError(err)
		}

		paymentID := gatewayPaymentID(cmd.KbTransactionID)
		req := application.PaymentRequest{
			PaymentID:     paymentID,
			Amount:        cmd.Amount,
			Currency:      cmd.Currency,
			CustomerID:    cmd.AccountID,
			MandateID:     link.MandateID,
			CaptureMethod: captureMethod,
			Description:   cmd.Description,
			Metadata:      paymentMetadata(cmd),
		}

		return s.exec.record(ctx, attemptSpec{
			op: op,
			params: domain.NewAttemptParams{
				TenantID:          cmd.TenantID,
				AccountID:         cmd.AccountID,
				KbPaymentID:       cmd.KbPaymentID,
				KbTransactionID:   cmd.KbTransactionID,
				KbPaymentMethodID: cmd.KbPaymentMethodID,
				Type:              txType,
				Amount:            cmd.Amount,
				Currency:          cmd.Currency,
			},
			reference: paymentID,
			call: func(ctx context.Context) (domain.AttemptOutcome, error) {
				return paymentOutcome(s.gateway.Authorize(ctx, cmd.TenantID, req))
			},
		})
	})
}

func paymentMetadata(cmd PaymentCommand) map[string]string {
	md := make(map[string]string, len(cmd.Properties)+4)
	maps.Copy(md, cmd.Properties)
	md["kb_account_id"] = cmd.AccountID
	md["kb_payment_id"] = cmd.KbPaymentID
	md["kb_transaction_id"] = cmd.KbTransactionID
	md["kb_payment_method_id"] = cmd.KbPaymentMethodID
	return md
}

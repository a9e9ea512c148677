package services

import (
	"context"
	"log/slog"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/application"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/domain"
)

// PaymentMethodService manages the mandate links used for off-session charges.
type PaymentMethodService struct {
	repo   application.PaymentMethodRepository
	logger *slog.Logger
}

func NewPaymentMethodService(repo application.PaymentMethodRepository, logger *slog.Logger) *PaymentMethodService {
	return &PaymentMethodService{repo: repo, logger: logger}
}

func (s *PaymentMethodService) Add(ctx context.Context, cmd AddPaymentMethodCommand) (*domain.PaymentMethodLink, error) {
	link, err := domain.NewPaymentMethodLink(cmd.TenantID, cmd.AccountID, cmd.KbPaymentMethodID, cmd.MandateID, cmd.SetDefault)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Add(ctx, link); err != nil {
		return nil, err
	}

	s.logger.Info("payment method linked",
		"tenant_id", cmd.TenantID,
		"kb_account_id", cmd.AccountID,
		"kb_payment_method_id", cmd.KbPaymentMethodID,
		"default", cmd.SetDefault,
	)
	return link, nil
}

// Delete retires the link. The mandate itself stays with the gateway.
func (s *PaymentMethodService) Delete(ctx context.Context, tenantID, kbPaymentMethodID string) error {
	return s.repo.SoftDelete(ctx, tenantID, kbPaymentMethodID)
}

func (s *PaymentMethodService) List(ctx context.Context, tenantID, kbAccountID string) ([]*domain.PaymentMethodLink, error) {
	return s.repo.ListByAccount(ctx, tenantID, kbAccountID)
}

func (s *PaymentMethodService) Detail(_ context.Context, _, _ string) (*domain.PaymentMethodLink, error) {
	return nil, domain.NewNotImplementedError("payment method detail")
}

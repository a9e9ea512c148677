package hyperswitch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/application"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/domain"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/tenant"
)

// CredentialsProvider resolves gateway credentials for a tenant.
type CredentialsProvider interface {
	Get(tenantID string) (tenant.Credentials, bool)
}

// Adapter implements application.Gateway on top of the raw API. It resolves
// credentials, maps currencies and converts amounts to minor units.
type Adapter struct {
	api         API
	credentials CredentialsProvider
	metrics     application.Metrics
	logger      *slog.Logger
}

var _ application.Gateway = (*Adapter)(nil)

func NewAdapter(api API, credentials CredentialsProvider, metrics application.Metrics, logger *slog.Logger) *Adapter {
	return &Adapter{
		api:         api,
		credentials: credentials,
		metrics:     metrics,
		logger:      logger,
	}
}

func (a *Adapter) Authorize(ctx context.Context, tenantID string, req application.PaymentRequest) (domain.PaymentOutcome, error) {
	creds, err := a.resolve(tenantID)
	if err != nil {
		return domain.PaymentOutcome{}, err
	}
	currency, err := domain.LookupCurrency(req.Currency)
	if err != nil {
		return domain.PaymentOutcome{}, err
	}

	body := PaymentsCreateRequest{
		PaymentID:     req.PaymentID,
		Amount:        currency.ToMinorUnits(req.Amount),
		Currency:      currency.Code,
		Confirm:       true,
		CaptureMethod: string(req.CaptureMethod),
		CustomerID:    req.CustomerID,
		OffSession:    true,
		MandateID:     req.MandateID,
		ProfileID:     creds.ProfileID,
		Description:   req.Description,
		Metadata:      req.Metadata,
	}

	resp, err := observe(a, "create_payment", func() (*PaymentsResponse, error) {
		return a.api.CreatePayment(ctx, creds, body)
	})
	if err != nil {
		return domain.PaymentOutcome{}, err
	}
	return toPaymentOutcome(resp), nil
}

func (a *Adapter) Capture(ctx context.Context, tenantID string, req application.CaptureRequest) (domain.PaymentOutcome, error) {
	creds, err := a.resolve(tenantID)
	if err != nil {
		return domain.PaymentOutcome{}, err
	}
	currency, err := domain.LookupCurrency(req.Currency)
	if err != nil {
		return domain.PaymentOutcome{}, err
	}

	body := PaymentsCaptureRequest{AmountToCapture: currency.ToMinorUnits(req.Amount)}

	resp, err := observe(a, "capture_payment", func() (*PaymentsResponse, error) {
		return a.api.CapturePayment(ctx, creds, req.PaymentID, body)
	})
	if err != nil {
		return domain.PaymentOutcome{}, err
	}
	return toPaymentOutcome(resp), nil
}

func (a *Adapter) Void(ctx context.Context, tenantID string, req application.VoidRequest) (domain.PaymentOutcome, error) {
	creds, err := a.resolve(tenantID)
	if err != nil {
		return domain.PaymentOutcome{}, err
	}

	resp, err := observe(a, "cancel_payment", func() (*PaymentsResponse, error) {
		return a.api.CancelPayment(ctx, creds, req.PaymentID, PaymentsCancelRequest{CancellationReason: req.Reason})
	})
	if err != nil {
		return domain.PaymentOutcome{}, err
	}
	return toPaymentOutcome(resp), nil
}

func (a *Adapter) Refund(ctx context.Context, tenantID string, req application.RefundRequest) (domain.RefundOutcome, error) {
	creds, err := a.resolve(tenantID)
	if err != nil {
		return domain.RefundOutcome{}, err
	}
	currency, err := domain.LookupCurrency(req.Currency)
	if err != nil {
		return domain.RefundOutcome{}, err
	}

	body := RefundRequest{
		RefundID:  req.RefundID,
		PaymentID: req.PaymentID,
		Amount:    currency.ToMinorUnits(req.Amount),
		Reason:    req.Reason,
		Metadata:  req.Metadata,
	}

	resp, err := observe(a, "create_refund", func() (*RefundResponse, error) {
		return a.api.CreateRefund(ctx, creds, body)
	})
	if err != nil {
		return domain.RefundOutcome{}, err
	}
	return toRefundOutcome(resp), nil
}

func (a *Adapter) RetrievePayment(ctx context.Context, tenantID, paymentID string) (domain.PaymentOutcome, error) {
	creds, err := a.resolve(tenantID)
	if err != nil {
		return domain.PaymentOutcome{}, err
	}

	resp, err := observe(a, "retrieve_payment", func() (*PaymentsResponse, error) {
		return a.api.RetrievePayment(ctx, creds, paymentID)
	})
	if err != nil {
		return domain.PaymentOutcome{}, err
	}
	return toPaymentOutcome(resp), nil
}

func (a *Adapter) RetrieveRefund(ctx context.Context, tenantID, refundID string) (domain.RefundOutcome, error) {
	creds, err := a.resolve(tenantID)
	if err != nil {
		return domain.RefundOutcome{}, err
	}

	resp, err := observe(a, "retrieve_refund", func() (*RefundResponse, error) {
		return a.api.RetrieveRefund(ctx, creds, refundID)
	})
	if err != nil {
		return domain.RefundOutcome{}, err
	}
	return toRefundOutcome(resp), nil
}

func (a *Adapter) resolve(tenantID string) (tenant.Credentials, error) {
	creds, ok := a.credentials.Get(tenantID)
	if !ok {
		a.logger.Warn("gateway credentials missing", "tenant_id", tenantID)
		return tenant.Credentials{}, domain.NewConfigurationMissingError(tenantID)
	}
	return creds, nil
}

func observe[T any](a *Adapter, operation string, call func() (*T, error)) (*T, error) {
	start := time.Now()
	resp, err := call()
	elapsed := time.Since(start)

	if err == nil {
		a.metrics.GatewayCall(operation, "success", elapsed)
		return resp, nil
	}

	classified := classify(err)
	if domain.IsErrorCode(classified, domain.ErrCodeGatewayBusinessError) {
		a.metrics.GatewayCall(operation, "business_error", elapsed)
		a.logger.Info("gateway rejected request", "operation", operation, "error", err)
	} else {
		a.metrics.GatewayCall(operation, "transport_error", elapsed)
		a.logger.Warn("gateway call failed", "operation", operation, "elapsed", elapsed, "error", err)
	}
	return nil, classified
}

// classify separates gateway rejections (4xx) from failures where the outcome is unknown.
func classify(err error) error {
	if gwErr, ok := IsGatewayError(err); ok && !gwErr.IsRetryable() {
		if gwErr.IsNotFound() {
			return domain.NewGatewayBusinessError(gwErr.Message, fmt.Errorf("%w: %w", domain.ErrGatewayResourceNotFound, gwErr))
		}
		return domain.NewGatewayBusinessError(gwErr.Message, gwErr)
	}
	return domain.NewGatewayTransportError(err)
}

func toPaymentOutcome(resp *PaymentsResponse) domain.PaymentOutcome {
	return domain.PaymentOutcome{
		PaymentID:    resp.PaymentID,
		Status:       resp.Status,
		Amount:       resp.Amount,
		Currency:     resp.Currency,
		CustomerID:   resp.CustomerID,
		MerchantRef:  resp.ReferenceID,
		ProfileID:    resp.ProfileID,
		ErrorCode:    resp.ErrorCode,
		ErrorMessage: resp.ErrorMessage,
	}
}

func toRefundOutcome(resp *RefundResponse) domain.RefundOutcome {
	return domain.RefundOutcome{
		RefundID:     resp.RefundID,
		PaymentID:    resp.PaymentID,
		Status:       resp.Status,
		Amount:       resp.Amount,
		Currency:     resp.Currency,
		Reason:       resp.Reason,
		ErrorCode:    resp.ErrorCode,
		ErrorMessage: resp.ErrorMessage,
	}
}

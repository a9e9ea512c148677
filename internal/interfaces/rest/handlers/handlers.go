package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/application"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/application/services"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/interfaces/rest"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/tenant"
	"github.com/go-playground/validator"
	"github.com/oapi-codegen/runtime"
)

// TenantConfigurer accepts per-tenant gateway credentials.
type TenantConfigurer interface {
	Replace(tenantID string, creds tenant.Credentials)
}

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Handlers struct {
	authService          *services.AuthorizeService
	captureService       *services.CaptureService
	voidService          *services.VoidService
	refundService        *services.RefundService
	queryService         *services.QueryService
	paymentMethodService *services.PaymentMethodService
	tenants              TenantConfigurer
	checks               map[string]HealthCheck
	validate             *validator.Validate
	logger               *slog.Logger
}

type Services struct {
	Authorize     *services.AuthorizeService
	Capture       *services.CaptureService
	Void          *services.VoidService
	Refund        *services.RefundService
	Query         *services.QueryService
	PaymentMethod *services.PaymentMethodService
}

func NewHandlers(svc Services, tenants TenantConfigurer, checks map[string]HealthCheck, logger *slog.Logger) *Handlers {
	return &Handlers{
		authService:          svc.Authorize,
		captureService:       svc.Capture,
		voidService:          svc.Void,
		refundService:        svc.Refund,
		queryService:         svc.Query,
		paymentMethodService: svc.PaymentMethod,
		tenants:              tenants,
		checks:               checks,
		validate:             validator.New(),
		logger:               logger,
	}
}

// Register mounts every adapter route on mux.
func (h *Handlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /payments/{kbPaymentId}/authorize", h.AuthorizePayment)
	mux.HandleFunc("POST /payments/{kbPaymentId}/purchase", h.PurchasePayment)
	mux.HandleFunc("POST /payments/{kbPaymentId}/capture", h.CapturePayment)
	mux.HandleFunc("POST /payments/{kbPaymentId}/void", h.VoidPayment)
	mux.HandleFunc("POST /payments/{kbPaymentId}/refund", h.RefundPayment)
	mux.HandleFunc("POST /payments/{kbPaymentId}/credit", h.CreditPayment)
	mux.HandleFunc("GET /payments/search", h.SearchPayments)
	mux.HandleFunc("GET /payments/{kbPaymentId}", h.GetPaymentInfo)

	mux.HandleFunc("POST /accounts/{kbAccountId}/payment-methods", h.AddPaymentMethod)
	mux.HandleFunc("GET /accounts/{kbAccountId}/payment-methods", h.ListPaymentMethods)
	mux.HandleFunc("DELETE /accounts/{kbAccountId}/payment-methods/{kbPaymentMethodId}", h.DeletePaymentMethod)
	mux.HandleFunc("GET /payment-methods/{kbPaymentMethodId}", h.GetPaymentMethodDetail)

	mux.HandleFunc("PUT /tenants/{tenantId}/config", h.ConfigureTenant)
	mux.HandleFunc("GET /healthz", h.Health)
}

func (h *Handlers) fail(w http.ResponseWriter, err error) {
	rest.WriteError(w, err, h.logger)
}

func tenantID(r *http.Request) (string, error) {
	id := r.Header.Get(rest.TenantHeader)
	if id == "" {
		return "", application.NewTenantRequiredError()
	}
	return id, nil
}

func pathParam(r *http.Request, name string) (string, error) {
	var value string
	err := runtime.BindStyledParameterWithOptions("simple", name, r.PathValue(name), &value,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil {
		return "", application.NewInvalidInputError(err)
	}
	return value, nil
}

func (h *Handlers) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return application.NewInvalidInputError(err)
	}
	if err := h.validate.Struct(dst); err != nil {
		return application.NewInvalidInputError(err)
	}
	return nil
}

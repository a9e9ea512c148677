package handlers

import (
	"net/http"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/application"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/application/services"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/domain"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/interfaces/rest"
	"github.com/oapi-codegen/runtime"
	"github.com/shopspring/decimal"
)

// TransactionRequest is the body of every lifecycle call.
type TransactionRequest struct {
	KbAccountID       string            `json:"kbAccountId" validate:"required"`
	KbTransactionID   string            `json:"kbTransactionId" validate:"required"`
	KbPaymentMethodID string            `json:"kbPaymentMethodId"`
	Amount            *decimal.Decimal  `json:"amount"`
	Currency          string            `json:"currency" validate:"omitempty,len=3"`
	Description       string            `json:"description"`
	Reason            string            `json:"reason"`
	Properties        map[string]string `json:"properties"`
}

type transactionCall struct {
	tenantID    string
	kbPaymentID string
	body        TransactionRequest
}

// parse reads tenant, path and body. needAmount rejects a missing amount.
func (h *Handlers) parse(r *http.Request, needAmount bool) (*transactionCall, error) {
	tenant, err := tenantID(r)
	if err != nil {
		return nil, err
	}
	kbPaymentID, err := pathParam(r, "kbPaymentId")
	if err != nil {
		return nil, err
	}

	call := &transactionCall{tenantID: tenant, kbPaymentID: kbPaymentID}
	if err := h.decode(r, &call.body); err != nil {
		return nil, err
	}

	switch amount := call.body.Amount; {
	case amount == nil && needAmount:
		return nil, domain.NewMissingRequiredFieldError("amount")
	case amount != nil && amount.IsNegative():
		return nil, domain.NewInvalidAmountError(*amount)
	}
	return call, nil
}

func (c *transactionCall) amount() decimal.Decimal {
	if c.body.Amount == nil {
		return decimal.Zero
	}
	return *c.body.Amount
}

func (c *transactionCall) paymentCommand() services.PaymentCommand {
	return services.PaymentCommand{
		TenantID:          c.tenantID,
		AccountID:         c.body.KbAccountID,
		KbPaymentID:       c.kbPaymentID,
		KbTransactionID:   c.body.KbTransactionID,
		KbPaymentMethodID: c.body.KbPaymentMethodID,
		Amount:            c.amount(),
		Currency:          c.body.Currency,
		Description:       c.body.Description,
		Properties:        c.body.Properties,
	}
}

func (h *Handlers) respond(w http.ResponseWriter, result *domain.TransactionResult, err error) {
	if err != nil {
		h.fail(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, result)
}

func (h *Handlers) AuthorizePayment(w http.ResponseWriter, r *http.Request) {
	call, err := h.parse(r, true)
	if err != nil {
		h.fail(w, err)
		return
	}
	if call.body.KbPaymentMethodID == "" {
		h.fail(w, domain.NewMissingRequiredFieldError("kbPaymentMethodId"))
		return
	}

	result, err := h.authService.Authorize(r.Context(), call.paymentCommand())
	h.respond(w, result, err)
}

func (h *Handlers) PurchasePayment(w http.ResponseWriter, r *http.Request) {
	call, err := h.parse(r, true)
	if err != nil {
		h.fail(w, err)
		return
	}
	if call.body.KbPaymentMethodID == "" {
		h.fail(w, domain.NewMissingRequiredFieldError("kbPaymentMethodId"))
		return
	}

	result, err := h.authService.Purchase(r.Context(), call.paymentCommand())
	h.respond(w, result, err)
}

func (h *Handlers) CapturePayment(w http.ResponseWriter, r *http.Request) {
	call, err := h.parse(r, true)
	if err != nil {
		h.fail(w, err)
		return
	}

	result, err := h.captureService.Capture(r.Context(), services.CaptureCommand{
		TenantID:        call.tenantID,
		AccountID:       call.body.KbAccountID,
		KbPaymentID:     call.kbPaymentID,
		KbTransactionID: call.body.KbTransactionID,
		Amount:          call.amount(),
		Currency:        call.body.Currency,
	})
	h.respond(w, result, err)
}

func (h *Handlers) VoidPayment(w http.ResponseWriter, r *http.Request) {
	call, err := h.parse(r, false)
	if err != nil {
		h.fail(w, err)
		return
	}

	result, err := h.voidService.Void(r.Context(), services.VoidCommand{
		TenantID:        call.tenantID,
		AccountID:       call.body.KbAccountID,
		KbPaymentID:     call.kbPaymentID,
		KbTransactionID: call.body.KbTransactionID,
		Reason:          call.body.Reason,
	})
	h.respond(w, result, err)
}

func (h *Handlers) RefundPayment(w http.ResponseWriter, r *http.Request) {
	call, err := h.parse(r, true)
	if err != nil {
		h.fail(w, err)
		return
	}

	result, err := h.refundService.Refund(r.Context(), services.RefundCommand{
		TenantID:        call.tenantID,
		AccountID:       call.body.KbAccountID,
		KbPaymentID:     call.kbPaymentID,
		KbTransactionID: call.body.KbTransactionID,
		Amount:          call.amount(),
		Currency:        call.body.Currency,
		Reason:          call.body.Reason,
	})
	h.respond(w, result, err)
}

func (h *Handlers) CreditPayment(w http.ResponseWriter, r *http.Request) {
	call, err := h.parse(r, false)
	if err != nil {
		h.fail(w, err)
		return
	}

	result, err := h.refundService.Credit(r.Context(), services.CreditCommand{
		TenantID:        call.tenantID,
		AccountID:       call.body.KbAccountID,
		KbPaymentID:     call.kbPaymentID,
		KbTransactionID: call.body.KbTransactionID,
		Amount:          call.amount(),
		Currency:        call.body.Currency,
	})
	h.respond(w, result, err)
}

// GetPaymentInfo lists every attempt of a payment, reconciling pending ones first.
func (h *Handlers) GetPaymentInfo(w http.ResponseWriter, r *http.Request) {
	tenant, err := tenantID(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	kbPaymentID, err := pathParam(r, "kbPaymentId")
	if err != nil {
		h.fail(w, err)
		return
	}

	results, err := h.queryService.GetStatus(r.Context(), tenant, kbPaymentID)
	if err != nil {
		h.fail(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, results)
}

func (h *Handlers) SearchPayments(w http.ResponseWriter, r *http.Request) {
	tenant, err := tenantID(r)
	if err != nil {
		h.fail(w, err)
		return
	}

	var searchKey string
	if err := runtime.BindQueryParameter("form", true, false, "searchKey", r.URL.Query(), &searchKey); err != nil {
		h.fail(w, application.NewInvalidInputError(err))
		return
	}

	results, err := h.queryService.SearchPayments(r.Context(), tenant, searchKey)
	if err != nil {
		h.fail(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, results)
}

package handlers

import (
	"net/http"
	"time"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/application/services"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/domain"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/interfaces/rest"
)

// mandateProperty is the plugin property holding the Hyperswitch mandate.
const mandateProperty = "mandateId"

type AddPaymentMethodRequest struct {
	KbPaymentMethodID string            `json:"kbPaymentMethodId" validate:"required"`
	SetDefault        bool              `json:"setDefault"`
	Properties        map[string]string `json:"properties"`
}

type PaymentMethodResponse struct {
	KbAccountID       string    `json:"kbAccountId"`
	KbPaymentMethodID string    `json:"kbPaymentMethodId"`
	MandateID         string    `json:"mandateId"`
	IsDefault         bool      `json:"isDefault"`
	CreatedAt         time.Time `json:"createdAt"`
}

func toPaymentMethodResponse(link *domain.PaymentMethodLink) PaymentMethodResponse {
	return PaymentMethodResponse{
		KbAccountID:       link.AccountID,
		KbPaymentMethodID: link.KbPaymentMethodID,
		MandateID:         link.MandateID,
		IsDefault:         link.IsDefault,
		CreatedAt:         link.CreatedAt,
	}
}

func (h *Handlers) AddPaymentMethod(w http.ResponseWriter, r *http.Request) {
	tenant, err := tenantID(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	accountID, err := pathParam(r, "kbAccountId")
	if err != nil {
		h.fail(w, err)
		return
	}

	var req AddPaymentMethodRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, err)
		return
	}

	link, err := h.paymentMethodService.Add(r.Context(), services.AddPaymentMethodCommand{
		TenantID:          tenant,
		AccountID:         accountID,
		KbPaymentMethodID: req.KbPaymentMethodID,
		MandateID:         req.Properties[mandateProperty],
		SetDefault:        req.SetDefault,
	})
	if err != nil {
		h.fail(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusCreated, toPaymentMethodResponse(link))
}

func (h *Handlers) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	tenant, err := tenantID(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	accountID, err := pathParam(r, "kbAccountId")
	if err != nil {
		h.fail(w, err)
		return
	}

	links, err := h.paymentMethodService.List(r.Context(), tenant, accountID)
	if err != nil {
		h.fail(w, err)
		return
	}

	resp := make([]PaymentMethodResponse, 0, len(links))
	for _, link := range links {
		resp = append(resp, toPaymentMethodResponse(link))
	}
	rest.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handlers) DeletePaymentMethod(w http.ResponseWriter, r *http.Request) {
	tenant, err := tenantID(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	pmID, err := pathParam(r, "kbPaymentMethodId")
	if err != nil {
		h.fail(w, err)
		return
	}

	if err := h.paymentMethodService.Delete(r.Context(), tenant, pmID); err != nil {
		h.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) GetPaymentMethodDetail(w http.ResponseWriter, r *http.Request) {
	tenant, err := tenantID(r)
	if err != nil {
		h.fail(w, err)
		return
	}
	pmID, err := pathParam(r, "kbPaymentMethodId")
	if err != nil {
		h.fail(w, err)
		return
	}

	link, err := h.paymentMethodService.Detail(r.Context(), tenant, pmID)
	if err != nil {
		h.fail(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toPaymentMethodResponse(link))
}

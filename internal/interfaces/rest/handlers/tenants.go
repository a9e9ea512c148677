package handlers

import (
	"net/http"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/interfaces/rest"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/tenant"
)

type TenantConfigRequest struct {
	APIKey      string `json:"hyperswitchApikey" validate:"required"`
	ProfileID   string `json:"profileId"`
	Environment string `json:"environment" validate:"omitempty,oneof=sandbox production"`
}

// ConfigureTenant stores gateway credentials for one tenant. The API key is
// never echoed back.
func (h *Handlers) ConfigureTenant(w http.ResponseWriter, r *http.Request) {
	tenantID, err := pathParam(r, "tenantId")
	if err != nil {
		h.fail(w, err)
		return
	}

	var req TenantConfigRequest
	if err := h.decode(r, &req); err != nil {
		h.fail(w, err)
		return
	}

	creds := tenant.Credentials{
		APIKey:      req.APIKey,
		ProfileID:   req.ProfileID,
		Environment: req.Environment,
	}.Normalize()
	h.tenants.Replace(tenantID, creds)

	h.logger.Info("tenant configuration updated", "tenant_id", tenantID, "environment", creds.Environment)
	rest.WriteJSON(w, http.StatusOK, map[string]string{
		"tenantId":    tenantID,
		"profileId":   creds.ProfileID,
		"environment": creds.Environment,
	})
}

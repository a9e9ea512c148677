package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/application"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/domain"
)

// TenantHeader carries the Kill Bill tenant on every scoped request.
const TenantHeader = "X-Killbill-Tenant-Id"

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data,omitempty"`
	Error   *APIError `json:"error,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON wraps data in the success envelope.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(APIResponse{Success: true, Data: data})
}

// WriteError maps application and domain errors to HTTP responses
func WriteError(w http.ResponseWriter, err error, logger *slog.Logger) {
	status := application.ToHTTPStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusNotImplemented {
		logger.Error("request failed", "status", status, "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(APIResponse{
		Success: false,
		Error: &APIError{
			Code:    application.ToErrorCode(err),
			Message: errorMessage(err, status),
		},
	})
}

// errorMessage keeps infrastructure detail out of responses. Gateway business
// messages pass through verbatim.
func errorMessage(err error, status int) string {
	if svcErr, ok := application.IsServiceError(err); ok {
		if svcErr.Code == application.ErrCodeInvalidInput && svcErr.Err != nil {
			return svcErr.Err.Error()
		}
		return svcErr.Message
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	if status < http.StatusInternalServerError {
		return err.Error()
	}
	return "An internal error occurred"
}

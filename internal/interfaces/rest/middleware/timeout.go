package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/application"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/interfaces/rest"
)

// Timeout bounds each request. The handler's context is cancelled at the
// deadline; a ledger write already in flight is detached from it.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	body, _ := json.Marshal(rest.APIResponse{
		Error: &rest.APIError{
			Code:    application.ErrCodeTimeout,
			Message: "Request timeout",
		},
	})

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, string(body))
	}
}

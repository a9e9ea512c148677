package hyperswitch

import (
	"errors"
	"fmt"
)

// GatewayError is a non-2xx answer from the gateway.
type GatewayError struct {
	Type       string
	Code       string
	Message    string
	StatusCode int
}

type ErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway error [%s]: %s (status: %d)", e.Code, e.Message, e.StatusCode)
}

func (e *GatewayError) IsRetryable() bool {
	return e.StatusCode >= 500
}

func (e *GatewayError) IsNotFound() bool {
	return e.StatusCode == 404
}

func IsGatewayError(err error) (*GatewayError, bool) {
	var gwErr *GatewayError
	ok := errors.As(err, &gwErr)
	return gwErr, ok
}

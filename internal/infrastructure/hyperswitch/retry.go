package hyperswitch

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/config"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/tenant"
)

// RetryClient retries the read-only endpoints. Calls that create or move money
// pass straight through: a blind resend could charge twice.
type RetryClient struct {
	inner      API
	baseDelay  time.Duration
	maxRetries int
}

func NewRetryClient(inner API, cfg config.RetryConfig) *RetryClient {
	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &RetryClient{
		inner:      inner,
		baseDelay:  cfg.BaseDelay,
		maxRetries: maxRetries,
	}
}

func (r *RetryClient) CreatePayment(ctx context.Context, creds tenant.Credentials, req PaymentsCreateRequest) (*PaymentsResponse, error) {
	return r.inner.CreatePayment(ctx, creds, req)
}

func (r *RetryClient) CapturePayment(ctx context.Context, creds tenant.Credentials, paymentID string, req PaymentsCaptureRequest) (*PaymentsResponse, error) {
	return r.inner.CapturePayment(ctx, creds, paymentID, req)
}

func (r *RetryClient) CancelPayment(ctx context.Context, creds tenant.Credentials, paymentID string, req PaymentsCancelRequest) (*PaymentsResponse, error) {
	return r.inner.CancelPayment(ctx, creds, paymentID, req)
}

func (r *RetryClient) CreateRefund(ctx context.Context, creds tenant.Credentials, req RefundRequest) (*RefundResponse, error) {
	return r.inner.CreateRefund(ctx, creds, req)
}

// RetrievePayment with retry logic
func (r *RetryClient) RetrievePayment(ctx context.Context, creds tenant.Credentials, paymentID string) (*PaymentsResponse, error) {
	return retry(
		r,
		ctx,
		func(ctx context.Context) (*PaymentsResponse, error) {
			return r.inner.RetrievePayment(ctx, creds, paymentID)
		},
	)
}

// RetrieveRefund with retry logic
func (r *RetryClient) RetrieveRefund(ctx context.Context, creds tenant.Credentials, refundID string) (*RefundResponse, error) {
	return retry(
		r,
		ctx,
		func(ctx context.Context) (*RefundResponse, error) {
			return r.inner.RetrieveRefund(ctx, creds, refundID)
		},
	)
}

// Generic retry helper
func retry[T any](r *RetryClient, ctx context.Context, operation func(ctx context.Context) (*T, error)) (*T, error) {
	var lastErr error

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		resp, err := operation(ctx)
		if err == nil {
			return resp, nil
		}

		lastErr = err

		if !isRetryable(err) {
			return nil, err
		}

		if attempt < r.maxRetries-1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.backoff(attempt)):
			}
		}
	}

	return nil, fmt.Errorf("maximum retries exceeded: %w", lastErr)
}

func isRetryable(err error) bool {
	if gwErr, ok := IsGatewayError(err); ok {
		return gwErr.IsRetryable()
	}

	if errors.Is(err, context.Canceled) {
		return false
	}

	return true
}

// Backoff calculation with exponential delay and jitter
func (r *RetryClient) backoff(attempt int) time.Duration {
	base := r.baseDelay * time.Duration(1<<attempt)

	jitter := time.Duration(rand.Int63n(int64(r.baseDelay/2) + 1))

	return base + jitter
}

// Package hyperswitch talks to the Hyperswitch payments API.
package hyperswitch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/config"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/tenant"
)

// API is the raw gateway surface, one method per endpoint.
type API interface {
	CreatePayment(ctx context.Context, creds tenant.Credentials, req PaymentsCreateRequest) (*PaymentsResponse, error)
	CapturePayment(ctx context.Context, creds tenant.Credentials, paymentID string, req PaymentsCaptureRequest) (*PaymentsResponse, error)
	CancelPayment(ctx context.Context, creds tenant.Credentials, paymentID string, req PaymentsCancelRequest) (*PaymentsResponse, error)
	CreateRefund(ctx context.Context, creds tenant.Credentials, req RefundRequest) (*RefundResponse, error)
	RetrievePayment(ctx context.Context, creds tenant.Credentials, paymentID string) (*PaymentsResponse, error)
	RetrieveRefund(ctx context.Context, creds tenant.Credentials, refundID string) (*RefundResponse, error)
}

type HTTPClient struct {
	sandboxURL    string
	productionURL string
	httpClient    *http.Client
}

func NewHTTPClient(cfg config.GatewayConfig) *HTTPClient {
	return &HTTPClient{
		sandboxURL:    strings.TrimRight(cfg.SandboxBaseURL, "/"),
		productionURL: strings.TrimRight(cfg.ProductionBaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

func (c *HTTPClient) baseURL(creds tenant.Credentials) string {
	if creds.IsProduction() {
		return c.productionURL
	}
	return c.sandboxURL
}

func (c *HTTPClient) CreatePayment(ctx context.Context, creds tenant.Credentials, req PaymentsCreateRequest) (*PaymentsResponse, error) {
	endpoint := fmt.Sprintf("%s/payments", c.baseURL(creds))
	return sendRequest[PaymentsCreateRequest, PaymentsResponse](c, ctx, creds, http.MethodPost, endpoint, &req)
}

func (c *HTTPClient) CapturePayment(ctx context.Context, creds tenant.Credentials, paymentID string, req PaymentsCaptureRequest) (*PaymentsResponse, error) {
	endpoint := fmt.Sprintf("%s/payments/%s/capture", c.baseURL(creds), url.PathEscape(paymentID))
	return sendRequest[PaymentsCaptureRequest, PaymentsResponse](c, ctx, creds, http.MethodPost, endpoint, &req)
}

func (c *HTTPClient) CancelPayment(ctx context.Context, creds tenant.Credentials, paymentID string, req PaymentsCancelRequest) (*PaymentsResponse, error) {
	endpoint := fmt.Sprintf("%s/payments/%s/cancel", c.baseURL(creds), url.PathEscape(paymentID))
	return sendRequest[PaymentsCancelRequest, PaymentsResponse](c, ctx, creds, http.MethodPost, endpoint, &req)
}

func (c *HTTPClient) CreateRefund(ctx context.Context, creds tenant.Credentials, req RefundRequest) (*RefundResponse, error) {
	endpoint := fmt.Sprintf("%s/refunds", c.baseURL(creds))
	return sendRequest[RefundRequest, RefundResponse](c, ctx, creds, http.MethodPost, endpoint, &req)
}

func (c *HTTPClient) RetrievePayment(ctx context.Context, creds tenant.Credentials, paymentID string) (*PaymentsResponse, error) {
	endpoint := fmt.Sprintf("%s/payments/%s?force_sync=true", c.baseURL(creds), url.PathEscape(paymentID))
	return sendRequest[any, PaymentsResponse](c, ctx, creds, http.MethodGet, endpoint, nil)
}

func (c *HTTPClient) RetrieveRefund(ctx context.Context, creds tenant.Credentials, refundID string) (*RefundResponse, error) {
	endpoint := fmt.Sprintf("%s/refunds/%s", c.baseURL(creds), url.PathEscape(refundID))
	return sendRequest[any, RefundResponse](c, ctx, creds, http.MethodGet, endpoint, nil)
}

func sendRequest[Req any, Resp any](c *HTTPClient, ctx context.Context, creds tenant.Credentials, method, endpoint string, reqBody *Req) (*Resp, error) {
	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return nil, fmt.Errorf("error marshalling json: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("api-key", creds.APIKey)
	if reqBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		var errResp ErrorResponse
		if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error.Message == "" {
			return nil, &GatewayError{
				Message:    strings.TrimSpace(string(body)),
				StatusCode: resp.StatusCode,
			}
		}
		return nil, &GatewayError{
			Type:       errResp.Error.Type,
			Code:       errResp.Error.Code,
			Message:    errResp.Error.Message,
			StatusCode: resp.StatusCode,
		}
	}

	var gwResp Resp
	if err := json.NewDecoder(resp.Body).Decode(&gwResp); err != nil {
		return nil, fmt.Errorf("error decoding json response: %w", err)
	}

	return &gwResp, nil
}

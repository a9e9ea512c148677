package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/application/services"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/application/services/testhelpers"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/config"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/domain"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/infrastructure/archive"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/infrastructure/hyperswitch"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/infrastructure/lock"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/infrastructure/metrics"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/infrastructure/persistence/postgres"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/interfaces/rest"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/interfaces/rest/handlers"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/interfaces/rest/middleware"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/interfaces/rest/openapi"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/tenant"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
)

// fakeHyperswitch keeps just enough payment state to drive the adapter.
type fakeHyperswitch struct {
	mu       sync.Mutex
	payments map[string]*hyperswitch.PaymentsResponse
	creates  atomic.Int32
	delay    atomic.Int64
}

func newFakeHyperswitch() *fakeHyperswitch {
	return &fakeHyperswitch{payments: map[string]*hyperswitch.PaymentsResponse{}}
}

func (f *fakeHyperswitch) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /payments", func(w http.ResponseWriter, r *http.Request) {
		f.creates.Add(1)
		time.Sleep(time.Duration(f.delay.Load()))

		var req hyperswitch.PaymentsCreateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		status := domain.IntentSucceeded
		if req.CaptureMethod == "manual" {
			status = domain.IntentRequiresCapture
		}
		if req.Metadata["scenario"] == "pending" {
			status = domain.IntentProcessing
		}
		f.store(w, &hyperswitch.PaymentsResponse{
			PaymentID:  req.PaymentID,
			Status:     status,
			Amount:     req.Amount,
			Currency:   req.Currency,
			CustomerID: req.CustomerID,
		})
	})
	mux.HandleFunc("POST /payments/{id}/capture", func(w http.ResponseWriter, r *http.Request) {
		f.transition(w, r.PathValue("id"), domain.IntentSucceeded)
	})
	mux.HandleFunc("POST /payments/{id}/cancel", func(w http.ResponseWriter, r *http.Request) {
		f.transition(w, r.PathValue("id"), domain.IntentCancelled)
	})
	mux.HandleFunc("GET /payments/{id}", func(w http.ResponseWriter, r *http.Request) {
		// a processing payment settles by the time anyone asks again
		f.transition(w, r.PathValue("id"), domain.IntentSucceeded)
	})
	mux.HandleFunc("POST /refunds", func(w http.ResponseWriter, r *http.Request) {
		var req hyperswitch.RefundRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		writeJSON(w, http.StatusOK, hyperswitch.RefundResponse{
			RefundID:  req.RefundID,
			PaymentID: req.PaymentID,
			Amount:    req.Amount,
			Currency:  "USD",
			Status:    domain.RefundSucceeded,
		})
	})
	return mux
}

func (f *fakeHyperswitch) store(w http.ResponseWriter, p *hyperswitch.PaymentsResponse) {
	f.mu.Lock()
	f.payments[p.PaymentID] = p
	f.mu.Unlock()
	writeJSON(w, http.StatusOK, p)
}

func (f *fakeHyperswitch) transition(w http.ResponseWriter, id, status string) {
	f.mu.Lock()
	p, ok := f.payments[id]
	if ok {
		p.Status = status
	}
	f.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error": map[string]string{"type": "invalid_request", "code": "HE_02", "message": "Payment does not exist in our records"},
		})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *rest.APIError  `json:"error"`
}

type IntegrationTestSuite struct {
	suite.Suite
	testDB  *testhelpers.TestDatabase
	gateway *fakeHyperswitch
	hsSrv   *httptest.Server
	server  *httptest.Server
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}

func (s *IntegrationTestSuite) SetupSuite() {
	s.testDB = testhelpers.SetupTestDatabase(s.T())
	s.gateway = newFakeHyperswitch()
	s.hsSrv = httptest.NewServer(s.gateway.handler())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	appMetrics := metrics.NewPrometheus(prometheus.NewRegistry())

	tenants := tenant.NewStore(tenant.Credentials{APIKey: "snd_default"})
	api := hyperswitch.NewRetryClient(hyperswitch.NewHTTPClient(config.GatewayConfig{
		SandboxBaseURL:    s.hsSrv.URL,
		ProductionBaseURL: s.hsSrv.URL,
		Timeout:           2 * time.Second,
	}), config.RetryConfig{BaseDelay: time.Millisecond, MaxRetries: 2})
	gateway := hyperswitch.NewAdapter(api, tenants, appMetrics, logger)

	ledger := postgres.NewAttemptRepository(s.testDB.DB)
	paymentMethods := postgres.NewPaymentMethodRepository(s.testDB.DB)
	lockConfig := config.LockConfig{TTL: 5 * time.Second, WaitTimeout: 2 * time.Second, PollInterval: 20 * time.Millisecond}
	exec := services.NewExecutor(ledger, lock.NewMemoryLocker(), archive.Noop{}, appMetrics, lockConfig, logger)

	h := handlers.NewHandlers(handlers.Services{
		Authorize:     services.NewAuthorizeService(exec, gateway, paymentMethods),
		Capture:       services.NewCaptureService(exec, gateway),
		Void:          services.NewVoidService(exec, gateway),
		Refund:        services.NewRefundService(exec, gateway),
		Query:         services.NewQueryService(ledger, gateway, appMetrics, logger),
		PaymentMethod: services.NewPaymentMethodService(paymentMethods, logger),
	}, tenants, map[string]handlers.HealthCheck{"postgres": s.testDB.DB.Ping}, logger)

	doc, err := openapi.Load(context.Background())
	s.Require().NoError(err)
	validateRequests, err := openapi.RequestValidator(doc, logger)
	s.Require().NoError(err)

	mux := http.NewServeMux()
	h.Register(mux)
	s.server = httptest.NewServer(middleware.Chain(mux,
		middleware.Logging(logger),
		middleware.Recovery(logger),
		middleware.Timeout(5*time.Second),
		validateRequests,
	))
}

func (s *IntegrationTestSuite) TearDownSuite() {
	if s.server != nil {
		s.server.Close()
	}
	if s.hsSrv != nil {
		s.hsSrv.Close()
	}
	if s.testDB != nil {
		s.testDB.Cleanup(s.T())
	}
}

func (s *IntegrationTestSuite) SetupTest() {
	s.gateway.creates.Store(0)
	s.gateway.delay.Store(0)

	resp, _ := s.call(http.MethodPost, "/accounts/"+testhelpers.AccountID+"/payment-methods", map[string]any{
		"kbPaymentMethodId": testhelpers.PMID,
		"setDefault":        true,
		"properties":        map[string]string{"mandateId": testhelpers.MandateID},
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
}

func (s *IntegrationTestSuite) TearDownTest() {
	s.testDB.CleanTables(s.T())
}

func (s *IntegrationTestSuite) call(method, path string, body any) (*http.Response, envelope) {
	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(rest.TenantHeader, testhelpers.TenantID)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	if len(raw) > 0 {
		s.Require().NoError(json.Unmarshal(raw, &env))
	}
	return resp, env
}

func (s *IntegrationTestSuite) transact(kbPaymentID, op string, body map[string]any) domain.TransactionResult {
	resp, env := s.call(http.MethodPost, "/payments/"+kbPaymentID+"/"+op, body)
	s.Require().Equal(http.StatusOK, resp.StatusCode, "op %s failed: %+v", op, env.Error)

	var result domain.TransactionResult
	s.Require().NoError(json.Unmarshal(env.Data, &result))
	return result
}

func txBody(amount string, extra map[string]any) map[string]any {
	body := map[string]any{
		"kbAccountId":       testhelpers.AccountID,
		"kbTransactionId":   uuid.NewString(),
		"kbPaymentMethodId": testhelpers.PMID,
		"currency":          "USD",
	}
	if amount != "" {
		body["amount"] = json.Number(amount)
	}
	for k, v := range extra {
		body[k] = v
	}
	return body
}

// ============================================================================
// LIFECYCLE
// ============================================================================

func (s *IntegrationTestSuite) TestAuthorizeCaptureRefund() {
	kbPaymentID := uuid.NewString()

	auth := s.transact(kbPaymentID, "authorize", txBody("10.00", nil))
	s.Equal(domain.StatusProcessed, auth.Status)
	s.NotEmpty(auth.GatewayReferenceID)

	capture := s.transact(kbPaymentID, "capture", txBody("10.00", nil))
	s.Equal(domain.StatusProcessed, capture.Status)
	s.Equal(auth.GatewayReferenceID, capture.GatewayReferenceID)

	refund := s.transact(kbPaymentID, "refund", txBody("4.00", nil))
	s.Equal(domain.StatusProcessed, refund.Status)

	resp, env := s.call(http.MethodGet, "/payments/"+kbPaymentID, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	var results []domain.TransactionResult
	s.Require().NoError(json.Unmarshal(env.Data, &results))
	s.Len(results, 3)
}

func (s *IntegrationTestSuite) TestAuthorizeThenVoid() {
	kbPaymentID := uuid.NewString()
	s.transact(kbPaymentID, "authorize", txBody("10.00", nil))

	void := s.transact(kbPaymentID, "void", txBody("", map[string]any{"reason": "requested_by_customer"}))
	s.Equal(domain.StatusCanceled, void.Status)
	s.Equal(domain.TypeVoid, void.Type)
}

func (s *IntegrationTestSuite) TestRefundAboveAuthorizedAmountIsCanceled() {
	kbPaymentID := uuid.NewString()
	s.transact(kbPaymentID, "purchase", txBody("10.00", nil))

	refund := s.transact(kbPaymentID, "refund", txBody("25.00", nil))
	s.Equal(domain.StatusCanceled, refund.Status)
	s.Equal(domain.ErrCodeAmountExceedsOriginal, refund.ErrorCode)
}

// ============================================================================
// IDEMPOTENCY
// ============================================================================

func (s *IntegrationTestSuite) TestDuplicateAuthorizeReplaysStoredResult() {
	kbPaymentID := uuid.NewString()
	body := txBody("10.00", nil)

	first := s.transact(kbPaymentID, "authorize", body)
	second := s.transact(kbPaymentID, "authorize", body)

	s.Equal(first.GatewayReferenceID, second.GatewayReferenceID)
	s.Equal(first.Status, second.Status)
	s.Equal(int32(1), s.gateway.creates.Load())
}

func (s *IntegrationTestSuite) TestConcurrentDuplicatesChargeOnce() {
	s.gateway.delay.Store(int64(100 * time.Millisecond))
	kbPaymentID := uuid.NewString()
	body := txBody("10.00", nil)

	const workers = 8
	results := make([]domain.TransactionResult, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = s.transact(kbPaymentID, "purchase", body)
		}()
	}
	wg.Wait()

	s.Equal(int32(1), s.gateway.creates.Load())
	for _, r := range results {
		s.Equal(domain.StatusProcessed, r.Status)
		s.Equal(results[0].GatewayReferenceID, r.GatewayReferenceID)
	}
}

// ============================================================================
// RECONCILIATION AND VALIDATION
// ============================================================================

func (s *IntegrationTestSuite) TestPendingPurchaseReconciledOnRead() {
	kbPaymentID := uuid.NewString()

	purchase := s.transact(kbPaymentID, "purchase", txBody("10.00", map[string]any{
		"properties": map[string]string{"scenario": "pending"},
	}))
	s.Equal(domain.StatusPending, purchase.Status)

	_, env := s.call(http.MethodGet, "/payments/"+kbPaymentID, nil)
	var results []domain.TransactionResult
	s.Require().NoError(json.Unmarshal(env.Data, &results))
	s.Require().Len(results, 1)
	s.Equal(domain.StatusProcessed, results[0].Status)
}

func (s *IntegrationTestSuite) TestInvalidBodyNeverReachesGateway() {
	body := txBody("10.00", nil)
	delete(body, "kbTransactionId")

	resp, env := s.call(http.MethodPost, "/payments/"+uuid.NewString()+"/authorize", body)

	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.False(env.Success)
	s.Zero(s.gateway.creates.Load())
}

func (s *IntegrationTestSuite) TestUnknownPaymentMethod() {
	resp, env := s.call(http.MethodPost, "/payments/"+uuid.NewString()+"/authorize", txBody("10.00", map[string]any{
		"kbPaymentMethodId": "pm-unknown",
	}))

	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.Equal(domain.ErrCodePaymentMethodNotFound, env.Error.Code)
	s.Zero(s.gateway.creates.Load())
}

package hyperswitch_test

import (
	"context"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/infrastructure/hyperswitch"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/tenant"
	"github.com/stretchr/testify/mock"
)

type mockAPI struct {
	mock.Mock
}

var _ hyperswitch.API = (*mockAPI)(nil)

func (m *mockAPI) CreatePayment(ctx context.Context, creds tenant.Credentials, req hyperswitch.PaymentsCreateRequest) (*hyperswitch.PaymentsResponse, error) {
	args := m.Called(ctx, creds, req)
	resp, _ := args.Get(0).(*hyperswitch.PaymentsResponse)
	return resp, args.Error(1)
}

func (m *mockAPI) CapturePayment(ctx context.Context, creds tenant.Credentials, paymentID string, req hyperswitch.PaymentsCaptureRequest) (*hyperswitch.PaymentsResponse, error) {
	args := m.Called(ctx, creds, paymentID, req)
	resp, _ := args.Get(0).(*hyperswitch.PaymentsResponse)
	return resp, args.Error(1)
}

func (m *mockAPI) CancelPayment(ctx context.Context, creds tenant.Credentials, paymentID string, req hyperswitch.PaymentsCancelRequest) (*hyperswitch.PaymentsResponse, error) {
	args := m.Called(ctx, creds, paymentID, req)
	resp, _ := args.Get(0).(*hyperswitch.PaymentsResponse)
	return resp, args.Error(1)
}

func (m *mockAPI) CreateRefund(ctx context.Context, creds tenant.Credentials, req hyperswitch.RefundRequest) (*hyperswitch.RefundResponse, error) {
	args := m.Called(ctx, creds, req)
	resp, _ := args.Get(0).(*hyperswitch.RefundResponse)
	return resp, args.Error(1)
}

func (m *mockAPI) RetrievePayment(ctx context.Context, creds tenant.Credentials, paymentID string) (*hyperswitch.PaymentsResponse, error) {
	args := m.Called(ctx, creds, paymentID)
	resp, _ := args.Get(0).(*hyperswitch.PaymentsResponse)
	return resp, args.Error(1)
}

func (m *mockAPI) RetrieveRefund(ctx context.Context, creds tenant.Credentials, refundID string) (*hyperswitch.RefundResponse, error) {
	args := m.Called(ctx, creds, refundID)
	resp, _ := args.Get(0).(*hyperswitch.RefundResponse)
	return resp, args.Error(1)
}

package hyperswitch

import "time"

type PaymentsCreateRequest struct {
	PaymentID     string            `json:"payment_id,omitempty"`
	Amount        int64             `json:"amount"`
	Currency      string            `json:"currency"`
	Confirm       bool              `json:"confirm"`
	CaptureMethod string            `json:"capture_method,omitempty"`
	CustomerID    string            `json:"customer_id,omitempty"`
	OffSession    bool              `json:"off_session"`
	MandateID     string            `json:"mandate_id,omitempty"`
	ProfileID     string            `json:"profile_id,omitempty"`
	Description   string            `json:"description,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

type PaymentsCaptureRequest struct {
	AmountToCapture int64 `json:"amount_to_capture"`
}

type PaymentsCancelRequest struct {
	CancellationReason string `json:"cancellation_reason,omitempty"`
}

type PaymentsResponse struct {
	PaymentID        string     `json:"payment_id"`
	Status           string     `json:"status"`
	Amount           int64      `json:"amount"`
	AmountCapturable int64      `json:"amount_capturable"`
	AmountReceived   *int64     `json:"amount_received,omitempty"`
	Currency         string     `json:"currency"`
	CustomerID       string     `json:"customer_id,omitempty"`
	ProfileID        string     `json:"profile_id,omitempty"`
	ReferenceID      string     `json:"reference_id,omitempty"`
	ErrorCode        string     `json:"error_code,omitempty"`
	ErrorMessage     string     `json:"error_message,omitempty"`
	Created          *time.Time `json:"created,omitempty"`
}

type RefundRequest struct {
	RefundID  string            `json:"refund_id,omitempty"`
	PaymentID string            `json:"payment_id"`
	Amount    int64             `json:"amount"`
	Reason    string            `json:"reason,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type RefundResponse struct {
	RefundID     string     `json:"refund_id"`
	PaymentID    string     `json:"payment_id"`
	Amount       int64      `json:"amount"`
	Currency     string     `json:"currency"`
	Status       string     `json:"status"`
	Reason       string     `json:"reason,omitempty"`
	ErrorCode    string     `json:"error_code,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
}

package services

import (
	"crypto/sha256"
	"fmt"
	"strings"
)

const maxGatewayIDLength = 64

// Operation names used in diagnostics and the response archive.
const (
	opAuthorize = "authorizePayment"
	opPurchase  = "purchasePayment"
	opCapture   = "capturePayment"
	opVoid      = "voidPayment"
	opRefund    = "refundPayment"
)

// gatewayPaymentID derives the merchant-side payment id from the billing
// transaction id, so a retried request never creates a second gateway payment.
func gatewayPaymentID(kbTransactionID string) string {
	return gatewayID("pay_", kbTransactionID)
}

func gatewayRefundID(kbTransactionID string) string {
	return gatewayID("ref_", kbTransactionID)
}

func gatewayID(prefix, kbTransactionID string) string {
	id := prefix + strings.ReplaceAll(kbTransactionID, "-", "")
	if len(id) <= maxGatewayIDLength {
		return id
	}
	sum := sha256.Sum256([]byte(kbTransactionID))
	return fmt.Sprintf("%s%x", prefix, sum[:24])
}

func readFailedMessage(op string) string {
	return fmt.Sprintf("[%s] but we encountered a database error", op)
}

func writeFailedMessage(op string) string {
	return fmt.Sprintf("[%s] encountered a database error", op)
}

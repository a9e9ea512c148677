package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/application"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/domain"
	"github.com/jackc/pgx/v5"
)

const attemptColumns = `
	id, kb_tenant_id, kb_account_id, kb_payment_id, kb_transaction_id, kb_payment_method_id,
	transaction_type, amount, currency, status, gateway_reference_id,
	error_code, error_message, additional_data, created_at, updated_at`

// AttemptRepository is the payment_attempts ledger.
type AttemptRepository struct {
	q Executor
}

var _ application.AttemptLedger = (*AttemptRepository)(nil)

func NewAttemptRepository(db *DB) *AttemptRepository {
	return &AttemptRepository{q: db.Pool}
}

func (r *AttemptRepository) InsertIfAbsent(ctx context.Context, a *domain.TransactionAttempt) (bool, error) {
	query := `
		INSERT INTO payment_attempts (` + attemptColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT ON CONSTRAINT payment_attempts_key DO NOTHING
	`

	m, err := toAttemptModel(a)
	if err != nil {
		return false, err
	}

	tag, err := r.q.Exec(ctx, query,
		m.ID,
		m.TenantID,
		m.AccountID,
		m.KbPaymentID,
		m.KbTransactionID,
		m.KbPaymentMethodID,
		m.TransactionType,
		m.Amount,
		m.Currency,
		m.Status,
		m.GatewayReferenceID,
		m.ErrorCode,
		m.ErrorMessage,
		m.AdditionalData,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert attempt: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

func (r *AttemptRepository) FindByKey(ctx context.Context, key domain.AttemptKey) (*domain.TransactionAttempt, error) {
	query := `
		SELECT ` + attemptColumns + `
		FROM payment_attempts
		WHERE kb_tenant_id = $1 AND kb_payment_id = $2 AND kb_transaction_id = $3 AND transaction_type = $4
	`

	row := r.q.QueryRow(ctx, query, key.TenantID, key.KbPaymentID, key.KbTransactionID, string(key.Type))
	return scanAttempt(row)
}

func (r *AttemptRepository) FindLatestSuccessful(ctx context.Context, tenantID, kbPaymentID string) (*domain.TransactionAttempt, error) {
	query := `
		SELECT ` + attemptColumns + `
		FROM payment_attempts
		WHERE kb_tenant_id = $1
		  AND kb_payment_id = $2
		  AND status = 'PROCESSED'
		  AND transaction_type IN ('AUTHORIZE', 'PURCHASE')
		ORDER BY created_at DESC
		LIMIT 1
	`

	row := r.q.QueryRow(ctx, query, tenantID, kbPaymentID)
	return scanAttempt(row)
}

func (r *AttemptRepository) ListByPayment(ctx context.Context, tenantID, kbPaymentID string) ([]*domain.TransactionAttempt, error) {
	query := `
		SELECT ` + attemptColumns + `
		FROM payment_attempts
		WHERE kb_tenant_id = $1 AND kb_payment_id = $2
		ORDER BY created_at ASC
	`

	rows, err := r.q.Query(ctx, query, tenantID, kbPaymentID)
	if err != nil {
		return nil, fmt.Errorf("query attempts by payment: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.TransactionAttempt, error) {
		return scanAttempt(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan attempts: %w", err)
	}
	return results, nil
}

// UpdateStatus writes a reconciled attempt. The stored additional data is merged
// with the attempt's, and the row is only touched while it is still PENDING.
func (r *AttemptRepository) UpdateStatus(ctx context.Context, a *domain.TransactionAttempt) (bool, error) {
	query := `
		UPDATE payment_attempts
		SET status = $1,
			gateway_reference_id = $2,
			error_code = $3,
			error_message = $4,
			additional_data = additional_data || $5::jsonb,
			updated_at = $6
		WHERE id = $7 AND status = 'PENDING'
	`

	data, err := marshalAdditionalData(a.AdditionalData)
	if err != nil {
		return false, err
	}

	tag, err := r.q.Exec(ctx, query,
		string(a.Status),
		a.GatewayReferenceID,
		a.ErrorCode,
		a.ErrorMessage,
		data,
		a.UpdatedAt,
		a.ID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to update attempt status: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// scanAttempt converts a database row into a domain attempt.
// Returns domain.ErrAttemptNotFound if the row doesn't exist.
func scanAttempt(row pgx.Row) (*domain.TransactionAttempt, error) {
	var m AttemptModel
	err := row.Scan(
		&m.ID, &m.TenantID, &m.AccountID, &m.KbPaymentID, &m.KbTransactionID, &m.KbPaymentMethodID,
		&m.TransactionType, &m.Amount, &m.Currency, &m.Status, &m.GatewayReferenceID,
		&m.ErrorCode, &m.ErrorMessage, &m.AdditionalData, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAttemptNotFound
		}
		return nil, fmt.Errorf("failed to scan attempt: %w", err)
	}

	return toDomainAttempt(m)
}

func marshalAdditionalData(data map[string]any) ([]byte, error) {
	if data == nil {
		data = map[string]any{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal additional data: %w", err)
	}
	return raw, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/application"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/domain"
	"github.com/jackc/pgx/v5"
)

const linkColumns = `
	id, kb_tenant_id, kb_account_id, kb_payment_method_id, mandate_id,
	is_default, is_deleted, created_at, updated_at`

type PaymentMethodRepository struct {
	db *DB
}

var _ application.PaymentMethodRepository = (*PaymentMethodRepository)(nil)

func NewPaymentMethodRepository(db *DB) *PaymentMethodRepository {
	return &PaymentMethodRepository{db: db}
}

// Add stores a new mandate link. An active link for the same payment method is
// retired first; a default link clears the account's previous default.
func (r *PaymentMethodRepository) Add(ctx context.Context, link *domain.PaymentMethodLink) error {
	return r.db.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			UPDATE payment_method_links
			SET is_deleted = TRUE, updated_at = NOW()
			WHERE kb_tenant_id = $1 AND kb_payment_method_id = $2 AND NOT is_deleted
		`, link.TenantID, link.KbPaymentMethodID)
		if err != nil {
			return fmt.Errorf("retire previous link: %w", err)
		}

		if link.IsDefault {
			_, err = tx.Exec(ctx, `
				UPDATE payment_method_links
				SET is_default = FALSE, updated_at = NOW()
				WHERE kb_tenant_id = $1 AND kb_account_id = $2 AND is_default
			`, link.TenantID, link.AccountID)
			if err != nil {
				return fmt.Errorf("clear default link: %w", err)
			}
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO payment_method_links (`+linkColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`,
			link.ID,
			link.TenantID,
			link.AccountID,
			link.KbPaymentMethodID,
			link.MandateID,
			link.IsDefault,
			link.IsDeleted,
			link.CreatedAt,
			link.UpdatedAt,
		)
		if err != nil {
			if IsUniqueViolation(err) {
				return domain.NewPaymentMethodDuplicateError(link.KbPaymentMethodID)
			}
			return fmt.Errorf("failed to insert payment method link: %w", err)
		}
		return nil
	})
}

func (r *PaymentMethodRepository) FindActive(ctx context.Context, tenantID, kbPaymentMethodID string) (*domain.PaymentMethodLink, error) {
	query := `
		SELECT ` + linkColumns + `
		FROM payment_method_links
		WHERE kb_tenant_id = $1 AND kb_payment_method_id = $2 AND NOT is_deleted
	`

	row := r.db.Pool.QueryRow(ctx, query, tenantID, kbPaymentMethodID)
	return scanLink(row)
}

func (r *PaymentMethodRepository) SoftDelete(ctx context.Context, tenantID, kbPaymentMethodID string) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE payment_method_links
		SET is_deleted = TRUE, is_default = FALSE, updated_at = NOW()
		WHERE kb_tenant_id = $1 AND kb_payment_method_id = $2 AND NOT is_deleted
	`, tenantID, kbPaymentMethodID)
	if err != nil {
		return fmt.Errorf("failed to delete payment method link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLinkNotFound
	}
	return nil
}

func (r *PaymentMethodRepository) ListByAccount(ctx context.Context, tenantID, kbAccountID string) ([]*domain.PaymentMethodLink, error) {
	query := `
		SELECT ` + linkColumns + `
		FROM payment_method_links
		WHERE kb_tenant_id = $1 AND kb_account_id = $2 AND NOT is_deleted
		ORDER BY created_at ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, tenantID, kbAccountID)
	if err != nil {
		return nil, fmt.Errorf("query links by account: %w", err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*domain.PaymentMethodLink, error) {
		return scanLink(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan links: %w", err)
	}
	return results, nil
}

func scanLink(row pgx.Row) (*domain.PaymentMethodLink, error) {
	var m PaymentMethodLinkModel
	err := row.Scan(
		&m.ID, &m.TenantID, &m.AccountID, &m.KbPaymentMethodID, &m.MandateID,
		&m.IsDefault, &m.IsDeleted, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to scan payment method link: %w", err)
	}
	return toDomainLink(m), nil
}

package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/domain"
)

// toDomainAttempt: maps db model to domain entity
func toDomainAttempt(m AttemptModel) (*domain.TransactionAttempt, error) {
	txType, err := domain.ParseTransactionType(m.TransactionType)
	if err != nil {
		return nil, err
	}
	status, err := domain.ParseAttemptStatus(m.Status)
	if err != nil {
		return nil, err
	}

	data := map[string]any{}
	if len(m.AdditionalData) > 0 {
		if err := json.Unmarshal(m.AdditionalData, &data); err != nil {
			return nil, fmt.Errorf("unmarshal additional data: %w", err)
		}
	}

	return &domain.TransactionAttempt{
		ID:                 m.ID,
		TenantID:           m.TenantID,
		AccountID:          m.AccountID,
		KbPaymentID:        m.KbPaymentID,
		KbTransactionID:    m.KbTransactionID,
		KbPaymentMethodID:  m.KbPaymentMethodID,
		Type:               txType,
		Amount:             m.Amount,
		Currency:           m.Currency,
		Status:             status,
		GatewayReferenceID: m.GatewayReferenceID,
		ErrorCode:          m.ErrorCode,
		ErrorMessage:       m.ErrorMessage,
		AdditionalData:     data,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}, nil
}

// toAttemptModel: maps domain entity to db model
func toAttemptModel(a *domain.TransactionAttempt) (*AttemptModel, error) {
	data, err := marshalAdditionalData(a.AdditionalData)
	if err != nil {
		return nil, err
	}

	return &AttemptModel{
		ID:                 a.ID,
		TenantID:           a.TenantID,
		AccountID:          a.AccountID,
		KbPaymentID:        a.KbPaymentID,
		KbTransactionID:    a.KbTransactionID,
		KbPaymentMethodID:  a.KbPaymentMethodID,
		TransactionType:    string(a.Type),
		Amount:             a.Amount,
		Currency:           a.Currency,
		Status:             string(a.Status),
		GatewayReferenceID: a.GatewayReferenceID,
		ErrorCode:          a.ErrorCode,
		ErrorMessage:       a.ErrorMessage,
		AdditionalData:     data,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}, nil
}

func toDomainLink(m PaymentMethodLinkModel) *domain.PaymentMethodLink {
	return &domain.PaymentMethodLink{
		ID:                m.ID,
		TenantID:          m.TenantID,
		AccountID:         m.AccountID,
		KbPaymentMethodID: m.KbPaymentMethodID,
		MandateID:         m.MandateID,
		IsDefault:         m.IsDefault,
		IsDeleted:         m.IsDeleted,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

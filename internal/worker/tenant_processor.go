package worker

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/tenant"
)

// TenantStore is the part of tenant.Store the processor writes to.
type TenantStore interface {
	Replace(tenantID string, creds tenant.Credentials)
	Remove(tenantID string)
}

// TenantConfigProcessor applies config-change records to the credential store.
// An empty value removes the tenant; malformed values are skipped.
type TenantConfigProcessor struct {
	store  TenantStore
	logger *slog.Logger
}

func NewTenantConfigProcessor(store TenantStore, logger *slog.Logger) *TenantConfigProcessor {
	return &TenantConfigProcessor{store: store, logger: logger}
}

func (p *TenantConfigProcessor) ProcessRecords(_ context.Context, records []Record) error {
	for _, record := range records {
		tenantID := strings.TrimSpace(string(record.Key))
		if tenantID == "" {
			p.logger.Warn("skipping config record without tenant id", "topic", record.Topic)
			continue
		}

		if len(record.Value) == 0 {
			p.store.Remove(tenantID)
			p.logger.Info("tenant config removed", "tenant_id", tenantID)
			continue
		}

		var creds tenant.Credentials
		if err := json.Unmarshal(record.Value, &creds); err != nil {
			p.logger.Error("failed to unmarshal tenant config", "tenant_id", tenantID, "error", err)
			continue
		}

		p.store.Replace(tenantID, creds)
		p.logger.Info("tenant config updated", "tenant_id", tenantID, "environment", creds.Normalize().Environment)
	}
	return nil
}

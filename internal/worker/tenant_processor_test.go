package worker_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/DanielPopoola/hyperswitch-adapter/internal/tenant"
	"github.com/DanielPopoola/hyperswitch-adapter/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProcessor(store *tenant.Store) *worker.TenantConfigProcessor {
	return worker.NewTenantConfigProcessor(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestTenantConfigProcessor_AppliesRecords(t *testing.T) {
	store := tenant.NewStore(tenant.Credentials{})
	p := newProcessor(store)

	err := p.ProcessRecords(context.Background(), []worker.Record{
		{Key: []byte("tenant-a"), Value: []byte(`{"hyperswitchApikey":"snd_a","profileId":"pro_a"}`)},
		{Key: []byte("tenant-b"), Value: []byte(`{"hyperswitchApikey":"prd_b","environment":"production"}`)},
	})
	require.NoError(t, err)

	a, ok := store.Get("tenant-a")
	require.True(t, ok)
	assert.Equal(t, "snd_a", a.APIKey)
	assert.Equal(t, "pro_a", a.ProfileID)
	assert.Equal(t, tenant.EnvironmentSandbox, a.Environment)

	b, ok := store.Get("tenant-b")
	require.True(t, ok)
	assert.True(t, b.IsProduction())
}

func TestTenantConfigProcessor_EmptyValueRemovesTenant(t *testing.T) {
	store := tenant.NewStore(tenant.Credentials{})
	store.Replace("tenant-a", tenant.Credentials{APIKey: "snd_a"})
	p := newProcessor(store)

	require.NoError(t, p.ProcessRecords(context.Background(), []worker.Record{
		{Key: []byte("tenant-a")},
	}))

	_, ok := store.Get("tenant-a")
	assert.False(t, ok)
}

func TestTenantConfigProcessor_SkipsInvalidRecords(t *testing.T) {
	store := tenant.NewStore(tenant.Credentials{})
	store.Replace("tenant-a", tenant.Credentials{APIKey: "snd_a"})
	p := newProcessor(store)

	err := p.ProcessRecords(context.Background(), []worker.Record{
		{Key: []byte("tenant-a"), Value: []byte(`{not json`)},
		{Key: nil, Value: []byte(`{"hyperswitchApikey":"orphan"}`)},
		{Key: []byte("tenant-c"), Value: []byte(`{"hyperswitchApikey":"snd_c"}`)},
	})
	require.NoError(t, err)

	a, ok := store.Get("tenant-a")
	require.True(t, ok)
	assert.Equal(t, "snd_a", a.APIKey, "malformed record must not clobber the previous config")

	c, ok := store.Get("tenant-c")
	require.True(t, ok)
	assert.Equal(t, "snd_c", c.APIKey)
}

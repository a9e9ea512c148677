// Package tenant keeps per-tenant gateway credentials as immutable snapshots.
package tenant

import (
	"maps"
	"strings"
	"sync"
	"sync/atomic"
)

const (
	EnvironmentSandbox    = "sandbox"
	EnvironmentProduction = "production"
)

// Credentials are the gateway settings for one tenant.
type Credentials struct {
	APIKey      string `json:"hyperswitchApikey"`
	ProfileID   string `json:"profileId"`
	Environment string `json:"environment"`
}

// Normalize fills the environment default.
func (c Credentials) Normalize() Credentials {
	c.Environment = strings.ToLower(strings.TrimSpace(c.Environment))
	if c.Environment == "" {
		c.Environment = EnvironmentSandbox
	}
	return c
}

func (c Credentials) IsProduction() bool {
	return c.Environment == EnvironmentProduction
}

// Store maps tenant ids to credentials. Readers never observe a partially
// updated map: every write publishes a fresh copy.
type Store struct {
	mu       sync.Mutex
	snapshot atomic.Pointer[map[string]Credentials]
	fallback Credentials
}

// NewStore creates a store whose unknown tenants resolve to fallback.
func NewStore(fallback Credentials) *Store {
	s := &Store{fallback: fallback.Normalize()}
	empty := map[string]Credentials{}
	s.snapshot.Store(&empty)
	return s
}

// Get returns the tenant's credentials, falling back to the default set.
// The boolean reports whether an API key is available.
func (s *Store) Get(tenantID string) (Credentials, bool) {
	current := *s.snapshot.Load()
	creds, ok := current[tenantID]
	if !ok {
		creds = s.fallback
	}
	return creds, creds.APIKey != ""
}

func (s *Store) Replace(tenantID string, creds Credentials) {
	s.update(func(m map[string]Credentials) {
		m[tenantID] = creds.Normalize()
	})
}

func (s *Store) Remove(tenantID string) {
	s.update(func(m map[string]Credentials) {
		delete(m, tenantID)
	})
}

// Tenants returns the ids with explicit credentials.
func (s *Store) Tenants() []string {
	current := *s.snapshot.Load()
	ids := make([]string, 0, len(current))
	for id := range current {
		ids = append(ids, id)
	}
	return ids
}

func (s *Store) update(fn func(map[string]Credentials)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := maps.Clone(*s.snapshot.Load())
	fn(next)
	s.snapshot.Store(&next)
}

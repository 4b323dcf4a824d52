package services

import (
	"fmt"
	"sort"

	"github.com/SscSPs/fx_rates_app/internal/core/ports"
)

// ProviderRegistry maps logical provider identifiers to rate providers. It is
// populated once at startup; resolving an unregistered identifier is a
// configuration error, so callers are expected to fail fast on it rather
// than retry.
type ProviderRegistry struct {
	providers map[string]ports.RateProvider
}

// NewProviderRegistry returns an empty registry.
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{providers: make(map[string]ports.RateProvider)}
}

// Register adds a provider under id, replacing any previous registration.
func (r *ProviderRegistry) Register(id string, provider ports.RateProvider) {
	r.providers[id] = provider
}

// Resolve returns the provider registered under id.
func (r *ProviderRegistry) Resolve(id string) (ports.RateProvider, error) {
	provider, ok := r.providers[id]
	if !ok {
		return nil, fmt.Errorf("rate provider %q is not registered (known: %v)", id, r.ids())
	}
	return provider, nil
}

func (r *ProviderRegistry) ids() []string {
	ids := make([]string, 0, len(r.providers))
	for id := range r.providers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

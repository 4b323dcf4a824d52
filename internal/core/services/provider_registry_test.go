package services_test

import (
	"testing"

	"github.com/SscSPs/fx_rates_app/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderRegistry_ResolveRegistered(t *testing.T) {
	registry := services.NewProviderRegistry()
	provider := new(MockRateProvider)
	registry.Register("frankfurter", provider)

	resolved, err := registry.Resolve("frankfurter")

	require.NoError(t, err)
	assert.Same(t, provider, resolved)
}

func TestProviderRegistry_ResolveUnknownFails(t *testing.T) {
	registry := services.NewProviderRegistry()
	registry.Register("frankfurter", new(MockRateProvider))

	_, err := registry.Resolve("ecb")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `"ecb"`)
}

func TestNewExchangeRateService_UnknownProviderFailsFast(t *testing.T) {
	registry := services.NewProviderRegistry()

	_, err := services.NewExchangeRateService(registry, "frankfurter")

	require.Error(t, err, "startup must fail when the configured provider is missing")
}

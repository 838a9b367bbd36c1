package llms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recallio/recall/config"
)

func catalogConfig(openaiKey, anthropicKey string) *config.Config {
	return &config.Config{
		LLM: config.LLM{
			OpenAIAPIKey:    openaiKey,
			AnthropicAPIKey: anthropicKey,
			DefaultProvider: "openai",
			DefaultModel:    "gpt-5.2",
		},
	}
}

func TestCatalogGatesOnCredentials(t *testing.T) {
	catalog, err := NewCatalog(catalogConfig("sk-test", ""))
	require.NoError(t, err)

	for _, spec := range catalog.ListAvailable() {
		assert.Equal(t, ProviderOpenAI, spec.Provider)
	}

	_, err = catalog.Client(ProviderAnthropic)
	assert.Error(t, err)

	_, ok := catalog.Lookup(ProviderAnthropic, "claude-opus-4-5")
	assert.False(t, ok)
}

func TestCatalogResolveDefault(t *testing.T) {
	catalog, err := NewCatalog(catalogConfig("sk-test", "sk-ant-test"))
	require.NoError(t, err)

	spec, ok := catalog.ResolveDefault()
	require.True(t, ok)
	assert.Equal(t, ProviderOpenAI, spec.Provider)
	assert.Equal(t, "gpt-5.2", spec.Model)
}

func TestCatalogDefaultFallsBackToFirstAvailable(t *testing.T) {
	cfg := catalogConfig("", "sk-ant-test")
	catalog, err := NewCatalog(cfg)
	require.NoError(t, err)

	// configured default provider has no credential; first available wins
	spec, ok := catalog.ResolveDefault()
	require.True(t, ok)
	assert.Equal(t, ProviderAnthropic, spec.Provider)
}

func TestCatalogEmpty(t *testing.T) {
	catalog, err := NewCatalog(catalogConfig("", ""))
	require.NoError(t, err)

	assert.Empty(t, catalog.ListAvailable())
	_, ok := catalog.ResolveDefault()
	assert.False(t, ok)
}

func TestCatalogTogetherExtension(t *testing.T) {
	cfg := catalogConfig("", "")
	cfg.LLM.TogetherAPIKey = "tg-test"
	cfg.LLM.TogetherModels = []string{"mistralai/Mixtral-8x22B", ""}

	catalog, err := NewCatalog(cfg)
	require.NoError(t, err)

	_, ok := catalog.Lookup(ProviderTogether, "mistralai/Mixtral-8x22B")
	assert.True(t, ok)
	_, ok = catalog.Lookup(ProviderTogether, "")
	assert.False(t, ok)
}

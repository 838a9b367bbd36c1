package llms

import (
	"fmt"

	"github.com/recallio/recall/config"
	"github.com/recallio/recall/pkg/models"
)

// baseCatalog lists the provider/model pairs this deployment knows about.
// A pair is only offered when its provider's credential is configured;
// Together-hosted models can be extended via config.
var baseCatalog = []models.ModelSpec{
	{Provider: ProviderOpenAI, Model: "gpt-5.2", DisplayName: "OpenAI GPT-5.2"},
	{Provider: ProviderAnthropic, Model: "claude-sonnet-4-5", DisplayName: "Claude Sonnet 4.5"},
	{Provider: ProviderAnthropic, Model: "claude-opus-4-5", DisplayName: "Claude Opus 4.5"},
	{Provider: ProviderDeepSeek, Model: "deepseek-chat", DisplayName: "DeepSeek Chat"},
	{Provider: ProviderDeepSeek, Model: "deepseek-reasoner", DisplayName: "DeepSeek Reasoner"},
	{Provider: ProviderTogether, Model: "moonshotai/Kimi-K2-Thinking", DisplayName: "Together Kimi K2 Thinking"},
}

var _ models.ModelCatalog = &Catalog{}

// Catalog is the static model catalog plus one constructed chat client per
// enabled provider. Credentials are validated once here, not per request.
type Catalog struct {
	cfg     *config.Config
	specs   []models.ModelSpec
	clients map[string]models.ChatClient
}

func NewCatalog(cfg *config.Config) (*Catalog, error) {
	specs := make([]models.ModelSpec, 0, len(baseCatalog)+len(cfg.LLM.TogetherModels))
	specs = append(specs, baseCatalog...)
	for _, m := range cfg.LLM.TogetherModels {
		if m == "" {
			continue
		}
		specs = append(specs, models.ModelSpec{
			Provider:    ProviderTogether,
			Model:       m,
			DisplayName: "Together " + m,
		})
	}

	c := &Catalog{
		cfg:     cfg,
		specs:   specs,
		clients: make(map[string]models.ChatClient),
	}

	if err := c.buildClients(); err != nil {
		return nil, err
	}

	if len(c.clients) == 0 {
		log.Warn("no chat providers are configured; chat will be unavailable")
	}

	return c, nil
}

// buildClients constructs a client for every provider with a configured
// credential. A provider without a key is simply absent from the catalog.
func (c *Catalog) buildClients() error {
	llmCfg := c.cfg.LLM

	type providerInit struct {
		name  string
		key   string
		build func() (models.ChatClient, error)
	}

	inits := []providerInit{
		{ProviderOpenAI, llmCfg.OpenAIAPIKey, func() (models.ChatClient, error) {
			return NewOpenAIChatClient(ProviderOpenAI, llmCfg.OpenAIAPIKey, llmCfg.OpenAIEndpoint, llmCfg.MaxRetries)
		}},
		{ProviderAnthropic, llmCfg.AnthropicAPIKey, func() (models.ChatClient, error) {
			return NewAnthropicChatClient(llmCfg.AnthropicAPIKey)
		}},
		{ProviderDeepSeek, llmCfg.DeepSeekAPIKey, func() (models.ChatClient, error) {
			return NewOpenAIChatClient(ProviderDeepSeek, llmCfg.DeepSeekAPIKey, llmCfg.DeepSeekBaseURL, llmCfg.MaxRetries)
		}},
		{ProviderTogether, llmCfg.TogetherAPIKey, func() (models.ChatClient, error) {
			return NewOpenAIChatClient(ProviderTogether, llmCfg.TogetherAPIKey, llmCfg.TogetherBaseURL, llmCfg.MaxRetries)
		}},
	}

	for _, init := range inits {
		if init.key == "" {
			continue
		}
		client, err := init.build()
		if err != nil {
			return err
		}
		c.clients[init.name] = client
	}

	return nil
}

func (c *Catalog) ListAvailable() []models.ModelSpec {
	available := make([]models.ModelSpec, 0, len(c.specs))
	for _, spec := range c.specs {
		if _, ok := c.clients[spec.Provider]; ok {
			available = append(available, spec)
		}
	}
	return available
}

func (c *Catalog) ResolveDefault() (models.ModelSpec, bool) {
	available := c.ListAvailable()
	if c.cfg.LLM.DefaultProvider != "" && c.cfg.LLM.DefaultModel != "" {
		for _, spec := range available {
			if spec.Provider == c.cfg.LLM.DefaultProvider && spec.Model == c.cfg.LLM.DefaultModel {
				return spec, true
			}
		}
	}
	if len(available) > 0 {
		return available[0], true
	}
	return models.ModelSpec{}, false
}

func (c *Catalog) Lookup(provider, model string) (models.ModelSpec, bool) {
	for _, spec := range c.ListAvailable() {
		if spec.Provider == provider && spec.Model == model {
			return spec, true
		}
	}
	return models.ModelSpec{}, false
}

func (c *Catalog) Client(provider string) (models.ChatClient, error) {
	client, ok := c.clients[provider]
	if !ok {
		return nil, models.NewConfigurationError(
			fmt.Sprintf("provider %q is not configured", provider), nil,
		)
	}
	return client, nil
}

package config

// Config holds the configuration of the application
// Use config.LoadConfig to create a new instance
type Config struct {
	LLM        LLM              `mapstructure:"llm" yaml:"llm"`
	Embeddings EmbeddingsConfig `mapstructure:"embeddings" yaml:"embeddings"`
	Retrieval  RetrievalConfig  `mapstructure:"retrieval" yaml:"retrieval"`
	Store      StoreConfig      `mapstructure:"store" yaml:"store"`
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	Auth       AuthConfig       `mapstructure:"auth" yaml:"auth"`
}

// LLM configures the chat providers. API keys are loaded from ENV, not the
// config file.
type LLM struct {
	DefaultProvider string  `mapstructure:"default_provider" yaml:"default_provider"`
	DefaultModel    string  `mapstructure:"default_model"    yaml:"default_model"`
	Temperature     float64 `mapstructure:"temperature"      yaml:"temperature"`
	// MaxRetries is the number of times a failed provider HTTP request is
	// retried. Defaults to 0: failures surface to the caller instead of
	// silently hammering paid APIs.
	MaxRetries      int    `mapstructure:"max_retries" yaml:"max_retries" validate:"gte=0"`
	OpenAIAPIKey    string `mapstructure:"openai_api_key"    yaml:"-"`
	AnthropicAPIKey string `mapstructure:"anthropic_api_key" yaml:"-"`
	DeepSeekAPIKey  string `mapstructure:"deepseek_api_key"  yaml:"-"`
	TogetherAPIKey  string `mapstructure:"together_api_key"  yaml:"-"`
	OpenAIEndpoint  string `mapstructure:"openai_endpoint"   yaml:"openai_endpoint"`
	DeepSeekBaseURL string `mapstructure:"deepseek_base_url" yaml:"deepseek_base_url"`
	TogetherBaseURL string `mapstructure:"together_base_url" yaml:"together_base_url"`
	// TogetherModels extends the model catalog with extra Together-hosted
	// models. Comma-separated in ENV (RECALL_LLM_TOGETHER_MODELS).
	TogetherModels []string `mapstructure:"together_models" yaml:"together_models"`
}

type EmbeddingsConfig struct {
	Service    string `mapstructure:"service"    yaml:"service"`
	Model      string `mapstructure:"model"      yaml:"model"`
	Dimensions int    `mapstructure:"dimensions" yaml:"dimensions" validate:"gt=0"`
	BatchSize  int    `mapstructure:"batch_size" yaml:"batch_size" validate:"gt=0"`
}

// RetrievalConfig configures chunking and context retrieval.
// ChunkOverlap must be smaller than ChunkSize; that is a startup
// configuration error, not a per-call one.
type RetrievalConfig struct {
	Enabled         bool `mapstructure:"enabled"           yaml:"enabled"`
	ChunkSize       int  `mapstructure:"chunk_size"        yaml:"chunk_size" validate:"gt=0"`
	ChunkOverlap    int  `mapstructure:"chunk_overlap"     yaml:"chunk_overlap" validate:"gte=0,ltfield=ChunkSize"`
	TopK            int  `mapstructure:"top_k"             yaml:"top_k" validate:"gt=0"`
	MaxContextItems int  `mapstructure:"max_context_items" yaml:"max_context_items" validate:"gt=0"`
	// HistoryTokenBudget bounds the conversation history included in a chat
	// prompt, counted with tiktoken from the most recent message backwards.
	HistoryTokenBudget int `mapstructure:"history_token_budget" yaml:"history_token_budget" validate:"gt=0"`
}

type StoreConfig struct {
	// DataDir is the root of all durable snapshots: vector stores and chat
	// histories.
	DataDir string `mapstructure:"data_dir" yaml:"data_dir" validate:"required"`
	// MaxOpenStores bounds the number of per-(user, kind) vector stores held
	// in memory. Least recently used stores are evicted; they are reloaded
	// from their snapshot on next touch.
	MaxOpenStores int `mapstructure:"max_open_stores" yaml:"max_open_stores" validate:"gt=0"`
}

type ServerConfig struct {
	Port int `mapstructure:"port" yaml:"port" validate:"gt=0"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

type AuthConfig struct {
	Secret   string `mapstructure:"secret" yaml:"-"`
	Required bool   `mapstructure:"required" yaml:"required"`
}

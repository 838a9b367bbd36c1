package config

import (
	"fmt"
	"strings"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/recallio/recall/internal"
)

// We're bootstrapping so avoid any imports from other packages
var log = logrus.New()

var defaults = Config{
	LLM: LLM{
		DefaultProvider: "openai",
		DefaultModel:    "gpt-5.2",
		Temperature:     0.0,
		DeepSeekBaseURL: "https://api.deepseek.com/v1",
		TogetherBaseURL: "https://api.together.xyz/v1",
	},
	Embeddings: EmbeddingsConfig{
		Service:    "openai",
		Model:      "text-embedding-3-small",
		Dimensions: 1536,
		BatchSize:  50,
	},
	Retrieval: RetrievalConfig{
		Enabled:            true,
		ChunkSize:          500,
		ChunkOverlap:       50,
		TopK:               3,
		MaxContextItems:    6,
		HistoryTokenBudget: 2000,
	},
	Store: StoreConfig{
		DataDir:       "./data",
		MaxOpenStores: 256,
	},
	Server: ServerConfig{
		Port: 8000,
	},
	Log: LogConfig{
		Level: "info",
	},
}

// envVars maps config keys to their ENV overrides. API keys and the auth
// secret are only ever read from ENV.
var envVars = map[string]string{
	"llm.openai_api_key":    "RECALL_OPENAI_API_KEY",
	"llm.anthropic_api_key": "RECALL_ANTHROPIC_API_KEY",
	"llm.deepseek_api_key":  "RECALL_DEEPSEEK_API_KEY",
	"llm.together_api_key":  "RECALL_TOGETHER_API_KEY",
	"auth.secret":           "RECALL_AUTH_SECRET",
}

// LoadConfig loads the config file and ENV variables into a Config struct
func LoadConfig(configFile string) (*Config, error) {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("RECALL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine. ENV and defaults cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	// Environment variables take precedence over config file
	loadDotEnv()

	for key, envVar := range envVars {
		if err := viper.BindEnv(key, envVar); err != nil {
			log.Fatalf("Error binding environment variable: %s", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := mergo.Merge(&cfg, defaults); err != nil {
		return nil, fmt.Errorf("merging config defaults failed: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks structural config invariants once, at load time. Per-call
// code can assume chunk sizes, dimensions, and bounds are sane.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// loadDotEnv loads environment variables from .env file
func loadDotEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Debug(".env file not found or unable to load")
	}
}

// SetLogLevel sets the log level based on the config file. Defaults to INFO if not set or invalid
func SetLogLevel(cfg *Config) {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	internal.SetLogLevel(level)
	log.Info("Log level set to: ", level)
}

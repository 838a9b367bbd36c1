package models

import "context"

// EmbeddingsClient turns texts into fixed-width vectors. Implementations
// batch upstream calls; the result order always matches the input order.
type EmbeddingsClient interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ChatClient is one chat backend. The model is chosen per call so a single
// client can serve every model its provider hosts.
type ChatClient interface {
	Chat(ctx context.Context, messages []ChatMessage, model string, temperature float64) (string, error)
}

// ModelSpec describes one entry of the static model catalog.
type ModelSpec struct {
	Provider    string `json:"provider"`
	Model       string `json:"model"`
	DisplayName string `json:"display_name"`
}

// ModelCatalog lists the provider/model pairs available for this deployment.
// A provider is available when its credential is configured.
type ModelCatalog interface {
	ListAvailable() []ModelSpec
	// ResolveDefault returns the configured default when available, else the
	// first available model. ok is false when no provider is configured.
	ResolveDefault() (spec ModelSpec, ok bool)
	Lookup(provider, model string) (spec ModelSpec, ok bool)
	// Client returns the chat client for an available provider.
	Client(provider string) (ChatClient, error)
}

// Package testutils provides deterministic fakes for the external
// embedding and chat capabilities, plus config helpers for tests. No test
// in this repo calls a live API.
package testutils

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/recallio/recall/config"
	"github.com/recallio/recall/pkg/models"
)

const TestEmbeddingDimensions = 16

// NewTestConfig returns a config suitable for unit tests: small bounds,
// retrieval enabled, snapshots under dataDir.
func NewTestConfig(dataDir string) *config.Config {
	return &config.Config{
		LLM: config.LLM{
			DefaultProvider: "openai",
			DefaultModel:    "gpt-5.2",
			Temperature:     0.0,
		},
		Embeddings: config.EmbeddingsConfig{
			Service:    "fake",
			Model:      "fake-embedder",
			Dimensions: TestEmbeddingDimensions,
			BatchSize:  50,
		},
		Retrieval: config.RetrievalConfig{
			Enabled:            true,
			ChunkSize:          500,
			ChunkOverlap:       50,
			TopK:               3,
			MaxContextItems:    6,
			HistoryTokenBudget: 2000,
		},
		Store: config.StoreConfig{
			DataDir:       dataDir,
			MaxOpenStores: 8,
		},
		Server: config.ServerConfig{Port: 8000},
		Log:    config.LogConfig{Level: "warn"},
	}
}

var _ models.EmbeddingsClient = &FakeEmbedder{}

// FakeEmbedder embeds text as a hashed bag of words: texts sharing words
// land close together under cosine similarity, and identical texts embed
// identically. Deterministic across runs.
type FakeEmbedder struct {
	Dimensions int
	// Unavailable makes every call fail like an unreachable upstream.
	Unavailable bool

	mu    sync.Mutex
	calls [][]string
}

func NewFakeEmbedder() *FakeEmbedder {
	return &FakeEmbedder{Dimensions: TestEmbeddingDimensions}
}

func (f *FakeEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	if f.Unavailable {
		return nil, models.NewUnavailableError("embeddings", nil)
	}

	f.mu.Lock()
	f.calls = append(f.calls, append([]string(nil), texts...))
	f.mu.Unlock()

	out := make([][]float32, len(texts))
	for i, text := range texts {
		out[i] = f.embed(text)
	}
	return out, nil
}

func (f *FakeEmbedder) embed(text string) []float32 {
	v := make([]float32, f.Dimensions)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(word))
		v[int(h.Sum32())%f.Dimensions]++
	}
	return v
}

// Calls returns every batch of texts the embedder was asked to embed.
func (f *FakeEmbedder) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string(nil), f.calls...)
}

var _ models.ChatClient = &FakeChatClient{}

// FakeChatClient records the last prompt it was given and answers with a
// canned reply.
type FakeChatClient struct {
	Reply string
	// Unavailable makes every call fail like an unreachable upstream.
	Unavailable bool

	mu           sync.Mutex
	lastMessages []models.ChatMessage
	lastModel    string
}

func (f *FakeChatClient) Chat(
	_ context.Context,
	messages []models.ChatMessage,
	model string,
	_ float64,
) (string, error) {
	if f.Unavailable {
		return "", models.NewUnavailableError("chat", nil)
	}

	f.mu.Lock()
	f.lastMessages = append([]models.ChatMessage(nil), messages...)
	f.lastModel = model
	f.mu.Unlock()

	if f.Reply == "" {
		return "ok", nil
	}
	return f.Reply, nil
}

func (f *FakeChatClient) LastMessages() []models.ChatMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.ChatMessage(nil), f.lastMessages...)
}

func (f *FakeChatClient) LastModel() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastModel
}

var _ models.ModelCatalog = &FakeCatalog{}

// FakeCatalog serves a fixed spec list backed by a single FakeChatClient.
type FakeCatalog struct {
	Specs   []models.ModelSpec
	Chat    *FakeChatClient
	Default models.ModelSpec
}

func NewFakeCatalog() *FakeCatalog {
	spec := models.ModelSpec{Provider: "openai", Model: "gpt-5.2", DisplayName: "OpenAI GPT-5.2"}
	return &FakeCatalog{
		Specs:   []models.ModelSpec{spec},
		Chat:    &FakeChatClient{},
		Default: spec,
	}
}

func (f *FakeCatalog) ListAvailable() []models.ModelSpec { return f.Specs }

func (f *FakeCatalog) ResolveDefault() (models.ModelSpec, bool) {
	if len(f.Specs) == 0 {
		return models.ModelSpec{}, false
	}
	return f.Default, true
}

func (f *FakeCatalog) Lookup(provider, model string) (models.ModelSpec, bool) {
	for _, spec := range f.Specs {
		if spec.Provider == provider && spec.Model == model {
			return spec, true
		}
	}
	return models.ModelSpec{}, false
}

func (f *FakeCatalog) Client(provider string) (models.ChatClient, error) {
	for _, spec := range f.Specs {
		if spec.Provider == provider {
			return f.Chat, nil
		}
	}
	return nil, models.NewConfigurationError("provider "+provider+" is not configured", nil)
}

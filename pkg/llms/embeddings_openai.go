package llms

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms/openai"

	"github.com/recallio/recall/config"
	"github.com/recallio/recall/pkg/models"
)

const EmbeddingsAPIKeyNotSetError = "RECALL_OPENAI_API_KEY is not set" //nolint:gosec

var _ models.EmbeddingsClient = &OpenAIEmbeddingsClient{}

// OpenAIEmbeddingsClient embeds texts through the OpenAI embeddings API.
// Pure gateway: no caching, batches of at most BatchSize inputs per upstream
// call, output order matches input order.
type OpenAIEmbeddingsClient struct {
	client     *openai.Chat
	batchSize  int
	dimensions int
}

func NewOpenAIEmbeddingsClient(_ context.Context, cfg *config.Config) (*OpenAIEmbeddingsClient, error) {
	if cfg.LLM.OpenAIAPIKey == "" {
		return nil, models.NewConfigurationError(EmbeddingsAPIKeyNotSetError, nil)
	}

	retryableHTTPClient := NewRetryableHTTPClient(cfg.LLM.MaxRetries, APITimeout)

	options := []openai.Option{
		openai.WithHTTPClient(retryableHTTPClient.StandardClient()),
		openai.WithToken(cfg.LLM.OpenAIAPIKey),
		openai.WithEmbeddingModel(cfg.Embeddings.Model),
	}
	if cfg.LLM.OpenAIEndpoint != "" {
		options = append(options, openai.WithBaseURL(cfg.LLM.OpenAIEndpoint))
	}

	client, err := openai.NewChat(options...)
	if err != nil {
		return nil, models.NewConfigurationError("failed to configure embeddings client", err)
	}

	return &OpenAIEmbeddingsClient{
		client:     client,
		batchSize:  cfg.Embeddings.BatchSize,
		dimensions: cfg.Embeddings.Dimensions,
	}, nil
}

func (c *OpenAIEmbeddingsClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if c.client == nil {
		return nil, models.NewConfigurationError("embeddings client is not initialized", nil)
	}

	embeddings := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += c.batchSize {
		end := start + c.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		thisCtx, cancel := context.WithTimeout(ctx, APITimeout)
		batch, err := c.client.CreateEmbedding(thisCtx, texts[start:end])
		cancel()
		if err != nil {
			return nil, models.NewUnavailableError("embeddings", err)
		}
		if len(batch) != end-start {
			return nil, models.NewUnavailableError(
				"embeddings",
				fmt.Errorf("expected %d embeddings, got %d", end-start, len(batch)),
			)
		}
		embeddings = append(embeddings, batch...)
	}

	for i, e := range embeddings {
		if len(e) != c.dimensions {
			return nil, models.NewDataIntegrityError(
				fmt.Sprintf(
					"embedding %d has width %d, store is configured for %d",
					i, len(e), c.dimensions,
				),
				nil,
			)
		}
	}

	return embeddings, nil
}

// EmbedText embeds a single query string.
func (c *OpenAIEmbeddingsClient) EmbedText(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := c.EmbedTexts(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

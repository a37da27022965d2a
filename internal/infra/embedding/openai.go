// Package embedding provides embedding providers for the artifact
// similarity index: an OpenAI-backed implementation with reliability
// patterns, and a deterministic noop for tests and disabled mode.
package embedding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sony/gobreaker"

	"relic-search/internal/resilience/circuitbreaker"
	"relic-search/internal/resilience/retry"
)

// Dimension is the embedding dimension of text-embedding-3-small, fixed
// by the artifact_index schema.
const Dimension = 1536

// maxInputChars bounds the text sent to the embeddings API. Artifact
// descriptions rarely come close, but scraped pages can.
const maxInputChars = 8000

// OpenAI generates embeddings through the OpenAI embeddings API with
// circuit breaker and retry logic.
type OpenAI struct {
	client         *openai.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	model          openai.EmbeddingModel
	timeout        time.Duration
}

// NewOpenAI creates an OpenAI embedding provider with the given API key.
func NewOpenAI(apiKey string) *OpenAI {
	return &OpenAI{
		client:         openai.NewClient(apiKey),
		circuitBreaker: circuitbreaker.New(circuitbreaker.OpenAIAPIConfig()),
		retryConfig:    retry.AIAPIConfig(),
		model:          openai.SmallEmbedding3,
		timeout:        30 * time.Second,
	}
}

// Embed converts text into an embedding vector.
func (o *OpenAI) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("Embed: text is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	if len(text) > maxInputChars {
		slog.Warn("text truncated for embedding",
			slog.Int("original_length", len(text)),
			slog.Int("truncated_length", maxInputChars))
		text = text[:maxInputChars]
	}

	var result []float32

	retryErr := retry.WithBackoff(ctx, o.retryConfig, func() error {
		cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
			return o.doEmbed(ctx, text)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("openai api circuit breaker open, request rejected",
					slog.String("service", "openai-api"),
					slog.String("state", o.circuitBreaker.State().String()))
				return fmt.Errorf("openai api unavailable: circuit breaker open")
			}
			return err
		}

		result = cbResult.([]float32)
		return nil
	})

	if retryErr != nil {
		return nil, fmt.Errorf("openai embed failed after retries: %w", retryErr)
	}
	return result, nil
}

func (o *OpenAI) doEmbed(ctx context.Context, text string) ([]float32, error) {
	resp, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: o.model,
	})
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai api returned no embeddings")
	}

	embedding := resp.Data[0].Embedding
	if len(embedding) != Dimension {
		return nil, fmt.Errorf("unexpected embedding dimension: got %d, want %d", len(embedding), Dimension)
	}
	return embedding, nil
}

// Package ai provides factory functions for creating embedding model adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	localembed "github.com/custodia-labs/semdoc/internal/adapters/driven/embedding/local"
	ollamaembed "github.com/custodia-labs/semdoc/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/semdoc/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/semdoc/internal/core/domain"
	"github.com/custodia-labs/semdoc/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Errors wrap domain.ErrEmbeddingUnavailable.
func CreateAndValidateEmbeddingService(ctx context.Context, settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(pingCtx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}

	if settings.Dimensions > 0 && svc.Dimensions() != settings.Dimensions {
		svc.Close()
		return nil, fmt.Errorf("%w: model %s has %d dimensions, configured %d",
			domain.ErrEmbeddingUnavailable, svc.ModelName(), svc.Dimensions(), settings.Dimensions)
	}

	return svc, nil
}

// Loader returns a function that creates and validates the configured
// embedding service. It is passed to the embedding engine, which calls it
// once per process.
func Loader(settings domain.EmbeddingSettings) func(context.Context) (driven.EmbeddingService, error) {
	return func(ctx context.Context) (driven.EmbeddingService, error) {
		return CreateAndValidateEmbeddingService(ctx, &settings)
	}
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, fmt.Errorf("embedding settings are missing")
	}
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("embedding provider %q is not configured", settings.Provider)
	}

	switch settings.Provider {
	case domain.EmbeddingProviderLocal:
		return localembed.NewEmbeddingService(localembed.Config{
			Model:      settings.Model,
			Dimensions: settings.Dimensions,
		})

	case domain.EmbeddingProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.EmbeddingProviderOpenAI:
		return createOpenAIEmbedding(settings)

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := settings.Dimensions
	if dimensions == 0 {
		dimensions = domain.EmbeddingDimensions()[settings.Model]
	}
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:       settings.BaseURL,
		Model:         settings.Model,
		Dimensions:    dimensions,
		RatePerSecond: settings.RatePerSecond,
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	dimensions := settings.Dimensions
	if dimensions == 0 {
		dimensions = domain.EmbeddingDimensions()[settings.Model]
	}

	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:        settings.APIKey,
		BaseURL:       settings.BaseURL,
		Model:         settings.Model,
		Dimensions:    dimensions,
		RatePerSecond: settings.RatePerSecond,
	})
}

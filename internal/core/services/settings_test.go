package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/semdoc/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/semdoc/internal/core/domain"
)

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	service := NewSettingsService(memory.NewConfigStore(), dir)

	settings, err := service.Get()
	require.NoError(t, err)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, dir, settings.DataDir)
	assert.Equal(t, filepath.Join(dir, "indexes"), settings.Index.Dir)
	assert.Equal(t, defaults.Chunking, settings.Chunking)
	assert.Equal(t, defaults.Embedding.Provider, settings.Embedding.Provider)
	assert.Equal(t, defaults.Embedding.Model, settings.Embedding.Model)
	assert.Equal(t, 384, settings.Embedding.Dimensions)
	assert.Equal(t, defaults.Search, settings.Search)
	assert.Equal(t, defaults.Pending.TTL, settings.Pending.TTL)
	assert.Equal(t, defaults.Server.CORSOrigins, settings.Server.CORSOrigins)
	assert.Equal(t, defaults.Server.MaxUploadBytes, settings.Server.MaxUploadBytes)
	require.NoError(t, settings.Validate())
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("data_dir", "/srv/semdoc")
	_ = store.Set("chunking.window", 200)
	_ = store.Set("chunking.overlap", 0)
	_ = store.Set("embedding.provider", "ollama")
	_ = store.Set("embedding.rate_per_sec", 2.5)
	_ = store.Set("index.backend", "s3")
	_ = store.Set("index.s3.bucket", "indexes")
	_ = store.Set("search.max_k", 20)
	_ = store.Set("pending.backend", "redis")
	_ = store.Set("pending.ttl", "15m")
	_ = store.Set("pending.redis.db", 2)
	_ = store.Set("server.cors_origins", []any{"https://app.example"})

	settings, err := NewSettingsService(store, "").Get()
	require.NoError(t, err)

	assert.Equal(t, "/srv/semdoc", settings.DataDir)
	assert.Equal(t, filepath.Join("/srv/semdoc", "indexes"), settings.Index.Dir)
	assert.Equal(t, 200, settings.Chunking.Window)
	assert.Equal(t, 0, settings.Chunking.Overlap, "explicit zero overlap is kept")
	assert.Equal(t, domain.EmbeddingProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", settings.Embedding.Model)
	assert.Equal(t, 768, settings.Embedding.Dimensions)
	assert.InDelta(t, 2.5, settings.Embedding.RatePerSecond, 1e-9)
	assert.Equal(t, domain.BlobBackendS3, settings.Index.Backend)
	assert.Equal(t, "indexes", settings.Index.S3.Bucket)
	assert.Equal(t, "us-east-1", settings.Index.S3.Region)
	assert.Equal(t, 20, settings.Search.MaxK)
	assert.Equal(t, domain.PendingBackendRedis, settings.Pending.Backend)
	assert.Equal(t, 15*time.Minute, settings.Pending.TTL)
	assert.Equal(t, 2, settings.Pending.Redis.DB)
	assert.Equal(t, []string{"https://app.example"}, settings.Server.CORSOrigins)
}

func TestSettingsService_Get_InvalidProviderFallsBack(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "invalid_provider")

	settings, err := NewSettingsService(store, t.TempDir()).Get()
	require.NoError(t, err)
	assert.Equal(t, domain.EmbeddingProviderLocal, settings.Embedding.Provider)
}

func TestSettingsService_Get_OpenAIKeyFromEnvironment(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "openai")

	settings, err := NewSettingsService(store, t.TempDir()).Get()
	require.NoError(t, err)
	assert.Equal(t, "sk-env", settings.Embedding.APIKey)
	assert.Equal(t, 1536, settings.Embedding.Dimensions)

	_ = store.Set("embedding.api_key", "sk-file")
	settings, err = NewSettingsService(store, t.TempDir()).Get()
	require.NoError(t, err)
	assert.Equal(t, "sk-file", settings.Embedding.APIKey)
}

func TestSettingsService_Load_Validates(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("chunking.window", 100)
	_ = store.Set("chunking.overlap", 100)

	_, err := NewSettingsService(store, t.TempDir()).Load()
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, t.TempDir())

	settings, err := service.Get()
	require.NoError(t, err)
	settings.Chunking = domain.ChunkingSettings{Window: 300, Overlap: 50}
	settings.Search.MaxK = 25
	settings.Pending.TTL = 10 * time.Minute

	require.NoError(t, service.Save(settings))

	reloaded, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings.Chunking, reloaded.Chunking)
	assert.Equal(t, 25, reloaded.Search.MaxK)
	assert.Equal(t, 10*time.Minute, reloaded.Pending.TTL)

	_, hasKey := store.Get("embedding.api_key")
	assert.False(t, hasKey, "empty API key must not be written")
}

func TestSettingsService_ChunkFilters(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, t.TempDir())

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Nil(t, settings.Chunking.Filters, "unset filters select the defaults")

	settings.Chunking.Filters = []string{"dehyphenate", "strip_control"}
	require.NoError(t, service.Save(settings))
	reloaded, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, []string{"dehyphenate", "strip_control"}, reloaded.Chunking.Filters)

	settings.Chunking.Filters = []string{}
	require.NoError(t, service.Save(settings))
	reloaded, err = service.Get()
	require.NoError(t, err)
	assert.NotNil(t, reloaded.Chunking.Filters)
	assert.Empty(t, reloaded.Chunking.Filters)
}

func TestSettingsService_Save_RejectsInvalid(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), t.TempDir())

	settings := domain.DefaultAppSettings()
	settings.Chunking.Overlap = settings.Chunking.Window

	assert.ErrorIs(t, service.Save(&settings), domain.ErrInvalidConfiguration)
}

func TestSettingsService_SetEmbeddingProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider domain.EmbeddingProvider
		model    string
		apiKey   string
		wantURL  string
		wantDims int
		wantModl string
	}{
		{
			name:     "ollama default model",
			provider: domain.EmbeddingProviderOllama,
			wantURL:  "http://localhost:11434",
			wantDims: 768,
			wantModl: "nomic-embed-text",
		},
		{
			name:     "openai explicit model",
			provider: domain.EmbeddingProviderOpenAI,
			model:    "text-embedding-3-large",
			apiKey:   "sk-test",
			wantDims: 3072,
			wantModl: "text-embedding-3-large",
		},
		{
			name:     "ollama unknown model reports its own size",
			provider: domain.EmbeddingProviderOllama,
			model:    "custom-embedder",
			wantURL:  "http://localhost:11434",
			wantDims: 0,
			wantModl: "custom-embedder",
		},
		{
			name:     "back to local",
			provider: domain.EmbeddingProviderLocal,
			wantDims: 384,
			wantModl: "hashing-bow-v1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStore(), t.TempDir())

			require.NoError(t, service.SetEmbeddingProvider(tt.provider, tt.model, tt.apiKey))

			settings, err := service.Get()
			require.NoError(t, err)
			assert.Equal(t, tt.provider, settings.Embedding.Provider)
			assert.Equal(t, tt.wantModl, settings.Embedding.Model)
			assert.Equal(t, tt.wantURL, settings.Embedding.BaseURL)
			assert.Equal(t, tt.wantDims, settings.Embedding.Dimensions)
			assert.Equal(t, tt.apiKey, settings.Embedding.APIKey)
		})
	}
}

func TestSettingsService_SetEmbeddingProvider_Errors(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), t.TempDir())

	err := service.SetEmbeddingProvider("anthropic", "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)

	err = service.SetEmbeddingProvider(domain.EmbeddingProviderOpenAI, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidConfiguration)
}

func TestSettingsService_GetDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), "")
	assert.Equal(t, domain.DefaultAppSettings(), service.GetDefaults())
}

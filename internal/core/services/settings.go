package services

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/semdoc/internal/core/domain"
	"github.com/custodia-labs/semdoc/internal/core/ports/driven"
	"github.com/custodia-labs/semdoc/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyDataDir          = "data_dir"
	keyChunkWindow      = "chunking.window"
	keyChunkOverlap     = "chunking.overlap"
	keyChunkFilters     = "chunking.filters"
	keyEmbedProvider    = "embedding.provider"
	keyEmbedModel       = "embedding.model"
	keyEmbedDims        = "embedding.dimensions"
	keyEmbedBaseURL     = "embedding.base_url"
	keyEmbedAPIKey      = "embedding.api_key"
	keyEmbedBatchSize   = "embedding.batch_size"
	keyEmbedConcurrency = "embedding.concurrency"
	keyEmbedRate        = "embedding.rate_per_sec"
	keyIndexBackend     = "index.backend"
	keyIndexDir         = "index.dir"
	keyIndexCacheSize   = "index.cache_size"
	keyS3Bucket         = "index.s3.bucket"
	keyS3Endpoint       = "index.s3.endpoint"
	keyS3Region         = "index.s3.region"
	keyS3AccessKey      = "index.s3.access_key"
	keyS3SecretKey      = "index.s3.secret_key"
	keyS3Prefix         = "index.s3.prefix"
	keySearchDefaultK   = "search.default_k"
	keySearchMaxK       = "search.max_k"
	keyPendingBackend   = "pending.backend"
	keyPendingTTL       = "pending.ttl"
	keyRedisAddr        = "pending.redis.addr"
	keyRedisPassword    = "pending.redis.password"
	keyRedisDB          = "pending.redis.db"
	keyServerAddr       = "server.addr"
	keyServerCORS       = "server.cors_origins"
	keyServerMaxUpload  = "server.max_upload_bytes"
)

// openAIKeyEnv is honoured when no embedding API key is configured.
const openAIKeyEnv = "OPENAI_API_KEY"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	dataDir     string
}

// NewSettingsService creates a new settings service. dataDir is used when
// the configuration does not name one; empty means ~/.semdoc.
func NewSettingsService(configStore driven.ConfigStore, dataDir string) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		dataDir:     dataDir,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	dataDir := s.getString(keyDataDir, s.dataDir)
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve data dir: %w", err)
		}
		dataDir = filepath.Join(home, ".semdoc")
	}

	provider := s.getProvider(defaults.Embedding.Provider)
	model := s.getString(keyEmbedModel, domain.DefaultEmbeddingModels()[provider])

	apiKey := s.configStore.GetString(keyEmbedAPIKey)
	if apiKey == "" && provider == domain.EmbeddingProviderOpenAI {
		apiKey = os.Getenv(openAIKeyEnv)
	}

	settings := &domain.AppSettings{
		DataDir: dataDir,
		Chunking: domain.ChunkingSettings{
			Window:  s.getInt(keyChunkWindow, defaults.Chunking.Window),
			Overlap: s.getInt(keyChunkOverlap, defaults.Chunking.Overlap),
			Filters: s.configStore.GetStringSlice(keyChunkFilters),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:      provider,
			Model:         model,
			Dimensions:    s.getInt(keyEmbedDims, defaultDimensions(provider, model)),
			BaseURL:       s.configStore.GetString(keyEmbedBaseURL), // No default - adapters pick theirs
			APIKey:        apiKey,
			BatchSize:     s.getInt(keyEmbedBatchSize, defaults.Embedding.BatchSize),
			Concurrency:   s.getInt(keyEmbedConcurrency, defaults.Embedding.Concurrency),
			RatePerSecond: s.configStore.GetFloat(keyEmbedRate),
		},
		Index: domain.IndexSettings{
			Backend:   s.getBlobBackend(defaults.Index.Backend),
			Dir:       s.getString(keyIndexDir, filepath.Join(dataDir, "indexes")),
			CacheSize: s.getInt(keyIndexCacheSize, defaults.Index.CacheSize),
			S3: domain.S3Settings{
				Bucket:    s.configStore.GetString(keyS3Bucket),
				Endpoint:  s.configStore.GetString(keyS3Endpoint),
				Region:    s.getString(keyS3Region, defaults.Index.S3.Region),
				AccessKey: s.configStore.GetString(keyS3AccessKey),
				SecretKey: s.configStore.GetString(keyS3SecretKey),
				Prefix:    s.configStore.GetString(keyS3Prefix),
			},
		},
		Search: domain.SearchSettings{
			DefaultK: s.getInt(keySearchDefaultK, defaults.Search.DefaultK),
			MaxK:     s.getInt(keySearchMaxK, defaults.Search.MaxK),
		},
		Pending: domain.PendingSettings{
			Backend: s.getPendingBackend(defaults.Pending.Backend),
			TTL:     defaults.Pending.TTL,
			Redis: domain.RedisSettings{
				Addr:     s.getString(keyRedisAddr, defaults.Pending.Redis.Addr),
				Password: s.configStore.GetString(keyRedisPassword),
				DB:       s.configStore.GetInt(keyRedisDB),
			},
		},
		Server: domain.ServerSettings{
			Addr:           s.getString(keyServerAddr, defaults.Server.Addr),
			CORSOrigins:    defaults.Server.CORSOrigins,
			MaxUploadBytes: int64(s.getInt(keyServerMaxUpload, int(defaults.Server.MaxUploadBytes))),
		},
	}

	if ttl := s.configStore.GetDuration(keyPendingTTL); ttl > 0 {
		settings.Pending.TTL = ttl
	}
	if origins := s.configStore.GetStringSlice(keyServerCORS); origins != nil {
		settings.Server.CORSOrigins = origins
	}

	return settings, nil
}

// Load returns validated settings.
func (s *SettingsService) Load() (*domain.AppSettings, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// Save persists application settings. Empty secrets are not written.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	values := []struct {
		key   string
		value any
	}{
		{keyChunkWindow, settings.Chunking.Window},
		{keyChunkOverlap, settings.Chunking.Overlap},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedDims, settings.Embedding.Dimensions},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedBatchSize, settings.Embedding.BatchSize},
		{keyEmbedConcurrency, settings.Embedding.Concurrency},
		{keyEmbedRate, settings.Embedding.RatePerSecond},
		{keyIndexBackend, string(settings.Index.Backend)},
		{keyIndexCacheSize, settings.Index.CacheSize},
		{keySearchDefaultK, settings.Search.DefaultK},
		{keySearchMaxK, settings.Search.MaxK},
		{keyPendingBackend, string(settings.Pending.Backend)},
		{keyPendingTTL, settings.Pending.TTL.String()},
		{keyServerAddr, settings.Server.Addr},
		{keyServerCORS, settings.Server.CORSOrigins},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if settings.Chunking.Filters != nil {
		if err := s.configStore.Set(keyChunkFilters, settings.Chunking.Filters); err != nil {
			return fmt.Errorf("save %s: %w", keyChunkFilters, err)
		}
	}

	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyEmbedAPIKey, err)
		}
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.EmbeddingProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidConfiguration, provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidConfiguration, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
	}

	// Ollama needs a base URL, the others use their own default
	if provider == domain.EmbeddingProviderOllama {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	// Dimensions follow the model; zero lets the provider report its own
	settings.Embedding.Dimensions = defaultDimensions(provider, settings.Embedding.Model)

	return s.Save(settings)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// defaultDimensions returns the vector size expected for a model, or 0
// when it is unknown.
func defaultDimensions(provider domain.EmbeddingProvider, model string) int {
	if provider == domain.EmbeddingProviderLocal {
		return domain.DefaultAppSettings().Embedding.Dimensions
	}
	return domain.EmbeddingDimensions()[model]
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getProvider(defaultVal domain.EmbeddingProvider) domain.EmbeddingProvider {
	val := s.configStore.GetString(keyEmbedProvider)
	if val == "" {
		return defaultVal
	}
	provider := domain.EmbeddingProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBlobBackend(defaultVal domain.BlobBackend) domain.BlobBackend {
	val := s.configStore.GetString(keyIndexBackend)
	if val == "" {
		return defaultVal
	}
	return domain.BlobBackend(val)
}

func (s *SettingsService) getPendingBackend(defaultVal domain.PendingBackend) domain.PendingBackend {
	val := s.configStore.GetString(keyPendingBackend)
	if val == "" {
		return defaultVal
	}
	return domain.PendingBackend(val)
}

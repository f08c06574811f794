package domain

import (
	"fmt"
	"time"
)

const unknownDescription = "Unknown"

// EmbeddingProvider identifies the model backing the embedding engine.
type EmbeddingProvider string

// Available embedding providers.
const (
	// EmbeddingProviderLocal is the built-in feature-hashing model.
	EmbeddingProviderLocal EmbeddingProvider = "local"

	// EmbeddingProviderOllama is a local Ollama instance.
	EmbeddingProviderOllama EmbeddingProvider = "ollama"

	// EmbeddingProviderOpenAI is the OpenAI API or a compatible endpoint.
	EmbeddingProviderOpenAI EmbeddingProvider = "openai"
)

// IsValid returns true if the provider is recognised.
func (p EmbeddingProvider) IsValid() bool {
	switch p {
	case EmbeddingProviderLocal, EmbeddingProviderOllama, EmbeddingProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p EmbeddingProvider) RequiresAPIKey() bool {
	return p == EmbeddingProviderOpenAI
}

// IsRemote returns true if embedding requires a network call.
func (p EmbeddingProvider) IsRemote() bool {
	return p == EmbeddingProviderOllama || p == EmbeddingProviderOpenAI
}

// String returns the string representation.
func (p EmbeddingProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p EmbeddingProvider) Description() string {
	switch p {
	case EmbeddingProviderLocal:
		return "Local (feature hashing, offline)"
	case EmbeddingProviderOllama:
		return "Ollama (local server)"
	case EmbeddingProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// BlobBackend identifies where vector index blobs are stored.
type BlobBackend string

// Available blob backends.
const (
	// BlobBackendFS stores index blobs in a local directory.
	BlobBackendFS BlobBackend = "fs"

	// BlobBackendS3 stores index blobs in an S3-compatible bucket.
	BlobBackendS3 BlobBackend = "s3"
)

// IsValid returns true if the backend is recognised.
func (b BlobBackend) IsValid() bool {
	return b == BlobBackendFS || b == BlobBackendS3
}

// PendingBackend identifies where staged uploads are kept.
type PendingBackend string

// Available pending-upload backends.
const (
	// PendingBackendMemory keeps staged uploads in process memory.
	PendingBackendMemory PendingBackend = "memory"

	// PendingBackendRedis keeps staged uploads in Redis with a TTL.
	PendingBackendRedis PendingBackend = "redis"
)

// IsValid returns true if the backend is recognised.
func (b PendingBackend) IsValid() bool {
	return b == PendingBackendMemory || b == PendingBackendRedis
}

// ChunkingSettings controls how text is split into windows.
type ChunkingSettings struct {
	// Window is the number of words per chunk.
	Window int

	// Overlap is the number of words shared by consecutive chunks.
	Overlap int

	// Filters names the text filters applied before chunking, in order.
	// Nil selects the default filters; empty disables them.
	Filters []string
}

// Validate reports ErrInvalidConfiguration when the stride would not advance.
func (c ChunkingSettings) Validate() error {
	if c.Window <= 0 {
		return fmt.Errorf("%w: window must be positive, got %d", ErrInvalidConfiguration, c.Window)
	}
	if c.Overlap < 0 {
		return fmt.Errorf("%w: overlap must not be negative, got %d", ErrInvalidConfiguration, c.Overlap)
	}
	if c.Overlap >= c.Window {
		return fmt.Errorf("%w: overlap %d must be less than window %d", ErrInvalidConfiguration, c.Overlap, c.Window)
	}
	return nil
}

// EmbeddingSettings holds embedding model configuration.
type EmbeddingSettings struct {
	// Provider is the embedding model backend.
	Provider EmbeddingProvider

	// Model is the embedding model name.
	Model string

	// Dimensions is the vector size produced by the model.
	Dimensions int

	// BaseURL is the API endpoint (for Ollama and OpenAI-compatible servers).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// BatchSize is the number of chunks sent to the model per call.
	BatchSize int

	// Concurrency bounds the number of batches embedded at once.
	Concurrency int

	// RatePerSecond limits remote model calls. Zero means unlimited.
	RatePerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// S3Settings holds the connection details for the S3 blob backend.
type S3Settings struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Prefix    string
}

// IndexSettings holds vector index storage configuration.
type IndexSettings struct {
	// Backend selects the blob store for index files.
	Backend BlobBackend

	// Dir is the directory used by the fs backend.
	Dir string

	// S3 configures the s3 backend.
	S3 S3Settings

	// CacheSize is the number of loaded indexes kept in memory.
	CacheSize int
}

// SearchSettings holds query behaviour configuration.
type SearchSettings struct {
	// DefaultK is the neighbour count used when a request does not set one.
	DefaultK int

	// MaxK caps the neighbour count a request may ask for.
	MaxK int
}

// RedisSettings holds the Redis connection for staged uploads.
type RedisSettings struct {
	Addr     string
	Password string
	DB       int
}

// PendingSettings holds staged-upload configuration.
type PendingSettings struct {
	// Backend selects where staged uploads are kept.
	Backend PendingBackend

	// TTL is how long a staged upload survives without being stored.
	TTL time.Duration

	// Redis configures the redis backend.
	Redis RedisSettings
}

// ServerSettings holds HTTP API configuration.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string

	// CORSOrigins lists origins allowed to call the API.
	CORSOrigins []string

	// MaxUploadBytes limits the size of uploaded text files.
	MaxUploadBytes int64
}

// AppSettings holds all application settings.
type AppSettings struct {
	// DataDir holds the metadata database and, by default, index blobs.
	DataDir string

	Chunking  ChunkingSettings
	Embedding EmbeddingSettings
	Index     IndexSettings
	Search    SearchSettings
	Pending   PendingSettings
	Server    ServerSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// DataDir and Index.Dir are resolved by the settings service.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Chunking: ChunkingSettings{
			Window:  500,
			Overlap: 100,
		},
		Embedding: EmbeddingSettings{
			Provider:    EmbeddingProviderLocal,
			Model:       DefaultEmbeddingModels()[EmbeddingProviderLocal],
			Dimensions:  384,
			BatchSize:   32,
			Concurrency: 4,
		},
		Index: IndexSettings{
			Backend:   BlobBackendFS,
			CacheSize: 64,
			S3:        S3Settings{Region: "us-east-1"},
		},
		Search: SearchSettings{
			DefaultK: DefaultSearchK,
			MaxK:     50,
		},
		Pending: PendingSettings{
			Backend: PendingBackendMemory,
			TTL:     time.Hour,
			Redis:   RedisSettings{Addr: "localhost:6379"},
		},
		Server: ServerSettings{
			Addr:           ":8080",
			CORSOrigins:    []string{"http://localhost:5500"},
			MaxUploadBytes: 10 << 20,
		},
	}
}

// Validate checks settings for values the services cannot work with.
func (s AppSettings) Validate() error {
	if err := s.Chunking.Validate(); err != nil {
		return err
	}
	if !s.Embedding.Provider.IsValid() {
		return fmt.Errorf("%w: unknown embedding provider %q", ErrInvalidConfiguration, s.Embedding.Provider)
	}
	if s.Embedding.Provider.RequiresAPIKey() && s.Embedding.APIKey == "" {
		return fmt.Errorf("%w: %s requires an API key", ErrInvalidConfiguration, s.Embedding.Provider)
	}
	if !s.Index.Backend.IsValid() {
		return fmt.Errorf("%w: unknown index backend %q", ErrInvalidConfiguration, s.Index.Backend)
	}
	if s.Index.Backend == BlobBackendS3 && s.Index.S3.Bucket == "" {
		return fmt.Errorf("%w: s3 index backend requires a bucket", ErrInvalidConfiguration)
	}
	if !s.Pending.Backend.IsValid() {
		return fmt.Errorf("%w: unknown pending backend %q", ErrInvalidConfiguration, s.Pending.Backend)
	}
	if s.Search.DefaultK <= 0 || s.Search.MaxK < s.Search.DefaultK {
		return fmt.Errorf("%w: search k bounds %d/%d", ErrInvalidConfiguration, s.Search.DefaultK, s.Search.MaxK)
	}
	return nil
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []EmbeddingProvider {
	return []EmbeddingProvider{
		EmbeddingProviderLocal,
		EmbeddingProviderOllama,
		EmbeddingProviderOpenAI,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[EmbeddingProvider]string {
	return map[EmbeddingProvider]string{
		EmbeddingProviderLocal:  "hashing-bow-v1",
		EmbeddingProviderOllama: "nomic-embed-text",
		EmbeddingProviderOpenAI: "text-embedding-3-small",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

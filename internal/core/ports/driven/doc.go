// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - Chunker: Splits text into overlapping word windows
//   - EmbeddingService: The embedding model (local, Ollama, OpenAI)
//   - Embedder: The loaded embedding engine services call
//   - IndexStore / VectorIndex: Per-document exact nearest-neighbour indexes
//   - BlobStore: Index blob persistence (filesystem, S3)
//   - DocumentStore: Document and chunk persistence
//   - PendingStore: Staged uploads (memory, Redis)
//   - ConfigStore: Application configuration
//   - Normaliser: Converts uploaded files to plain text
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven

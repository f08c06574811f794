// Package domain defines the core business entities for semdoc.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An ingested document and the location of its vector index
//   - TextChunk: An overlapping word window owned by a document
//   - PendingUpload: Extracted text staged by a client before it is stored
//   - SearchHit: A chunk matched by a similarity query
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain

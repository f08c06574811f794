package domain

// DefaultSearchK is the number of neighbours returned when none is requested.
const DefaultSearchK = 5

// SearchHit is a chunk matched by a similarity query.
type SearchHit struct {
	// Ordinal is the matched chunk's position within its document.
	Ordinal int `json:"ordinal"`

	// ChunkText is the matched chunk content.
	ChunkText string `json:"chunk_text"`

	// Distance is the squared L2 distance to the query (lower is closer).
	Distance float64 `json:"distance"`
}

// Neighbour is a raw vector index match before chunk resolution.
type Neighbour struct {
	// Position is the vector's insertion position.
	Position int

	// Distance is the squared L2 distance to the query.
	Distance float64
}

package flat

import (
	"fmt"
	"sort"

	"github.com/viant/vec/search"

	"github.com/custodia-labs/semdoc/internal/core/domain"
)

// Index is an immutable flat vector index. Position i holds the i-th vector
// passed to Build.
type Index struct {
	vecs [][]float32
	dim  int
}

// Build copies vectors into a new index. All vectors must share one dimension.
func Build(vectors [][]float32) (*Index, error) {
	if len(vectors) == 0 {
		return &Index{}, nil
	}
	dim := len(vectors[0])
	if dim == 0 {
		return nil, fmt.Errorf("flat: zero-dimension vector: %w", domain.ErrDimensionMismatch)
	}
	vecs := make([][]float32, len(vectors))
	for j, v := range vectors {
		if len(v) != dim {
			return nil, fmt.Errorf("flat: vector %d has dim %d, want %d: %w", j, len(v), dim, domain.ErrDimensionMismatch)
		}
		vecs[j] = append([]float32(nil), v...)
	}
	return &Index{vecs: vecs, dim: dim}, nil
}

// Len returns the number of vectors.
func (i *Index) Len() int {
	return len(i.vecs)
}

// Dimensions returns the vector size, or 0 for an empty index.
func (i *Index) Dimensions() int {
	return i.dim
}

// Search returns the k nearest vectors to query by ascending squared L2
// distance. Equal distances are ordered by ascending position. k is clamped
// to Len; k <= 0 returns no neighbours.
func (i *Index) Search(query []float32, k int) ([]domain.Neighbour, error) {
	if len(i.vecs) == 0 || k <= 0 {
		return nil, nil
	}
	if len(query) != i.dim {
		return nil, fmt.Errorf("flat: query dim %d != index dim %d: %w", len(query), i.dim, domain.ErrDimensionMismatch)
	}

	q := search.Float32s(query)
	scored := make([]domain.Neighbour, len(i.vecs))
	for j, v := range i.vecs {
		d := float64(q.EuclideanDistance(v))
		scored[j] = domain.Neighbour{Position: j, Distance: d * d}
	}

	sort.SliceStable(scored, func(a, b int) bool {
		if scored[a].Distance != scored[b].Distance {
			return scored[a].Distance < scored[b].Distance
		}
		return scored[a].Position < scored[b].Position
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}

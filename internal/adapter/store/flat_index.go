package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/migueleog01/partselect/internal/port"
)

// FlatIndex is an exact inner-product index over row-aligned vectors.
// Rows are append-only within a build; the dimensionality is fixed by the
// first batch added. Brute-force scan keeps search exact, which is fine at
// corpus scale.
type FlatIndex struct {
	mu   sync.RWMutex
	dim  int
	rows [][]float32
}

func NewFlatIndex() *FlatIndex {
	return &FlatIndex{}
}

func (x *FlatIndex) Add(vectors [][]float32) error {
	if len(vectors) == 0 {
		return nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	if x.dim == 0 {
		x.dim = len(vectors[0])
	}
	for _, v := range vectors {
		if len(v) != x.dim {
			return fmt.Errorf("vector dimension mismatch: expected %d, got %d", x.dim, len(v))
		}
	}
	x.rows = append(x.rows, vectors...)
	return nil
}

// Search returns up to k hits by descending inner product. Searching an
// empty index returns an empty result, not an error.
func (x *FlatIndex) Search(query []float32, k int) ([]port.Hit, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if len(x.rows) == 0 || k <= 0 {
		return nil, nil
	}
	if len(query) != x.dim {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", x.dim, len(query))
	}

	hits := make([]port.Hit, 0, len(x.rows))
	for row, v := range x.rows {
		hits = append(hits, port.Hit{Row: row, Score: dot(query, v)})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Row < hits[j].Row
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

func (x *FlatIndex) Len() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.rows)
}

func (x *FlatIndex) Dim() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.dim
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

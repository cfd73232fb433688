package port

import "github.com/migueleog01/partselect/internal/domain"

// Hit is a single nearest-neighbor match: a row in the index and its
// inner-product score.
type Hit struct {
	Row   int
	Score float64
}

// VectorIndex stores embeddings and answers top-k nearest-neighbor queries by
// descending inner product. An index is append-only within a build and never
// mutated in place; updates require a full rebuild.
type VectorIndex interface {
	// Add appends vectors. The dimensionality is fixed by the first batch.
	Add(vectors [][]float32) error

	// Search returns up to k hits ordered by descending score. An empty
	// index yields an empty result, not an error.
	Search(query []float32, k int) ([]Hit, error)

	Len() int

	Dim() int
}

// SnapshotStore persists an index snapshot: vectors, the positionally aligned
// passage metadata, and self-describing meta. Save atomically supersedes any
// prior snapshot.
type SnapshotStore interface {
	Save(meta domain.SnapshotMeta, passages []domain.Passage, vectors [][]float32) error

	// Load returns ok=false when no usable snapshot exists, including when
	// the persisted data is in an older or corrupt shape. That case is a
	// rebuild signal, not an error.
	Load() (meta domain.SnapshotMeta, passages []domain.Passage, vectors [][]float32, ok bool, err error)
}

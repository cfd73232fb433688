package port

import "github.com/migueleog01/partselect/internal/domain"

// Chunker turns one raw JSON repair document into zero or more passages.
// Documents that fail to parse or yield no non-empty text contribute zero
// passages; that is never a fatal condition for an ingestion run.
type Chunker interface {
	Chunk(path string, raw []byte) []domain.Passage
}

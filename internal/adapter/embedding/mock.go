package embedding

import (
	"hash/fnv"
	"math"
	"strings"

	"github.com/migueleog01/partselect/internal/port"
)

// MockEmbedder produces deterministic vectors by hashing lowercased words
// into a fixed number of buckets. Texts sharing vocabulary get higher cosine
// similarity, which is enough to exercise the retrieval pipeline in tests.
type MockEmbedder struct {
	dimension int
}

func NewMockEmbedder(dimension int) *MockEmbedder {
	if dimension <= 0 {
		dimension = 256
	}
	return &MockEmbedder{dimension: dimension}
}

func (e *MockEmbedder) Embed(texts []string, role port.Role) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vec := make([]float32, e.dimension)
		for _, word := range strings.Fields(strings.ToLower(text)) {
			word = strings.Trim(word, ".,;:|()\"'")
			if word == "" {
				continue
			}
			h := fnv.New32a()
			h.Write([]byte(word))
			vec[int(h.Sum32())%e.dimension]++
		}
		vectors[i] = Normalize(vec)
	}
	return vectors, nil
}

func (e *MockEmbedder) ModelName() string {
	return "mock"
}

// Normalize scales a vector to unit length so that inner product equals
// cosine similarity. Zero vectors are returned unchanged.
func Normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
	return v
}

package store

import (
	"testing"
)

func TestFlatIndexSearchOrdering(t *testing.T) {
	idx := NewFlatIndex()
	err := idx.Add([][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.9, 0.1, 0},
	})
	if err != nil {
		t.Fatal(err)
	}

	hits, err := idx.Search([]float32{1, 0, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(hits))
	}
	if hits[0].Row != 0 {
		t.Errorf("expected row 0 first, got %d", hits[0].Row)
	}
	if hits[1].Row != 2 {
		t.Errorf("expected row 2 second, got %d", hits[1].Row)
	}
	for i := 1; i < len(hits); i++ {
		if hits[i-1].Score < hits[i].Score {
			t.Errorf("hits not descending at %d: %f < %f", i, hits[i-1].Score, hits[i].Score)
		}
	}
}

func TestFlatIndexSearchTruncatesToK(t *testing.T) {
	idx := NewFlatIndex()
	if err := idx.Add([][]float32{{1, 0}, {0, 1}, {1, 1}, {0.5, 0.5}}); err != nil {
		t.Fatal(err)
	}

	hits, err := idx.Search([]float32{1, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Errorf("expected 2 hits, got %d", len(hits))
	}
}

func TestFlatIndexEmptySearch(t *testing.T) {
	idx := NewFlatIndex()
	hits, err := idx.Search([]float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("empty index search should not error: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("expected no hits, got %d", len(hits))
	}
}

func TestFlatIndexDimensionMismatch(t *testing.T) {
	idx := NewFlatIndex()
	if err := idx.Add([][]float32{{1, 0, 0}}); err != nil {
		t.Fatal(err)
	}

	if err := idx.Add([][]float32{{1, 0}}); err == nil {
		t.Error("expected error adding mismatched vector")
	}
	if _, err := idx.Search([]float32{1, 0}, 1); err == nil {
		t.Error("expected error searching with mismatched query")
	}
}

func TestFlatIndexTieBreaksByRow(t *testing.T) {
	idx := NewFlatIndex()
	if err := idx.Add([][]float32{{1, 0}, {1, 0}, {1, 0}}); err != nil {
		t.Fatal(err)
	}

	hits, err := idx.Search([]float32{1, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	for i, h := range hits {
		if h.Row != i {
			t.Errorf("tie at position %d broke to row %d", i, h.Row)
		}
	}
}

func TestFlatIndexLenAndDim(t *testing.T) {
	idx := NewFlatIndex()
	if idx.Len() != 0 || idx.Dim() != 0 {
		t.Error("new index should be empty")
	}
	if err := idx.Add([][]float32{{1, 2, 3}, {4, 5, 6}}); err != nil {
		t.Fatal(err)
	}
	if idx.Len() != 2 {
		t.Errorf("expected Len=2, got %d", idx.Len())
	}
	if idx.Dim() != 3 {
		t.Errorf("expected Dim=3, got %d", idx.Dim())
	}
}

package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/migueleog01/partselect/internal/domain"
)

func openTestStore(t *testing.T) *BoltSnapshotStore {
	t.Helper()
	s, err := NewBoltSnapshotStore(filepath.Join(t.TempDir(), "repairs.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testSnapshot() (domain.SnapshotMeta, []domain.Passage, [][]float32) {
	meta := domain.SnapshotMeta{
		Fingerprint:   "abc123",
		ModelName:     "mock",
		DocumentCount: 2,
		BuiltAt:       time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
	}
	passages := []domain.Passage{
		{ID: "a.json#aaa-0", Text: "first passage", ApplianceType: domain.ApplianceRefrigerator, SourceFile: "a.json"},
		{ID: "b.json#bbb-0", Text: "second passage", ApplianceType: domain.ApplianceDryer, SourceFile: "b.json"},
	}
	vectors := [][]float32{
		{0.1, 0.2, 0.3},
		{0.4, 0.5, 0.6},
	}
	return meta, passages, vectors
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := openTestStore(t)
	meta, passages, vectors := testSnapshot()

	if err := s.Save(meta, passages, vectors); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	gotMeta, gotPassages, gotVectors, ok, err := s.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !ok {
		t.Fatal("expected ok=true for fresh snapshot")
	}

	if gotMeta.Fingerprint != meta.Fingerprint {
		t.Errorf("fingerprint mismatch: %q vs %q", gotMeta.Fingerprint, meta.Fingerprint)
	}
	if gotMeta.ModelName != meta.ModelName {
		t.Errorf("model mismatch: %q vs %q", gotMeta.ModelName, meta.ModelName)
	}
	if !gotMeta.BuiltAt.Equal(meta.BuiltAt) {
		t.Errorf("built-at mismatch: %v vs %v", gotMeta.BuiltAt, meta.BuiltAt)
	}

	if len(gotPassages) != len(passages) {
		t.Fatalf("expected %d passages, got %d", len(passages), len(gotPassages))
	}
	for i := range passages {
		if gotPassages[i].ID != passages[i].ID {
			t.Errorf("passage %d out of order: %q vs %q", i, gotPassages[i].ID, passages[i].ID)
		}
	}

	if len(gotVectors) != len(vectors) {
		t.Fatalf("expected %d vectors, got %d", len(vectors), len(gotVectors))
	}
	for i := range vectors {
		for j := range vectors[i] {
			if gotVectors[i][j] != vectors[i][j] {
				t.Errorf("vector [%d][%d] mismatch: %f vs %f", i, j, gotVectors[i][j], vectors[i][j])
			}
		}
	}
}

func TestSnapshotLoadEmptyDB(t *testing.T) {
	s := openTestStore(t)

	_, _, _, ok, err := s.Load()
	if err != nil {
		t.Fatalf("load of empty db should not error: %v", err)
	}
	if ok {
		t.Error("expected ok=false for empty db")
	}
}

func TestSnapshotSaveSupersedes(t *testing.T) {
	s := openTestStore(t)
	meta, passages, vectors := testSnapshot()

	if err := s.Save(meta, passages, vectors); err != nil {
		t.Fatal(err)
	}

	meta.Fingerprint = "def456"
	if err := s.Save(meta, passages[:1], vectors[:1]); err != nil {
		t.Fatal(err)
	}

	gotMeta, gotPassages, _, ok, err := s.Load()
	if err != nil || !ok {
		t.Fatalf("load failed: ok=%v err=%v", ok, err)
	}
	if gotMeta.Fingerprint != "def456" {
		t.Errorf("expected superseding fingerprint, got %q", gotMeta.Fingerprint)
	}
	if len(gotPassages) != 1 {
		t.Errorf("expected 1 passage after supersede, got %d", len(gotPassages))
	}
}

func TestSnapshotSaveMisaligned(t *testing.T) {
	s := openTestStore(t)
	meta, passages, vectors := testSnapshot()

	if err := s.Save(meta, passages, vectors[:1]); err == nil {
		t.Error("expected error saving misaligned snapshot")
	}
}

func TestSnapshotCorruptFileSignalsRebuild(t *testing.T) {
	path := filepath.Join(t.TempDir(), "repairs.db")
	s, err := NewBoltSnapshotStore(path)
	if err != nil {
		t.Fatal(err)
	}
	meta, passages, vectors := testSnapshot()
	if err := s.Save(meta, passages, vectors); err != nil {
		t.Fatal(err)
	}
	s.Close()

	// Truncating the file discards the stored buckets; a fresh bolt file is
	// initialized in their place on reopen.
	if err := os.Truncate(path, 0); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewBoltSnapshotStore(path)
	if err != nil {
		// An unopenable file is equivalent to "no snapshot" for the caller.
		return
	}
	defer reopened.Close()

	if _, _, _, ok, _ := reopened.Load(); ok {
		t.Error("expected ok=false for corrupt snapshot")
	}
}

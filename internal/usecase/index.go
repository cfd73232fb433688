package usecase

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/migueleog01/partselect/internal/adapter/fs"
	"github.com/migueleog01/partselect/internal/adapter/store"
	"github.com/migueleog01/partselect/internal/domain"
	"github.com/migueleog01/partselect/internal/port"
)

// IndexStatus reports whether BuildOrLoad reused the persisted snapshot or
// ran a full ingestion.
type IndexStatus string

const (
	StatusLoaded IndexStatus = "loaded_existing"
	StatusBuilt  IndexStatus = "built"
)

// IndexSnapshot pairs a vector index with its positionally aligned passage
// metadata. A snapshot is immutable once built; a rebuild produces an
// entirely new one.
type IndexSnapshot struct {
	Index    *store.FlatIndex
	Passages []domain.Passage
	Meta     domain.SnapshotMeta
}

// BuildResult is the outcome of a BuildOrLoad call.
type BuildResult struct {
	Snapshot   *IndexSnapshot
	Status     IndexStatus
	Appliances []string
}

// ProgressFunc reports ingestion progress to the caller.
type ProgressFunc func(processed, total int, currentFile string)

// IndexUseCase owns corpus ingestion: enumerate, chunk, embed, build, and
// persist. Freshness is decided by comparing the persisted snapshot's corpus
// fingerprint against a freshly computed one.
type IndexUseCase struct {
	corpusDir string
	walker    port.FileWalker
	chunker   port.Chunker
	embedder  port.Embedder
	snapshots port.SnapshotStore
	progress  ProgressFunc
}

func NewIndexUseCase(
	corpusDir string,
	walker port.FileWalker,
	chunker port.Chunker,
	embedder port.Embedder,
	snapshots port.SnapshotStore,
) *IndexUseCase {
	return &IndexUseCase{
		corpusDir: corpusDir,
		walker:    walker,
		chunker:   chunker,
		embedder:  embedder,
		snapshots: snapshots,
	}
}

// SetProgress installs a progress callback for full ingestion runs.
func (u *IndexUseCase) SetProgress(fn ProgressFunc) {
	u.progress = fn
}

// BuildOrLoad loads the persisted snapshot when the corpus fingerprint still
// matches, and otherwise runs a full ingestion. Build failures leave any
// previous snapshot untouched and loadable.
func (u *IndexUseCase) BuildOrLoad(force bool) (*BuildResult, error) {
	if _, err := os.Stat(u.corpusDir); err != nil {
		return nil, &domain.BuildError{
			Reason: fmt.Sprintf("corpus directory does not exist: %s", u.corpusDir),
			Err:    domain.ErrCorpusMissing,
		}
	}

	files, err := u.walker.Walk(u.corpusDir)
	if err != nil {
		return nil, &domain.BuildError{Reason: "failed to enumerate corpus", Err: err}
	}

	fingerprint, err := fs.Fingerprint(files)
	if err != nil {
		return nil, &domain.BuildError{Reason: "failed to fingerprint corpus", Err: err}
	}

	if !force {
		if snap := u.tryLoad(fingerprint); snap != nil {
			return &BuildResult{
				Snapshot:   snap,
				Status:     StatusLoaded,
				Appliances: applianceTypes(snap.Passages),
			}, nil
		}
	}

	snap, err := u.build(files, fingerprint)
	if err != nil {
		return nil, err
	}
	return &BuildResult{
		Snapshot:   snap,
		Status:     StatusBuilt,
		Appliances: applianceTypes(snap.Passages),
	}, nil
}

// tryLoad returns the persisted snapshot when it is usable and still fresh.
// Any load problem is a rebuild signal, not an error.
func (u *IndexUseCase) tryLoad(fingerprint string) *IndexSnapshot {
	meta, passages, vectors, ok, err := u.snapshots.Load()
	if err != nil || !ok {
		return nil
	}
	if meta.Fingerprint != fingerprint {
		return nil
	}

	index := store.NewFlatIndex()
	if err := index.Add(vectors); err != nil {
		return nil
	}
	if index.Len() != len(passages) {
		return nil
	}

	return &IndexSnapshot{
		Index:    index,
		Passages: passages,
		Meta:     meta,
	}
}

func (u *IndexUseCase) build(files []port.FileInfo, fingerprint string) (*IndexSnapshot, error) {
	var passages []domain.Passage
	for i, f := range files {
		raw, err := os.ReadFile(f.Path)
		if err != nil {
			// Unreadable files contribute nothing; ingestion continues.
			continue
		}
		passages = append(passages, u.chunker.Chunk(f.Path, raw)...)
		if u.progress != nil {
			u.progress(i+1, len(files), f.Path)
		}
	}

	if len(passages) == 0 {
		return nil, &domain.BuildError{
			Reason: fmt.Sprintf("no repair data found to index in %s", u.corpusDir),
			Err:    domain.ErrNoPassages,
		}
	}

	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}

	vectors, err := u.embedder.Embed(texts, port.RolePassage)
	if err != nil {
		return nil, &domain.BuildError{Reason: "failed to generate embeddings", Err: err}
	}
	if len(vectors) != len(passages) {
		return nil, &domain.BuildError{
			Reason: fmt.Sprintf("embedding count mismatch: %d passages, %d vectors", len(passages), len(vectors)),
		}
	}

	index := store.NewFlatIndex()
	if err := index.Add(vectors); err != nil {
		return nil, &domain.BuildError{Reason: "failed to build vector index", Err: err}
	}

	meta := domain.SnapshotMeta{
		Fingerprint:   fingerprint,
		ModelName:     u.embedder.ModelName(),
		DocumentCount: len(passages),
		BuiltAt:       time.Now(),
	}

	if err := u.snapshots.Save(meta, passages, vectors); err != nil {
		return nil, &domain.BuildError{Reason: "failed to persist snapshot", Err: err}
	}

	return &IndexSnapshot{
		Index:    index,
		Passages: passages,
		Meta:     meta,
	}, nil
}

func applianceTypes(passages []domain.Passage) []string {
	seen := make(map[string]struct{})
	var types []string
	for _, p := range passages {
		if _, dup := seen[p.ApplianceType]; dup {
			continue
		}
		seen[p.ApplianceType] = struct{}{}
		types = append(types, p.ApplianceType)
	}
	sort.Strings(types)
	return types
}

package cli

import (
	"fmt"
	"time"

	"github.com/migueleog01/partselect/config"
	"github.com/migueleog01/partselect/internal/adapter/cache"
	"github.com/migueleog01/partselect/internal/adapter/chunker"
	"github.com/migueleog01/partselect/internal/adapter/embedding"
	"github.com/migueleog01/partselect/internal/adapter/fs"
	"github.com/migueleog01/partselect/internal/adapter/retriever"
	"github.com/migueleog01/partselect/internal/adapter/store"
	"github.com/migueleog01/partselect/internal/port"
	"github.com/migueleog01/partselect/internal/usecase"
)

// engine wires the retrieval stack for one command invocation. Close releases
// the snapshot store.
type engine struct {
	indexUC    *usecase.IndexUseCase
	retrieveUC *usecase.RetrieveUseCase
	guideUC    *usecase.GuideUseCase
	snapshots  *store.BoltSnapshotStore
}

func (e *engine) Close() {
	if e.snapshots != nil {
		e.snapshots.Close()
	}
}

func buildEngine(cfg *config.Config, root string) (*engine, error) {
	if err := cfg.EnsureIndexDir(root); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	snapshots, err := store.NewBoltSnapshotStore(cfg.SnapshotDBPath(root))
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot store: %w", err)
	}

	corpusDir := cfg.CorpusDir(root)
	walker := fs.NewWalker(cfg.Corpus.Includes, cfg.Corpus.Excludes)
	chk := chunker.NewRepairChunker(cfg.Index.WindowChars, cfg.Index.OverlapChars)
	embedder := newEmbedder(cfg)

	indexUC := usecase.NewIndexUseCase(corpusDir, walker, chk, embedder, snapshots)
	lexical := retriever.NewLexicalSearcher(corpusDir, walker, chk)
	retrieveUC := usecase.NewRetrieveUseCase(indexUC, embedder, lexical)

	responses := cache.NewResponseCache(
		cfg.Cache.MaxEntries,
		time.Duration(cfg.Cache.TTLMinutes)*time.Minute,
	)
	guideUC := usecase.NewGuideUseCase(retrieveUC, responses, cfg.Retrieve.ComponentKeywords)

	return &engine{
		indexUC:    indexUC,
		retrieveUC: retrieveUC,
		guideUC:    guideUC,
		snapshots:  snapshots,
	}, nil
}

// newEmbedder returns nil when embeddings are disabled; the retrieval engine
// treats that as "vector path unavailable" and serves lexical results.
func newEmbedder(cfg *config.Config) port.Embedder {
	if !cfg.Embedding.Enabled {
		return nil
	}
	switch cfg.Embedding.Provider {
	case "ollama":
		return embedding.NewOllamaEmbedder(cfg.Embedding.Model, cfg.Embedding.BaseURL)
	case "mock":
		return embedding.NewMockEmbedder(cfg.Embedding.Dimension)
	default:
		return embedding.NewOpenAIEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model, cfg.Embedding.BaseURL)
	}
}

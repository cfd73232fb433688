package usecase

import (
	"fmt"
	"strings"
	"sync"

	"github.com/migueleog01/partselect/internal/adapter/retriever"
	"github.com/migueleog01/partselect/internal/domain"
	"github.com/migueleog01/partselect/internal/port"
)

const (
	// DefaultTopK is used when the caller does not request a result count.
	DefaultTopK = 8

	// Vector search is appliance-agnostic, so candidates are over-fetched to
	// leave headroom for post-filtering.
	overfetchFactor = 3
	overfetchFloor  = 20
)

// RetrieveUseCase orchestrates query embedding, vector search, appliance
// filtering, and result shaping. Whenever the vector path is unavailable it
// degrades to lexical search and tags the response accordingly; a query never
// panics out to the caller.
type RetrieveUseCase struct {
	indexUC  *IndexUseCase
	embedder port.Embedder
	lexical  *retriever.LexicalSearcher

	mu        sync.RWMutex
	snap      *IndexSnapshot
	rebuildMu sync.Mutex
}

func NewRetrieveUseCase(
	indexUC *IndexUseCase,
	embedder port.Embedder,
	lexical *retriever.LexicalSearcher,
) *RetrieveUseCase {
	return &RetrieveUseCase{
		indexUC:  indexUC,
		embedder: embedder,
		lexical:  lexical,
	}
}

// Search returns ranked, provenance-bearing results for the query. A nil
// error with zero results means "nothing matched"; a *domain.QueryError means
// retrieval itself was unavailable.
func (u *RetrieveUseCase) Search(query, applianceType string, topK int) (*domain.SearchResponse, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	resp, err := u.semanticSearch(query, applianceType, topK)
	if err == nil {
		return resp, nil
	}

	// Degraded mode: the vector path is unavailable, substitute lexical
	// search and tag the method.
	results, lexErr := u.lexical.Search(query, applianceType, topK)
	if lexErr != nil {
		return nil, &domain.QueryError{
			Query:         query,
			ApplianceType: applianceType,
			Err:           lexErr,
		}
	}

	return &domain.SearchResponse{
		Query:         query,
		ApplianceType: applianceType,
		Results:       results,
		TotalFound:    len(results),
		Method:        domain.MethodFallback,
	}, nil
}

func (u *RetrieveUseCase) semanticSearch(query, applianceType string, topK int) (*domain.SearchResponse, error) {
	if u.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	snap, err := u.ensureSnapshot()
	if err != nil {
		return nil, err
	}

	queryVectors, err := u.embedder.Embed([]string{query}, port.RoleQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(queryVectors) == 0 {
		return nil, fmt.Errorf("embedding returned empty result")
	}

	fetchK := topK * overfetchFactor
	if fetchK < overfetchFloor {
		fetchK = overfetchFloor
	}

	hits, err := snap.Index.Search(queryVectors[0], fetchK)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	results := make([]domain.SearchResult, 0, topK)
	for _, hit := range hits {
		if hit.Row < 0 || hit.Row >= len(snap.Passages) {
			continue
		}
		p := snap.Passages[hit.Row]
		if applianceType != "" && !strings.EqualFold(p.ApplianceType, applianceType) {
			continue
		}
		results = append(results, domain.ResultFromPassage(p, hit.Score))
		if len(results) >= topK {
			break
		}
	}

	return &domain.SearchResponse{
		Query:         query,
		ApplianceType: applianceType,
		Results:       results,
		TotalFound:    len(results),
		Method:        domain.MethodSemantic,
	}, nil
}

// ensureSnapshot lazily loads or builds the snapshot on first use. Rebuilds
// are serialized behind rebuildMu; queries read the current snapshot pointer
// and may finish against a superseded one, but never a partial one.
func (u *RetrieveUseCase) ensureSnapshot() (*IndexSnapshot, error) {
	u.mu.RLock()
	snap := u.snap
	u.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	u.rebuildMu.Lock()
	defer u.rebuildMu.Unlock()

	u.mu.RLock()
	snap = u.snap
	u.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	result, err := u.indexUC.BuildOrLoad(false)
	if err != nil {
		return nil, err
	}

	u.mu.Lock()
	u.snap = result.Snapshot
	u.mu.Unlock()
	return result.Snapshot, nil
}

// ForceRebuild runs a full ingestion regardless of fingerprint freshness and
// swaps in the new snapshot atomically.
func (u *RetrieveUseCase) ForceRebuild() (*BuildResult, error) {
	u.rebuildMu.Lock()
	defer u.rebuildMu.Unlock()

	result, err := u.indexUC.BuildOrLoad(true)
	if err != nil {
		return nil, err
	}

	u.mu.Lock()
	u.snap = result.Snapshot
	u.mu.Unlock()
	return result, nil
}

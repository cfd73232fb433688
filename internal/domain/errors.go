package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrCorpusMissing indicates the configured corpus directory does not
	// exist.
	ErrCorpusMissing = errors.New("corpus directory not found")

	// ErrEmbeddingUnavailable indicates the embedding provider is not
	// configured or failed to initialize. Retrieval degrades to the lexical
	// path instead of failing.
	ErrEmbeddingUnavailable = errors.New("embedding provider unavailable")

	// ErrNoPassages indicates ingestion found no indexable text.
	ErrNoPassages = errors.New("no repair data found to index")
)

// BuildError reports a failed index build. The previous persisted snapshot,
// if any, remains valid and loadable.
type BuildError struct {
	Reason string
	Err    error
}

func (e *BuildError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("index build failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("index build failed: %s", e.Reason)
}

func (e *BuildError) Unwrap() error { return e.Err }

// QueryError reports that retrieval could not be performed at all, as opposed
// to a successful search with zero results. It carries the query context so
// the caller can retry.
type QueryError struct {
	Query         string
	ApplianceType string
	Err           error
}

func (e *QueryError) Error() string {
	if e.ApplianceType != "" {
		return fmt.Sprintf("search failed for %q (appliance type %s): %v", e.Query, e.ApplianceType, e.Err)
	}
	return fmt.Sprintf("search failed for %q: %v", e.Query, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

package retriever

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/migueleog01/partselect/internal/domain"
	"github.com/migueleog01/partselect/internal/port"
)

// LexicalSearcher scores passages by query word overlap over the normalized
// corpus. It has no embedding or index dependency, so it is always available
// and serves as the degraded-mode path when vector search is not.
type LexicalSearcher struct {
	corpusDir string
	walker    port.FileWalker
	chunker   port.Chunker
}

func NewLexicalSearcher(corpusDir string, walker port.FileWalker, chunker port.Chunker) *LexicalSearcher {
	return &LexicalSearcher{
		corpusDir: corpusDir,
		walker:    walker,
		chunker:   chunker,
	}
}

// Search returns up to limit passages ranked by the fraction of distinct
// query words the passage text contains. Passages matching no query word are
// excluded entirely. The appliance filter matches the path-derived label
// case-insensitively.
func (s *LexicalSearcher) Search(query, applianceType string, limit int) ([]domain.SearchResult, error) {
	if _, err := os.Stat(s.corpusDir); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrCorpusMissing, s.corpusDir)
	}

	words := distinctWords(query)
	if len(words) == 0 {
		return nil, nil
	}

	files, err := s.walker.Walk(s.corpusDir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan corpus: %w", err)
	}

	var results []domain.SearchResult
	for _, f := range files {
		raw, err := os.ReadFile(f.Path)
		if err != nil {
			continue
		}
		for _, p := range s.chunker.Chunk(f.Path, raw) {
			if applianceType != "" && !strings.EqualFold(p.ApplianceType, applianceType) {
				continue
			}

			text := strings.ToLower(p.Text)
			matches := 0
			for _, w := range words {
				if strings.Contains(text, w) {
					matches++
				}
			}
			if matches == 0 {
				continue
			}

			score := float64(matches) / float64(len(words))
			results = append(results, domain.ResultFromPassage(p, score))
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func distinctWords(query string) []string {
	seen := make(map[string]struct{})
	var words []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	return words
}

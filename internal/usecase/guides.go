package usecase

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/migueleog01/partselect/internal/adapter/cache"
	"github.com/migueleog01/partselect/internal/domain"
)

// DefaultComponentKeywords flags queries that look component-specific; when
// one matches and grouping by issue title yields strictly fewer groups than
// grouping by symptom, the guide regroups by issue title. The list is
// configuration, callers may override it.
var DefaultComponentKeywords = []string{
	"motor", "fan", "valve", "pump", "control",
	"switch", "sensor", "heater", "thermostat",
}

const (
	guideTopK = 15

	guideNote = "Data retrieved from local repair database using semantic search"
)

// GuideUseCase assembles the composite repair-guide view for an appliance
// type: several paraphrased queries, merged and deduplicated, grouped for
// presentation, with citations per group. Assembled guides are memoized in
// the response cache.
type GuideUseCase struct {
	retrieve          *RetrieveUseCase
	responses         *cache.ResponseCache
	componentKeywords []string
}

func NewGuideUseCase(retrieve *RetrieveUseCase, responses *cache.ResponseCache, componentKeywords []string) *GuideUseCase {
	if len(componentKeywords) == 0 {
		componentKeywords = DefaultComponentKeywords
	}
	return &GuideUseCase{
		retrieve:          retrieve,
		responses:         responses,
		componentKeywords: componentKeywords,
	}
}

// RepairGuides retrieves and organizes repair guidance for one appliance
// type.
func (u *GuideUseCase) RepairGuides(applianceType string) (*domain.RepairGuide, error) {
	var cacheKey string
	if u.responses != nil {
		cacheKey = cache.Key("get_repair_guides", map[string]string{"appliance_type": applianceType})
		if cached, hit := u.responses.Get(cacheKey); hit {
			if guide, ok := cached.(*domain.RepairGuide); ok {
				return guide, nil
			}
		}
	}

	// Paraphrased queries surface symptom-, repair-, and failure-oriented
	// phrasings of the same intent.
	queries := []string{
		fmt.Sprintf("common %s symptoms problems", applianceType),
		fmt.Sprintf("%s repair issues troubleshooting", applianceType),
		fmt.Sprintf("%s not working broken symptoms", applianceType),
	}

	merged, sawSemantic, err := u.runQueries(queries, applianceType)
	if err != nil {
		return nil, err
	}

	method := domain.MethodMultiQuery
	if !sawSemantic {
		method = domain.MethodFallback
	}

	guide := &domain.RepairGuide{
		ApplianceType:    applianceType,
		Method:           method,
		TotalIssuesFound: len(merged),
		Symptoms:         u.groupResults(merged, strings.ToLower(strings.Join(queries, " "))),
		Note:             guideNote,
	}

	if u.responses != nil {
		u.responses.Put(cacheKey, guide)
	}
	return guide, nil
}

// runQueries executes each paraphrase and merges the result sets,
// deduplicating on the (symptom, issue title) composite key so the same
// underlying issue surfaced by different phrasings appears once.
func (u *GuideUseCase) runQueries(queries []string, applianceType string) ([]domain.SearchResult, bool, error) {
	var (
		merged      []domain.SearchResult
		sawSemantic bool
		lastErr     error
	)
	seen := make(map[string]struct{})

	for _, q := range queries {
		resp, err := u.retrieve.Search(q, applianceType, guideTopK)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.Method != domain.MethodFallback {
			sawSemantic = true
		}
		for _, result := range resp.Results {
			key := strings.ToLower(result.Symptom + "-" + result.IssueTitle)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			merged = append(merged, result)
		}
	}

	if len(merged) == 0 && lastErr != nil {
		return nil, false, lastErr
	}
	return merged, sawSemantic, nil
}

// groupResults buckets the merged results by symptom, switching to issue
// title buckets when the query vocabulary looks component-specific and that
// grouping is strictly more consolidated.
func (u *GuideUseCase) groupResults(results []domain.SearchResult, queryText string) map[string]domain.SymptomGroup {
	bySymptom := make(map[string][]domain.SearchResult)
	byComponent := make(map[string][]domain.SearchResult)

	for _, r := range results {
		symptom := r.Symptom
		if symptom == "" {
			symptom = "General"
		}
		bySymptom[symptom] = append(bySymptom[symptom], r)
		byComponent[r.IssueTitle] = append(byComponent[r.IssueTitle], r)
	}

	buckets := bySymptom
	componentQuery := false
	for _, keyword := range u.componentKeywords {
		if strings.Contains(queryText, keyword) {
			componentQuery = true
			break
		}
	}
	if componentQuery && len(byComponent) < len(bySymptom) {
		buckets = make(map[string][]domain.SearchResult, len(byComponent))
		for title, group := range byComponent {
			buckets["Component: "+title] = group
		}
	}

	groups := make(map[string]domain.SymptomGroup, len(buckets))
	for name, group := range buckets {
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].Score > group[j].Score
		})

		sections := make([]domain.RepairSection, 0, len(group))
		for _, r := range group {
			sections = append(sections, domain.RepairSection{
				Symptom:         r.Symptom,
				IssueTitle:      r.IssueTitle,
				Description:     extractDescription(r.Text),
				Instructions:    r.Instructions,
				RelatedParts:    r.RelatedParts,
				ConfidenceScore: math.Round(r.Score*1000) / 1000,
				Source:          r.SourceFile,
			})
		}

		citations := make([]domain.Citation, 0, 3)
		for _, r := range group {
			if len(citations) == 3 {
				break
			}
			citations = append(citations, domain.Citation{
				ID:     r.ID,
				Source: r.SourceFile,
				Score:  r.Score,
			})
		}

		groups[name] = domain.SymptomGroup{
			Sections:  sections,
			Citations: citations,
		}
	}
	return groups
}

// extractDescription pulls the description line back out of a passage's
// normalized text.
func extractDescription(text string) string {
	const marker = "Description: "
	idx := strings.Index(text, marker)
	if idx < 0 {
		return ""
	}
	rest := text[idx+len(marker):]
	if end := strings.IndexByte(rest, '\n'); end >= 0 {
		return rest[:end]
	}
	return rest
}

package domain

import "time"

// Appliance type labels form a closed set. The label is always derived from
// the source file path, never inferred from document content.
const (
	ApplianceRefrigerator = "Refrigerator"
	ApplianceDishwasher   = "Dishwasher"
	ApplianceWasher       = "Washer"
	ApplianceDryer        = "Dryer"
	ApplianceGeneral      = "General"
)

// Method tags identify which retrieval path produced a response.
const (
	MethodSemantic   = "RAG (semantic search)"
	MethodMultiQuery = "RAG (Multi-query search)"
	MethodFallback   = "Simple text search (fallback)"
)

// Part is a replacement part referenced by a repair passage.
type Part struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Passage is the atomic indexed unit: a normalized, citable chunk of repair
// text with provenance metadata. Persisted passages always have non-empty
// Text; documents yielding no extractable content contribute no passages.
type Passage struct {
	ID            string   `json:"id"`
	Text          string   `json:"text"`
	ApplianceType string   `json:"appliance_type"`
	Symptom       string   `json:"symptom,omitempty"`
	IssueTitle    string   `json:"issue_title,omitempty"`
	Instructions  []string `json:"instructions,omitempty"`
	RelatedParts  []Part   `json:"related_parts,omitempty"`
	SourceFile    string   `json:"source_file"`
	URL           string   `json:"url,omitempty"`
}

// SnapshotMeta is the self-describing metadata persisted alongside an index
// snapshot. Fingerprint summarizes the source corpus the snapshot was built
// from; BuiltAt records the actual build time.
type SnapshotMeta struct {
	Fingerprint   string    `json:"fingerprint"`
	ModelName     string    `json:"model_name"`
	DocumentCount int       `json:"document_count"`
	BuiltAt       time.Time `json:"built_at"`
}

// SearchResult is one ranked, citation-bearing passage returned to a caller.
type SearchResult struct {
	ID            string   `json:"id"`
	Score         float64  `json:"score"`
	ApplianceType string   `json:"appliance_type"`
	Symptom       string   `json:"symptom,omitempty"`
	IssueTitle    string   `json:"issue_title,omitempty"`
	Text          string   `json:"text"`
	Instructions  []string `json:"instructions,omitempty"`
	RelatedParts  []Part   `json:"related_parts,omitempty"`
	SourceFile    string   `json:"source_file"`
	URL           string   `json:"url,omitempty"`
}

// SearchResponse is the shape shared by the vector and lexical paths; callers
// can only tell them apart by the Method tag.
type SearchResponse struct {
	Query         string         `json:"query"`
	ApplianceType string         `json:"appliance_type,omitempty"`
	Results       []SearchResult `json:"results"`
	TotalFound    int            `json:"total_found"`
	Method        string         `json:"method"`
}

// Citation points back at an indexed passage for grounding.
type Citation struct {
	ID     string  `json:"id"`
	Source string  `json:"source"`
	Score  float64 `json:"score"`
}

// RepairSection is one deduplicated issue inside a repair guide.
type RepairSection struct {
	Symptom         string   `json:"symptom"`
	IssueTitle      string   `json:"issue_title"`
	Description     string   `json:"description"`
	Instructions    []string `json:"instructions,omitempty"`
	RelatedParts    []Part   `json:"related_parts,omitempty"`
	ConfidenceScore float64  `json:"confidence_score"`
	Source          string   `json:"source"`
}

// SymptomGroup holds the sections bucketed under one symptom (or component),
// sorted by descending confidence. Sections[0] is the representative entry.
type SymptomGroup struct {
	Sections  []RepairSection `json:"sections"`
	Citations []Citation      `json:"citations,omitempty"`
}

// RepairGuide is the composite multi-query view assembled for one appliance
// type.
type RepairGuide struct {
	ApplianceType    string                  `json:"appliance_type"`
	Method           string                  `json:"method"`
	TotalIssuesFound int                     `json:"total_issues_found"`
	Symptoms         map[string]SymptomGroup `json:"symptoms"`
	Note             string                  `json:"note"`
}

// ResultFromPassage shapes a passage into a search result. Both retrieval
// paths go through here so their responses stay structurally identical.
func ResultFromPassage(p Passage, score float64) SearchResult {
	return SearchResult{
		ID:            p.ID,
		Score:         score,
		ApplianceType: p.ApplianceType,
		Symptom:       p.Symptom,
		IssueTitle:    p.IssueTitle,
		Text:          p.Text,
		Instructions:  p.Instructions,
		RelatedParts:  p.RelatedParts,
		SourceFile:    p.SourceFile,
		URL:           p.URL,
	}
}

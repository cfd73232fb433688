package chunker

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/migueleog01/partselect/internal/domain"
)

const (
	// DefaultWindowChars bounds the embedding input size for free-form
	// records; overlong text is split into overlapping character windows.
	DefaultWindowChars  = 2200
	DefaultOverlapChars = 300
)

// candidateFields are the free-form record fields concatenated when a
// document carries none of the structured repair shapes. Order is fixed so
// passage text is deterministic.
var candidateFields = []string{
	"issue", "title", "symptom", "description", "summary",
	"steps", "causes", "fix", "how_to", "notes",
}

// RepairChunker normalizes heterogeneous JSON repair documents into flat
// passages tagged with provenance metadata.
type RepairChunker struct {
	windowChars  int
	overlapChars int
}

func NewRepairChunker(windowChars, overlapChars int) *RepairChunker {
	if windowChars <= 0 {
		windowChars = DefaultWindowChars
	}
	if overlapChars < 0 || overlapChars >= windowChars {
		overlapChars = DefaultOverlapChars
	}
	return &RepairChunker{
		windowChars:  windowChars,
		overlapChars: overlapChars,
	}
}

// Chunk extracts passages from one raw JSON document. Parse failures and
// records with no extractable text yield zero passages.
func (c *RepairChunker) Chunk(path string, raw []byte) []domain.Passage {
	shape, items := classifyShape(raw)
	if shape == shapeInvalid {
		return nil
	}

	appliance := ApplianceFromPath(path)
	source := filepath.Base(path)

	var passages []domain.Passage
	for _, item := range items {
		switch {
		case item["repair_sections"] != nil:
			passages = append(passages, extractRepairSections(item, appliance, source)...)
		case item["common_symptoms"] != nil:
			passages = append(passages, extractCommonSymptoms(item, appliance, source)...)
		case item["troubleshooting_videos"] != nil:
			passages = append(passages, extractVideos(item, appliance, source)...)
		default:
			passages = append(passages, c.extractRecord(item, appliance, source)...)
		}
	}
	return passages
}

// ApplianceFromPath derives the appliance label from the lowercased file
// path. Match order matters: "dishwasher" contains "washer", so it is checked
// first. Document content is never inspected.
func ApplianceFromPath(path string) string {
	lower := strings.ToLower(path)
	switch {
	case strings.Contains(lower, "refrigerator"):
		return domain.ApplianceRefrigerator
	case strings.Contains(lower, "dishwasher"):
		return domain.ApplianceDishwasher
	case strings.Contains(lower, "washer"):
		return domain.ApplianceWasher
	case strings.Contains(lower, "dryer"):
		return domain.ApplianceDryer
	default:
		return domain.ApplianceGeneral
	}
}

// extractRepairSections handles detail-style documents: one passage per
// repair section, with the symptom title and document URL inherited from the
// enclosing document.
func extractRepairSections(doc map[string]any, appliance, source string) []domain.Passage {
	symptom := getString(doc, "symptom_title")
	docURL := getString(doc, "url")

	var passages []domain.Passage
	for i, entry := range getList(doc, "repair_sections") {
		section, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		title := getString(section, "title")
		description := getString(section, "description")
		instructions := getStrings(section, "instructions")
		parts := extractParts(section)

		var lines []string
		if symptom != "" {
			lines = append(lines, "Symptom: "+symptom)
		}
		if title != "" {
			lines = append(lines, "Issue: "+title)
		}
		if description != "" {
			lines = append(lines, "Description: "+description)
		}
		if len(instructions) > 0 {
			lines = append(lines, "Instructions: "+strings.Join(instructions, " | "))
		}
		if names := partNames(parts); len(names) > 0 {
			lines = append(lines, "Related Parts: "+strings.Join(names, " | "))
		}

		text := strings.Join(lines, "\n")
		if strings.TrimSpace(text) == "" {
			continue
		}

		passages = append(passages, domain.Passage{
			ID:            passageID(source, text, i),
			Text:          text,
			ApplianceType: appliance,
			Symptom:       symptom,
			IssueTitle:    title,
			Instructions:  instructions,
			RelatedParts:  parts,
			SourceFile:    source,
			URL:           docURL,
		})
	}
	return passages
}

// extractCommonSymptoms handles overview-style documents: one passage per
// reported symptom.
func extractCommonSymptoms(doc map[string]any, appliance, source string) []domain.Passage {
	label := getString(doc, "appliance_type")
	if label == "" {
		label = appliance
	}

	var passages []domain.Passage
	for i, entry := range getList(doc, "common_symptoms") {
		symptom, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		title := getString(symptom, "title")
		description := getString(symptom, "description")
		percentage := getFloat(symptom, "reported_by_percentage")

		var lines []string
		if title != "" {
			lines = append(lines, "Common Symptom: "+title)
		}
		if description != "" {
			lines = append(lines, "Description: "+description)
		}
		if percentage > 0 {
			lines = append(lines, fmt.Sprintf("Reported by %s%% of customers", formatNumber(percentage)))
		}
		lines = append(lines, "Appliance: "+label)

		text := strings.Join(lines, "\n")
		if title == "" && description == "" {
			continue
		}

		var instructions []string
		if description != "" {
			instructions = []string{description}
		}

		passages = append(passages, domain.Passage{
			ID:            passageID(source, text, i),
			Text:          text,
			ApplianceType: appliance,
			Symptom:       title,
			IssueTitle:    fmt.Sprintf("Common %s Problem", title),
			Instructions:  instructions,
			SourceFile:    source,
			URL:           getString(symptom, "url"),
		})
	}
	return passages
}

// extractVideos handles video-catalog documents: one passage per
// troubleshooting video.
func extractVideos(doc map[string]any, appliance, source string) []domain.Passage {
	label := getString(doc, "appliance_type")
	if label == "" {
		label = appliance
	}

	var passages []domain.Passage
	for i, entry := range getList(doc, "troubleshooting_videos") {
		video, ok := entry.(map[string]any)
		if !ok {
			continue
		}

		title := getString(video, "title")
		url := getString(video, "url")
		videoID := getString(video, "video_id")
		if title == "" && url == "" {
			continue
		}

		var lines []string
		if title != "" {
			lines = append(lines, "Troubleshooting Video: "+title)
		}
		if url != "" {
			lines = append(lines, "Video URL: "+url)
		}
		if videoID != "" {
			lines = append(lines, "Video ID: "+videoID)
		}
		lines = append(lines, "Appliance: "+label)
		lines = append(lines, "Video troubleshooting guide available")

		text := strings.Join(lines, "\n")

		passages = append(passages, domain.Passage{
			ID:            passageID(source, text, i),
			Text:          text,
			ApplianceType: appliance,
			Symptom:       "Video Guide",
			IssueTitle:    title,
			Instructions:  []string{"Watch troubleshooting video: " + url},
			SourceFile:    source,
			URL:           url,
		})
	}
	return passages
}

// extractRecord handles free-form records: concatenate the candidate fields,
// then split overlong text into overlapping character windows so embedding
// input stays bounded.
func (c *RepairChunker) extractRecord(obj map[string]any, appliance, source string) []domain.Passage {
	var lines []string
	for _, field := range candidateFields {
		v, ok := obj[field]
		if !ok {
			continue
		}
		var value string
		switch t := v.(type) {
		case string:
			value = t
		case []any:
			var parts []string
			for _, item := range t {
				parts = append(parts, fmt.Sprint(item))
			}
			value = strings.Join(parts, " | ")
		case float64:
			value = formatNumber(t)
		}
		if value != "" {
			lines = append(lines, field+": "+value)
		}
	}

	text := strings.TrimSpace(strings.Join(lines, "\n"))
	if text == "" {
		return nil
	}

	if label := getString(obj, "appliance_type"); label != "" {
		appliance = label
	}
	symptom := getString(obj, "symptom")
	issue := getString(obj, "issue")
	if issue == "" {
		issue = getString(obj, "title")
	}

	windows := splitWindows(text, c.windowChars, c.overlapChars)
	passages := make([]domain.Passage, 0, len(windows))
	for i, window := range windows {
		passages = append(passages, domain.Passage{
			ID:            passageID(source, window, i),
			Text:          window,
			ApplianceType: appliance,
			Symptom:       symptom,
			IssueTitle:    issue,
			SourceFile:    source,
			URL:           getString(obj, "url"),
		})
	}
	return passages
}

// splitWindows cuts text into fixed-size windows with the given overlap.
// Operates on runes so multi-byte content never splits mid-character.
func splitWindows(text string, window, overlap int) []string {
	runes := []rune(text)
	if len(runes) <= window {
		return []string{text}
	}

	step := window - overlap
	var out []string
	for start := 0; start < len(runes); start += step {
		end := start + window
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return out
}

func extractParts(section map[string]any) []domain.Part {
	var parts []domain.Part
	for _, entry := range getList(section, "related_parts") {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name := getString(obj, "name")
		if name == "" {
			continue
		}
		parts = append(parts, domain.Part{
			Name: name,
			URL:  getString(obj, "url"),
		})
	}
	return parts
}

func partNames(parts []domain.Part) []string {
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		names = append(names, p.Name)
	}
	return names
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// passageID derives a stable identifier from the source file, a content
// hash, and the chunk offset within the document.
func passageID(source, text string, offset int) string {
	hash := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%s#%s-%d", source, hex.EncodeToString(hash[:6]), offset)
}

package chunker

import (
	"strings"
	"testing"

	"github.com/migueleog01/partselect/internal/domain"
)

func TestApplianceFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"data/refrigerator_repairs.json", domain.ApplianceRefrigerator},
		{"data/Dishwasher/detail.json", domain.ApplianceDishwasher},
		{"data/washer_guide.json", domain.ApplianceWasher},
		{"data/dryer/videos.json", domain.ApplianceDryer},
		{"data/misc.json", domain.ApplianceGeneral},
	}
	for _, tt := range tests {
		if got := ApplianceFromPath(tt.path); got != tt.want {
			t.Errorf("ApplianceFromPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

// "dishwasher" contains "washer"; the dishwasher check must win.
func TestApplianceFromPathDishwasherBeforeWasher(t *testing.T) {
	if got := ApplianceFromPath("data/dishwasher_repairs.json"); got != domain.ApplianceDishwasher {
		t.Errorf("expected Dishwasher, got %q", got)
	}
}

func TestChunkRepairSections(t *testing.T) {
	raw := []byte(`{
		"symptom_title": "Refrigerator not cooling",
		"url": "https://example.com/fridge-not-cooling",
		"repair_sections": [
			{
				"title": "Condenser coils are dirty",
				"description": "Dust buildup prevents heat dissipation.",
				"instructions": ["Unplug the unit", "Vacuum the coils"],
				"related_parts": [
					{"name": "Condenser Fan Motor", "url": "https://example.com/part1"}
				]
			},
			{
				"title": "Evaporator fan failed",
				"description": "No airflow over the evaporator."
			}
		]
	}`)

	c := NewRepairChunker(0, 0)
	passages := c.Chunk("data/refrigerator_repairs.json", raw)
	if len(passages) != 2 {
		t.Fatalf("expected 2 passages, got %d", len(passages))
	}

	p := passages[0]
	if p.ApplianceType != domain.ApplianceRefrigerator {
		t.Errorf("expected Refrigerator, got %q", p.ApplianceType)
	}
	if p.Symptom != "Refrigerator not cooling" {
		t.Errorf("unexpected symptom: %q", p.Symptom)
	}
	if p.IssueTitle != "Condenser coils are dirty" {
		t.Errorf("unexpected issue title: %q", p.IssueTitle)
	}
	if p.URL != "https://example.com/fridge-not-cooling" {
		t.Errorf("unexpected URL: %q", p.URL)
	}
	if p.SourceFile != "refrigerator_repairs.json" {
		t.Errorf("unexpected source file: %q", p.SourceFile)
	}
	if len(p.RelatedParts) != 1 || p.RelatedParts[0].Name != "Condenser Fan Motor" {
		t.Errorf("unexpected related parts: %v", p.RelatedParts)
	}

	wantLines := []string{
		"Symptom: Refrigerator not cooling",
		"Issue: Condenser coils are dirty",
		"Description: Dust buildup prevents heat dissipation.",
		"Instructions: Unplug the unit | Vacuum the coils",
		"Related Parts: Condenser Fan Motor",
	}
	if p.Text != strings.Join(wantLines, "\n") {
		t.Errorf("unexpected text:\n%s", p.Text)
	}

	// The second section has no instructions or parts; those lines are
	// omitted, not left empty.
	if strings.Contains(passages[1].Text, "Instructions:") {
		t.Errorf("empty instructions line present:\n%s", passages[1].Text)
	}
	if strings.Contains(passages[1].Text, "Related Parts:") {
		t.Errorf("empty parts line present:\n%s", passages[1].Text)
	}
}

func TestChunkCommonSymptoms(t *testing.T) {
	raw := []byte(`{
		"appliance_type": "Dishwasher",
		"common_symptoms": [
			{
				"title": "Not draining",
				"description": "Water remains in the tub after a cycle.",
				"reported_by_percentage": 27.5,
				"url": "https://example.com/not-draining"
			}
		]
	}`)

	c := NewRepairChunker(0, 0)
	passages := c.Chunk("data/dishwasher_overview.json", raw)
	if len(passages) != 1 {
		t.Fatalf("expected 1 passage, got %d", len(passages))
	}

	p := passages[0]
	if p.Symptom != "Not draining" {
		t.Errorf("unexpected symptom: %q", p.Symptom)
	}
	if p.IssueTitle != "Common Not draining Problem" {
		t.Errorf("unexpected issue title: %q", p.IssueTitle)
	}
	if !strings.Contains(p.Text, "Common Symptom: Not draining") {
		t.Errorf("missing symptom line:\n%s", p.Text)
	}
	if !strings.Contains(p.Text, "Reported by 27.5% of customers") {
		t.Errorf("missing percentage line:\n%s", p.Text)
	}
	if !strings.Contains(p.Text, "Appliance: Dishwasher") {
		t.Errorf("missing appliance line:\n%s", p.Text)
	}
	if len(p.Instructions) != 1 || p.Instructions[0] != "Water remains in the tub after a cycle." {
		t.Errorf("unexpected instructions: %v", p.Instructions)
	}
}

func TestChunkVideos(t *testing.T) {
	raw := []byte(`{
		"troubleshooting_videos": [
			{
				"title": "Replacing the drain pump",
				"url": "https://example.com/video1",
				"video_id": "abc123"
			},
			{
				"title": "",
				"url": ""
			}
		]
	}`)

	c := NewRepairChunker(0, 0)
	passages := c.Chunk("data/washer_videos.json", raw)
	if len(passages) != 1 {
		t.Fatalf("expected 1 passage (empty video skipped), got %d", len(passages))
	}

	p := passages[0]
	if p.Symptom != "Video Guide" {
		t.Errorf("unexpected symptom: %q", p.Symptom)
	}
	if !strings.Contains(p.Text, "Troubleshooting Video: Replacing the drain pump") {
		t.Errorf("missing video line:\n%s", p.Text)
	}
	if !strings.Contains(p.Text, "Video ID: abc123") {
		t.Errorf("missing video id line:\n%s", p.Text)
	}
	if !strings.Contains(p.Text, "Video troubleshooting guide available") {
		t.Errorf("missing trailer line:\n%s", p.Text)
	}
	if len(p.Instructions) != 1 || !strings.Contains(p.Instructions[0], "https://example.com/video1") {
		t.Errorf("unexpected instructions: %v", p.Instructions)
	}
}

func TestChunkGenericRecord(t *testing.T) {
	raw := []byte(`{
		"issue": "Dryer takes too long",
		"description": "Clothes are still damp after a full cycle.",
		"causes": ["Clogged vent", "Worn heating element"],
		"irrelevant": "ignored"
	}`)

	c := NewRepairChunker(0, 0)
	passages := c.Chunk("data/dryer_notes.json", raw)
	if len(passages) != 1 {
		t.Fatalf("expected 1 passage, got %d", len(passages))
	}

	p := passages[0]
	if p.IssueTitle != "Dryer takes too long" {
		t.Errorf("unexpected issue title: %q", p.IssueTitle)
	}
	if !strings.Contains(p.Text, "issue: Dryer takes too long") {
		t.Errorf("missing issue line:\n%s", p.Text)
	}
	if !strings.Contains(p.Text, "causes: Clogged vent | Worn heating element") {
		t.Errorf("missing causes line:\n%s", p.Text)
	}
	if strings.Contains(p.Text, "irrelevant") {
		t.Errorf("non-candidate field leaked into text:\n%s", p.Text)
	}
}

func TestChunkListAndItemsShapes(t *testing.T) {
	list := []byte(`[{"issue": "one"}, {"issue": "two"}]`)
	items := []byte(`{"items": [{"issue": "three"}]}`)

	c := NewRepairChunker(0, 0)
	if got := len(c.Chunk("data/list.json", list)); got != 2 {
		t.Errorf("list shape: expected 2 passages, got %d", got)
	}
	if got := len(c.Chunk("data/items.json", items)); got != 1 {
		t.Errorf("items shape: expected 1 passage, got %d", got)
	}
}

func TestChunkUnparseable(t *testing.T) {
	c := NewRepairChunker(0, 0)
	for _, raw := range []string{"not json", "42", `"just a string"`, "", "[]", "{}"} {
		if got := c.Chunk("data/bad.json", []byte(raw)); len(got) != 0 {
			t.Errorf("input %q: expected 0 passages, got %d", raw, len(got))
		}
	}
}

func TestSplitWindows(t *testing.T) {
	text := strings.Repeat("a", 250)
	windows := splitWindows(text, 100, 20)

	if len(windows) < 3 {
		t.Fatalf("expected at least 3 windows, got %d", len(windows))
	}
	for i, w := range windows[:len(windows)-1] {
		if len([]rune(w)) != 100 {
			t.Errorf("window %d has %d runes, want 100", i, len([]rune(w)))
		}
	}

	// Consecutive windows share the overlap region.
	first := []rune(windows[0])
	second := []rune(windows[1])
	if string(first[80:]) != string(second[:20]) {
		t.Error("windows do not overlap as configured")
	}
}

func TestSplitWindowsShortText(t *testing.T) {
	windows := splitWindows("short", 100, 20)
	if len(windows) != 1 || windows[0] != "short" {
		t.Errorf("expected single unsplit window, got %v", windows)
	}
}

func TestPassageIDsStableAndDistinct(t *testing.T) {
	raw := []byte(`[{"issue": "one"}, {"issue": "two"}]`)

	c := NewRepairChunker(0, 0)
	a := c.Chunk("data/list.json", raw)
	b := c.Chunk("data/list.json", raw)

	if a[0].ID != b[0].ID {
		t.Errorf("passage ID not stable: %q vs %q", a[0].ID, b[0].ID)
	}
	if a[0].ID == a[1].ID {
		t.Errorf("distinct passages share ID: %q", a[0].ID)
	}
	if !strings.HasPrefix(a[0].ID, "list.json#") {
		t.Errorf("unexpected ID format: %q", a[0].ID)
	}
}

package ai

import (
	"strings"
	"testing"

	"github.com/clientbrief/clientbrief/internal/domain/entities"
)

const validAnalysisJSON = `{
  "client_name": "Maria",
  "topic": "Bakery website",
  "main_request": "Online ordering for pickup",
  "sentiment": {"label": "positive", "score": 4},
  "summary": "Maria wants a site with online ordering.",
  "key_points": ["current site is outdated", "orders come by phone", "wants photos of products"],
  "next_steps": ["prepare a proposal", "collect product photos"],
  "desired_timeline": "2 months",
  "budget_range": null,
  "core_requirements": ["online ordering"]
}`

func TestParseInto_PlainJSON(t *testing.T) {
	p := NewParser()

	var analysis entities.ClientAnalysis
	if err := p.ParseInto(validAnalysisJSON, &analysis); err != nil {
		t.Fatalf("ParseInto failed: %v", err)
	}
	if analysis.ClientName != "Maria" {
		t.Fatalf("unexpected client name %q", analysis.ClientName)
	}
	if analysis.Sentiment.Score != 4 {
		t.Fatalf("unexpected sentiment score %d", analysis.Sentiment.Score)
	}
}

func TestParseInto_MarkdownFences(t *testing.T) {
	p := NewParser()

	cases := []string{
		"```json\n" + validAnalysisJSON + "\n```",
		"```\n" + validAnalysisJSON + "\n```",
		"Here is the analysis you asked for:\n\n" + validAnalysisJSON,
	}
	for _, raw := range cases {
		var analysis entities.ClientAnalysis
		if err := p.ParseInto(raw, &analysis); err != nil {
			t.Fatalf("ParseInto failed for wrapped response: %v", err)
		}
		if analysis.Topic != "Bakery website" {
			t.Fatalf("unexpected topic %q", analysis.Topic)
		}
	}
}

func TestParseInto_InvalidJSON(t *testing.T) {
	p := NewParser()

	var analysis entities.ClientAnalysis
	err := p.ParseInto("I could not analyze that transcript, sorry.", &analysis)
	if err == nil {
		t.Fatal("expected error for non-JSON response")
	}
}

func TestParseInto_SchemaViolation(t *testing.T) {
	p := NewParser()

	// key_points must not be empty and sentiment score must be 1-5.
	bad := strings.Replace(validAnalysisJSON, `["current site is outdated", "orders come by phone", "wants photos of products"]`, `[]`, 1)

	var analysis entities.ClientAnalysis
	if err := p.ParseInto(bad, &analysis); err == nil {
		t.Fatal("expected validation error for empty key_points")
	}

	bad = strings.Replace(validAnalysisJSON, `"score": 4`, `"score": 9`, 1)
	if err := p.ParseInto(bad, &analysis); err == nil {
		t.Fatal("expected validation error for out-of-range score")
	}
}

func TestParseInto_NormalizesOptionalLists(t *testing.T) {
	p := NewParser()

	raw := strings.Replace(validAnalysisJSON, `"core_requirements": ["online ordering"]`, `"core_requirements": null`, 1)

	var analysis entities.ClientAnalysis
	if err := p.ParseInto(raw, &analysis); err != nil {
		t.Fatalf("ParseInto failed: %v", err)
	}
	if analysis.CoreRequirements == nil {
		t.Fatal("expected core_requirements to be initialized")
	}
}

func TestParseInto_DesignBrief(t *testing.T) {
	p := NewParser()

	raw := `{
  "project_name": "Sweet Crumb",
  "business": "bakery",
  "site_goal": "take pickup orders online",
  "target_audience": ["locals"],
  "pages": ["home", "menu", "order"],
  "style_keywords": ["warm", "handmade"],
  "colors": [],
  "must_have": ["order form"],
  "avoid": ["stock photos"],
  "content_notes": null
}`

	var brief entities.DesignBrief
	if err := p.ParseInto(raw, &brief); err != nil {
		t.Fatalf("ParseInto failed: %v", err)
	}
	if brief.ProjectName != "Sweet Crumb" {
		t.Fatalf("unexpected project name %q", brief.ProjectName)
	}
	if brief.Colors == nil {
		t.Fatal("expected colors list to be initialized")
	}
}

package advisor

import (
	"strings"
	"testing"

	"github.com/meresu/lead-advisor/internal/intent"
	"github.com/meresu/lead-advisor/internal/leads"
	"github.com/meresu/lead-advisor/internal/scoring"
)

var testProfile = leads.Profile{
	Role:         "Procurement Manager",
	Company:      "Tata Steel",
	InterestTags: []string{"Railway"},
}

func TestComposeHeadings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		focus   intent.Intent
		heading string
	}{
		{intent.Priority, "## High-Priority Projects for Tata Steel"},
		{intent.Steel, "## Projects with Significant Steel Requirements"},
		{intent.Value, "## Highest Value Contract Opportunities"},
		{intent.Location, "## Projects By Location"},
		{intent.General, "## Recommended Projects for Tata Steel"},
	}

	ranked := []scoring.ScoredProject{
		{Project: &leads.Project{Company: "L&T", Title: "Metro Phase II"}, Score: 40},
	}

	for _, tt := range tests {
		t.Run(string(tt.focus), func(t *testing.T) {
			t.Parallel()
			text := Compose(tt.focus, testProfile, "query", ranked)
			if !strings.HasPrefix(text, tt.heading) {
				t.Fatalf("expected heading %q, got:\n%s", tt.heading, text)
			}
		})
	}
}

func TestComposeEmptyShortlist(t *testing.T) {
	t.Parallel()

	text := Compose(intent.General, testProfile, "anything?", nil)

	if !strings.Contains(text, noResultsLine) {
		t.Fatalf("expected no-results marker, got:\n%s", text)
	}
	// Still a full response with heading and closing analysis.
	if !strings.Contains(text, "## Recommended Projects") {
		t.Fatalf("expected heading on empty result:\n%s", text)
	}
	if !strings.Contains(text, "### Strategic Recommendations") {
		t.Fatalf("expected closing section on empty result:\n%s", text)
	}
}

func TestComposeFieldFallbacks(t *testing.T) {
	t.Parallel()

	ranked := []scoring.ScoredProject{{Project: &leads.Project{}}}
	text := Compose(intent.General, testProfile, "q", ranked)

	for _, want := range []string{
		"**1. Unknown Company**: Untitled Project",
		"• **Type**: N/A",
		"• **Location**: N/A",
		"• **Priority**: Low",
		"• **Value**: Not specified",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("response missing %q:\n%s", want, text)
		}
	}

	// Absent optional excerpts must not render empty bullets.
	if strings.Contains(text, "Steel Requirements") || strings.Contains(text, "Analysis**:") {
		t.Fatalf("optional bullets rendered for empty fields:\n%s", text)
	}
}

func TestComposeTruncatesExcerpts(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 150)
	ranked := []scoring.ScoredProject{{Project: &leads.Project{
		Company:           "Tata Projects",
		Title:             "Railway Bridge",
		SteelRequirements: long,
		Reasoning:         long,
	}}}

	text := Compose(intent.Steel, testProfile, "steel?", ranked)

	truncated := strings.Repeat("x", composerExcerptLimit) + "..."
	if !strings.Contains(text, "• **Steel Requirements**: "+truncated) {
		t.Fatalf("steel requirements not truncated:\n%s", text)
	}
	if !strings.Contains(text, "• **Analysis**: "+truncated) {
		t.Fatalf("reasoning not truncated:\n%s", text)
	}
	if strings.Contains(text, long) {
		t.Fatalf("full excerpt leaked into response")
	}
}

func TestComposeClosingParagraphsPerIntent(t *testing.T) {
	t.Parallel()

	ranked := []scoring.ScoredProject{{Project: &leads.Project{Title: "P"}}}

	steel := Compose(intent.Steel, testProfile, "steel", ranked)
	if !strings.Contains(steel, "### Steel Component Analysis") {
		t.Fatalf("steel closing missing:\n%s", steel)
	}

	value := Compose(intent.Value, testProfile, "value", ranked)
	if !strings.Contains(value, "15-30% of total project costs") {
		t.Fatalf("value closing missing steel-share note:\n%s", value)
	}

	location := Compose(intent.Location, testProfile, "region", ranked)
	if !strings.Contains(location, "logistics advantages and regional familiarity") {
		t.Fatalf("location closing missing:\n%s", location)
	}
}

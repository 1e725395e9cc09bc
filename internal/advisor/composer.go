package advisor

import (
	"fmt"
	"strings"

	"github.com/meresu/lead-advisor/internal/intent"
	"github.com/meresu/lead-advisor/internal/leads"
	"github.com/meresu/lead-advisor/internal/logger"
	"github.com/meresu/lead-advisor/internal/scoring"
)

// composerExcerptLimit caps the steel-requirements and analysis excerpts in
// chat responses; the full text stays available in the project table.
const composerExcerptLimit = 100

// noResultsLine is the explicit marker rendered when the shortlist is empty.
const noResultsLine = "No matching projects found."

// template is one intent-keyed response shape: heading, introduction and
// closing analysis around the shared project blocks.
type template struct {
	heading func(p leads.Profile) string
	intro   func(p leads.Profile, query string) string
	closing string
}

var templates = map[intent.Intent]template{
	intent.Priority: {
		heading: func(p leads.Profile) string {
			return fmt.Sprintf("## High-Priority Projects for %s", p.Company)
		},
		intro: func(p leads.Profile, _ string) string {
			return fmt.Sprintf("Based on your role as a %s, I've identified these priority projects that align with your interests in %s:", p.Role, p.TagList())
		},
		closing: "### Why These Projects Matter\nThese projects should be prioritized due to their urgency level, alignment with your business interests, and potential for immediate impact. The high-priority projects typically have shorter bidding windows and faster procurement processes.",
	},
	intent.Steel: {
		heading: func(leads.Profile) string {
			return "## Projects with Significant Steel Requirements"
		},
		intro: func(p leads.Profile, _ string) string {
			return fmt.Sprintf("For your role as %s at %s, here are projects with substantial steel components:", p.Role, p.Company)
		},
		closing: "### Steel Component Analysis\nThese projects have explicitly mentioned steel requirements that align with your interests. The steel components range from structural steel for infrastructure to specialized steel for industrial applications. Projects with specific steel requirements typically offer better negotiation positioning.",
	},
	intent.Value: {
		heading: func(leads.Profile) string {
			return "## Highest Value Contract Opportunities"
		},
		intro: func(p leads.Profile, _ string) string {
			return fmt.Sprintf("Based on your role as %s at %s, here are the projects with significant contract values:", p.Role, p.Company)
		},
		closing: "### Business Impact Analysis\nThese high-value projects represent substantial opportunities for material supply. The contract values indicate the overall project scale, with steel components typically representing 15-30% of total project costs.",
	},
	intent.Location: {
		heading: func(leads.Profile) string {
			return "## Projects By Location"
		},
		intro: func(p leads.Profile, _ string) string {
			return fmt.Sprintf("Based on your query about location, here are relevant projects for %s in the requested region:", p.Company)
		},
		closing: "### Geographic Advantage Analysis\nThese projects are grouped by their geographic relevance. Proximity can offer logistics advantages and regional familiarity benefits when bidding for contracts.",
	},
	intent.General: {
		heading: func(p leads.Profile) string {
			return fmt.Sprintf("## Recommended Projects for %s", p.Company)
		},
		intro: func(p leads.Profile, _ string) string {
			return fmt.Sprintf("Based on your role as %s and interests in %s, here are the most relevant projects:", p.Role, p.TagList())
		},
		closing: "### Strategic Recommendations\nThese projects were selected based on their alignment with your specified interests and company profile. The priority levels indicate urgency, with 'High' representing immediate opportunities that may require faster response times.",
	},
}

// Compose renders the locally generated markdown response for a classified
// query. It never fails: absent fields render with placeholders and an empty
// shortlist renders an explicit no-results line.
func Compose(focus intent.Intent, profile leads.Profile, query string, ranked []scoring.ScoredProject) string {
	tpl, ok := templates[focus]
	if !ok {
		tpl = templates[intent.General]
	}

	blocks := formatProjectBlocks(ranked)

	var b strings.Builder
	b.WriteString(tpl.heading(profile))
	b.WriteString("\n\n")
	b.WriteString(tpl.intro(profile, query))
	b.WriteString("\n\n")
	b.WriteString(blocks)
	b.WriteString("\n\n")
	b.WriteString(tpl.closing)

	return b.String()
}

// formatProjectBlocks renders the fixed-shape bullet block per project. The
// markdown markers (bold labels, bullets) are a display contract with the
// downstream renderer.
func formatProjectBlocks(ranked []scoring.ScoredProject) string {
	if len(ranked) == 0 {
		return noResultsLine
	}

	blocks := make([]string, 0, len(ranked))
	for i, sp := range ranked {
		p := sp.Project

		var b strings.Builder
		fmt.Fprintf(&b, "**%d. %s**: %s\n", i+1, blockText(p.Company, "Unknown Company"), blockText(p.Title, "Untitled Project"))
		fmt.Fprintf(&b, "   • **Type**: %s\n", blockText(p.ProjectType, "N/A"))
		fmt.Fprintf(&b, "   • **Location**: %s\n", blockText(p.Location, "N/A"))
		fmt.Fprintf(&b, "   • **Priority**: %s\n", p.DisplayUrgency())
		fmt.Fprintf(&b, "   • **Value**: %s\n", p.Value())
		if strings.TrimSpace(p.SteelRequirements) != "" {
			fmt.Fprintf(&b, "   • **Steel Requirements**: %s\n", logger.Truncate(p.SteelRequirements, composerExcerptLimit))
		}
		if strings.TrimSpace(p.Reasoning) != "" {
			fmt.Fprintf(&b, "   • **Analysis**: %s\n", logger.Truncate(p.Reasoning, composerExcerptLimit))
		}

		blocks = append(blocks, strings.TrimRight(b.String(), "\n"))
	}

	return strings.Join(blocks, "\n\n")
}

func blockText(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

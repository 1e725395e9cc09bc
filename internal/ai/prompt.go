package ai

import (
	"fmt"
	"strings"

	"github.com/meresu/lead-advisor/internal/intent"
	"github.com/meresu/lead-advisor/internal/leads"
	"github.com/meresu/lead-advisor/internal/logger"
	"github.com/meresu/lead-advisor/internal/scoring"
)

// promptExcerptLimit caps the steel-requirements and reasoning excerpts
// embedded in prompts. Wider than the composer's display cap: the model
// benefits from more context than a chat bubble does.
const promptExcerptLimit = 200

const persona = "You are a senior project advisor specializing in steel procurement and " +
	"construction project management, helping business development professionals " +
	"find relevant project leads."

// BuildPrompt assembles the completion prompt from the user context and the
// ranked shortlist.
func BuildPrompt(profile leads.Profile, query string, focus intent.Intent, ranked []scoring.ScoredProject) string {
	var b strings.Builder

	b.WriteString(persona)
	b.WriteString("\n\nUSER CONTEXT:\n")
	fmt.Fprintf(&b, "- Role: %s\n", profile.Role)
	fmt.Fprintf(&b, "- Company: %s\n", profile.Company)
	fmt.Fprintf(&b, "- Interests: %s\n", profile.TagList())
	fmt.Fprintf(&b, "- Question: %q\n", query)

	b.WriteString("\nTOP MATCHING PROJECTS:\n")
	if len(ranked) == 0 {
		b.WriteString("(no matching projects)\n")
	}
	for i, sp := range ranked {
		p := sp.Project
		fmt.Fprintf(&b, "Project %d:\n", i+1)
		fmt.Fprintf(&b, "- Title: %s\n", textOr(p.Title, "Untitled"))
		fmt.Fprintf(&b, "- Company: %s\n", textOr(p.Company, "Unknown"))
		fmt.Fprintf(&b, "- Type: %s\n", textOr(p.ProjectType, "N/A"))
		fmt.Fprintf(&b, "- Location: %s\n", textOr(p.Location, "N/A"))
		fmt.Fprintf(&b, "- Priority: %s\n", p.DisplayUrgency())
		fmt.Fprintf(&b, "- Value: %s\n", p.Value())
		fmt.Fprintf(&b, "- Steel Requirements: %s\n", excerptOr(p.SteelRequirements, "None specified"))
		fmt.Fprintf(&b, "- Analysis: %s\n", excerptOr(p.Reasoning, "None specified"))
		b.WriteString("\n")
	}

	b.WriteString("Your task is to provide a detailed, professional response to the user's question based on the project data above.\n")
	b.WriteString("Use markdown formatting with headings, bullet points, and emphasis for key information.\n")
	fmt.Fprintf(&b, "The user is asking about %s; focus on why these projects are relevant to their role and company.\n", focus.Focus())
	b.WriteString("For each recommendation, provide clear reasoning on why the project should be prioritized.\n")
	b.WriteString("The response should be detailed but concise, highlighting the most important aspects of the recommended projects.")

	return b.String()
}

func textOr(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func excerptOr(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return logger.Truncate(value, promptExcerptLimit)
}

package leads

import (
	"strings"

	"github.com/meresu/lead-advisor/internal/taxonomy"
)

// Profile is the session-scoped description of the person asking for
// recommendations. It is collected by the chat flow or posted to the API and
// never persisted.
type Profile struct {
	Role         string   `json:"role"`
	Company      string   `json:"company"`
	InterestTags []string `json:"interest_tags"`
}

// CanonicalTags returns the declared interest tags normalized through the
// project-type taxonomy, with empties dropped.
func (p Profile) CanonicalTags() []string {
	tags := make([]string, 0, len(p.InterestTags))
	for _, tag := range p.InterestTags {
		if canonical := taxonomy.Normalize(tag); canonical != "" {
			tags = append(tags, canonical)
		}
	}
	return tags
}

// TagList renders the interest tags for display in prompts and responses.
func (p Profile) TagList() string {
	tags := p.CanonicalTags()
	if len(tags) == 0 {
		return "general steel opportunities"
	}
	return strings.Join(tags, ", ")
}

package leads

import (
	"sort"
	"strings"
	"time"

	"github.com/meresu/lead-advisor/internal/taxonomy"
)

// Urgency labels as they appear in pipeline output. Matching is
// case-insensitive and an absent label is treated as low.
const (
	UrgencyHigh   = "high"
	UrgencyMedium = "medium"
	UrgencyLow    = "low"
)

// ValueNotSpecified is the display fallback when a record carries neither a
// contract value nor a potential value.
const ValueNotSpecified = "Not specified"

// Sort orders accepted by Projects.SortBy and the /api/projects endpoint.
const (
	SortPriorityHigh = "priority-high"
	SortPriorityLow  = "priority-low"
	SortDateNew      = "date-new"
	SortDateOld      = "date-old"
)

// Project is one news-derived lead produced by the qualification pipeline.
// Every field is free text and may be empty; consumers must treat missing
// values as defaults, never as errors.
// The csv tags carry the column headers written by the qualification
// pipeline; rows are decoded through mapstructure against them.
type Project struct {
	Title             string `json:"title,omitempty" csv:"Title"`
	Company           string `json:"company,omitempty" csv:"Company"`
	Location          string `json:"location,omitempty" csv:"Location"`
	ProjectType       string `json:"project_type,omitempty" csv:"Project Type"`
	Urgency           string `json:"urgency,omitempty" csv:"Urgency"`
	ContractValue     string `json:"contract_value,omitempty" csv:"Contract Value"`
	PotentialValue    string `json:"potential_value,omitempty" csv:"Potential Value"`
	SteelRequirements string `json:"steel_requirements,omitempty" csv:"Steel Requirements"`
	Reasoning         string `json:"reasoning,omitempty" csv:"Reasoning"`
	DatePublished     string `json:"date_published,omitempty" csv:"Date Published"`
}

// UrgencyLevel returns the normalized urgency label, defaulting to low.
func (p *Project) UrgencyLevel() string {
	switch strings.ToLower(strings.TrimSpace(p.Urgency)) {
	case UrgencyHigh:
		return UrgencyHigh
	case UrgencyMedium:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// PriorityRank maps urgency to a sortable rank, highest urgency first.
func (p *Project) PriorityRank() int {
	switch p.UrgencyLevel() {
	case UrgencyHigh:
		return 3
	case UrgencyMedium:
		return 2
	default:
		return 1
	}
}

// DisplayUrgency returns the raw urgency label for rendering, falling back to
// "Low" when the record carries none.
func (p *Project) DisplayUrgency() string {
	if u := strings.TrimSpace(p.Urgency); u != "" {
		return u
	}
	return "Low"
}

// Value returns the contract value, falling back to the potential value and
// then to the "Not specified" placeholder.
func (p *Project) Value() string {
	if v := strings.TrimSpace(p.ContractValue); v != "" {
		return v
	}
	if v := strings.TrimSpace(p.PotentialValue); v != "" {
		return v
	}
	return ValueNotSpecified
}

// CanonicalType returns the normalized project-type category, or an empty
// string when the record carries no type.
func (p *Project) CanonicalType() string {
	return taxonomy.Normalize(p.ProjectType)
}

// publishedAt parses the publication date for sorting. Records without a
// parseable date sort as the zero time.
func (p *Project) publishedAt() time.Time {
	raw := strings.TrimSpace(p.DatePublished)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "02/01/2006", "January 2, 2006"} {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// Projects is an ordered collection of leads. The order carries meaning: the
// pipeline writes newest-first, and downstream ranking preserves it for ties.
type Projects struct {
	Items []*Project
}

func (l *Projects) Len() int {
	return len(l.Items)
}

// Search keeps projects whose title, company or location contains the term,
// case-insensitive. An empty term keeps everything.
func (l *Projects) Search(term string) *Projects {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return l
	}

	out := &Projects{}
	for _, p := range l.Items {
		if strings.Contains(strings.ToLower(p.Title), term) ||
			strings.Contains(strings.ToLower(p.Company), term) ||
			strings.Contains(strings.ToLower(p.Location), term) {
			out.Items = append(out.Items, p)
		}
	}
	return out
}

// FilterUrgency keeps projects with the given normalized urgency label.
func (l *Projects) FilterUrgency(urgency string) *Projects {
	urgency = strings.ToLower(strings.TrimSpace(urgency))
	if urgency == "" {
		return l
	}

	out := &Projects{}
	for _, p := range l.Items {
		if p.UrgencyLevel() == urgency {
			out.Items = append(out.Items, p)
		}
	}
	return out
}

// FilterType keeps projects whose canonical type matches exactly.
func (l *Projects) FilterType(canonical string) *Projects {
	canonical = strings.TrimSpace(canonical)
	if canonical == "" {
		return l
	}

	out := &Projects{}
	for _, p := range l.Items {
		if p.CanonicalType() == canonical {
			out.Items = append(out.Items, p)
		}
	}
	return out
}

// SortBy orders the collection in place. Unknown orders leave it untouched.
// Sorting is stable so equally ranked records keep their pipeline order.
func (l *Projects) SortBy(order string) {
	switch order {
	case SortPriorityHigh:
		sort.SliceStable(l.Items, func(i, j int) bool {
			return l.Items[i].PriorityRank() > l.Items[j].PriorityRank()
		})
	case SortPriorityLow:
		sort.SliceStable(l.Items, func(i, j int) bool {
			return l.Items[i].PriorityRank() < l.Items[j].PriorityRank()
		})
	case SortDateNew:
		sort.SliceStable(l.Items, func(i, j int) bool {
			return l.Items[i].publishedAt().After(l.Items[j].publishedAt())
		})
	case SortDateOld:
		sort.SliceStable(l.Items, func(i, j int) bool {
			return l.Items[i].publishedAt().Before(l.Items[j].publishedAt())
		})
	}
}

// Types returns the distinct canonical project types present, sorted.
func (l *Projects) Types() []string {
	seen := make(map[string]bool)
	for _, p := range l.Items {
		if canonical := p.CanonicalType(); canonical != "" {
			seen[canonical] = true
		}
	}

	types := make([]string, 0, len(seen))
	for canonical := range seen {
		types = append(types, canonical)
	}
	sort.Strings(types)
	return types
}

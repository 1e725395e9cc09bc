// Package scoring turns a lead set and a user profile into a ranked
// shortlist using an additive weighted-rule model. Rules only ever add
// weight; a project matching nothing scores zero and stays in the output.
package scoring

import (
	"strings"

	"go.uber.org/zap"

	"github.com/meresu/lead-advisor/internal/leads"
)

// relevanceKeywords is the fixed vocabulary for the query-relevance rule: a
// keyword must appear both in the query and in the record's title or
// reasoning for the rule to fire.
var relevanceKeywords = []string{
	"steel", "railway", "rail", "metro", "bridge", "port", "airport",
	"highway", "road", "cement", "power", "energy", "infrastructure",
	"manufacturing", "plant", "expansion", "construction",
}

// ScoredProject pairs a lead with its computed relevance score. Scores are
// recomputed per query and never persisted.
type ScoredProject struct {
	Project *leads.Project `json:"project"`
	Score   int            `json:"score"`
}

// ruleInput carries the pre-lowered strings every rule matches against, so
// absent fields short-circuit to "no match" instead of erroring.
type ruleInput struct {
	project   *leads.Project
	canonical string
	typeLower string
	title     string
	reasoning string
	role      string
	company   string
	query     string
	tags      []string
	tagsLower []string
}

type rule struct {
	name   string
	weight func(Weights) int
	match  func(in *ruleInput) bool
}

// rules is the canonical condition table. Each entry contributes its weight
// independently when the condition holds.
var rules = []rule{
	{
		name:   "urgency_high",
		weight: func(w Weights) int { return w.HighUrgency },
		match: func(in *ruleInput) bool {
			return in.project.UrgencyLevel() == leads.UrgencyHigh
		},
	},
	{
		name:   "urgency_medium",
		weight: func(w Weights) int { return w.MediumUrgency },
		match: func(in *ruleInput) bool {
			return in.project.UrgencyLevel() == leads.UrgencyMedium
		},
	},
	{
		name:   "tag_match",
		weight: func(w Weights) int { return w.TagMatch },
		match: func(in *ruleInput) bool {
			if in.canonical == "" {
				return false
			}
			for _, tag := range in.tags {
				if tag == in.canonical {
					return true
				}
			}
			return false
		},
	},
	{
		name:   "steel_requirements",
		weight: func(w Weights) int { return w.SteelRequirements },
		match: func(in *ruleInput) bool {
			if strings.TrimSpace(in.project.SteelRequirements) == "" {
				return false
			}
			if strings.Contains(in.query, "steel") {
				return true
			}
			for _, tag := range in.tagsLower {
				if strings.Contains(tag, "steel") {
					return true
				}
			}
			return false
		},
	},
	{
		name:   "role_match",
		weight: func(w Weights) int { return w.RoleMatch },
		match: func(in *ruleInput) bool {
			if !strings.Contains(in.typeLower, "infrastructure") {
				return false
			}
			return strings.Contains(in.role, "manager") ||
				strings.Contains(in.role, "director") ||
				strings.Contains(in.role, "executive")
		},
	},
	{
		name:   "specialized_railway",
		weight: func(w Weights) int { return w.SpecializedType },
		match:  specializedMatch("railway"),
	},
	{
		name:   "specialized_metro",
		weight: func(w Weights) int { return w.SpecializedType },
		match:  specializedMatch("metro"),
	},
	{
		name:   "specialized_port",
		weight: func(w Weights) int { return w.SpecializedType },
		match:  specializedMatch("port"),
	},
	{
		name:   "contract_value",
		weight: func(w Weights) int { return w.ContractValue },
		match: func(in *ruleInput) bool {
			return strings.TrimSpace(in.project.ContractValue) != "" &&
				strings.Contains(in.query, "value")
		},
	},
	{
		name:   "location_match",
		weight: func(w Weights) int { return w.LocationMatch },
		match: func(in *ruleInput) bool {
			location := strings.ToLower(strings.TrimSpace(in.project.Location))
			return location != "" && strings.Contains(in.company, location)
		},
	},
	{
		name:   "query_relevance",
		weight: func(w Weights) int { return w.QueryRelevance },
		match: func(in *ruleInput) bool {
			for _, keyword := range relevanceKeywords {
				if !strings.Contains(in.query, keyword) {
					continue
				}
				if strings.Contains(in.title, keyword) || strings.Contains(in.reasoning, keyword) {
					return true
				}
			}
			return false
		},
	},
}

// specializedMatch builds the "declared tag meets matching project type"
// condition shared by the railway/metro/port rules.
func specializedMatch(keyword string) func(in *ruleInput) bool {
	return func(in *ruleInput) bool {
		if !strings.Contains(in.typeLower, keyword) {
			return false
		}
		for _, tag := range in.tagsLower {
			if strings.Contains(tag, keyword) {
				return true
			}
		}
		return false
	}
}

// Scorer evaluates leads against a profile and query using one weight table.
type Scorer struct {
	weights Weights
	logger  *zap.Logger
}

func NewScorer(weights Weights, logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{weights: weights, logger: logger}
}

// Score computes the non-negative relevance score for one lead.
func (s *Scorer) Score(project *leads.Project, profile leads.Profile, query string) int {
	in := newRuleInput(project, profile, query)

	total := 0
	for _, r := range rules {
		if !r.match(in) {
			continue
		}
		total += r.weight(s.weights)
		s.logger.Debug("scoring rule matched",
			zap.String("rule", r.name),
			zap.String("title", project.Title),
			zap.Int("weight", r.weight(s.weights)),
		)
	}
	return total
}

// ScoreAll scores every lead in input order.
func (s *Scorer) ScoreAll(projects *leads.Projects, profile leads.Profile, query string) []ScoredProject {
	scored := make([]ScoredProject, 0, projects.Len())
	for _, project := range projects.Items {
		scored = append(scored, ScoredProject{
			Project: project,
			Score:   s.Score(project, profile, query),
		})
	}
	return scored
}

func newRuleInput(project *leads.Project, profile leads.Profile, query string) *ruleInput {
	tags := profile.CanonicalTags()
	tagsLower := make([]string, len(tags))
	for i, tag := range tags {
		tagsLower[i] = strings.ToLower(tag)
	}

	return &ruleInput{
		project:   project,
		canonical: project.CanonicalType(),
		typeLower: strings.ToLower(project.ProjectType),
		title:     strings.ToLower(project.Title),
		reasoning: strings.ToLower(project.Reasoning),
		role:      strings.ToLower(profile.Role),
		company:   strings.ToLower(profile.Company),
		query:     strings.ToLower(query),
		tags:      tags,
		tagsLower: tagsLower,
	}
}

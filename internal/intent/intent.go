// Package intent classifies a free-text advisor query into one of a fixed
// set of focuses. The classification selects the response template and feeds
// the prompt sent to the language model.
package intent

import "strings"

type Intent string

const (
	Priority Intent = "priority"
	Steel    Intent = "steel"
	Value    Intent = "value"
	Location Intent = "location"
	General  Intent = "general"
)

// keywordSets are checked in order; the first intent whose keyword appears in
// the query wins. The order matters: "urgent steel projects" is a priority
// query, not a steel query.
var keywordSets = []struct {
	intent   Intent
	keywords []string
}{
	{Priority, []string{"prioritize", "urgent", "important"}},
	{Steel, []string{"steel"}},
	{Value, []string{"value", "contract", "amount"}},
	{Location, []string{"location", "region", "area"}},
}

// Classify assigns an intent via case-insensitive substring search.
func Classify(query string) Intent {
	lower := strings.ToLower(query)

	for _, set := range keywordSets {
		for _, keyword := range set.keywords {
			if strings.Contains(lower, keyword) {
				return set.intent
			}
		}
	}

	return General
}

// Focus describes what the intent concentrates on, phrased for prompt text.
func (i Intent) Focus() string {
	switch i {
	case Priority:
		return "urgency and immediate action"
	case Steel:
		return "steel requirements and specifications"
	case Value:
		return "contract values and financial opportunity"
	case Location:
		return "geographic relevance"
	default:
		return "overall project alignment"
	}
}

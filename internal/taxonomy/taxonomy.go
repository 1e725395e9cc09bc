// Package taxonomy canonicalizes the free-text project-type labels produced
// by the qualification pipeline into a small fixed set of categories, so tag
// matching works despite inconsistent source casing and spelling.
package taxonomy

import "strings"

// override maps a set of required substrings to a canonical category. Rules
// are checked in order and the first full match wins.
type override struct {
	contains  []string
	canonical string
}

var overrides = []override{
	{[]string{"metro"}, "Metro"},
	{[]string{"railway"}, "Railway"},
	{[]string{"rail"}, "Railway"},
	{[]string{"highway"}, "Highway/Road"},
	{[]string{"road"}, "Highway/Road"},
	{[]string{"airport"}, "Airport"},
	{[]string{"port"}, "Transportation - Port"},
	{[]string{"manufacturing", "cement"}, "Manufacturing - Cement"},
	{[]string{"manufacturing", "steel"}, "Manufacturing - Steel"},
	{[]string{"manufacturing"}, "Manufacturing"},
	{[]string{"power"}, "Energy & Power"},
	{[]string{"energy"}, "Energy & Power"},
	{[]string{"infrastructure"}, "Infrastructure"},
}

// Normalize returns the canonical category for a raw project-type label, or
// an empty string for empty/whitespace-only input. The function is pure and
// idempotent: every canonical form normalizes to itself.
func Normalize(raw string) string {
	lower := strings.ToLower(strings.TrimSpace(raw))
	if lower == "" {
		return ""
	}

	for _, rule := range overrides {
		matched := true
		for _, sub := range rule.contains {
			if !strings.Contains(lower, sub) {
				matched = false
				break
			}
		}
		if matched {
			return rule.canonical
		}
	}

	return titleCase(lower)
}

func titleCase(lower string) string {
	words := strings.Fields(lower)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

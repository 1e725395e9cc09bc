package scoring

import "strings"

// Weights is the single table the additive rule model reads from. Two
// historical weight sets exist in the pipeline's call sites; both are kept
// here and the choice is a configuration decision, not a code change.
type Weights struct {
	HighUrgency       int
	MediumUrgency     int
	TagMatch          int
	SteelRequirements int
	RoleMatch         int
	SpecializedType   int
	ContractValue     int
	LocationMatch     int
	QueryRelevance    int
}

// DefaultWeights is the newer table used by the advisor route.
var DefaultWeights = Weights{
	HighUrgency:       35,
	MediumUrgency:     18,
	TagMatch:          40,
	SteelRequirements: 30,
	RoleMatch:         22,
	SpecializedType:   28,
	ContractValue:     20,
	LocationMatch:     25,
	QueryRelevance:    35,
}

// LegacyWeights is the earlier variant, retained until stakeholders settle
// which table is canonical.
var LegacyWeights = Weights{
	HighUrgency:       30,
	MediumUrgency:     15,
	TagMatch:          40,
	SteelRequirements: 25,
	RoleMatch:         20,
	SpecializedType:   25,
	ContractValue:     15,
	LocationMatch:     20,
	QueryRelevance:    35,
}

// WeightsByName resolves a configured profile name, defaulting to the newer
// table for anything unrecognized.
func WeightsByName(name string) Weights {
	if strings.EqualFold(strings.TrimSpace(name), "legacy") {
		return LegacyWeights
	}
	return DefaultWeights
}

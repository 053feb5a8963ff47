package validation

import (
	"validator-engine/internal/domain/check"
	"validator-engine/internal/domain/ruleset"
)

// RiskScore sums tenant weights over the RAW flag list, then clamps to
// [0, 100]. The list deliberately keeps multiplicity: the same flag raised by
// two different stages contributes its weight twice, so repeated evidence of
// one issue compounds risk. Deduplication happens only on the returned flag
// set, never before scoring.
func RiskScore(flags []check.Flag, weights ruleset.RiskWeights) int {
	score := 0
	for _, f := range flags {
		score += weights.Weight(f)
	}
	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

package validation

import (
	"validator-engine/internal/domain/check"
	"validator-engine/internal/domain/ruleset"
)

// Decision is the terminal outcome of a validation run. All four states are
// terminal; a resubmission is a brand-new submission with a new id.
type Decision string

const (
	DecisionAutoApprove      Decision = "AUTO_APPROVE"
	DecisionAutoReview       Decision = "AUTO_REVIEW"
	DecisionAutoHighRisk     Decision = "AUTO_HIGH_RISK"
	DecisionNeedResubmission Decision = "NEED_RESUBMISSION"
)

// hardFailFlags force NEED_RESUBMISSION regardless of score.
var hardFailFlags = map[check.Flag]struct{}{
	check.FlagLowMediaCount:  {},
	check.FlagInvoiceMissing: {},
	check.FlagNoImage:        {},
}

// Decide maps score plus flags to a decision. Precedence, first match wins:
// hard-fail flags, then the auto-approve ceiling (inclusive), then the
// high-risk floor (inclusive), else review.
func Decide(score int, thresholds ruleset.Thresholds, flags []check.Flag) Decision {
	for _, f := range flags {
		if _, ok := hardFailFlags[f]; ok {
			return DecisionNeedResubmission
		}
	}
	if score <= thresholds.ApproveMax() {
		return DecisionAutoApprove
	}
	if score >= thresholds.HighRiskMin() {
		return DecisionAutoHighRisk
	}
	return DecisionAutoReview
}

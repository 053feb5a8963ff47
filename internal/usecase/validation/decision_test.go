package validation

import (
	"testing"

	"validator-engine/internal/domain/check"
	"validator-engine/internal/domain/ruleset"
)

func TestDecide_HardFailBeatsLowScore(t *testing.T) {
	for _, f := range []check.Flag{check.FlagLowMediaCount, check.FlagInvoiceMissing, check.FlagNoImage} {
		got := Decide(0, ruleset.Thresholds{}, []check.Flag{f})
		if got != DecisionNeedResubmission {
			t.Fatalf("flag %s: Decide = %s, want NEED_RESUBMISSION", f, got)
		}
	}
}

func TestDecide_HardFailBeatsHighScore(t *testing.T) {
	got := Decide(100, ruleset.Thresholds{}, []check.Flag{check.FlagNoImage, check.FlagDuplicateImage})
	if got != DecisionNeedResubmission {
		t.Fatalf("Decide = %s, want NEED_RESUBMISSION", got)
	}
}

func TestDecide_Boundaries(t *testing.T) {
	cases := []struct {
		score int
		want  Decision
	}{
		{0, DecisionAutoApprove},
		{20, DecisionAutoApprove},
		{21, DecisionAutoReview},
		{59, DecisionAutoReview},
		{60, DecisionAutoHighRisk},
		{100, DecisionAutoHighRisk},
	}
	for _, c := range cases {
		if got := Decide(c.score, ruleset.Thresholds{}, nil); got != c.want {
			t.Fatalf("score %d: Decide = %s, want %s", c.score, got, c.want)
		}
	}
}

func TestDecide_TenantThresholds(t *testing.T) {
	ten := 10
	fifty := 50
	th := ruleset.Thresholds{AutoApproveMaxRisk: &ten, HighRiskMinRisk: &fifty}

	if got := Decide(10, th, nil); got != DecisionAutoApprove {
		t.Fatalf("score 10: Decide = %s, want AUTO_APPROVE", got)
	}
	if got := Decide(11, th, nil); got != DecisionAutoReview {
		t.Fatalf("score 11: Decide = %s, want AUTO_REVIEW", got)
	}
	if got := Decide(50, th, nil); got != DecisionAutoHighRisk {
		t.Fatalf("score 50: Decide = %s, want AUTO_HIGH_RISK", got)
	}
}

func TestDecide_SoftFlagsDoNotForceResubmission(t *testing.T) {
	got := Decide(25, ruleset.Thresholds{}, []check.Flag{check.FlagGPSMismatch, check.FlagLowQuality})
	if got != DecisionAutoReview {
		t.Fatalf("Decide = %s, want AUTO_REVIEW", got)
	}
}

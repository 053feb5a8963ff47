package checks_test

import (
	"io"
	"log/slog"
	"testing"

	"validator-engine/internal/domain/check"
	"validator-engine/internal/domain/ruleset"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptrF(v float64) *float64 { return &v }
func ptrI(v int) *int         { return &v }
func ptrB(v bool) *bool       { return &v }
func ptrS(v string) *string   { return &v }

// mustRules parses a rule-group map, failing the test on error.
func mustRules(t *testing.T, groups map[string]any) *ruleset.RuleSet {
	t.Helper()
	rs, err := ruleset.Parse(map[string]any{"rules": groups})
	if err != nil {
		t.Fatalf("ruleset.Parse: %v", err)
	}
	return rs
}

func hasFlag(res check.Result, f check.Flag) bool {
	for _, got := range res.Flags {
		if got == f {
			return true
		}
	}
	return false
}

func countFlag(res check.Result, f check.Flag) int {
	n := 0
	for _, got := range res.Flags {
		if got == f {
			n++
		}
	}
	return n
}

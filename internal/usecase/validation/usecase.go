// Package validation orchestrates one submission's evaluation: a declarative
// table of gated stages runs in fixed order, flags and features accumulate,
// scoring and the decision policy resolve the outcome, and every step lands
// in the audit ledger. The final result is delivered upstream best-effort.
package validation

import (
	"context"
	"fmt"
	"log/slog"

	"validator-engine/internal/domain/check"
	domledger "validator-engine/internal/domain/ledger"
	"validator-engine/internal/domain/ruleset"
	"validator-engine/internal/domain/submission"
)

const actorEngine = "validation_engine"

// Check is the uniform stage contract (see internal/domain/check).
type Check interface {
	Run(ctx context.Context, sub *submission.Submission, rules *ruleset.RuleSet) check.Result
}

// Ledger is the slice of the audit ledger the orchestrator needs.
// Satisfied by *usecase/ledger.Service.
type Ledger interface {
	Append(ctx context.Context, eventType string, payload any, submissionID, performedBy string) (*domledger.Entry, error)
}

// DeliveryStatus is the callback sink's outcome. Delivery never raises; all
// failure detail is captured here.
type DeliveryStatus struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"status_code,omitempty"`
	Detail     string `json:"detail,omitempty"`
}

// Notifier delivers the final result upstream.
type Notifier interface {
	Notify(ctx context.Context, submissionID string, result *Result) DeliveryStatus
}

// Result is the terminal artifact of one validation run. Flags are
// deduplicated; Features is the merged map across all executed stages.
type Result struct {
	RiskScore int            `json:"riskScore"`
	Decision  Decision       `json:"decision"`
	Flags     []string       `json:"flags"`
	Features  map[string]any `json:"features"`
}

// stage is one row of the pipeline table: a name (also the ledger event
// suffix), a rule-derived gate, and the check to run when the gate passes.
type stage struct {
	name  string
	gate  func(sub *submission.Submission, rules *ruleset.RuleSet) bool
	check Check
}

func always(*submission.Submission, *ruleset.RuleSet) bool { return true }

// Checks bundles the pipeline's check implementations for wiring.
type Checks struct {
	ExifExtraction Check
	ExifHints      Check
	GPS            Check
	TimeWindow     Check
	Forensics      Check
	Duplicate      Check
	Tampering      Check
	Classifier     Check
	Invoice        Check
	Media          Check
}

type Usecase struct {
	stages   []stage
	ledger   Ledger
	notifier Notifier
	log      *slog.Logger
}

// NewUsecase builds the fixed, ordered stage table. Adding a stage means
// adding a row here; the run loop never changes.
func NewUsecase(c Checks, led Ledger, notifier Notifier, log *slog.Logger) *Usecase {
	return &Usecase{
		ledger:   led,
		notifier: notifier,
		log:      log,
		stages: []stage{
			{"EXIF_EXTRACTION", always, c.ExifExtraction},
			{"EXIF_CHECKS", always, c.ExifHints},
			{"GPS_VALIDATION", always, c.GPS},
			{"TIME_CHECKS", func(sub *submission.Submission, rules *ruleset.RuleSet) bool {
				_, hasDate := sub.RawSanctionDate()
				return rules.Time.Present && hasDate
			}, c.TimeWindow},
			{"FORENSICS", func(_ *submission.Submission, rules *ruleset.RuleSet) bool {
				return rules.Quality.Present
			}, c.Forensics},
			{"DUPLICATE_CHECK", func(_ *submission.Submission, rules *ruleset.RuleSet) bool {
				return rules.Fraud.DuplicateDetection
			}, c.Duplicate},
			{"ELA_TAMPERING", func(_ *submission.Submission, rules *ruleset.RuleSet) bool {
				return rules.Fraud.ELATamperingCheck
			}, c.Tampering},
			{"ASSET_CLASSIFIER", func(_ *submission.Submission, rules *ruleset.RuleSet) bool {
				return rules.Asset.ClassifierRequired
			}, c.Classifier},
			{"OCR_INVOICE", func(_ *submission.Submission, rules *ruleset.RuleSet) bool {
				return rules.Document.RequireInvoice
			}, c.Invoice},
			{"MEDIA_REQUIREMENTS", always, c.Media},
		},
	}
}

// Validate runs the full pipeline for one submission. The submission is
// immutable; all run state lives in locals, so submissions validate
// concurrently with no shared state beyond the ledger. A rule-document error
// returns before anything is logged to the ledger; ledger write failures are
// fatal and already-written entries stay (the ledger records what was
// attempted).
func (u *Usecase) Validate(ctx context.Context, sub *submission.Submission) (*Result, error) {
	rules, err := ruleset.Parse(sub.RuleDoc)
	if err != nil {
		return nil, err
	}

	if _, err := u.ledger.Append(ctx, "VALIDATION_STARTED", map[string]any{
		"tenant_id":   sub.TenantID,
		"loan_id":     sub.LoanID,
		"media_count": len(sub.Media),
	}, sub.SubmissionID, actorEngine); err != nil {
		return nil, err
	}

	// rawFlags keeps occurrence order and multiplicity; scoring consumes it
	// as-is. Features merge last-write-wins under the fixed stage order.
	var rawFlags []check.Flag
	features := map[string]any{}

	for _, st := range u.stages {
		if !st.gate(sub, rules) {
			continue
		}
		res := st.check.Run(ctx, sub, rules)
		rawFlags = append(rawFlags, res.Flags...)
		u.mergeFeatures(features, res.Features, st.name)

		if _, err := u.ledger.Append(ctx, "VALIDATION_"+st.name, res, sub.SubmissionID, actorEngine); err != nil {
			return nil, err
		}
	}

	score := RiskScore(rawFlags, rules.Weights)
	if _, err := u.ledger.Append(ctx, "VALIDATION_RISK_SCORING", map[string]any{
		"risk_score":  score,
		"total_flags": len(rawFlags),
	}, sub.SubmissionID, actorEngine); err != nil {
		return nil, err
	}

	unique := dedupeFlags(rawFlags)
	decision := Decide(score, rules.Threshold, unique)
	if _, err := u.ledger.Append(ctx, "VALIDATION_DECISION", map[string]any{
		"decision":   decision,
		"risk_score": score,
	}, sub.SubmissionID, actorEngine); err != nil {
		return nil, err
	}

	result := &Result{
		RiskScore: score,
		Decision:  decision,
		Flags:     unique,
		Features:  features,
	}

	if _, err := u.ledger.Append(ctx, "VALIDATION_COMPLETED", result, sub.SubmissionID, actorEngine); err != nil {
		return nil, err
	}

	u.log.Info("validation completed",
		slog.String("submission_id", sub.SubmissionID),
		slog.Int("risk_score", score),
		slog.String("decision", string(decision)),
	)

	// Fire-and-forget with respect to the pipeline's own success: the result
	// is already final whatever happens to delivery.
	if u.notifier != nil {
		status := u.notifier.Notify(ctx, sub.SubmissionID, result)
		if !status.Success {
			u.log.Error("result callback failed",
				slog.String("submission_id", sub.SubmissionID),
				slog.Int("status_code", status.StatusCode),
				slog.String("detail", status.Detail),
			)
		}
	}

	return result, nil
}

// mergeFeatures applies last-write-wins and makes collisions observable
// instead of silent.
func (u *Usecase) mergeFeatures(dst map[string]any, src check.Features, stageName string) {
	for k, v := range src {
		if _, exists := dst[k]; exists {
			u.log.Warn("feature key overwritten",
				slog.String("stage", stageName), slog.String("key", k))
		}
		dst[k] = v
	}
}

// dedupeFlags keeps first-seen order for a stable result payload; the flag
// set carries no ordering guarantee.
func dedupeFlags(flags []check.Flag) []string {
	seen := make(map[check.Flag]struct{}, len(flags))
	out := make([]string, 0, len(flags))
	for _, f := range flags {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// String implements fmt.Stringer for log payloads.
func (r *Result) String() string {
	return fmt.Sprintf("score=%d decision=%s flags=%d", r.RiskScore, r.Decision, len(r.Flags))
}

package checks

import (
	"context"
	"log/slog"

	"validator-engine/internal/domain/check"
	"validator-engine/internal/domain/ruleset"
	"validator-engine/internal/domain/submission"
)

// Average ELA score above this marks the submission as tampered.
const elaTamperedThreshold = 500.0

// Tampering runs error-level analysis over each image via the analyzer
// collaborator and averages the scores. Per-item failures are skipped, like
// every other media-touching check.
type Tampering struct {
	Fetcher  MediaFetcher
	Analyzer TamperAnalyzer
	Log      *slog.Logger
}

func (c Tampering) Run(ctx context.Context, sub *submission.Submission, _ *ruleset.RuleSet) check.Result {
	res := check.NewResult()

	var scores []float64
	for _, m := range sub.Images() {
		score, err := c.scoreOne(ctx, m)
		if err != nil {
			c.Log.Warn("ela check: analysis failed",
				slog.String("file_key", m.FileKey), slog.Any("error", err))
			continue
		}
		scores = append(scores, score)
	}

	avg := 0.0
	if len(scores) > 0 {
		for _, s := range scores {
			avg += s
		}
		avg /= float64(len(scores))
	}
	res.SetFeature(check.FeatELAAvgScore, avg)

	if avg > elaTamperedThreshold {
		res.AddFlag(check.FlagELATampered)
	}
	return res
}

func (c Tampering) scoreOne(ctx context.Context, m submission.MediaItem) (float64, error) {
	path, cleanup, err := c.Fetcher.Fetch(ctx, m.FileKey)
	if err != nil {
		return 0, err
	}
	defer cleanup()
	return c.Analyzer.Score(ctx, path)
}

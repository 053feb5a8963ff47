package checks

import (
	"context"

	"validator-engine/internal/domain/check"
	"validator-engine/internal/domain/ruleset"
	"validator-engine/internal/domain/submission"
)

// MediaRequirements counts evidence by kind against the tenant minimums.
// LOW_MEDIA_COUNT is a hard-fail flag downstream.
type MediaRequirements struct{}

func (MediaRequirements) Run(_ context.Context, sub *submission.Submission, rules *ruleset.RuleSet) check.Result {
	res := check.NewResult()

	imageCount := len(sub.Images())
	res.SetFeature(check.FeatImageCount, imageCount)
	if rules.Media.MinPhotos != nil && imageCount < *rules.Media.MinPhotos {
		res.AddFlag(check.FlagLowMediaCount)
	}

	videoPresent := false
	for _, m := range sub.Media {
		if m.Type == submission.TypeVideo {
			videoPresent = true
			break
		}
	}
	res.SetFeature(check.FeatVideoPresent, videoPresent)

	// Video duration is measured client-side; here only presence is checked
	// when a minimum duration is configured.
	if rules.Media.MinVideoSeconds != nil && *rules.Media.MinVideoSeconds > 0 && !videoPresent {
		res.AddFlag(check.FlagVideoMissing)
	}
	return res
}

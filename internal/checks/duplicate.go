package checks

import (
	"context"
	"log/slog"

	"validator-engine/internal/domain/check"
	"validator-engine/internal/domain/ruleset"
	"validator-engine/internal/domain/submission"
)

// Duplicate hashes each image perceptually and compares it against the
// shared hash store; a match within the configured Hamming distance flags a
// resubmitted/recycled photo. Every processed image's hash is then added to
// the store so later submissions can match against it.
type Duplicate struct {
	Fetcher MediaFetcher
	Hasher  PerceptualHasher
	Store   HashStore
	Log     *slog.Logger
}

type duplicateMatch struct {
	Current string `json:"current"`
	Match   string `json:"match"`
}

func (c Duplicate) Run(ctx context.Context, sub *submission.Submission, rules *ruleset.RuleSet) check.Result {
	res := check.NewResult()
	matches := []duplicateMatch{}
	maxDistance := rules.Fraud.HashDistance()

	for _, m := range sub.Images() {
		hash, err := c.hashOne(ctx, m)
		if err != nil {
			c.Log.Warn("duplicate check: hashing failed",
				slog.String("file_key", m.FileKey), slog.Any("error", err))
			continue
		}

		existing, err := c.Store.Members(ctx)
		if err != nil {
			c.Log.Warn("duplicate check: hash store unavailable", slog.Any("error", err))
			continue
		}
		for _, known := range existing {
			dist, err := c.Hasher.Distance(hash, known)
			if err != nil {
				continue
			}
			if dist <= maxDistance {
				res.AddFlag(check.FlagDuplicateImage)
				matches = append(matches, duplicateMatch{Current: hash, Match: known})
			}
		}

		if err := c.Store.Add(ctx, hash); err != nil {
			c.Log.Warn("duplicate check: storing hash failed", slog.Any("error", err))
		}
	}

	res.SetFeature(check.FeatDuplicateMatches, matches)
	return res
}

func (c Duplicate) hashOne(ctx context.Context, m submission.MediaItem) (string, error) {
	path, cleanup, err := c.Fetcher.Fetch(ctx, m.FileKey)
	if err != nil {
		return "", err
	}
	defer cleanup()
	return c.Hasher.Hash(ctx, path)
}

package checks

import (
	"context"
	"log/slog"
	"math"
	"strings"

	"validator-engine/internal/domain/check"
	"validator-engine/internal/domain/ruleset"
	"validator-engine/internal/domain/submission"
)

// AssetClassifier sends the first image to the label classifier collaborator
// and matches the returned labels against the tenant's allowed asset types.
// Backend failures degrade to CLASSIFIER_ERROR plus a diagnostic feature.
type AssetClassifier struct {
	Fetcher    MediaFetcher
	Classifier LabelClassifier
	Log        *slog.Logger
}

func (c AssetClassifier) Run(ctx context.Context, sub *submission.Submission, rules *ruleset.RuleSet) check.Result {
	res := check.NewResult()

	images := sub.Images()
	if len(images) == 0 {
		res.AddFlag(check.FlagNoImage)
		return res
	}

	labels, err := c.classifyFirst(ctx, images[0])
	if err != nil {
		c.Log.Warn("asset classifier backend failed",
			slog.String("file_key", images[0].FileKey), slog.Any("error", err))
		res.AddFlag(check.FlagClassifierError)
		res.SetFeature(check.FeatClassifierError, err.Error())
		return res
	}
	if len(labels) == 0 {
		res.AddFlag(check.FlagClassifierError)
		return res
	}

	names := make([]string, len(labels))
	best := labels[0]
	for i, l := range labels {
		names[i] = l.Name
		if l.Confidence > best.Confidence {
			best = l
		}
	}
	res.SetFeature(check.FeatClassifierLabels, names)
	res.SetFeature(check.FeatClassifierBest, strings.ToUpper(best.Name))
	res.SetFeature(check.FeatClassifierConf, math.Round(best.Confidence*10000)/10000)

	// An allowed asset matches when its name is contained in any returned
	// label, case-insensitive.
	var matched []string
	for _, asset := range rules.Asset.AllowedAssetTypes {
		assetUpper := strings.ToUpper(asset)
		for _, l := range labels {
			if strings.Contains(strings.ToUpper(l.Name), assetUpper) {
				matched = append(matched, assetUpper)
				break
			}
		}
	}
	if len(matched) == 0 {
		res.AddFlag(check.FlagUnknownAsset)
	} else {
		res.SetFeature(check.FeatAssetMatches, matched)
	}

	if best.Confidence < rules.Asset.Confidence() {
		res.AddFlag(check.FlagLowConfidence)
	}
	return res
}

func (c AssetClassifier) classifyFirst(ctx context.Context, m submission.MediaItem) ([]Label, error) {
	path, cleanup, err := c.Fetcher.Fetch(ctx, m.FileKey)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	return c.Classifier.Labels(ctx, path)
}

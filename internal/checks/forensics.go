package checks

import (
	"context"
	"log/slog"

	"validator-engine/internal/domain/check"
	"validator-engine/internal/domain/ruleset"
	"validator-engine/internal/domain/submission"
)

// Aspect ratios outside this band look like screen captures rather than
// camera photos.
const (
	screenshotMaxAspect = 2.2
	screenshotMinAspect = 0.4
)

// Forensics measures image quality (blur variance, resolution) through the
// estimator collaborator and combines it with the client's screenshot and
// printed-photo hints. Unreadable or unreachable images are logged and
// skipped.
type Forensics struct {
	Fetcher   MediaFetcher
	Estimator QualityEstimator
	Log       *slog.Logger
}

func (c Forensics) Run(ctx context.Context, sub *submission.Submission, rules *ruleset.RuleSet) check.Result {
	res := check.NewResult()

	var blurValues []float64
	resolutions := [][]int{}
	screenshotCount := 0
	printedCount := 0

	for _, m := range sub.Images() {
		stats, err := c.measureOne(ctx, m)
		if err != nil {
			c.Log.Warn("forensics: image unreadable",
				slog.String("file_key", m.FileKey), slog.Any("error", err))
		} else {
			blurValues = append(blurValues, stats.BlurVariance)
			resolutions = append(resolutions, []int{stats.Width, stats.Height})

			aspect := float64(stats.Width) / float64(stats.Height)
			if aspect > screenshotMaxAspect || aspect < screenshotMinAspect {
				screenshotCount++
			}
			if stats.Width < rules.Quality.MinWidth() || stats.Height < rules.Quality.MinHeight() {
				screenshotCount++
			}
		}

		if m.IsScreenshot != nil && *m.IsScreenshot {
			screenshotCount++
		}
		if m.IsPrintedPhotoSuspect != nil && *m.IsPrintedPhotoSuspect {
			printedCount++
		}
	}

	var avgBlur any
	if len(blurValues) > 0 {
		sum := 0.0
		for _, v := range blurValues {
			sum += v
		}
		avg := sum / float64(len(blurValues))
		avgBlur = avg
		if avg < rules.Quality.BlurThreshold() {
			res.AddFlag(check.FlagLowQuality)
		}
	}

	res.SetFeature(check.FeatAvgBlurVariance, avgBlur)
	res.SetFeature(check.FeatImageResolutions, resolutions)
	res.SetFeature(check.FeatScreenshotCount, screenshotCount)
	res.SetFeature(check.FeatPrintedCount, printedCount)

	if rules.Quality.ScreenshotsRejected() && screenshotCount > 0 {
		res.AddFlag(check.FlagScreenshotDetected)
	}
	if rules.Quality.PrintedPhotosRejected() && printedCount > 0 {
		res.AddFlag(check.FlagPrintedPhoto)
	}
	return res
}

func (c Forensics) measureOne(ctx context.Context, m submission.MediaItem) (ImageStats, error) {
	path, cleanup, err := c.Fetcher.Fetch(ctx, m.FileKey)
	if err != nil {
		return ImageStats{}, err
	}
	defer cleanup()
	return c.Estimator.Measure(ctx, path)
}

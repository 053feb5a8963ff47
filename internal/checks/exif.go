package checks

import (
	"context"
	"log/slog"
	"strings"

	"validator-engine/internal/domain/check"
	"validator-engine/internal/domain/ruleset"
	"validator-engine/internal/domain/submission"
)

// editingSoftware are EXIF Software values that indicate post-capture
// editing; their presence is a tamper signal.
var editingSoftware = []string{"photoshop", "gimp", "lightroom", "snapseed", "picsart"}

// sparseTagThreshold: images below this tag count are flagged as suspicious
// in the per-item detail (stripped EXIF often means a re-saved image).
const sparseTagThreshold = 10

// ExifExtraction pulls detailed EXIF data out of each image through the
// reader collaborator. Per-item failures degrade into an error record inside
// the exif_details feature; the check itself never fails.
type ExifExtraction struct {
	Fetcher MediaFetcher
	Reader  ExifReader
	Log     *slog.Logger
}

func (c ExifExtraction) Run(ctx context.Context, sub *submission.Submission, _ *ruleset.RuleSet) check.Result {
	res := check.NewResult()
	details := []ExifData{}

	for _, m := range sub.Images() {
		data, err := c.extractOne(ctx, m)
		if err != nil {
			c.Log.Warn("exif extraction failed",
				slog.String("file_key", m.FileKey), slog.Any("error", err))
			details = append(details, ExifData{FileKey: m.FileKey, Error: err.Error()})
			continue
		}
		if data.Software != nil {
			sw := strings.ToLower(*data.Software)
			for _, name := range editingSoftware {
				if strings.Contains(sw, name) {
					res.AddFlag(check.FlagExifEditingSoftware)
					break
				}
			}
		}
		data.SuspiciouslySparse = data.TagCount < sparseTagThreshold
		details = append(details, data)
	}

	res.SetFeature(check.FeatExifDetails, details)
	return res
}

func (c ExifExtraction) extractOne(ctx context.Context, m submission.MediaItem) (ExifData, error) {
	path, cleanup, err := c.Fetcher.Fetch(ctx, m.FileKey)
	if err != nil {
		return ExifData{}, err
	}
	defer cleanup()

	data, err := c.Reader.Extract(ctx, path)
	if err != nil {
		return ExifData{}, err
	}
	data.FileKey = m.FileKey
	return data, nil
}

// ExifHints evaluates the client-supplied EXIF presence hints without
// touching media bytes.
type ExifHints struct{}

func (ExifHints) Run(_ context.Context, sub *submission.Submission, rules *ruleset.RuleSet) check.Result {
	res := check.NewResult()
	anyExif := false
	anyGPS := false

	for _, m := range sub.Media {
		if !strings.Contains(m.MimeType, "image") {
			continue
		}
		if m.HasExif != nil && *m.HasExif {
			anyExif = true
		}
		if m.HasGPSExif != nil && *m.HasGPSExif {
			anyGPS = true
		}
	}

	res.SetFeature(check.FeatExifAnyPresent, anyExif)
	res.SetFeature(check.FeatExifAnyGPSPresent, anyGPS)

	if !anyExif {
		res.AddFlag(check.FlagExifMissing)
	}
	if rules.GPS.RequireExifGPS && !anyGPS {
		res.AddFlag(check.FlagExifGPSMissing)
	}
	return res
}

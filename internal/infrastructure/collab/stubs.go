// Package collab provides stub implementations of the media-analysis
// collaborators for development and unconfigured deployments. In production
// each stub is replaced by a real backend (EXIF parser sidecar, pHash
// service, CV quality estimator, label-detection API, OCR service); the
// pipeline only sees the interfaces in internal/checks.
package collab

import (
	"context"
	"log/slog"

	"validator-engine/internal/checks"
)

// StubExifReader reports media as EXIF-less. The hint-based EXIF check still
// runs on client-supplied hints, so a stubbed deployment degrades gracefully
// instead of inventing camera data.
type StubExifReader struct{ Log *slog.Logger }

func (r StubExifReader) Extract(_ context.Context, localPath string) (checks.ExifData, error) {
	r.Log.Debug("stub exif reader invoked", slog.String("path", localPath))
	return checks.ExifData{HasExif: false, TagCount: 0}, nil
}

// StubQualityEstimator returns a fixed sharp, full-HD measurement.
type StubQualityEstimator struct{ Log *slog.Logger }

func (e StubQualityEstimator) Measure(_ context.Context, localPath string) (checks.ImageStats, error) {
	e.Log.Debug("stub quality estimator invoked", slog.String("path", localPath))
	return checks.ImageStats{Width: 1920, Height: 1080, BlurVariance: 900}, nil
}

// StubHasher hashes the file path bytes positionally; distances are Hamming
// over hex digits. Deterministic, so identical references collide — which is
// exactly what a duplicate resubmission looks like.
type StubHasher struct{ Log *slog.Logger }

func (h StubHasher) Hash(_ context.Context, localPath string) (string, error) {
	const width = 16
	sum := make([]byte, width)
	for i, b := range []byte(localPath) {
		sum[i%width] ^= b
	}
	const hexdigits = "0123456789abcdef"
	out := make([]byte, width)
	for i, b := range sum {
		out[i] = hexdigits[int(b)%16]
	}
	return string(out), nil
}

func (h StubHasher) Distance(a, b string) (int, error) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	d := 0
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			d++
		}
	}
	d += len(a) + len(b) - 2*n
	return d, nil
}

// StubTamperAnalyzer scores every image as untampered.
type StubTamperAnalyzer struct{ Log *slog.Logger }

func (a StubTamperAnalyzer) Score(_ context.Context, localPath string) (float64, error) {
	a.Log.Debug("stub tamper analyzer invoked", slog.String("path", localPath))
	return 0, nil
}

// StubClassifier returns no labels, which the classifier check surfaces as
// CLASSIFIER_ERROR — an unconfigured classifier must not auto-approve
// assets.
type StubClassifier struct{ Log *slog.Logger }

func (c StubClassifier) Labels(_ context.Context, localPath string) ([]checks.Label, error) {
	c.Log.Debug("stub classifier invoked", slog.String("path", localPath))
	return nil, nil
}

// StubTextReader reads no text.
type StubTextReader struct{ Log *slog.Logger }

func (r StubTextReader) ReadText(_ context.Context, localPath string) (string, error) {
	r.Log.Debug("stub text reader invoked", slog.String("path", localPath))
	return "", nil
}

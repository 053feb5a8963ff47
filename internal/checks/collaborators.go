// Package checks holds the pipeline's built-in checks. Each check is a small
// struct over its collaborators with a uniform Run signature; image parsing,
// hashing, quality estimation, classification, and OCR are delegated to the
// collaborator interfaces below and only orchestrated here.
package checks

import "context"

// MediaFetcher resolves a media item's fileKey (a storage key or a full,
// possibly presigned, URL) to a local file. The caller must invoke cleanup
// once done with the handle.
type MediaFetcher interface {
	Fetch(ctx context.Context, fileKey string) (localPath string, cleanup func(), err error)
}

// ExifData is the per-image output of the EXIF reader collaborator.
type ExifData struct {
	FileKey            string   `json:"fileKey"`
	DateTimeOriginal   *string  `json:"datetime_original"`
	GPSLatitude        *float64 `json:"gps_latitude"`
	GPSLongitude       *float64 `json:"gps_longitude"`
	Software           *string  `json:"software"`
	CameraMake         *string  `json:"camera_make"`
	CameraModel        *string  `json:"camera_model"`
	HasExif            bool     `json:"has_exif"`
	TagCount           int      `json:"exif_tags_count"`
	SuspiciouslySparse bool     `json:"exif_suspiciously_sparse"`
	Error              string   `json:"error,omitempty"`
}

type ExifReader interface {
	Extract(ctx context.Context, localPath string) (ExifData, error)
}

// ImageStats carries what the quality estimator measures on one image.
type ImageStats struct {
	Width        int
	Height       int
	BlurVariance float64
}

type QualityEstimator interface {
	Measure(ctx context.Context, localPath string) (ImageStats, error)
}

// PerceptualHasher computes a perceptual hash for an image and the Hamming
// distance between two hashes.
type PerceptualHasher interface {
	Hash(ctx context.Context, localPath string) (string, error)
	Distance(a, b string) (int, error)
}

// HashStore is the shared store of previously seen perceptual hashes.
type HashStore interface {
	Members(ctx context.Context) ([]string, error)
	Add(ctx context.Context, hash string) error
}

// TamperAnalyzer scores one image for recompression artifacts (ELA).
type TamperAnalyzer interface {
	Score(ctx context.Context, localPath string) (float64, error)
}

// Label is one classifier prediction; Confidence is in [0, 1].
type Label struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

type LabelClassifier interface {
	Labels(ctx context.Context, localPath string) ([]Label, error)
}

// TextReader extracts raw text from a document image (OCR).
type TextReader interface {
	ReadText(ctx context.Context, localPath string) (string, error)
}

// DistanceFunc returns the distance in kilometers between two coordinates.
type DistanceFunc func(lat1, lng1, lat2, lng2 float64) float64

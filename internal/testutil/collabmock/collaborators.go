// Package collabmock holds function-backed mocks for the media-analysis
// collaborator interfaces. Only set the funcs a test needs; unset funcs
// return benign defaults.
package collabmock

import (
	"context"
	"errors"

	"validator-engine/internal/checks"
)

var errNotImplemented = errors.New("not implemented")

// Fetcher satisfies checks.MediaFetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, fileKey string) (string, func(), error)
}

func (m *Fetcher) Fetch(ctx context.Context, fileKey string) (string, func(), error) {
	if m.FetchFn != nil {
		return m.FetchFn(ctx, fileKey)
	}
	// Default: pretend the key itself is a local path.
	return fileKey, func() {}, nil
}

// ExifReader satisfies checks.ExifReader.
type ExifReader struct {
	ExtractFn func(ctx context.Context, localPath string) (checks.ExifData, error)
}

func (m *ExifReader) Extract(ctx context.Context, localPath string) (checks.ExifData, error) {
	if m.ExtractFn != nil {
		return m.ExtractFn(ctx, localPath)
	}
	return checks.ExifData{}, errNotImplemented
}

// Estimator satisfies checks.QualityEstimator.
type Estimator struct {
	MeasureFn func(ctx context.Context, localPath string) (checks.ImageStats, error)
}

func (m *Estimator) Measure(ctx context.Context, localPath string) (checks.ImageStats, error) {
	if m.MeasureFn != nil {
		return m.MeasureFn(ctx, localPath)
	}
	return checks.ImageStats{}, errNotImplemented
}

// Hasher satisfies checks.PerceptualHasher.
type Hasher struct {
	HashFn     func(ctx context.Context, localPath string) (string, error)
	DistanceFn func(a, b string) (int, error)
}

func (m *Hasher) Hash(ctx context.Context, localPath string) (string, error) {
	if m.HashFn != nil {
		return m.HashFn(ctx, localPath)
	}
	return "", errNotImplemented
}

func (m *Hasher) Distance(a, b string) (int, error) {
	if m.DistanceFn != nil {
		return m.DistanceFn(a, b)
	}
	// Default: Hamming over bytes.
	if len(a) != len(b) {
		return len(a) + len(b), nil
	}
	d := 0
	for i := range a {
		if a[i] != b[i] {
			d++
		}
	}
	return d, nil
}

// HashStore satisfies checks.HashStore with an in-memory slice.
type HashStore struct {
	MembersFn func(ctx context.Context) ([]string, error)
	AddFn     func(ctx context.Context, hash string) error

	Hashes []string
}

func (m *HashStore) Members(ctx context.Context) ([]string, error) {
	if m.MembersFn != nil {
		return m.MembersFn(ctx)
	}
	return m.Hashes, nil
}

func (m *HashStore) Add(ctx context.Context, hash string) error {
	if m.AddFn != nil {
		return m.AddFn(ctx, hash)
	}
	m.Hashes = append(m.Hashes, hash)
	return nil
}

// Analyzer satisfies checks.TamperAnalyzer.
type Analyzer struct {
	ScoreFn func(ctx context.Context, localPath string) (float64, error)
}

func (m *Analyzer) Score(ctx context.Context, localPath string) (float64, error) {
	if m.ScoreFn != nil {
		return m.ScoreFn(ctx, localPath)
	}
	return 0, nil
}

// Classifier satisfies checks.LabelClassifier.
type Classifier struct {
	LabelsFn func(ctx context.Context, localPath string) ([]checks.Label, error)
}

func (m *Classifier) Labels(ctx context.Context, localPath string) ([]checks.Label, error) {
	if m.LabelsFn != nil {
		return m.LabelsFn(ctx, localPath)
	}
	return nil, errNotImplemented
}

// TextReader satisfies checks.TextReader.
type TextReader struct {
	ReadTextFn func(ctx context.Context, localPath string) (string, error)
}

func (m *TextReader) ReadText(ctx context.Context, localPath string) (string, error) {
	if m.ReadTextFn != nil {
		return m.ReadTextFn(ctx, localPath)
	}
	return "", errNotImplemented
}

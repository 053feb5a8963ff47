// Package storage resolves media references to local files. A reference is
// either a full URL (plain or presigned) downloaded over HTTP, or a bare
// storage key resolved against the configured bucket base URL. Fetched files
// land in a temp directory; the returned cleanup removes them.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"validator-engine/pkg/id"
)

const tempDir = "validation_engine"

// ErrNoBucket is returned when a bare key arrives but no bucket base URL is
// configured.
var ErrNoBucket = errors.New("storage: bare file key given but no bucket base URL configured")

type HTTPFetcher struct {
	bucketBaseURL string
	client        *http.Client
}

func NewHTTPFetcher(bucketBaseURL string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		bucketBaseURL: strings.TrimRight(bucketBaseURL, "/"),
		client:        &http.Client{Timeout: timeout},
	}
}

// Fetch downloads the referenced object to a temp file. The caller owns the
// handle and must call cleanup when done; cleanup is always safe to call.
func (f *HTTPFetcher) Fetch(ctx context.Context, fileKey string) (string, func(), error) {
	noop := func() {}

	target, err := f.resolve(fileKey)
	if err != nil {
		return "", noop, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", noop, fmt.Errorf("storage: build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", noop, fmt.Errorf("storage: fetch %s: %w", fileKey, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", noop, fmt.Errorf("storage: fetch %s: status %d", fileKey, resp.StatusCode)
	}

	localPath, err := makeTempPath(target)
	if err != nil {
		return "", noop, err
	}
	out, err := os.Create(localPath)
	if err != nil {
		return "", noop, fmt.Errorf("storage: create temp file: %w", err)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		_ = os.Remove(localPath)
		return "", noop, fmt.Errorf("storage: write temp file: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(localPath)
		return "", noop, err
	}

	return localPath, func() { _ = os.Remove(localPath) }, nil
}

func (f *HTTPFetcher) resolve(fileKey string) (string, error) {
	if strings.HasPrefix(fileKey, "http://") || strings.HasPrefix(fileKey, "https://") {
		return fileKey, nil
	}
	if f.bucketBaseURL == "" {
		return "", ErrNoBucket
	}
	return f.bucketBaseURL + "/" + strings.TrimLeft(fileKey, "/"), nil
}

// makeTempPath derives a unique local name from the object's base name,
// query string stripped.
func makeTempPath(target string) (string, error) {
	dir := filepath.Join(os.TempDir(), tempDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("storage: temp dir: %w", err)
	}
	name := "file"
	if u, err := url.Parse(target); err == nil {
		if base := path.Base(u.Path); base != "" && base != "/" && base != "." {
			name = base
		}
	}
	return filepath.Join(dir, id.NewID32()+"_"+name), nil
}

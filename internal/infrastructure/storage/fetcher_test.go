package storage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"
)

func TestFetch_FullURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher("", 5*time.Second)
	localPath, cleanup, err := f.Fetch(context.Background(), srv.URL+"/photos/asset.jpg")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	defer cleanup()

	data, err := os.ReadFile(localPath)
	if err != nil {
		t.Fatalf("read temp file: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Fatalf("temp file content = %q", data)
	}
	if !strings.HasSuffix(localPath, "_asset.jpg") {
		t.Fatalf("temp name %q should keep the object base name", localPath)
	}
}

func TestFetch_BareKeyAgainstBucket(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte("data"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(srv.URL+"/", 5*time.Second)
	_, cleanup, err := f.Fetch(context.Background(), "submissions/665f/asset.jpg")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	defer cleanup()

	if gotPath != "/submissions/665f/asset.jpg" {
		t.Fatalf("requested path = %s", gotPath)
	}
}

func TestFetch_BareKeyWithoutBucket(t *testing.T) {
	f := NewHTTPFetcher("", time.Second)
	_, _, err := f.Fetch(context.Background(), "submissions/665f/asset.jpg")
	if !errors.Is(err, ErrNoBucket) {
		t.Fatalf("err = %v, want ErrNoBucket", err)
	}
}

func TestFetch_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewHTTPFetcher("", 5*time.Second)
	_, _, err := f.Fetch(context.Background(), srv.URL+"/missing.jpg")
	if err == nil || !strings.Contains(err.Error(), "status 404") {
		t.Fatalf("err = %v, want status 404 failure", err)
	}
}

func TestFetch_CleanupRemovesFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("data"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher("", 5*time.Second)
	localPath, cleanup, err := f.Fetch(context.Background(), srv.URL+"/asset.jpg")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	cleanup()
	if _, err := os.Stat(localPath); !os.IsNotExist(err) {
		t.Fatalf("temp file still present after cleanup: %v", err)
	}
	cleanup() // safe to call twice
}

func TestFetch_PresignedQueryStripped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("data"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher("", 5*time.Second)
	localPath, cleanup, err := f.Fetch(context.Background(), srv.URL+"/asset.jpg?X-Amz-Signature=abc123")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	defer cleanup()

	if strings.Contains(localPath, "X-Amz-Signature") {
		t.Fatalf("temp name %q leaked the query string", localPath)
	}
}

func TestFetch_UniqueTempNamesForSameObject(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("data"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher("", 5*time.Second)
	p1, c1, err := f.Fetch(context.Background(), srv.URL+"/asset.jpg")
	if err != nil {
		t.Fatalf("Fetch 1: %v", err)
	}
	defer c1()
	p2, c2, err := f.Fetch(context.Background(), srv.URL+"/asset.jpg")
	if err != nil {
		t.Fatalf("Fetch 2: %v", err)
	}
	defer c2()

	if p1 == p2 {
		t.Fatalf("same temp path for two fetches: %s", p1)
	}
}

// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package fetcher

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func makeZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("failed to create zip entry: %v", err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write zip entry: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func makeTarGz(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, content := range files {
		hdr := &tar.Header{Name: name, Mode: 0644, Size: int64(len(content))}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("failed to write tar header: %v", err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatalf("failed to write tar entry: %v", err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("failed to close tar: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("failed to close gzip: %v", err)
	}
	return buf.Bytes()
}

func serve(t *testing.T, payload []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func requireFile(t *testing.T, path, want string) {
	t.Helper()
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected extracted file %s: %v", path, err)
	}
	if string(got) != want {
		t.Errorf("File %s content mismatch. Expected: %q, Got: %q", path, want, got)
	}
}

func TestFetchArchive_Zip(t *testing.T) {
	payload := makeZip(t, map[string]string{
		"docs/a.txt": "alpha",
		"b.txt":      "beta",
	})
	srv := serve(t, payload)
	out := t.TempDir()

	fetched, err := FetchArchive(context.Background(), srv.URL+"/data.zip", out)
	if err != nil {
		t.Fatalf("FetchArchive failed: %v", err)
	}
	if !fetched {
		t.Fatalf("Expected fetch to happen")
	}
	requireFile(t, filepath.Join(out, "docs", "a.txt"), "alpha")
	requireFile(t, filepath.Join(out, "b.txt"), "beta")
}

func TestFetchArchive_TarGz(t *testing.T) {
	payload := makeTarGz(t, map[string]string{"nested/c.txt": "gamma"})
	srv := serve(t, payload)
	out := t.TempDir()

	fetched, err := FetchArchive(context.Background(), srv.URL+"/data.tar.gz", out)
	if err != nil {
		t.Fatalf("FetchArchive failed: %v", err)
	}
	if !fetched {
		t.Fatalf("Expected fetch to happen")
	}
	requireFile(t, filepath.Join(out, "nested", "c.txt"), "gamma")
}

func TestFetchArchive_Gz(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	gz.Write([]byte(`{"data": []}`))
	gz.Close()
	srv := serve(t, buf.Bytes())
	out := t.TempDir()

	fetched, err := FetchArchive(context.Background(), srv.URL+"/squad.json.gz", out)
	if err != nil {
		t.Fatalf("FetchArchive failed: %v", err)
	}
	if !fetched {
		t.Fatalf("Expected fetch to happen")
	}
	requireFile(t, filepath.Join(out, "squad.json"), `{"data": []}`)
}

func TestFetchArchive_SkipsNonEmptyDir(t *testing.T) {
	srv := serve(t, []byte("should never be requested"))
	out := t.TempDir()
	if err := os.WriteFile(filepath.Join(out, "existing.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("failed to seed output dir: %v", err)
	}

	fetched, err := FetchArchive(context.Background(), srv.URL+"/data.zip", out)
	if err != nil {
		t.Fatalf("FetchArchive failed: %v", err)
	}
	if fetched {
		t.Errorf("Expected fetch to be skipped for non-empty directory")
	}
}

func TestFetchArchive_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	_, err := FetchArchive(context.Background(), srv.URL+"/missing.zip", t.TempDir())
	if err == nil {
		t.Errorf("Expected error for 404 response")
	}
}

func TestExtractZip_RejectsTraversal(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("../evil.txt")
	if err != nil {
		t.Fatalf("failed to create zip entry: %v", err)
	}
	f.Write([]byte("nope"))
	w.Close()

	tmp := filepath.Join(t.TempDir(), "evil.zip")
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		t.Fatalf("failed to write archive: %v", err)
	}

	if err := extractZip(tmp, t.TempDir()); err == nil {
		t.Errorf("Expected traversal entry to be rejected")
	}
}

// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package fetcher downloads remote dataset archives and extracts them
// into a local directory.
package fetcher

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ulikunitz/xz"

	"github.com/docprep/internal/logger"
)

var httpClient = &http.Client{Timeout: 10 * time.Minute}

// FetchArchive fetches an archive (zip, tar.gz, tar.xz or gz) from url
// and extracts its content into outputDir. If outputDir already contains
// files nothing is fetched and false is returned; delete the directory
// first to force a refetch.
func FetchArchive(ctx context.Context, url, outputDir string) (bool, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return false, fmt.Errorf("failed to create output directory: %w", err)
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return false, fmt.Errorf("failed to read output directory: %w", err)
	}
	if len(entries) > 0 {
		logger.Printf("found data stored in %s; delete this first if you really want to fetch new data", outputDir)
		return false, nil
	}

	logger.Printf("fetching from %s to %s", url, outputDir)

	tmp, err := download(ctx, url)
	if err != nil {
		return false, err
	}
	defer os.Remove(tmp)

	switch {
	case strings.HasSuffix(url, ".zip"):
		err = extractZip(tmp, outputDir)
	case strings.HasSuffix(url, ".tar.gz") || strings.HasSuffix(url, ".tgz"):
		err = extractTarGz(tmp, outputDir)
	case strings.HasSuffix(url, ".tar.xz"):
		err = extractTarXz(tmp, outputDir)
	case strings.HasSuffix(url, ".gz"):
		err = extractGz(tmp, outputDir, url)
	default:
		logger.Warnf("skipped url %s as file type is not supported here", url)
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// download saves the response body to a temporary file and returns its path.
func download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch %s: status %s", url, resp.Status)
	}

	tmp, err := os.CreateTemp("", "docprep-archive-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("failed to download %s: %w", url, err)
	}
	return tmp.Name(), nil
}

func extractZip(archivePath, outputDir string) error {
	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open zip archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		target, err := safeJoin(outputDir, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("failed to open zip entry %s: %w", f.Name, err)
		}
		err = writeFile(target, rc)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func extractTarGz(archivePath, outputDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("failed to open gzip stream: %w", err)
	}
	defer gz.Close()

	return extractTar(tar.NewReader(gz), outputDir)
}

func extractTarXz(archivePath, outputDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	xzr, err := xz.NewReader(f)
	if err != nil {
		return fmt.Errorf("failed to open xz stream: %w", err)
	}
	return extractTar(tar.NewReader(xzr), outputDir)
}

func extractTar(tr *tar.Reader, outputDir string) error {
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read tar archive: %w", err)
		}

		target, err := safeJoin(outputDir, hdr.Name)
		if err != nil {
			return err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
			if err := writeFile(target, tr); err != nil {
				return err
			}
		default:
			// Symlinks and special files are not extracted.
			logger.Warnf("skipping tar entry %s (type %d)", hdr.Name, hdr.Typeflag)
		}
	}
}

// extractGz decompresses a bare gzipped file; the output name is the url
// basename without the .gz suffix.
func extractGz(archivePath, outputDir, url string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("failed to open gzip stream: %w", err)
	}
	defer gz.Close()

	name := strings.TrimSuffix(filepath.Base(url), ".gz")
	target, err := safeJoin(outputDir, name)
	if err != nil {
		return err
	}
	return writeFile(target, gz)
}

func writeFile(target string, r io.Reader) error {
	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return fmt.Errorf("failed to write %s: %w", target, err)
	}
	return nil
}

// safeJoin joins an archive member name onto dir, rejecting names that
// would escape the output directory.
func safeJoin(dir, name string) (string, error) {
	target := filepath.Join(dir, name)
	if !strings.HasPrefix(target, filepath.Clean(dir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry %s escapes output directory", name)
	}
	return target, nil
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pdiddy/litrec/internal/httputil"
	"github.com/pdiddy/litrec/pkg/types"
)

const rawDir = "raw"

// RawFile names one raw snapshot file and where to download it from.
type RawFile struct {
	Name string
	URL  string
}

// FetchSummary holds counts from a raw-file fetch run.
type FetchSummary struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// HasFailures reports whether any downloads failed.
func (s FetchSummary) HasFailures() bool {
	return s.Failed > 0
}

// Fetch downloads the raw snapshot files into dataDir/raw/, skipping
// files that already exist on disk. Failures are reported per file;
// the run continues so one bad mirror does not lose the rest.
func Fetch(ctx context.Context, client *http.Client, files []RawFile, cfg types.CorpusConfig, w io.Writer) (FetchSummary, error) {
	dir := filepath.Join(cfg.DataDir, rawDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return FetchSummary{}, fmt.Errorf("creating raw directory: %w", err)
	}

	var summary FetchSummary
	for _, file := range files {
		path := filepath.Join(dir, file.Name)
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(w, "skipped %s (already exists)\n", file.Name)
			summary.Skipped++
			continue
		}

		if err := download(ctx, client, file.URL, path, cfg.UserAgent); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", file.Name, err)
			summary.Failed++
			continue
		}
		fmt.Fprintf(w, "downloaded %s\n", file.Name)
		summary.Downloaded++
	}
	return summary, nil
}

// download streams url into path via a temporary file so partial
// downloads never masquerade as complete snapshots.
func download(ctx context.Context, client *http.Client, url, path, userAgent string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, 0)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	tmp := path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating %s: %w", tmp, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing %s: %w", tmp, err)
	}
	return os.Rename(tmp, path)
}

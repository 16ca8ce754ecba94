package links

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/JonMunkholm/bubblemigrate/internal/core"
	"github.com/JonMunkholm/bubblemigrate/internal/logging"
	"github.com/go-resty/resty/v2"
)

// ErrUnsafePath is returned for links whose object path would leave the
// download directory.
var ErrUnsafePath = errors.New("unsafe object path")

// Failure is one file that could not be transferred.
type Failure struct {
	Row    int // Zero-based data row of the first cell holding the link
	Column string
	URL    string
	Err    error
}

// DownloadReport summarizes a download run.
type DownloadReport struct {
	Downloaded int
	Skipped    int // Already on disk
	Failed     int
	Failures   []Failure
}

// link is one distinct bubble.io link and where it was first seen.
type link struct {
	Row    int
	Column string
	URL    string // Normalized
}

// collectLinks returns every distinct bubble.io link of the file columns,
// in row then column order.
func collectLinks(s *core.Sheet) ([]link, error) {
	cols := FileColumns(s)
	if len(cols) == 0 {
		return nil, ErrNoFileColumns
	}

	seen := make(map[string]bool)
	var out []link
	for i, row := range s.Rows {
		for _, col := range cols {
			v := row.Text(col)
			if !IsBubbleURL(v) {
				continue
			}
			u := NormalizeURL(v)
			if seen[u] {
				continue
			}
			seen[u] = true
			out = append(out, link{Row: i, Column: col, URL: u})
		}
	}
	return out, nil
}

// Downloader saves linked files to disk.
type Downloader struct {
	client  *resty.Client
	limiter *Limiter
	workers int
}

// NewDownloader creates a downloader working on up to workers links at once.
// Each fetch also holds a slot of limiter, which may be shared with other
// runs or be nil.
func NewDownloader(client *resty.Client, limiter *Limiter, workers int) *Downloader {
	return &Downloader{client: client, limiter: limiter, workers: workers}
}

type downloadOutcome int

const (
	downloaded downloadOutcome = iota
	skipped
)

// Download fetches every bubble.io file referenced by s into dir, keeping
// the object path as the relative file path. Existing files are skipped.
// Individual failures are reported, not returned.
func (d *Downloader) Download(ctx context.Context, s *core.Sheet, dir string) (*DownloadReport, error) {
	links, err := collectLinks(s)
	if err != nil {
		return nil, err
	}

	log := logging.FromContext(ctx)
	log.Info("download started", slog.Int("files", len(links)), slog.String("dir", dir))

	outcomes := make([]downloadOutcome, len(links))
	errs, runErr := run(ctx, len(links), d.workers, func(ctx context.Context, i int) error {
		var err error
		outcomes[i], err = d.fetch(ctx, links[i].URL, dir)
		return err
	})

	report := &DownloadReport{}
	for i, l := range links {
		switch {
		case errs[i] != nil:
			report.Failed++
			report.Failures = append(report.Failures, Failure{Row: l.Row, Column: l.Column, URL: l.URL, Err: errs[i]})
			log.Warn("download failed", slog.String("url", l.URL), slog.String("error", errs[i].Error()))
		case outcomes[i] == skipped:
			report.Skipped++
		default:
			report.Downloaded++
		}
	}

	log.Info("download finished",
		slog.Int("downloaded", report.Downloaded),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed),
		slotsAttr(d.limiter),
	)

	if runErr != nil {
		return report, fmt.Errorf("download: %w", runErr)
	}
	return report, nil
}

// fetch downloads one link into dir.
func (d *Downloader) fetch(ctx context.Context, u, dir string) (downloadOutcome, error) {
	rel := filepath.FromSlash(ObjectPath(u))
	if !filepath.IsLocal(rel) {
		return 0, fmt.Errorf("%w: %s", ErrUnsafePath, rel)
	}
	target := filepath.Join(dir, rel)

	if _, err := os.Stat(target); err == nil {
		return skipped, nil
	}

	release, err := acquire(ctx, d.limiter)
	if err != nil {
		return 0, err
	}
	defer release()

	resp, err := d.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(u)
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", u, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		msg, _ := io.ReadAll(io.LimitReader(body, 512))
		return 0, &StatusError{Op: "download", Code: resp.StatusCode(), Body: string(msg)}
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return 0, fmt.Errorf("create directory: %w", err)
	}
	if err := writeAtomic(target, body); err != nil {
		return 0, err
	}
	return downloaded, nil
}

// writeAtomic copies r to a temporary file next to target and renames it
// into place, so interrupted runs never leave partial files behind.
func writeAtomic(target string, r io.Reader) error {
	tmp, err := os.CreateTemp(filepath.Dir(target), ".part-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("rename %s: %w", target, err)
	}
	return nil
}

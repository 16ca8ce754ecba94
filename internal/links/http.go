package links

import (
	"context"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"
)

// NewHTTPClient creates the client used to fetch files from bubble.io.
func NewHTTPClient(timeout time.Duration, retryCount int, retryWait time.Duration) *resty.Client {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(retryCount).
		SetRetryWaitTime(retryWait).
		SetRetryMaxWaitTime(10 * retryWait)

	client.AddRetryCondition(retryCondition)
	return client
}

// detectMIME sniffs the content type of a file from its first bytes.
// The stdlib detector runs first; mimetype covers what it reports as
// octet-stream (audio, office documents and more).
func detectMIME(body []byte) string {
	if len(body) == 0 {
		return "application/octet-stream"
	}
	head := body[:min(len(body), 3072)]

	if mt := http.DetectContentType(head); mt != "application/octet-stream" {
		return mt
	}
	return mimetype.Detect(head).String()
}

// fileExt returns the lowercased extension of a link's file name, ignoring
// any query string. When the name has none, the extension is derived from
// the content.
func fileExt(name string, body []byte) string {
	if i := strings.IndexByte(name, '?'); i >= 0 {
		name = name[:i]
	}
	if ext := strings.ToLower(path.Ext(name)); ext != "" {
		return ext
	}
	if len(body) > 0 {
		if ext := mimetype.Detect(body).Extension(); ext != "" {
			return ext
		}
	}
	return ".bin"
}

// run calls fn for indexes 0..n-1 on at most workers goroutines.
// Failures are returned per index; an index that never ran because ctx
// ended first fails with the context error. The error result is set only
// when ctx ends the run early.
func run(ctx context.Context, n, workers int, fn func(ctx context.Context, i int) error) ([]error, error) {
	errs := make([]error, n)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for i := 0; i < n; i++ {
		if err := gctx.Err(); err != nil {
			for j := i; j < n; j++ {
				errs[j] = err
			}
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			errs[i] = fn(gctx, i)
			return nil
		})
	}

	g.Wait()
	return errs, ctx.Err()
}

// acquire takes a transfer slot from l and returns its release func.
// A nil limiter never blocks.
func acquire(ctx context.Context, l *Limiter) (func(), error) {
	if l == nil {
		return func() {}, nil
	}
	if err := l.Acquire(ctx); err != nil {
		return nil, err
	}
	return l.Release, nil
}

// slotsAttr describes limiter usage for the end-of-run log line.
func slotsAttr(l *Limiter) slog.Attr {
	if l == nil {
		return slog.Attr{}
	}
	st := l.Status()
	return slog.Group("slots",
		slog.Int("max", st.MaxConcurrent),
		slog.Int("active", st.Active),
		slog.Int64("total", st.Total),
	)
}

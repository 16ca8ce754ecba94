// Package links finds bubble.io file links in exported tables and moves the
// files they point to: rewriting links to a mirror, downloading files to
// disk, or migrating them into object storage.
package links

import (
	"errors"
	"net/url"
	"strings"

	"github.com/JonMunkholm/bubblemigrate/internal/core"
)

// ErrNoFileColumns is returned when a sheet holds no bubble.io links.
var ErrNoFileColumns = errors.New("no file columns")

const (
	bubbleHost      = "bubble.io"
	bubbleHostSplit = ".bubble.io/"
)

// IsBubbleURL reports whether a cell value references a bubble.io file.
func IsBubbleURL(v string) bool {
	return strings.Contains(v, bubbleHost)
}

// decode percent-decodes v, returning it unchanged if it is malformed.
func decode(v string) string {
	if d, err := url.PathUnescape(v); err == nil {
		return d
	}
	return v
}

// NormalizeURL decodes a link and gives it a scheme:
// "//cdn.bubble.io/f1/a.png" becomes "https://cdn.bubble.io/f1/a.png".
func NormalizeURL(raw string) string {
	u := decode(strings.TrimSpace(raw))

	switch {
	case strings.HasPrefix(u, "//"):
		return "https:" + u
	case strings.HasPrefix(u, "http://"), strings.HasPrefix(u, "https://"):
		return u
	default:
		return "https://" + u
	}
}

// ObjectPath returns the part of a link after the bubble host, which is the
// file's key in the bubble bucket. Links without a path fall back to their
// last segment.
func ObjectPath(link string) string {
	u := decode(link)

	var path string
	if i := strings.LastIndex(u, bubbleHostSplit); i >= 0 {
		path = u[i+len(bubbleHostSplit):]
	} else if i := strings.LastIndex(u, bubbleHost+"/"); i >= 0 {
		path = u[i+len(bubbleHost)+1:]
	}

	if path == "" {
		return FileName(u)
	}
	return path
}

// FileName returns the last path segment of a link.
func FileName(link string) string {
	link = strings.TrimRight(link, "/")
	if i := strings.LastIndex(link, "/"); i >= 0 {
		return link[i+1:]
	}
	return link
}

// FileColumns returns, in header order, the columns where at least one
// row holds a bubble.io link.
func FileColumns(s *core.Sheet) []string {
	var cols []string
	for _, col := range s.Columns {
		for _, row := range s.Rows {
			if IsBubbleURL(row.Text(col)) {
				cols = append(cols, col)
				break
			}
		}
	}
	return cols
}

// Rewrite points every bubble.io link at baseURL, keeping the object path:
// "//x.cdn.bubble.io/f1/a.png" becomes "<baseURL>/f1/a.png".
// It returns the number of cells changed.
func Rewrite(s *core.Sheet, baseURL string) int {
	base := strings.TrimRight(baseURL, "/")

	converted := 0
	for _, col := range FileColumns(s) {
		for _, row := range s.Rows {
			v := row.Text(col)
			if !IsBubbleURL(v) {
				continue
			}
			row[col] = base + "/" + ObjectPath(v)
			converted++
		}
	}
	return converted
}

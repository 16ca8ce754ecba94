package links

import (
	"path"
	"strings"

	"github.com/JonMunkholm/bubblemigrate/internal/core"
)

// Destination is where one file is stored.
type Destination struct {
	Bucket string
	Dir    string      // Directory inside the bucket, may be empty
	Naming core.Naming // Fallback naming when the original name is rejected
}

// extensionRoutes sends files without a table route to a bucket by type.
// A value "bucket/dir" stores into dir of bucket.
var extensionRoutes = map[string]string{
	".png":  "image",
	".jpg":  "image",
	".jfif": "image",
	".mp3":  "track/mp3",
	".wav":  "track/wav",
	".pdf":  "business",
}

// columnRoutes take precedence over extensionRoutes.
var columnRoutes = map[string]string{
	"imgprofile":   "profile-images",
	"contractfile": "contract",
}

// Router picks the destination of a file.
type Router struct {
	defaultBucket string
}

// NewRouter creates a router sending unmatched files to defaultBucket.
func NewRouter(defaultBucket string) *Router {
	if defaultBucket == "" {
		defaultBucket = "other"
	}
	return &Router{defaultBucket: defaultBucket}
}

// Resolve returns the destination for a file found in column of a table.
// The table's attachment spec wins; otherwise the column name and then the
// file extension decide.
func (r *Router) Resolve(def core.TableDefinition, column, fileName string) Destination {
	column = core.NormalizeColumn(column)

	if spec, ok := def.Attachment(column); ok {
		return Destination{Bucket: spec.Bucket, Dir: spec.Path, Naming: spec.Naming}
	}

	if route, ok := columnRoutes[column]; ok {
		return splitRoute(route)
	}

	if i := strings.IndexByte(fileName, '?'); i >= 0 {
		fileName = fileName[:i]
	}
	if route, ok := extensionRoutes[strings.ToLower(path.Ext(fileName))]; ok {
		return splitRoute(route)
	}

	return Destination{Bucket: r.defaultBucket}
}

func splitRoute(route string) Destination {
	bucket, dir, _ := strings.Cut(route, "/")
	return Destination{Bucket: bucket, Dir: dir}
}

// ObjectPath joins the destination directory and an object name.
func (d Destination) ObjectPath(name string) string {
	if d.Dir == "" {
		return name
	}
	return path.Join(d.Dir, name)
}

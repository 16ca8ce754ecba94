package sheet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// OutputPath returns the first path in dir that does not exist yet:
// <base><suffix><ext>, then <base><suffix>_1<ext>, <base><suffix>_2<ext>, ...
func OutputPath(dir, base, suffix, ext string) string {
	name := base + suffix
	path := filepath.Join(dir, name+ext)

	for n := 1; exists(path); n++ {
		path = filepath.Join(dir, fmt.Sprintf("%s_%d%s", name, n, ext))
	}
	return path
}

// TimestampedName returns <base>_<label>_<YYYYMMDD_HHMMSS><ext>.
func TimestampedName(base, label, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s%s", base, label, now.Format("20060102_150405"), ext)
}

// SplitName splits a file path into its base name without extension and
// the lowercased extension.
func SplitName(path string) (base, ext string) {
	name := filepath.Base(path)
	ext = filepath.Ext(name)
	return strings.TrimSuffix(name, ext), strings.ToLower(ext)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

package core

import (
	"fmt"
	"strings"
)

// FieldPattern names a file from row fields, e.g. Format "%s-%s.mp3" over
// Fields {"trackcode", "tracknumber"}. The file extension is not used;
// patterns carry their own.
type FieldPattern struct {
	Format string
	Fields []string
}

// Name implements Naming. It fails if any referenced field is blank.
func (p FieldPattern) Name(row Row, _ string) (string, bool) {
	args := make([]any, len(p.Fields))
	for i, f := range p.Fields {
		v := strings.TrimSpace(row.Text(f))
		if v == "" {
			return "", false
		}
		args[i] = v
	}
	return fmt.Sprintf(p.Format, args...), true
}

package links

import (
	"fmt"
	"strings"
	"sync"

	"github.com/JonMunkholm/bubblemigrate/internal/core"
)

// OriginalName is the first name tried for an upload: the link's file name
// without query string.
func OriginalName(link string) string {
	name := FileName(link)
	if i := strings.IndexByte(name, '?'); i >= 0 {
		name = name[:i]
	}
	return name
}

// Counter hands out per-run sequence numbers for each (table, column) pair,
// starting at 1. It is safe for concurrent use.
type Counter struct {
	mu   sync.Mutex
	next map[[2]string]int
}

// NewCounter creates an empty counter.
func NewCounter() *Counter {
	return &Counter{next: make(map[[2]string]int)}
}

// Next returns the next number for table and column.
func (c *Counter) Next(table, column string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := [2]string{table, column}
	c.next[key]++
	return c.next[key]
}

// Sequence names files <table>_<column>_<n><ext>.
type Sequence struct {
	Counter *Counter
	Table   string
	Column  string
}

// Name implements core.Naming. It always succeeds.
func (s Sequence) Name(_ core.Row, ext string) (string, bool) {
	n := s.Counter.Next(s.Table, s.Column)
	return fmt.Sprintf("%s_%s_%d%s", s.Table, s.Column, n, ext), true
}

// fallbackName picks the retry name for a rejected upload: the
// destination's own strategy when it yields a name, else a sequence name.
func fallbackName(dest Destination, seq Sequence, row core.Row, ext string) string {
	if dest.Naming != nil {
		if name, ok := dest.Naming.Name(normalizedRow(row), ext); ok {
			return name
		}
	}
	name, _ := seq.Name(row, ext)
	return name
}

// normalizedRow returns row with normalized column names, as naming
// strategies reference them.
func normalizedRow(row core.Row) core.Row {
	out := make(core.Row, len(row))
	for k, v := range row {
		out[core.NormalizeColumn(k)] = v
	}
	return out
}

// Package core provides the record-reformatting logic for exported tables.
// This package has no I/O dependencies and can be used by any frontend.
package core

// Row maps a column name to its cell value.
// Cells hold a string, a bool (after token coercion) or nil (null).
type Row map[string]any

// Text returns the cell as text. Missing and nil cells are empty.
func (r Row) Text(col string) string {
	switch v := r[col].(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "True"
		}
		return "False"
	default:
		return ""
	}
}

// Sheet is one table worth of rows sharing a single column set.
type Sheet struct {
	Name    string   // Source sheet or file name
	Columns []string // Column order, new columns are appended
	Rows    []Row
}

// HasColumn reports whether the sheet header contains col.
func (s *Sheet) HasColumn(col string) bool {
	for _, c := range s.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// addColumn appends col to the header if it is not present yet.
func (s *Sheet) addColumn(col string) {
	if !s.HasColumn(col) {
		s.Columns = append(s.Columns, col)
	}
}

// IDColumn derives Target from the text in Source.
type IDColumn struct {
	Target string
	Source string
}

// TableInfo contains display information about a table kind.
type TableInfo struct {
	Kind  string // Unique identifier: "track"
	Group string // Source area: "Catalog", "Settlement"
	Label string // Display name: "Tracks"
}

// TableDefinition is the static configuration of one table kind.
type TableDefinition struct {
	Info            TableInfo
	RequiredColumns []string
	IDColumns       []IDColumn        // Applied in order
	Defaults        map[string]string // Source column -> fallback text
	Attachments     []AttachmentSpec  // Storage routing for file columns
}

// Attachment returns the attachment spec for a column, if any.
func (t TableDefinition) Attachment(col string) (AttachmentSpec, bool) {
	for _, a := range t.Attachments {
		if a.Column == col {
			return a, true
		}
	}
	return AttachmentSpec{}, false
}

// AttachmentSpec routes files referenced by a column into a storage bucket.
type AttachmentSpec struct {
	Column string
	Bucket string
	Path   string
	Naming Naming // Nil means sequence naming on retry
}

// Naming builds the object name for a file when the original name is rejected.
// ok is false when the strategy cannot produce a name for the row.
type Naming interface {
	Name(row Row, ext string) (name string, ok bool)
}

// BoolTokens are the literal cell values coerced to true and false.
type BoolTokens struct {
	True  string
	False string
}

// DefaultBoolTokens are the Korean yes/no words used by the exports.
var DefaultBoolTokens = BoolTokens{True: "네", False: "아니오"}

package core

// validation.go checks a sheet before any cell is transformed.
//
// Validation happens at two levels:
//  1. Schema: every row carries exactly the header's column set
//  2. Header: every required column of the table kind is present
//
// Both are fatal for the whole sheet. Nothing is mutated until they pass,
// so a rejected sheet is returned to the caller untouched apart from the
// normalized column names.

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownTableKind matches errors for kinds missing from the registry.
	ErrUnknownTableKind = errors.New("unknown table kind")

	// ErrMissingRequiredColumn matches errors for absent required columns.
	ErrMissingRequiredColumn = errors.New("missing required column")

	// ErrInconsistentColumns matches errors for rows whose columns differ
	// from the header.
	ErrInconsistentColumns = errors.New("inconsistent columns")
)

// UnknownTableKindError reports a kind with no registered definition.
type UnknownTableKindError struct {
	Kind string
}

func (e *UnknownTableKindError) Error() string {
	return fmt.Sprintf("unknown table kind %q", e.Kind)
}

func (e *UnknownTableKindError) Is(target error) bool {
	return target == ErrUnknownTableKind
}

// MissingColumnError names the first required column absent from a sheet.
type MissingColumnError struct {
	Kind   string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: missing required column %q", e.Kind, e.Column)
}

func (e *MissingColumnError) Is(target error) bool {
	return target == ErrMissingRequiredColumn
}

// InconsistentColumnsError reports a row whose column set differs from the header.
type InconsistentColumnsError struct {
	Row     int    // 0-based row index, -1 for a duplicate header
	Column  string // Offending column
	Missing bool   // True if the row lacks Column, false if it has an extra one
}

func (e *InconsistentColumnsError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("inconsistent columns: duplicate column %q", e.Column)
	}
	if e.Missing {
		return fmt.Sprintf("inconsistent columns: row %d lacks column %q", e.Row, e.Column)
	}
	return fmt.Sprintf("inconsistent columns: row %d has unexpected column %q", e.Row, e.Column)
}

func (e *InconsistentColumnsError) Is(target error) bool {
	return target == ErrInconsistentColumns
}

// NormalizeColumn lowercases and trims a column name.
func NormalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// normalizeColumns rewrites the header and every row key in place.
func normalizeColumns(s *Sheet) {
	for i, c := range s.Columns {
		s.Columns[i] = NormalizeColumn(c)
	}

	for _, row := range s.Rows {
		for k, v := range row {
			nk := NormalizeColumn(k)
			if nk != k {
				delete(row, k)
				row[nk] = v
			}
		}
	}
}

// ValidateSchema checks that every row has exactly the header's columns.
func ValidateSchema(s *Sheet) error {
	header := make(map[string]struct{}, len(s.Columns))
	for _, c := range s.Columns {
		if _, dup := header[c]; dup {
			return &InconsistentColumnsError{Row: -1, Column: c}
		}
		header[c] = struct{}{}
	}

	for i, row := range s.Rows {
		for _, c := range s.Columns {
			if _, ok := row[c]; !ok {
				return &InconsistentColumnsError{Row: i, Column: c, Missing: true}
			}
		}
		if len(row) != len(header) {
			for k := range row {
				if _, ok := header[k]; !ok {
					return &InconsistentColumnsError{Row: i, Column: k}
				}
			}
		}
	}

	return nil
}

// ValidateHeaders checks that every required column of def is present.
func ValidateHeaders(s *Sheet, def TableDefinition) error {
	for _, col := range def.RequiredColumns {
		if !s.HasColumn(col) {
			return &MissingColumnError{Kind: def.Info.Kind, Column: col}
		}
	}
	return nil
}

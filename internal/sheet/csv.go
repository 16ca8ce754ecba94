// Package sheet reads and writes exported tables as CSV files and Excel
// workbooks, converting between files and core.Sheet values.
package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/JonMunkholm/bubblemigrate/internal/core"
)

var (
	// ErrEmptyFile is returned when a file has no header row.
	ErrEmptyFile = errors.New("empty file")

	// ErrInvalidCSV wraps parse failures from encoding/csv.
	ErrInvalidCSV = errors.New("invalid csv")
)

// extraColumn keys cells that lie beyond the header. Reformat rejects rows
// carrying it; writers drop it.
const extraColumn = ""

// ReadCSV parses a CSV export into a sheet. The first record is the header.
// Rows shorter than the header lack the trailing columns, so the schema
// check in core reports them.
func ReadCSV(r io.Reader) (*core.Sheet, error) {
	cr := csv.NewReader(NewReader(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCSV, err)
	}

	s := &core.Sheet{Columns: make([]string, len(header))}
	for i, h := range header {
		s.Columns[i] = CleanHeader(h)
	}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCSV, err)
		}

		row := make(core.Row, len(s.Columns))
		for i, v := range record {
			if i < len(s.Columns) {
				row[s.Columns[i]] = v
			} else if strings.TrimSpace(v) != "" {
				row[extraColumn] = v
			}
		}
		s.Rows = append(s.Rows, row)
	}

	return s, nil
}

// ReadCSVFile opens path and parses it with ReadCSV. The sheet is named
// after the file.
func ReadCSVFile(path string) (*core.Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	s, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	s.Name = path
	return s, nil
}

// WriteCSV writes the header and every row in column order.
// Booleans are written as True/False and nil cells as empty fields.
func WriteCSV(w io.Writer, s *core.Sheet) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(s.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(s.Columns))
	for i, row := range s.Rows {
		for j, col := range s.Columns {
			record[j] = row.Text(col)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile creates path and writes the sheet to it.
func WriteCSVFile(path string, s *core.Sheet) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := WriteCSV(f, s); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// CleanHeader trims a header cell and drops a BOM left inside it.
// Case is preserved; core normalizes names when it reformats.
func CleanHeader(h string) string {
	return strings.TrimSpace(strings.ReplaceAll(h, "\uFEFF", ""))
}

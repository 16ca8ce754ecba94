package sheet

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// dateCells turns date-formatted workbook cells into ISO text.
//
// The display text of a date cell follows the workbook's number format
// ("8/16/23 18:02") and drops the century and seconds, so such cells are
// read from their serial value instead.
type dateCells struct {
	f        *excelize.File
	date1904 bool
	styles   map[int]bool // Style index to "is a date format"
}

func newDateCells(f *excelize.File) *dateCells {
	d := &dateCells{f: f, styles: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		d.date1904 = *props.Date1904
	}
	return d
}

// apply replaces, in rows, every data cell of a date style by its ISO
// timestamp. raw holds the same sheet read with raw cell values; only
// cells whose display text differs from the raw value are looked at.
func (d *dateCells) apply(sheet string, rows, raw [][]string) error {
	for r := 1; r < min(len(rows), len(raw)); r++ {
		for c := 0; c < min(len(rows[r]), len(raw[r])); c++ {
			if rows[r][c] == raw[r][c] {
				continue
			}
			serial, err := strconv.ParseFloat(raw[r][c], 64)
			if err != nil {
				continue
			}

			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			isDate, err := d.isDate(sheet, cell)
			if err != nil {
				return err
			}
			if !isDate {
				continue
			}

			t, err := excelize.ExcelDateToTime(serial, d.date1904)
			if err != nil {
				continue
			}
			rows[r][c] = t.Round(time.Second).Format(time.DateTime)
		}
	}
	return nil
}

func (d *dateCells) isDate(sheet, cell string) (bool, error) {
	idx, err := d.f.GetCellStyle(sheet, cell)
	if err != nil {
		return false, err
	}
	if v, ok := d.styles[idx]; ok {
		return v, nil
	}

	style, err := d.f.GetStyle(idx)
	if err != nil {
		return false, err
	}
	v := isDateFormat(style.NumFmt, style.CustomNumFmt)
	d.styles[idx] = v
	return v, nil
}

// isDateFormat reports whether a number format renders dates or times.
// Built-in IDs follow ECMA-376 18.8.30 including the East Asian date sets.
func isDateFormat(id int, custom *string) bool {
	switch {
	case id >= 14 && id <= 22, id >= 27 && id <= 36, id >= 45 && id <= 47, id >= 50 && id <= 58:
		return true
	case custom == nil:
		return false
	}
	return strings.ContainsAny(strings.ToLower(stripFormatLiterals(*custom)), "ydhs")
}

// stripFormatLiterals drops quoted text, escaped characters and bracketed
// sections ([Red], [$-409], [h]) from a format code.
func stripFormatLiterals(code string) string {
	var b strings.Builder
	var inQuote, inBracket, escaped bool
	for _, r := range code {
		switch {
		case escaped:
			escaped = false
		case inQuote:
			inQuote = r != '"'
		case inBracket:
			inBracket = r != ']'
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = true
		case r == '[':
			inBracket = true
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

package sheet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/bubblemigrate/internal/core"
)

// ErrNoSheets is returned when a workbook would be written without sheets.
var ErrNoSheets = errors.New("workbook has no sheets")

// ReadWorkbook loads every worksheet of an .xlsx file in workbook order.
// The first row of each sheet is its header. Cells the file leaves out
// at the end of a row read as nil, and blank rows are skipped. Date cells
// read as "2006-01-02 15:04:05"; other cells keep their display text.
func ReadWorkbook(path string) ([]*core.Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	dates := newDateCells(f)

	var sheets []*core.Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", name, err)
		}
		raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", name, err)
		}
		if err := dates.apply(name, rows, raw); err != nil {
			return nil, fmt.Errorf("read dates of %s: %w", name, err)
		}
		sheets = append(sheets, sheetFromRows(name, rows))
	}

	return sheets, nil
}

func sheetFromRows(name string, rows [][]string) *core.Sheet {
	s := &core.Sheet{Name: name}
	if len(rows) == 0 {
		return s
	}

	s.Columns = make([]string, len(rows[0]))
	for i, h := range rows[0] {
		s.Columns[i] = CleanHeader(h)
	}

	for _, cells := range rows[1:] {
		if isBlank(cells) {
			continue
		}

		row := make(core.Row, len(s.Columns))
		for i, col := range s.Columns {
			if i < len(cells) {
				row[col] = cells[i]
			} else {
				row[col] = nil
			}
		}
		for _, v := range cells[min(len(cells), len(s.Columns)):] {
			if strings.TrimSpace(v) != "" {
				row[extraColumn] = v
			}
		}
		s.Rows = append(s.Rows, row)
	}

	return s
}

// WriteWorkbook writes sheets to a new .xlsx file, one worksheet each,
// keeping their names and order. Booleans are stored as boolean cells.
func WriteWorkbook(path string, sheets []*core.Sheet) error {
	if len(sheets) == 0 {
		return ErrNoSheets
	}

	f := excelize.NewFile()
	defer f.Close()

	first := f.GetSheetName(0)
	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(first, s.Name); err != nil {
				return fmt.Errorf("name sheet %s: %w", s.Name, err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return fmt.Errorf("add sheet %s: %w", s.Name, err)
		}

		if err := writeSheet(f, s); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, s *core.Sheet) error {
	header := make([]any, len(s.Columns))
	for i, c := range s.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(s.Name, "A1", &header); err != nil {
		return fmt.Errorf("write header of %s: %w", s.Name, err)
	}

	values := make([]any, len(s.Columns))
	for r, row := range s.Rows {
		for i, col := range s.Columns {
			values[i] = row[col]
		}

		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.Name, cell, &values); err != nil {
			return fmt.Errorf("write row %d of %s: %w", r, s.Name, err)
		}
	}

	return nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

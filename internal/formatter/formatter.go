// Package formatter turns exported table files into their reformatted
// counterparts on disk.
//
// A CSV file holds one table; its kind is read from the file name. A
// workbook holds one table per worksheet, each named after its kind.
package formatter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/bubblemigrate/internal/core"
	"github.com/JonMunkholm/bubblemigrate/internal/logging"
	"github.com/JonMunkholm/bubblemigrate/internal/sheet"
)

// OutputSuffix is appended to the input base name.
const OutputSuffix = "_formatted"

var (
	// ErrNoTableKind is returned when a CSV file name names no registered kind.
	ErrNoTableKind = errors.New("no table kind in file name")

	// ErrUnsupportedFileType is returned for inputs other than CSV and workbooks.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrNoSheetsFormatted is returned when every sheet of a workbook failed.
	ErrNoSheetsFormatted = errors.New("no sheet could be formatted")
)

// SheetResult reports the outcome for one table.
type SheetResult struct {
	Name string
	Kind string
	Rows int
	Err  error
}

// Result reports the outcome for one input file.
type Result struct {
	Input  string
	Output string // Empty if nothing was written
	Sheets []SheetResult
}

// Formatter reformats files with a shared reformatter.
type Formatter struct {
	reformatter *core.Reformatter
}

// New creates a formatter coercing the given boolean tokens.
func New(tokens core.BoolTokens) *Formatter {
	return &Formatter{reformatter: core.NewReformatter(tokens)}
}

// FormatSheet reformats one sheet in place.
func (f *Formatter) FormatSheet(s *core.Sheet, kind string) error {
	return f.reformatter.Reformat(s, kind)
}

// FormatCSV reads a CSV table from r, reformats it as kind and writes the
// result to w. It returns the number of rows written.
func (f *Formatter) FormatCSV(ctx context.Context, r io.Reader, w io.Writer, kind string) (int, error) {
	s, err := sheet.ReadCSV(r)
	if err != nil {
		return 0, err
	}
	if err := f.FormatSheet(s, kind); err != nil {
		return 0, err
	}
	if err := sheet.WriteCSV(w, s); err != nil {
		return 0, err
	}

	logging.FromContext(ctx).Debug("formatted csv stream", "kind", kind, "rows", len(s.Rows))
	return len(s.Rows), nil
}

// FormatFile reformats the file at path and writes <name>_formatted next to
// it, or into outDir when set. An existing output is never overwritten; a
// numeric suffix is added instead.
func (f *Formatter) FormatFile(ctx context.Context, path, outDir string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, ext := sheet.SplitName(path)
	if outDir == "" {
		outDir = filepath.Dir(path)
	} else if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	switch ext {
	case ".csv":
		return f.formatCSVFile(ctx, path, base, outDir)
	case ".xlsx", ".xlsm":
		return f.formatWorkbook(ctx, path, base, ext, outDir)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, ext)
	}
}

func (f *Formatter) formatCSVFile(ctx context.Context, path, base, outDir string) (*Result, error) {
	kind, ok := core.MatchKind(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoTableKind, filepath.Base(path))
	}

	s, err := sheet.ReadCSVFile(path)
	if err != nil {
		return nil, err
	}
	if err := f.FormatSheet(s, kind); err != nil {
		return nil, fmt.Errorf("format %s: %w", filepath.Base(path), err)
	}

	out := sheet.OutputPath(outDir, base, OutputSuffix, ".csv")
	if err := sheet.WriteCSVFile(out, s); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("table formatted", "kind", kind, "rows", len(s.Rows), "output", out)

	return &Result{
		Input:  path,
		Output: out,
		Sheets: []SheetResult{{Name: filepath.Base(path), Kind: kind, Rows: len(s.Rows)}},
	}, nil
}

// formatWorkbook formats every worksheet on its own. A failing sheet is
// logged and left out of the output; the others are still written.
func (f *Formatter) formatWorkbook(ctx context.Context, path, base, ext, outDir string) (*Result, error) {
	sheets, err := sheet.ReadWorkbook(path)
	if err != nil {
		return nil, err
	}

	result := &Result{Input: path}
	var formatted []*core.Sheet
	var errs []error

	for _, s := range sheets {
		kind := strings.ToLower(strings.TrimSpace(s.Name))
		sr := SheetResult{Name: s.Name, Kind: kind}

		if err := f.FormatSheet(s, kind); err != nil {
			logging.FromContext(ctx).Warn("sheet skipped", "sheet", s.Name, "error", err)
			sr.Err = err
			errs = append(errs, fmt.Errorf("sheet %s: %w", s.Name, err))
		} else {
			sr.Rows = len(s.Rows)
			formatted = append(formatted, s)
			logging.FromContext(ctx).Info("sheet formatted", "sheet", s.Name, "rows", sr.Rows)
		}

		result.Sheets = append(result.Sheets, sr)
	}

	if len(formatted) == 0 {
		return result, errors.Join(append([]error{ErrNoSheetsFormatted}, errs...)...)
	}

	out := sheet.OutputPath(outDir, base, OutputSuffix, ext)
	if err := sheet.WriteWorkbook(out, formatted); err != nil {
		return result, err
	}
	result.Output = out

	return result, nil
}

// FormatFiles formats several files concurrently, at most workers at a time.
// Per-file failures are returned in errs at the file's index; the returned
// error is only set when ctx ends the batch early.
func (f *Formatter) FormatFiles(ctx context.Context, paths []string, outDir string, workers int) (results []*Result, errs []error, err error) {
	results = make([]*Result, len(paths))
	errs = make([]error, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i], errs[i] = f.FormatFile(gctx, p, outDir)
			return nil
		})
	}

	return results, errs, g.Wait()
}

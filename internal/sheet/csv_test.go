package sheet

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/bubblemigrate/internal/core"
)

func TestReadCSV(t *testing.T) {
	input := "\xEF\xBB\xBFUnique ID , Name,verified\n1,Kim,네\n2,\"Lee, J\",아니오\n\n3,Park,\n"

	s, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	wantCols := []string{"Unique ID", "Name", "verified"}
	if len(s.Columns) != len(wantCols) {
		t.Fatalf("Columns = %q, want %q", s.Columns, wantCols)
	}
	for i := range wantCols {
		if s.Columns[i] != wantCols[i] {
			t.Errorf("Columns[%d] = %q, want %q", i, s.Columns[i], wantCols[i])
		}
	}

	if len(s.Rows) != 3 {
		t.Fatalf("len(Rows) = %d, want 3 (blank lines skipped)", len(s.Rows))
	}
	if got := s.Rows[1]["Name"]; got != "Lee, J" {
		t.Errorf("quoted cell = %v", got)
	}
	if got := s.Rows[2]["verified"]; got != "" {
		t.Errorf("empty cell = %#v, want empty string", got)
	}
}

func TestReadCSV_RaggedRows(t *testing.T) {
	s, err := ReadCSV(strings.NewReader("a,b\n1\n1,2,3\n"))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	if _, ok := s.Rows[0]["b"]; ok {
		t.Error("short row should not carry the missing column")
	}
	if got := s.Rows[1][extraColumn]; got != "3" {
		t.Errorf("extra cell = %v, want 3", got)
	}

	err = core.ValidateSchema(s)
	if !errors.Is(err, core.ErrInconsistentColumns) {
		t.Errorf("ValidateSchema() error = %v, want ErrInconsistentColumns", err)
	}
}

func TestReadCSV_Empty(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("")); !errors.Is(err, ErrEmptyFile) {
		t.Errorf("ReadCSV(empty) error = %v, want ErrEmptyFile", err)
	}

	s, err := ReadCSV(strings.NewReader("a,b\n"))
	if err != nil {
		t.Fatalf("ReadCSV(header only) error = %v", err)
	}
	if len(s.Rows) != 0 {
		t.Errorf("header-only file has %d rows", len(s.Rows))
	}
}

func TestWriteCSV(t *testing.T) {
	s := &core.Sheet{
		Columns: []string{"unique id", "verified", "created_date", "note"},
		Rows: []core.Row{
			{"unique id": "1", "verified": true, "created_date": "2023-08-16 18:02:00+00", "note": "a,b"},
			{"unique id": "2", "verified": false, "created_date": nil, "note": ""},
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, s); err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	want := "unique id,verified,created_date,note\n" +
		"1,True,2023-08-16 18:02:00+00,\"a,b\"\n" +
		"2,False,,\n"
	if buf.String() != want {
		t.Errorf("WriteCSV() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestCSVFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.csv")
	in := &core.Sheet{
		Columns: []string{"unique id", "이름"},
		Rows:    []core.Row{{"unique id": "u1", "이름": "김"}},
	}

	if err := WriteCSVFile(path, in); err != nil {
		t.Fatalf("WriteCSVFile() error = %v", err)
	}
	out, err := ReadCSVFile(path)
	if err != nil {
		t.Fatalf("ReadCSVFile() error = %v", err)
	}

	if out.Name != path {
		t.Errorf("Name = %q, want %q", out.Name, path)
	}
	if out.Rows[0]["이름"] != "김" {
		t.Errorf("row = %v", out.Rows[0])
	}
}

func TestCleanHeader(t *testing.T) {
	tests := map[string]string{
		" Unique ID ":      "Unique ID",
		"\uFEFFcontract":   "contract",
		"[LSTN] Scheduled": "[LSTN] Scheduled",
	}
	for in, want := range tests {
		if got := CleanHeader(in); got != want {
			t.Errorf("CleanHeader(%q) = %q, want %q", in, got, want)
		}
	}
}

package sheet

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOutputPath(t *testing.T) {
	dir := t.TempDir()

	first := OutputPath(dir, "track", "_formatted", ".csv")
	if want := filepath.Join(dir, "track_formatted.csv"); first != want {
		t.Fatalf("OutputPath() = %q, want %q", first, want)
	}

	for _, name := range []string{"track_formatted.csv", "track_formatted_1.csv"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got := OutputPath(dir, "track", "_formatted", ".csv")
	if want := filepath.Join(dir, "track_formatted_2.csv"); got != want {
		t.Errorf("OutputPath() = %q, want %q", got, want)
	}
}

func TestTimestampedName(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	if got := TimestampedName("files", "converted", ".csv", now); got != "files_converted_20240309_140507.csv" {
		t.Errorf("TimestampedName() = %q", got)
	}
}

func TestSplitName(t *testing.T) {
	base, ext := SplitName("/data/in/Settlement_Melon.XLSX")
	if base != "Settlement_Melon" || ext != ".xlsx" {
		t.Errorf("SplitName() = %q, %q", base, ext)
	}
}

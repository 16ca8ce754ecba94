package core

import (
	"errors"
	"testing"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantValid bool
		want      string
	}{
		// Empty input short-circuits
		{name: "empty", input: "", wantValid: false},
		{name: "whitespace", input: "   ", wantValid: false},

		// General layouts
		{name: "12 hour export format", input: "Aug 16, 2023 6:02 pm", wantValid: true, want: "2023-08-16 18:02:00+00"},
		{name: "12 hour uppercase meridiem", input: "Aug 16, 2023 6:02 PM", wantValid: true, want: "2023-08-16 18:02:00+00"},
		{name: "iso date", input: "2023-08-16", wantValid: true, want: "2023-08-16 00:00:00+00"},
		{name: "iso datetime", input: "2023-08-16 07:05:09", wantValid: true, want: "2023-08-16 07:05:09+00"},
		{name: "rfc3339 keeps wall clock", input: "2023-08-16T18:02:00+09:00", wantValid: true, want: "2023-08-16 18:02:00+00"},
		{name: "month name date only", input: "Aug 16, 2023", wantValid: true, want: "2023-08-16 00:00:00+00"},
		{name: "full month name", input: "September 1, 2024 12:30 am", wantValid: true, want: "2024-09-01 00:30:00+00"},
		{name: "us slash date", input: "8/16/2023", wantValid: true, want: "2023-08-16 00:00:00+00"},
		{name: "surrounding whitespace", input: "  2023-08-16  ", wantValid: true, want: "2023-08-16 00:00:00+00"},

		// Fallback pattern
		{name: "fallback mixed case meridiem", input: "Aug 16, 2023 6:02 Pm", wantValid: true, want: "2023-08-16 18:02:00+00"},
		{name: "fallback four letter month", input: "Sept 3, 2023 11:15 am", wantValid: true, want: "2023-09-03 11:15:00+00"},
		{name: "fallback noon", input: "sept 3, 2023 12:00 PM", wantValid: true, want: "2023-09-03 12:00:00+00"},
		{name: "fallback midnight", input: "Sept 3, 2023 12:07 aM", wantValid: true, want: "2023-09-03 00:07:00+00"},

		// Unparseable
		{name: "free text", input: "next tuesday", wantValid: false},
		{name: "invalid calendar day", input: "Sept 31, 2023 1:00 pm", wantValid: false},
		{name: "february 30", input: "Feb 30, 2023 1:00 pm", wantValid: false},
		{name: "unknown month", input: "Foo 3, 2023 1:00 pm", wantValid: false},
		{name: "yes token", input: "네", wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeDate(tt.input)
			if got.Valid != tt.wantValid {
				t.Fatalf("NormalizeDate(%q).Valid = %v, want %v (value %q)", tt.input, got.Valid, tt.wantValid, got.String)
			}
			if tt.wantValid && got.String != tt.want {
				t.Errorf("NormalizeDate(%q) = %q, want %q", tt.input, got.String, tt.want)
			}
		})
	}
}

func TestParseTimestamp_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "empty", input: " ", wantErr: ErrEmptyDate},
		{name: "no pattern", input: "someday", wantErr: ErrUnrecognizedDate},
		{name: "missing meridiem", input: "Sept 3, 2023 11:15", wantErr: ErrUnrecognizedDate},
		{name: "day overflow", input: "Sept 31, 2023 1:00 pm", wantErr: ErrInvalidDate},
		{name: "unknown month", input: "Foo 3, 2023 1:00 pm", wantErr: ErrInvalidDate},
		{name: "hour out of range", input: "Sept 3, 2023 25:00 am", wantErr: ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTimestamp(tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseTimestamp(%q) error = %v, want %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestParseTwelveHour_NoZoneShift(t *testing.T) {
	got, err := parseTwelveHour("Aug 16, 2023 6:02 pm")
	if err != nil {
		t.Fatalf("parseTwelveHour() error = %v", err)
	}
	if s := FormatTimestamp(got); s != "2023-08-16 18:02:00+00" {
		t.Errorf("FormatTimestamp() = %q, want %q", s, "2023-08-16 18:02:00+00")
	}
}

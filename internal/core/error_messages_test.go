package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "unknown table kind",
			err:         &UnknownTableKindError{Kind: "playlist"},
			wantCode:    "TBL002",
			wantMessage: "Unknown table kind",
		},
		{
			name:        "missing column wrapped",
			err:         fmt.Errorf("format sheet: %w", &MissingColumnError{Kind: "user", Column: "unique id"}),
			wantCode:    "VAL004",
			wantMessage: "Required column is missing",
		},
		{
			name:        "inconsistent columns",
			err:         &InconsistentColumnsError{Row: 3, Column: "label", Missing: true},
			wantCode:    "VAL007",
			wantMessage: "Rows do not share the same columns",
		},
		{
			name:        "cancelled run",
			err:         fmt.Errorf("migrate: %w", errors.New("context canceled")),
			wantCode:    "UPL004",
			wantMessage: "The run was cancelled",
		},
		{
			name:        "upload over the size limit",
			err:         errors.New("http: request body too large"),
			wantCode:    "UPL001",
			wantMessage: "File exceeds maximum upload size",
		},
		{
			name:        "download failure",
			err:         fmt.Errorf("row 3: %w", errors.New("download status 404")),
			wantCode:    "NET002",
			wantMessage: "A source file could not be downloaded",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("STORAGE STATUS 403"),
			wantCode:    "NET001",
			wantMessage: "The storage service rejected the request",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	err := &MissingColumnError{Kind: "user", Column: "unique id"}
	result := FormatUserError(err)

	expected := "Required column is missing (Code: VAL004). Check that all required columns are present in your export"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not user facing",
			err:  nil,
			want: false,
		},
		{
			name: "known error is user facing",
			err:  &UnknownTableKindError{Kind: "x"},
			want: true,
		},
		{
			name: "unknown error is not user facing",
			err:  errors.New("random internal error xyz"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsUserFacing(tt.err)
			if got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := &UnknownTableKindError{Kind: "playlist"}
		userErr := NewUserError(techErr)

		if userErr.Error() != "Unknown table kind" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}

		if !errors.Is(userErr, ErrUnknownTableKind) {
			t.Error("Unwrap() should expose the original error")
		}
	})
}

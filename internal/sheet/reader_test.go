package sheet

import (
	"bytes"
	"io"
	"testing"
	"testing/iotest"
)

func TestNewReader(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "file with BOM",
			input:    append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello,world")...),
			expected: "hello,world",
		},
		{
			name:     "file without BOM",
			input:    []byte("hello,world"),
			expected: "hello,world",
		},
		{
			name:     "empty file",
			input:    []byte{},
			expected: "",
		},
		{
			name:     "only BOM",
			input:    []byte{0xEF, 0xBB, 0xBF},
			expected: "",
		},
		{
			name:     "korean text kept",
			input:    []byte("이름,네\n"),
			expected: "이름,네\n",
		},
		{
			name:     "invalid byte replaced",
			input:    []byte{'a', 0xFF, 'b'},
			expected: "a\uFFFDb",
		},
		{
			name:     "truncated sequence at end",
			input:    []byte{'a', 0xEC, 0x9D},
			expected: "a\uFFFD",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := io.ReadAll(NewReader(bytes.NewReader(tt.input)))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(result) != tt.expected {
				t.Errorf("got %q, want %q", string(result), tt.expected)
			}
		})
	}
}

func TestNewReader_SplitRunes(t *testing.T) {
	input := "레이블,앨범,트랙\n네,아니오,네\n"

	// One byte per read splits every multi-byte rune across reads
	got, err := io.ReadAll(NewReader(iotest.OneByteReader(bytes.NewReader([]byte(input)))))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != input {
		t.Errorf("got %q, want %q", got, input)
	}
}

func TestNewReader_PropagatesError(t *testing.T) {
	r := NewReader(iotest.TimeoutReader(bytes.NewReader([]byte("abc"))))

	if _, err := io.ReadAll(r); err != iotest.ErrTimeout {
		t.Errorf("ReadAll() error = %v, want %v", err, iotest.ErrTimeout)
	}
}

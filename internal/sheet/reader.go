package sheet

// reader.go cleans raw export bytes before CSV parsing.
//
// Exports opened and re-saved on Windows often carry a UTF-8 BOM, and
// hand-edited files occasionally contain stray bytes that are not UTF-8.
// NewReader strips the BOM and replaces invalid sequences while streaming,
// so memory use stays bounded by the buffer size.

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// replacement is written in place of each invalid byte run.
var replacement = []byte("\uFFFD")

// NewReader wraps r with BOM skipping and UTF-8 sanitization.
func NewReader(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		br.Discard(len(utf8BOM))
	}
	return &utf8Sanitizer{r: br, buf: make([]byte, 32*1024)}
}

// utf8Sanitizer replaces invalid UTF-8 with U+FFFD. A multi-byte sequence
// split across two reads is held back until the rest arrives.
type utf8Sanitizer struct {
	r       io.Reader
	buf     []byte
	pending []byte // incomplete trailing sequence from the last read
	out     []byte // sanitized bytes not yet returned
	err     error
}

// Read implements io.Reader.
func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	for len(s.out) == 0 {
		if s.err != nil {
			return 0, s.err
		}

		n, err := s.r.Read(s.buf)
		s.err = err

		data := make([]byte, 0, len(s.pending)+n)
		data = append(data, s.pending...)
		data = append(data, s.buf[:n]...)
		s.pending = s.pending[:0]

		if err == nil {
			if keep := incompleteTail(data); keep > 0 {
				s.pending = append(s.pending, data[len(data)-keep:]...)
				data = data[:len(data)-keep]
			}
		}

		if utf8.Valid(data) {
			s.out = data
		} else {
			s.out = bytes.ToValidUTF8(data, replacement)
		}
	}

	n := copy(p, s.out)
	s.out = s.out[n:]
	return n, nil
}

// incompleteTail returns how many trailing bytes start a rune that is not
// complete yet.
func incompleteTail(data []byte) int {
	for i := 1; i <= utf8.UTFMax-1 && i <= len(data); i++ {
		if utf8.RuneStart(data[len(data)-i]) {
			if utf8.FullRune(data[len(data)-i:]) {
				return 0
			}
			return i
		}
	}
	return 0
}

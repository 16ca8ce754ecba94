package core

// dates.go normalizes free-text dates into the canonical timestamp text
// "YYYY-MM-DD HH:MM:SS+00".
//
// Parsing is best effort. A fixed list of common layouts is tried first;
// if none fits, one 12-hour pattern ("Aug 16, 2023 6:02 pm") is matched by
// regex with case-insensitive month and meridiem. Wall-clock fields are kept
// exactly as written: no zone conversion happens on either path, the "+00"
// suffix is stamped onto the parsed fields.

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// TimestampLayout renders the canonical timestamp text.
const TimestampLayout = "2006-01-02 15:04:05+00"

var (
	// ErrEmptyDate is returned for empty or whitespace-only input.
	ErrEmptyDate = errors.New("empty date")

	// ErrUnrecognizedDate is returned when no layout or pattern matches.
	ErrUnrecognizedDate = errors.New("unrecognized date format")

	// ErrInvalidDate is returned when the text matches the fallback pattern
	// but does not name a real calendar date.
	ErrInvalidDate = errors.New("invalid date")
)

// generalLayouts are tried in order. Layouts with a zone keep the parsed
// wall clock; the zone itself is discarded on output.
var generalLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	"2006.01.02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006 3:04 PM",
	"1/2/2006",
	"Jan 2, 2006 3:04 pm",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006 15:04",
	"Jan 2, 2006",
	"January 2, 2006 3:04 pm",
	"January 2, 2006 3:04 PM",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"20060102",
}

// twelveHourRegex is the fallback pattern: "<Month> D, YYYY H:MM am|pm".
var twelveHourRegex = regexp.MustCompile(`(?i)^([a-z]{3,}) (\d{1,2}), (\d{4}) (\d{1,2}):(\d{2}) (am|pm)$`)

// monthIndex maps the first three letters of an English month name
// (lowercase) to its 0-based index.
var monthIndex = map[string]int{
	"jan": 0, "feb": 1, "mar": 2, "apr": 3, "may": 4, "jun": 5,
	"jul": 6, "aug": 7, "sep": 8, "oct": 9, "nov": 10, "dec": 11,
}

// ParseTimestamp parses free-text date input.
// The returned error is ErrEmptyDate, ErrUnrecognizedDate or wraps ErrInvalidDate.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrEmptyDate
	}

	for _, layout := range generalLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return parseTwelveHour(s)
}

// parseTwelveHour handles the fallback pattern only.
func parseTwelveHour(s string) (time.Time, error) {
	m := twelveHourRegex.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, ErrUnrecognizedDate
	}

	month, ok := monthIndex[strings.ToLower(m[1][:3])]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: unknown month %q", ErrInvalidDate, m[1])
	}

	// The regex guarantees digits, Atoi cannot fail.
	day, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])

	switch strings.ToLower(m[6]) {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}

	if hour > 23 || minute > 59 {
		return time.Time{}, fmt.Errorf("%w: time %s:%s out of range", ErrInvalidDate, m[4], m[5])
	}

	t := time.Date(year, time.Month(month+1), day, hour, minute, 0, 0, time.UTC)

	// time.Date normalizes overflow (Sep 31 -> Oct 1); reject instead.
	if t.Day() != day || int(t.Month()) != month+1 {
		return time.Time{}, fmt.Errorf("%w: %s %d, %d", ErrInvalidDate, m[1], day, year)
	}

	return t, nil
}

// FormatTimestamp renders the wall-clock fields of t in the canonical layout.
func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// NormalizeDate converts free text to the canonical timestamp.
// Returns invalid (null) for empty or unparseable input; never fails.
func NormalizeDate(s string) pgtype.Text {
	t, err := ParseTimestamp(s)
	if err != nil {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: FormatTimestamp(t), Valid: true}
}

package model

import (
	"errors"
	"strings"
	"time"
)

// DisplayLayout renders dates as "Mon Jan 02 2006".
const DisplayLayout = "Mon Jan 02 2006"

// ErrInvalidDate is returned by ParseDate for unparseable input.
var ErrInvalidDate = errors.New("invalid date")

// inputLayouts are tried in order by ParseDate.
var inputLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	DisplayLayout,
}

// Day truncates t to midnight UTC of its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses s into a calendar day. Accepts YYYY-MM-DD, RFC3339 and
// the display layout.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	for _, layout := range inputLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// FormatDate renders t with DisplayLayout in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DisplayLayout)
}

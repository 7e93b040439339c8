package view

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var errUnparsableTime = errors.New("unparsable timestamp")

// checkTimeLayouts are tried in order. The backend emits RFC 3339 with
// nanoseconds; the others cover hand-written and SQLite-style values.
var checkTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
}

// ParseCheckTime parses an ISO-8601 timestamp. Values without an offset are
// wall-clock times in loc, as a browser reads them; nil loc means time.Local.
func ParseCheckTime(raw string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s := strings.TrimSpace(raw)
	for _, layout := range checkTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", errUnparsableTime, raw)
}

// FormatCheckTime renders a timestamp as "05 Mar 2024 09:07" in loc.
// Unparsable input is returned unchanged along with the parse error.
func FormatCheckTime(raw string, loc *time.Location, l Locale) (string, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := ParseCheckTime(raw, loc)
	if err != nil {
		return raw, err
	}
	t = t.In(loc)
	return fmt.Sprintf("%02d %s %04d %02d:%02d",
		t.Day(), l.Month(t.Month()), t.Year(), t.Hour(), t.Minute()), nil
}

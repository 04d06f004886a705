// Package timeutil converts between epochs, timestamps and the
// year/month/day partition paths used for object storage keys.
package timeutil

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the query-engine friendly timestamp format.
const TimestampLayout = "2006-01-02 15:04:05"

// ErrParse is returned when an input cannot be read as a time value.
var ErrParse = errors.New("timeutil: unparseable time value")

// now is swapped out in tests.
var now = time.Now

// Now returns the current instant in UTC.
func Now() time.Time {
	return now().UTC()
}

// StartOfDay returns 00:00:00 UTC of the UTC date of t.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StartOfDayEpoch returns the epoch seconds of today's 00:00:00 UTC as a
// decimal string.
func StartOfDayEpoch() string {
	return strconv.FormatInt(StartOfDay(Now()).Unix(), 10)
}

// PartitionPath renders the UTC date of t as year=Y/month=M/day=D with no
// zero padding.
func PartitionPath(t time.Time) string {
	y, m, d := t.UTC().Date()
	return fmt.Sprintf("year=%d/month=%d/day=%d", y, int(m), d)
}

// PartitionPathFromString parses a timestamp-like string and returns its
// partition path.
func PartitionPathFromString(s string) (string, error) {
	t, err := ParseTimestamp(s)
	if err != nil {
		return "", err
	}
	return PartitionPath(t), nil
}

var timestampLayouts = []string{
	TimestampLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp reads the timestamp shapes produced across the pipeline:
// TimestampLayout, RFC 3339, a bare date, or integer epoch seconds. Values
// without a zone are taken as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty input", ErrParse)
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrParse, s)
}

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// FormatEpochMillis converts a millisecond epoch to TimestampLayout,
// dropping the sub-second part.
func FormatEpochMillis(ms int64) string {
	return FormatTimestamp(time.Unix(ms/1000, 0))
}

// ParseFailurePolicy selects what EpochMillis does with input it cannot read.
type ParseFailurePolicy int

const (
	// UseCurrentTime substitutes the current time for unreadable input.
	UseCurrentTime ParseFailurePolicy = iota
	// ReturnError surfaces ErrParse to the caller.
	ReturnError
)

// Converter turns millisecond epochs into timestamps under an explicit
// failure policy. The zero value uses UseCurrentTime and the wall clock.
type Converter struct {
	OnParseFailure ParseFailurePolicy
	Clock          func() time.Time
}

// EpochMillis parses raw as a millisecond epoch (integer or decimal) and
// formats it with TimestampLayout.
func (c Converter) EpochMillis(raw string) (string, error) {
	secs, err := epochSeconds(raw)
	if err == nil {
		return FormatTimestamp(time.Unix(secs, 0)), nil
	}
	if c.OnParseFailure == ReturnError {
		return "", err
	}
	clock := c.Clock
	if clock == nil {
		clock = Now
	}
	return FormatTimestamp(clock()), nil
}

// EpochMillisToTimestamp is EpochMillis with the UseCurrentTime policy: it
// never fails, unreadable input yields the current UTC time.
func EpochMillisToTimestamp(raw string) string {
	out, _ := Converter{}.EpochMillis(raw)
	return out
}

// maxEpochSeconds is 9999-12-31 23:59:59 UTC.
const maxEpochSeconds = 253402300799

// minEpochSeconds is 0000-01-01 00:00:00 UTC.
const minEpochSeconds = -62167219200

func epochSeconds(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	var secs int64
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		secs = ms / 1000
	} else {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("%w: %q", ErrParse, raw)
		}
		s := math.Trunc(f / 1000)
		if s < minEpochSeconds || s > maxEpochSeconds {
			return 0, fmt.Errorf("%w: %q out of range", ErrParse, raw)
		}
		secs = int64(s)
	}
	if secs < minEpochSeconds || secs > maxEpochSeconds {
		return 0, fmt.Errorf("%w: %q out of range", ErrParse, raw)
	}
	return secs, nil
}

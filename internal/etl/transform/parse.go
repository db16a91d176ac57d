package transform

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang-market-etl/internal/etl/frame"
	"golang-market-etl/pkg/utils"
)

// timestampLayouts are tried in order. Layouts without an offset parse as UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDate converts a raw timestamp to midnight UTC of its UTC calendar date.
// ok is false for missing or unparseable values.
func parseDate(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return utils.UTCDate(t), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return utils.UTCDate(ts), true
			}
		}
	}
	return time.Time{}, false
}

// parseFloat casts a raw cell to float64. Missing cells become NaN; a cell that
// is present but not numeric is an error.
func parseFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case nil:
		return math.NaN(), nil
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return math.NaN(), nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", s)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported numeric type %T", v)
	}
}

// parseVolume casts a share count. Whole floats such as "1200.0" are accepted;
// missing or non-finite values stay as NaN for the sanitizer.
func parseVolume(v interface{}) (interface{}, error) {
	f, err := parseFloat(v)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f, nil
	}
	if f != math.Trunc(f) {
		return nil, fmt.Errorf("volume is not a whole number: %v", f)
	}
	// float64(math.MaxInt64) rounds up to 2^63, which no longer fits.
	if f < 0 || f >= math.MaxInt64 {
		return nil, fmt.Errorf("volume out of range: %v", f)
	}
	return int64(f), nil
}

// parseString trims a raw text cell; empty text is missing.
func parseString(v interface{}) interface{} {
	switch s := v.(type) {
	case nil:
		return nil
	case string:
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		return s
	default:
		return fmt.Sprint(s)
	}
}

// castFloats parses every listed column present in row, in place.
func castFloats(row frame.Row, cols []string) error {
	for _, col := range cols {
		raw, ok := row[col]
		if !ok {
			continue
		}
		f, err := parseFloat(raw)
		if err != nil {
			return &ComputationError{Column: col, Err: err}
		}
		row[col] = f
	}
	return nil
}

func isMissing(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0)
}

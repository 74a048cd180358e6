package momo

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimestampLayout is the fixed timestamp format used inside notification
// bodies. Times are naive local time; the network does not send a zone.
const TimestampLayout = "2006-01-02 15:04:05"

// ExtractionError reports a capture that matched structurally but could not
// be converted to a typed value.
type ExtractionError struct {
	Field string
	Value string
	Err   error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("extract %s from %q: %v", e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("extract %s from %q", e.Field, e.Value)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// ParseAmount converts a captured amount like "1,234,567" to an exact
// decimal. Only digits and comma thousands separators are accepted.
func ParseAmount(field, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, &ExtractionError{Field: field, Value: raw}
	}
	for _, r := range raw {
		if (r < '0' || r > '9') && r != ',' {
			return decimal.Zero, &ExtractionError{Field: field, Value: raw}
		}
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return decimal.Zero, &ExtractionError{Field: field, Value: raw, Err: err}
	}
	return d, nil
}

// ParseTimestamp converts a captured "YYYY-MM-DD HH:MM:SS" string to a time.
func ParseTimestamp(field, raw string) (time.Time, error) {
	t, err := time.ParseInLocation(TimestampLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, &ExtractionError{Field: field, Value: raw, Err: err}
	}
	return t, nil
}

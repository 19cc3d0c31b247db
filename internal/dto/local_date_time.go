package dto

import (
	"strings"
	"time"
)

// LocalDateTimeLayout is the ISO-8601 local date-time layout used on the wire.
const LocalDateTimeLayout = "2006-01-02T15:04:05.999999"

// LocalDateTime is a timestamp serialized without a zone offset.
// Values are always rendered in UTC, which is the zone the store writes in.
type LocalDateTime struct {
	time.Time
}

// NewLocalDateTime wraps t, returning nil for the zero time.
func NewLocalDateTime(t time.Time) *LocalDateTime {
	if t.IsZero() {
		return nil
	}
	return &LocalDateTime{Time: t}
}

// MarshalJSON implements [json.Marshaler].
func (t LocalDateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format(LocalDateTimeLayout) + `"`), nil
}

// inputLayouts are tried in order when decoding. Both the T and space
// separators are accepted, with optional seconds.
var inputLayouts = []string{
	LocalDateTimeLayout,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
}

// UnmarshalJSON implements [json.Unmarshaler].
// Local date-times and RFC 3339 timestamps are accepted. The timestamps are
// read-only, so input that matches no layout leaves t zero instead of failing
// the request.
func (t *LocalDateTime) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" {
		return nil
	}

	for _, layout := range inputLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}

	if parsed, err := time.Parse(time.RFC3339Nano, s); err == nil {
		t.Time = parsed.UTC()
		return nil
	}

	t.Time = time.Time{}
	return nil
}

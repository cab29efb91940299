package service

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04",
	"2006-01-02",
}

// Date is a due or reminder date as clients send it: an RFC 3339 timestamp,
// a bare YYYY-MM-DD calendar date (midnight UTC), "" or null. The last two
// decode to the zero Date, which means "no date".
type Date struct {
	Time time.Time
}

// DateOf wraps t.
func DateOf(t time.Time) Date {
	return Date{Time: t}
}

func (d Date) IsZero() bool {
	return d.Time.IsZero()
}

// Ptr returns the date in UTC, or nil for the zero Date.
func (d Date) Ptr() *time.Time {
	if d.IsZero() {
		return nil
	}
	v := d.Time.UTC()
	return &v
}

func (d *Date) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return invalid("date", "must be a string like YYYY-MM-DD")
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.UTC())
}

// ParseDate accepts the same forms as Date's JSON decoding.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Date{Time: t}, nil
		}
	}
	return Date{}, invalid("date", "%q is not a date; use YYYY-MM-DD or RFC 3339", s)
}

// optionalDate resolves a patched date: null and "" both clear it.
func optionalDate(o Optional[Date]) *time.Time {
	if o.Value == nil {
		return nil
	}
	return o.Value.Ptr()
}

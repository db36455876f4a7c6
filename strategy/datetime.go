package strategy

import (
	"time"

	"github.com/jacentio/hydrator/record"
)

// DateTimeFormatter renders times with Layout on extraction and parses
// strings with Layout on hydration. Values it cannot handle pass through.
type DateTimeFormatter struct {
	Layout string

	// Location is used for layouts without a zone. Default: UTC.
	Location *time.Location
}

// NewDateTimeFormatter creates a formatter for layout in UTC.
func NewDateTimeFormatter(layout string) *DateTimeFormatter {
	return &DateTimeFormatter{Layout: layout, Location: time.UTC}
}

// Extract implements Strategy.
func (f *DateTimeFormatter) Extract(value any, _ any) (any, error) {
	switch tv := value.(type) {
	case time.Time:
		return tv.Format(f.Layout), nil
	case *time.Time:
		if tv == nil {
			return nil, nil
		}
		return tv.Format(f.Layout), nil
	}
	return value, nil
}

// Hydrate implements Strategy. An empty string hydrates to nil.
func (f *DateTimeFormatter) Hydrate(value any, _ *record.Record) (any, error) {
	s, ok := value.(string)
	if !ok {
		return value, nil
	}
	if s == "" {
		return nil, nil
	}
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(f.Layout, s, loc)
	if err != nil {
		return value, nil
	}
	return t, nil
}

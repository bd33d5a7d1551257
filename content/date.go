package content

import (
	"strings"
	"time"
)

var dateLayouts = []string{time.RFC3339, "2006-01-02", "January 2006", "Jan 2006", "January 2, 2006", "2006"}

// ParseDate reads the free-form date of an entry.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Time returns the parsed entry date.
func (e Entry) Time() (time.Time, bool) {
	return ParseDate(e.Date)
}

// newestFirst orders entries by date descending. Undated or unparseable
// entries go last; ties break on slug.
func newestFirst(a, b Entry) bool {
	ta, okA := a.Time()
	tb, okB := b.Time()
	switch {
	case okA && okB && !ta.Equal(tb):
		return ta.After(tb)
	case okA != okB:
		return okA
	}
	return a.Slug < b.Slug
}

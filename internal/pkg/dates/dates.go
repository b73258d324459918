// Package dates parses the calendar dates accepted by the API.
package dates

import (
	"fmt"
	"strings"
	"time"
)

const DayLayout = "2006-01-02"

// Parse accepts YYYY-MM-DD (midnight UTC) or RFC 3339 and returns UTC.
func Parse(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(DayLayout, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD or RFC 3339", raw)
	}
	return t.UTC(), nil
}

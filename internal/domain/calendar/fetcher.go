package calendar

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	ics "github.com/arran4/golang-ical"
)

const maxFeedBytes = 2 << 20

// Fetcher downloads and parses one feed URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]Event, error)
}

type HTTPFetcher struct {
	client *http.Client
}

func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: timeout}}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "text/calendar")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}
	return Parse(io.LimitReader(resp.Body, maxFeedBytes))
}

// Parse reads VEVENTs from an iCalendar stream. Events without a usable
// start are skipped; an all-day event without an end covers one day.
func Parse(r io.Reader) ([]Event, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	var out []Event
	for _, ve := range cal.Events() {
		start, allDay, ok := startOf(ve)
		if !ok {
			continue
		}
		end, err := ve.GetEndAt()
		if err != nil {
			end, err = ve.GetAllDayEndAt()
		}
		if err != nil {
			if !allDay {
				continue
			}
			end = start.AddDate(0, 0, 1)
		}
		if !end.After(start) {
			continue
		}

		out = append(out, Event{
			UID:     propValue(ve, ics.ComponentPropertyUniqueId),
			Start:   start.UTC(),
			End:     end.UTC(),
			Summary: propValue(ve, ics.ComponentPropertySummary),
		})
	}
	return out, nil
}

func startOf(ve *ics.VEvent) (time.Time, bool, bool) {
	if t, err := ve.GetStartAt(); err == nil {
		return t, isDateOnly(ve), true
	}
	if t, err := ve.GetAllDayStartAt(); err == nil {
		return t, true, true
	}
	return time.Time{}, false, false
}

func isDateOnly(ve *ics.VEvent) bool {
	p := ve.GetProperty(ics.ComponentPropertyDtStart)
	return p != nil && len(p.Value) == len("20060102")
}

func propValue(ve *ics.VEvent, name ics.ComponentProperty) string {
	if p := ve.GetProperty(name); p != nil {
		return p.Value
	}
	return ""
}

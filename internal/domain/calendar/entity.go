package calendar

import "time"

// Event is a busy interval read from an external feed. UID may be empty.
type Event struct {
	UID     string    `json:"uid,omitempty"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Summary string    `json:"summary,omitempty"`
}

// Feed is the parsed content of one calendar URL.
type Feed struct {
	URL    string
	Events []Event
}

// Entry is the cached state for one property.
type Entry struct {
	URLs      []string  `json:"urls"`
	Events    []Event   `json:"events"`
	FetchedAt time.Time `json:"fetchedAt"`
}

type Source string

const (
	SourceBooking  Source = "BOOKING"
	SourceExternal Source = "EXTERNAL"
)

// Busy is one blocked span reported to clients.
type Busy struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Source    Source    `json:"source"`
	BookingID int64     `json:"bookingId,omitempty"`
	UID       string    `json:"uid,omitempty"`
	Summary   string    `json:"summary,omitempty"`
}

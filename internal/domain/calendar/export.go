package calendar

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

// Export renders busy spans as an iCalendar document other platforms can import.
func Export(propertyID int64, spans []Busy, stamp time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//staysphere//availability//EN")
	cal.SetXWRCalName(fmt.Sprintf("Property %d availability", propertyID))

	for i, b := range spans {
		uid := b.UID
		switch {
		case b.Source == SourceBooking:
			uid = fmt.Sprintf("booking-%d@staysphere", b.BookingID)
		case uid == "":
			uid = fmt.Sprintf("external-%d-%d-%d@staysphere", propertyID, b.Start.Unix(), i)
		}

		ev := cal.AddEvent(uid)
		ev.SetDtStampTime(stamp)
		ev.SetStartAt(b.Start)
		ev.SetEndAt(b.End)
		if b.Source == SourceBooking {
			ev.SetSummary("Reserved")
		} else {
			ev.SetSummary("Not available")
		}
	}
	return cal.Serialize()
}

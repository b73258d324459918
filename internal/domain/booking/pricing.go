package booking

import (
	"math"
	"time"
)

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) share any instant.
// Back-to-back ranges do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Nights counts started 24h periods in [start, end).
func Nights(start, end time.Time) int {
	d := end.Sub(start)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Hours() / 24))
}

// Amount is the nightly price times nights, rounded to cents.
func Amount(price float64, nights int) float64 {
	return math.Round(price*float64(nights)*100) / 100
}

package narration

import (
	"fmt"
	"math"
	"time"
)

const dateLayout = "02/01/2006"

// RelativeTime renders how long ago t happened: "just now" under a full minute
// (future timestamps included), then "{n} min ago" under an hour and "{n}h ago"
// under a day, rounded to the nearest unit, and the calendar date in loc beyond
// that.
func RelativeTime(now, t time.Time, loc *time.Location) string {
	elapsed := now.Sub(t)
	if elapsed < time.Minute {
		return "just now"
	}
	minutes := math.Round(elapsed.Minutes())
	if minutes < 60 {
		return fmt.Sprintf("%d min ago", int(minutes))
	}
	hours := math.Round(minutes / 60)
	if hours < 24 {
		return fmt.Sprintf("%dh ago", int(hours))
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(dateLayout)
}

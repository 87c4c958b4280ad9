package clock

import (
	"strconv"
	"time"
)

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedOffset returns a location for a whole-hour UTC offset, e.g. -3 -> "UTC-3".
func FixedOffset(hours int) *time.Location {
	if hours == 0 {
		return time.UTC
	}
	name := "UTC" + strconv.Itoa(hours)
	if hours > 0 {
		name = "UTC+" + strconv.Itoa(hours)
	}
	return time.FixedZone(name, hours*60*60)
}

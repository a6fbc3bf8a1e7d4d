package chrono

import (
	"time"
)

var taipei *time.Location

func init() {
	var err error
	taipei, err = time.LoadLocation("Asia/Taipei")
	if err != nil {
		// tzdata is not always present in slim containers, taiwan has no DST
		taipei = time.FixedZone("Asia/Taipei", 8*60*60)
	}
}

// Taipei returns a [*time.Location] for Asia/Taipei, the timezone reports are dated in.
func Taipei() *time.Location {
	return taipei
}

// TimeAPI is the interface that anything depending on the system clock should use.
//
// note: fault injection point
type TimeAPI interface {
	// Now returns the current time in Asia/Taipei, truncated to milliseconds since that
	// is the precision timestamps are persisted with.
	Now() time.Time
}

// StandardTime is the standard implementation of TimeAPI using the standard library.
type StandardTime struct{}

// NewStandardTime is the constructor of StandardTime.
func NewStandardTime() StandardTime {
	return StandardTime{}
}

func (StandardTime) Now() time.Time {
	return time.Now().In(taipei).Truncate(time.Millisecond)
}

// StartOfDay returns midnight of the day t falls on in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

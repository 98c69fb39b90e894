package schedule

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidTimeOfDay = errors.New("invalid time of day")
	ErrInvalidInterval  = errors.New("interval end must be after start")
)

// TimeOfDay is a wall-clock time expressed as minutes from midnight.
// Values past 1440 are legal and represent times on the following day,
// so an overnight tour ending at 01:30 carries 25*60+30. Wrapping would
// make such an interval end before it starts.
type TimeOfDay struct {
	minutes int
}

func NewTimeOfDay(minutes int) (TimeOfDay, error) {
	if minutes < 0 {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	return TimeOfDay{minutes: minutes}, nil
}

// ParseTimeOfDay accepts "HH:MM"; hours may exceed 23 for overnight ends.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	if h < 0 || m < 0 || m > 59 {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	return TimeOfDay{minutes: h*60 + m}, nil
}

func (t TimeOfDay) Minutes() int {
	return t.minutes
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.minutes/60, t.minutes%60)
}

// AddHours carries minute overflow into hours and never wraps at 24h.
func (t TimeOfDay) AddHours(hours float64) TimeOfDay {
	return TimeOfDay{minutes: t.minutes + int(math.Round(hours*60))}
}

func (t TimeOfDay) Before(other TimeOfDay) bool {
	return t.minutes < other.minutes
}

// Interval is a half-open [start, end) wall-clock range on a single date.
type Interval struct {
	start TimeOfDay
	end   TimeOfDay
}

func NewInterval(start, end TimeOfDay) (Interval, error) {
	if end.minutes <= start.minutes {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{start: start, end: end}, nil
}

func IntervalFromDuration(start TimeOfDay, durationHours float64) (Interval, error) {
	return NewInterval(start, start.AddHours(durationHours))
}

func (i Interval) Start() TimeOfDay {
	return i.start
}

func (i Interval) End() TimeOfDay {
	return i.end
}

func (i Interval) Overlaps(other Interval) bool {
	return i.start.minutes < other.end.minutes && other.start.minutes < i.end.minutes
}

func (i Interval) String() string {
	return i.start.String() + "-" + i.end.String()
}

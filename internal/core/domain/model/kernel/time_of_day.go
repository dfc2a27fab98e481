package kernel

import (
	"fmt"
	"strings"
	"time"

	"kirana/internal/pkg/errs"
)

const secondsPerDay = 24 * 60 * 60

// TimeOfDay is a wall-clock time within one day at second resolution,
// stored as seconds since midnight. Ordering windows never wrap past midnight.
type TimeOfDay int

// NewTimeOfDay builds a TimeOfDay from its components.
func NewTimeOfDay(hour, minute, second int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 {
		return 0, errs.NewValueIsOutOfRangeError("hour", hour, 0, 23)
	}
	if minute < 0 || minute > 59 {
		return 0, errs.NewValueIsOutOfRangeError("minute", minute, 0, 59)
	}
	if second < 0 || second > 59 {
		return 0, errs.NewValueIsOutOfRangeError("second", second, 0, 59)
	}
	return TimeOfDay(hour*3600 + minute*60 + second), nil
}

// ParseTimeOfDay accepts "HH:MM" or "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	layout := "15:04:05"
	if strings.Count(s, ":") == 1 {
		layout = "15:04"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause("time of day", err)
	}
	return NewTimeOfDay(t.Hour(), t.Minute(), t.Second())
}

// TimeOfDayOf extracts the wall-clock part of t in t's own location.
// Sub-second precision is dropped, so 19:00:00.999 still equals 19:00:00.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

// Validate checks the value lies within a single day.
func (t TimeOfDay) Validate() error {
	if t < 0 || t >= secondsPerDay {
		return errs.NewValueIsOutOfRangeError("time of day", int(t), 0, secondsPerDay-1)
	}
	return nil
}

// On returns the instant at this time of day on the calendar date of day,
// in day's location.
func (t TimeOfDay) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, day.Location()).Add(time.Duration(t) * time.Second)
}

// String formats as "HH:MM" when seconds are zero, otherwise "HH:MM:SS".
func (t TimeOfDay) String() string {
	h, m, s := int(t)/3600, (int(t)%3600)/60, int(t)%60
	if s == 0 {
		return fmt.Sprintf("%02d:%02d", h, m)
	}
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

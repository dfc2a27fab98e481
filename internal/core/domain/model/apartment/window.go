package apartment

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/pkg/errs"
)

// Window is a recurring same-day interval during which residents may join the
// apartment's bulk order. Both bounds are inclusive at second resolution and
// the interval never crosses midnight.
type Window struct {
	id       kernel.UUID
	label    string
	start    kernel.TimeOfDay
	end      kernel.TimeOfDay
	days     []time.Weekday
	isActive bool
}

// NewWindow validates and builds a Window. An empty label defaults to
// "HH:MM-HH:MM".
func NewWindow(
	id kernel.UUID,
	label string,
	start, end kernel.TimeOfDay,
	days []time.Weekday,
	isActive bool,
) (Window, error) {
	var errList []error
	if err := id.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := errors.Join(start.Validate(), end.Validate()); err != nil {
		errList = append(errList, err)
	} else if end < start {
		errList = append(errList, errs.NewValueIsInvalidErrorWithCause("window",
			fmt.Errorf("end %s is before start %s", end, start)))
	}
	if len(days) == 0 {
		errList = append(errList, errs.NewValueIsRequiredError("daysOfWeek"))
	}
	for _, d := range days {
		if d < time.Sunday || d > time.Saturday {
			errList = append(errList, errs.NewValueIsOutOfRangeError("dayOfWeek", int(d), int(time.Sunday), int(time.Saturday)))
		}
	}
	if err := errors.Join(errList...); err != nil {
		return Window{}, err
	}

	label = strings.TrimSpace(label)
	if label == "" {
		label = start.String() + "-" + end.String()
	}

	return Window{
		id:       id,
		label:    label,
		start:    start,
		end:      end,
		days:     slices.Clone(days),
		isActive: isActive,
	}, nil
}

func (w Window) ID() kernel.UUID         { return w.id }
func (w Window) Label() string           { return w.label }
func (w Window) Start() kernel.TimeOfDay { return w.start }
func (w Window) End() kernel.TimeOfDay   { return w.end }
func (w Window) Days() []time.Weekday    { return slices.Clone(w.days) }
func (w Window) IsActive() bool          { return w.isActive }

// Contains reports whether now falls inside the window: the weekday is one of
// the window's days and start <= time-of-day <= end. now must already be in
// the marketplace timezone.
func (w Window) Contains(now time.Time) bool {
	if !w.isActive || !slices.Contains(w.days, now.Weekday()) {
		return false
	}
	tod := kernel.TimeOfDayOf(now)
	return tod >= w.start && tod <= w.end
}

// EndOn returns the closing instant of the window on now's calendar date.
func (w Window) EndOn(now time.Time) time.Time {
	return w.end.On(now)
}

// ParseWeekday accepts full English day names case-insensitively, as stored
// in the windows table.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.TrimSpace(s)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), s) {
			return d, nil
		}
	}
	return 0, errs.NewValueIsInvalidErrorWithCause("dayOfWeek", fmt.Errorf("%q is not a weekday", s))
}

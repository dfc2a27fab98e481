package services

import (
	"time"

	"kirana/internal/core/domain/model/apartment"
)

// WindowResolver decides whether an apartment accepts bulk joins at a given
// instant. It holds no state and caches nothing, so a window edited between
// two calls is seen by the second one.
type WindowResolver struct{}

// NewWindowResolver creates a WindowResolver.
func NewWindowResolver() WindowResolver {
	return WindowResolver{}
}

// IsOpen scans windows in order and returns the first one containing now.
// now must already be in the marketplace timezone.
func (WindowResolver) IsOpen(windows []apartment.Window, now time.Time) (apartment.Window, bool) {
	for _, w := range windows {
		if w.Contains(now) {
			return w, true
		}
	}
	return apartment.Window{}, false
}

// Resolve returns the open window of apt, or ErrApartmentInactive /
// ErrWindowClosed.
func (r WindowResolver) Resolve(apt *apartment.Apartment, now time.Time) (apartment.Window, error) {
	if err := apt.Validate(); err != nil {
		return apartment.Window{}, err
	}
	if !apt.IsActive() {
		return apartment.Window{}, apartment.ErrApartmentInactive
	}
	w, ok := r.IsOpen(apt.Windows(), now)
	if !ok {
		return apartment.Window{}, apartment.ErrWindowClosed
	}
	return w, nil
}

// TimeRemaining is the time until w closes today, floored at zero.
func (WindowResolver) TimeRemaining(w apartment.Window, now time.Time) time.Duration {
	left := w.EndOn(now).Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

package apartment_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kirana/internal/core/domain/model/apartment"
	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/pkg/errs"
)

func mustTOD(t *testing.T, s string) kernel.TimeOfDay {
	t.Helper()
	tod, err := kernel.ParseTimeOfDay(s)
	require.NoError(t, err)
	return tod
}

func TestNewWindow(t *testing.T) {
	t.Run("default label", func(t *testing.T) {
		w, err := apartment.NewWindow(kernel.NewUUID(), "", mustTOD(t, "07:00"), mustTOD(t, "19:00"),
			[]time.Weekday{time.Monday}, true)

		require.NoError(t, err)
		assert.Equal(t, "07:00-19:00", w.Label())
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := apartment.NewWindow(kernel.NewUUID(), "late", mustTOD(t, "22:00"), mustTOD(t, "06:00"),
			[]time.Weekday{time.Monday}, true)

		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("no days", func(t *testing.T) {
		_, err := apartment.NewWindow(kernel.NewUUID(), "", mustTOD(t, "07:00"), mustTOD(t, "08:00"), nil, true)

		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestWindow_Contains(t *testing.T) {
	w, err := apartment.NewWindow(kernel.NewUUID(), "", mustTOD(t, "07:00"), mustTOD(t, "19:00"),
		[]time.Weekday{time.Monday, time.Wednesday}, true)
	require.NoError(t, err)

	monday := func(h, m, s int) time.Time { return time.Date(2026, 3, 2, h, m, s, 0, time.UTC) }

	assert.True(t, w.Contains(monday(7, 0, 0)), "start is inclusive")
	assert.True(t, w.Contains(monday(18, 0, 0)))
	assert.True(t, w.Contains(monday(19, 0, 0)), "end is inclusive")
	assert.False(t, w.Contains(monday(19, 0, 1)))
	assert.False(t, w.Contains(monday(6, 59, 59)))
	assert.False(t, w.Contains(time.Date(2026, 3, 3, 12, 0, 0, 0, time.UTC)), "tuesday")

	inactive, err := apartment.NewWindow(kernel.NewUUID(), "", mustTOD(t, "07:00"), mustTOD(t, "19:00"),
		[]time.Weekday{time.Monday}, false)
	require.NoError(t, err)
	assert.False(t, inactive.Contains(monday(12, 0, 0)))
}

func TestNewApartment(t *testing.T) {
	a, err := apartment.NewApartment(kernel.NewUUID(), "Prestige Lakeside", "Whitefield", nil, 3, 120, 40, true, nil)
	require.NoError(t, err)
	assert.NoError(t, a.Validate())
	assert.True(t, a.IsActive())
	assert.Nil(t, a.Location())

	_, err = apartment.NewApartment(kernel.NewUUID(), "", "", nil, -1, 10, 11, true, nil)
	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestParseWeekday(t *testing.T) {
	d, err := apartment.ParseWeekday("monday")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, d)

	_, err = apartment.ParseWeekday("Funday")
	assert.Error(t, err)
}

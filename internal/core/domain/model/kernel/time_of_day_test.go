package kernel_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/pkg/errs"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{input: "07:00", want: "07:00"},
		{input: "19:00:00", want: "19:00"},
		{input: "23:59:59", want: "23:59:59"},
		{input: "24:00", wantErr: true},
		{input: "7pm", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := kernel.ParseTimeOfDay(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestNewTimeOfDay_OutOfRange(t *testing.T) {
	_, err := kernel.NewTimeOfDay(10, 60, 0)
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func TestTimeOfDayOf_DropsSubSecond(t *testing.T) {
	at := time.Date(2026, 3, 2, 19, 0, 0, 999_000_000, time.UTC)
	end, _ := kernel.NewTimeOfDay(19, 0, 0)

	assert.Equal(t, end, kernel.TimeOfDayOf(at))
}

func TestTimeOfDay_On(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	day := time.Date(2026, 3, 2, 15, 30, 0, 0, loc)
	tod, _ := kernel.NewTimeOfDay(19, 0, 0)

	got := tod.On(day)

	assert.Equal(t, time.Date(2026, 3, 2, 19, 0, 0, 0, loc), got)
}

package kernel_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"kirana/internal/core/domain/model/kernel"
)

func TestFixedClock(t *testing.T) {
	at := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, at, kernel.FixedClock(at)())
}

func TestSystemClock_UsesLocation(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	now := kernel.SystemClock(loc)()
	assert.Equal(t, loc, now.Location())

	assert.Equal(t, time.UTC, kernel.SystemClock(nil)().Location())
}

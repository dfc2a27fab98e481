package commands_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"kirana/internal/core/domain/model/agent"
	"kirana/internal/core/domain/model/apartment"
	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/core/domain/model/order"
)

const kmPerDegreeLat = 111.19

var (
	ist = time.FixedZone("IST", 5*60*60+30*60)

	// Monday inside the 18:00-19:00 window.
	mondayEvening = time.Date(2026, 10, 12, 18, 30, 0, 0, ist)
	clock         = kernel.FixedClock(mondayEvening)

	discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

func locAt(t *testing.T, kmNorth float64) *kernel.Location {
	t.Helper()
	loc, err := kernel.NewLocation(12.0+kmNorth/kmPerDegreeLat, 77.0)
	require.NoError(t, err)
	return &loc
}

func newOrder(t *testing.T, pm order.PaymentMethod, shopLoc *kernel.Location) *order.Order {
	t.Helper()
	item, err := order.NewItem("sku-1", "Toor Dal 1kg", 2, decimal.RequireFromString("140.00"))
	require.NoError(t, err)
	shop, err := order.NewShopSnapshot("Sharma Kirana", "12 MG Road", shopLoc)
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), pm,
		[]order.Item{item}, decimal.RequireFromString("280.00"), shop, "Flat 4B", mondayEvening)
	require.NoError(t, err)
	return o
}

func orderIn(t *testing.T, pm order.PaymentMethod, shopLoc *kernel.Location, status order.Status) *order.Order {
	t.Helper()
	o := newOrder(t, pm, shopLoc)
	for o.Status() != status {
		next, ok := o.Status().Next()
		require.True(t, ok)
		require.NoError(t, o.AdvanceStatus(next, mondayEvening))
	}
	return o
}

func newAgent(t *testing.T, loc *kernel.Location, status agent.Status, active int) *agent.Agent {
	t.Helper()
	var at *time.Time
	if loc != nil {
		at = &mondayEvening
	}
	a, err := agent.RestoreAgent(kernel.NewUUID(), "Ravi", status, active, loc, at, 1)
	require.NoError(t, err)
	return a
}

func eveningWindow(t *testing.T, days ...time.Weekday) apartment.Window {
	t.Helper()
	start, err := kernel.NewTimeOfDay(18, 0, 0)
	require.NoError(t, err)
	end, err := kernel.NewTimeOfDay(19, 0, 0)
	require.NoError(t, err)
	w, err := apartment.NewWindow(kernel.NewUUID(), "Evening", start, end, days, true)
	require.NoError(t, err)
	return w
}

func newApartment(t *testing.T, active bool, windows ...apartment.Window) *apartment.Apartment {
	t.Helper()
	apt, err := apartment.NewApartment(kernel.NewUUID(), "Lake View", "4th Cross, HSR Layout",
		locAt(t, 3), 2, 120, 40, active, windows)
	require.NoError(t, err)
	return apt
}

package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kirana/internal/core/application/usecases/commands"
	"kirana/internal/core/domain/model/agent"
	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/core/domain/model/order"
	"kirana/internal/pkg/errs"
)

type deliveryFixture struct {
	store   *memStore
	order   *order.Order
	agent   *agent.Agent
	handler commands.AdvanceDeliveryStatusCommandHandler
}

func newDeliveryFixture(t *testing.T, pm order.PaymentMethod, status order.Status) deliveryFixture {
	t.Helper()
	store := newMemStore()
	a := newAgent(t, locAt(t, 1), agent.Busy, 1)
	o := orderIn(t, pm, locAt(t, 0), status)
	require.NoError(t, o.AssignAgent(a.ID(), kernel.NewUUID(), mondayEvening))
	store.seedOrder(o)
	store.seedAgent(a)

	return deliveryFixture{
		store:   store,
		order:   o,
		agent:   a,
		handler: commands.NewAdvanceDeliveryStatusCommandHandler(store.UoWFactory(), clock, commands.DefaultUpdateAttempts),
	}
}

func (f deliveryFixture) advance(t *testing.T, target order.DeliveryStatus, codConfirmed bool) error {
	t.Helper()
	cmd, err := commands.NewAdvanceDeliveryStatusCommand(f.order.ID(), f.agent.ID(), target, codConfirmed)
	require.NoError(t, err)
	return f.handler.Handle(t.Context(), cmd)
}

func TestAdvanceDeliveryStatusCommandHandler_FullDelivery(t *testing.T) {
	// Given a ready prepaid order bound to an agent
	f := newDeliveryFixture(t, order.PaymentUPI, order.StatusReadyForPickup)

	// When the agent walks the delivery machine
	require.NoError(t, f.advance(t, order.DeliveryPickedUp, false))
	require.NoError(t, f.advance(t, order.DeliveryOutForDelivery, false))

	stored := f.store.order(f.order.ID())
	assert.Equal(t, order.StatusOutForDelivery, stored.Status(), "shop status follows the delivery")
	assert.Equal(t, 1, f.store.agent(f.agent.ID()).ActiveDeliveries())

	require.NoError(t, f.advance(t, order.DeliveryDelivered, false))

	// Then the slot is released exactly once
	stored = f.store.order(f.order.ID())
	assert.Equal(t, order.DeliveryDelivered, stored.DeliveryStatus())
	assert.Equal(t, order.StatusDelivered, stored.Status())

	a := f.store.agent(f.agent.ID())
	assert.Equal(t, 0, a.ActiveDeliveries())
	assert.Equal(t, agent.Available, a.Status())

	err := f.advance(t, order.DeliveryDelivered, false)
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	assert.Equal(t, 0, f.store.agent(f.agent.ID()).ActiveDeliveries())
}

func TestAdvanceDeliveryStatusCommandHandler_CashOnDelivery(t *testing.T) {
	f := newDeliveryFixture(t, order.PaymentCOD, order.StatusReadyForPickup)
	require.NoError(t, f.advance(t, order.DeliveryPickedUp, false))
	require.NoError(t, f.advance(t, order.DeliveryOutForDelivery, false))

	t.Run("completion without confirmation changes nothing", func(t *testing.T) {
		before := f.store.order(f.order.ID())

		err := f.advance(t, order.DeliveryDelivered, false)

		require.ErrorIs(t, err, order.ErrCodConfirmationRequired)
		after := f.store.order(f.order.ID())
		assert.Equal(t, order.DeliveryOutForDelivery, after.DeliveryStatus())
		assert.Equal(t, before.History(), after.History())
		assert.Equal(t, 1, f.store.agent(f.agent.ID()).ActiveDeliveries())
	})

	t.Run("completion with confirmation", func(t *testing.T) {
		require.NoError(t, f.advance(t, order.DeliveryDelivered, true))

		stored := f.store.order(f.order.ID())
		assert.Equal(t, order.DeliveryDelivered, stored.DeliveryStatus())
		assert.True(t, stored.CodConfirmed())
		assert.Equal(t, 0, f.store.agent(f.agent.ID()).ActiveDeliveries())
	})
}

func TestAdvanceDeliveryStatusCommandHandler_Rejections(t *testing.T) {
	t.Run("agent not bound to the order", func(t *testing.T) {
		f := newDeliveryFixture(t, order.PaymentUPI, order.StatusReadyForPickup)
		cmd, _ := commands.NewAdvanceDeliveryStatusCommand(f.order.ID(), kernel.NewUUID(), order.DeliveryPickedUp, false)

		err := f.handler.Handle(t.Context(), cmd)

		require.ErrorIs(t, err, commands.ErrAgentNotBound)
	})

	t.Run("pickup before the shop is ready", func(t *testing.T) {
		f := newDeliveryFixture(t, order.PaymentUPI, order.StatusPreparing)

		err := f.advance(t, order.DeliveryPickedUp, false)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("skipping a step", func(t *testing.T) {
		f := newDeliveryFixture(t, order.PaymentUPI, order.StatusReadyForPickup)

		err := f.advance(t, order.DeliveryDelivered, false)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, 1, f.store.agent(f.agent.ID()).ActiveDeliveries())
	})
}

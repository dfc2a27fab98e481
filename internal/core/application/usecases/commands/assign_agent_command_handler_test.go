package commands_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kirana/internal/core/application/usecases/commands"
	"kirana/internal/core/domain/model/agent"
	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/core/domain/model/order"
	"kirana/internal/core/domain/services"
	"kirana/internal/pkg/errs"
)

func TestAssignAgentCommandHandler_BindsCheapestAgent(t *testing.T) {
	// Given
	store := newMemStore()
	o := orderIn(t, order.PaymentUPI, locAt(t, 0), order.StatusReadyForPickup)
	near := newAgent(t, locAt(t, 2), agent.Busy, 1)  // 2*2 + 1*1.5 = 5.5
	other := newAgent(t, locAt(t, 1), agent.Busy, 3) // 1*2 + 3*1.5 = 6.5
	store.seedOrder(o)
	store.seedAgent(near)
	store.seedAgent(other)

	handler := commands.NewAssignAgentCommandHandler(store.UoWFactory(), clock, commands.DefaultAssignmentAttempts)
	cmd, err := commands.NewAssignAgentCommand(o.ID(), services.StrategyScored)
	require.NoError(t, err)

	// When
	result, err := handler.Handle(t.Context(), cmd)

	// Then
	require.NoError(t, err)
	assert.True(t, near.ID().IsEqual(result.AgentID))

	stored := store.order(o.ID())
	assert.Equal(t, order.DeliveryAssigned, stored.DeliveryStatus())
	require.NotNil(t, stored.AgentID())
	assert.True(t, near.ID().IsEqual(*stored.AgentID()))
	require.NotNil(t, stored.BatchID())
	assert.True(t, result.BatchID.IsEqual(*stored.BatchID()))
	assert.Equal(t, "delivery:Assigned", stored.History()[len(stored.History())-1].Label)

	assert.Equal(t, 2, store.agent(near.ID()).ActiveDeliveries())
	assert.Equal(t, 3, store.agent(other.ID()).ActiveDeliveries())
	assert.Contains(t, store.eventNames(), order.EventAgentAssigned)
}

func TestAssignAgentCommandHandler_ReusesBatchOfAgent(t *testing.T) {
	store := newMemStore()
	shop := locAt(t, 0)
	first := orderIn(t, order.PaymentUPI, shop, order.StatusReadyForPickup)
	second := orderIn(t, order.PaymentUPI, shop, order.StatusReadyForPickup)
	a := newAgent(t, locAt(t, 1), agent.Available, 0)
	store.seedOrder(first)
	store.seedOrder(second)
	store.seedAgent(a)

	handler := commands.NewAssignAgentCommandHandler(store.UoWFactory(), clock, commands.DefaultAssignmentAttempts)

	cmd1, _ := commands.NewAssignAgentCommand(first.ID(), services.StrategyScored)
	r1, err := handler.Handle(t.Context(), cmd1)
	require.NoError(t, err)

	cmd2, _ := commands.NewAssignAgentCommand(second.ID(), services.StrategyScored)
	r2, err := handler.Handle(t.Context(), cmd2)
	require.NoError(t, err)

	assert.True(t, r1.BatchID.IsEqual(r2.BatchID))
	updated := store.agent(a.ID())
	assert.Equal(t, 2, updated.ActiveDeliveries())
	assert.Equal(t, agent.Busy, updated.Status())
}

func TestAssignAgentCommandHandler_Rejections(t *testing.T) {
	t.Run("already assigned", func(t *testing.T) {
		store := newMemStore()
		o := orderIn(t, order.PaymentUPI, locAt(t, 0), order.StatusReadyForPickup)
		bound := newAgent(t, locAt(t, 1), agent.Busy, 1)
		require.NoError(t, o.AssignAgent(bound.ID(), kernel.NewUUID(), mondayEvening))
		store.seedOrder(o)
		store.seedAgent(newAgent(t, locAt(t, 1), agent.Available, 0))

		handler := commands.NewAssignAgentCommandHandler(store.UoWFactory(), clock, commands.DefaultAssignmentAttempts)
		cmd, _ := commands.NewAssignAgentCommand(o.ID(), services.StrategyScored)

		_, err := handler.Handle(t.Context(), cmd)

		require.ErrorIs(t, err, order.ErrAlreadyAssigned)
	})

	t.Run("no eligible agents", func(t *testing.T) {
		store := newMemStore()
		o := orderIn(t, order.PaymentUPI, locAt(t, 0), order.StatusReadyForPickup)
		store.seedOrder(o)
		store.seedAgent(newAgent(t, locAt(t, 1), agent.Offline, 0))
		store.seedAgent(newAgent(t, locAt(t, 1), agent.Busy, agent.MaxConcurrentDeliveries))

		handler := commands.NewAssignAgentCommandHandler(store.UoWFactory(), clock, commands.DefaultAssignmentAttempts)
		cmd, _ := commands.NewAssignAgentCommand(o.ID(), services.StrategyScored)

		_, err := handler.Handle(t.Context(), cmd)

		require.ErrorIs(t, err, services.ErrNoAgentsAvailable)
		assert.Nil(t, store.order(o.ID()).AgentID())
	})

	t.Run("unknown order", func(t *testing.T) {
		store := newMemStore()
		handler := commands.NewAssignAgentCommandHandler(store.UoWFactory(), clock, commands.DefaultAssignmentAttempts)
		cmd, _ := commands.NewAssignAgentCommand(kernel.NewUUID(), services.StrategyScored)

		_, err := handler.Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("command not constructed", func(t *testing.T) {
		handler := commands.NewAssignAgentCommandHandler(newMemStore().UoWFactory(), clock, 1)

		_, err := handler.Handle(t.Context(), commands.AssignAgentCommand{})

		require.ErrorIs(t, err, commands.ErrAssignAgentCommandIsNotConstructed)
	})
}

func TestAssignAgentCommandHandler_LostRaceExcludesAgent(t *testing.T) {
	// Given the cheapest agent is changed by someone else before our commit
	store := newMemStore()
	o := orderIn(t, order.PaymentUPI, locAt(t, 0), order.StatusReadyForPickup)
	best := newAgent(t, locAt(t, 0.5), agent.Available, 0)
	fallback := newAgent(t, locAt(t, 4), agent.Available, 0)
	store.seedOrder(o)
	store.seedAgent(best)
	store.seedAgent(fallback)

	var once sync.Once
	store.beforeUpdate = func(s *memStore, aggregate, id string) {
		if aggregate == "agent" && id == best.ID().String() {
			once.Do(func() { s.bumpAgent(best.ID()) })
		}
	}

	handler := commands.NewAssignAgentCommandHandler(store.UoWFactory(), clock, commands.DefaultAssignmentAttempts)
	cmd, _ := commands.NewAssignAgentCommand(o.ID(), services.StrategyScored)

	// When
	result, err := handler.Handle(t.Context(), cmd)

	// Then the second attempt skips it
	require.NoError(t, err)
	assert.True(t, fallback.ID().IsEqual(result.AgentID))
	assert.Equal(t, 0, store.agent(best.ID()).ActiveDeliveries())
	assert.Equal(t, 1, store.agent(fallback.ID()).ActiveDeliveries())
}

func TestAssignAgentCommandHandler_ConflictSurfacesAfterLastAttempt(t *testing.T) {
	store := newMemStore()
	o := orderIn(t, order.PaymentUPI, locAt(t, 0), order.StatusReadyForPickup)
	a := newAgent(t, locAt(t, 1), agent.Available, 0)
	store.seedOrder(o)
	store.seedAgent(a)

	attempts := 0
	store.beforeCommit = func(s *memStore) {
		attempts++
		s.bumpOrder(o.ID())
	}

	handler := commands.NewAssignAgentCommandHandler(store.UoWFactory(), clock, commands.DefaultAssignmentAttempts)
	cmd, _ := commands.NewAssignAgentCommand(o.ID(), services.StrategyScored)

	_, err := handler.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrConcurrencyConflict)
	assert.Equal(t, commands.DefaultAssignmentAttempts, attempts)
	assert.Equal(t, 0, store.agent(a.ID()).ActiveDeliveries())
}

func TestAssignAgentCommandHandler_ConcurrentBindsRespectCap(t *testing.T) {
	// Given one agent with a single free slot and two ready orders
	store := newMemStore()
	shop := locAt(t, 0)
	first := orderIn(t, order.PaymentUPI, shop, order.StatusReadyForPickup)
	second := orderIn(t, order.PaymentUPI, shop, order.StatusReadyForPickup)
	a := newAgent(t, locAt(t, 1), agent.Busy, agent.MaxConcurrentDeliveries-1)
	store.seedOrder(first)
	store.seedOrder(second)
	store.seedAgent(a)

	handler := commands.NewAssignAgentCommandHandler(store.UoWFactory(), clock, commands.DefaultAssignmentAttempts)

	// When both are assigned at once
	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, o := range []*order.Order{first, second} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cmd, _ := commands.NewAssignAgentCommand(o.ID(), services.StrategyLeastLoaded)
			_, results[i] = handler.Handle(t.Context(), cmd)
		}()
	}
	wg.Wait()

	// Then exactly one wins and the cap holds
	var ok, noAgents int
	for _, err := range results {
		switch {
		case err == nil:
			ok++
		case assert.ErrorIs(t, err, services.ErrNoAgentsAvailable):
			noAgents++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, noAgents)
	assert.Equal(t, agent.MaxConcurrentDeliveries, store.agent(a.ID()).ActiveDeliveries())
}

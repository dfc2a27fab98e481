package commands_test

import (
	"context"
	"slices"
	"strings"
	"sync"

	"kirana/internal/core/application/usecases/commands"
	"kirana/internal/core/domain/model/agent"
	"kirana/internal/core/domain/model/apartment"
	"kirana/internal/core/domain/model/bulkorder"
	"kirana/internal/core/domain/model/kernel"
	"kirana/internal/core/domain/model/order"
	"kirana/internal/core/ports"
	"kirana/internal/pkg/errs"
)

// memStore is an in-memory stand-in for the database. Every Get hands out a
// fresh copy, writes are buffered per unit of work and applied on Commit
// after a version check, the way a row-versioned table behaves.
type memStore struct {
	mu         sync.Mutex
	orders     map[kernel.UUID]*order.Order
	agents     map[kernel.UUID]*agent.Agent
	apartments map[kernel.UUID]*apartment.Apartment
	bulkOrders map[string]*bulkorder.BulkOrder
	events     []kernel.Event

	// beforeUpdate runs under the store lock when a repository writes an
	// aggregate, before the version check a conditional UPDATE would do.
	beforeUpdate func(s *memStore, aggregate, id string)
	// beforeCommit runs under the store lock right before the version check.
	beforeCommit func(s *memStore)
}

func newMemStore() *memStore {
	return &memStore{
		orders:     make(map[kernel.UUID]*order.Order),
		agents:     make(map[kernel.UUID]*agent.Agent),
		apartments: make(map[kernel.UUID]*apartment.Apartment),
		bulkOrders: make(map[string]*bulkorder.BulkOrder),
	}
}

func (s *memStore) seedOrder(o *order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.ID()] = cloneOrder(o, o.Version())
}

func (s *memStore) seedAgent(a *agent.Agent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.agents[a.ID()] = cloneAgent(a, a.Version())
}

func (s *memStore) seedApartment(a *apartment.Apartment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apartments[a.ID()] = a
}

func (s *memStore) seedBulkOrder(b *bulkorder.BulkOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bulkOrders[b.Key()] = cloneBulkOrder(b, b.Version())
}

func (s *memStore) order(id kernel.UUID) *order.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := s.orders[id]
	return cloneOrder(o, o.Version())
}

func (s *memStore) agent(id kernel.UUID) *agent.Agent {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.agents[id]
	return cloneAgent(a, a.Version())
}

func (s *memStore) bulkOrder(key string) (*bulkorder.BulkOrder, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bulkOrders[key]
	if !ok {
		return nil, false
	}
	return cloneBulkOrder(b, b.Version()), true
}

func (s *memStore) bulkOrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bulkOrders)
}

func (s *memStore) eventNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.events))
	for _, e := range s.events {
		names = append(names, e.Name)
	}
	return names
}

// bumpAgent simulates a writer that changed the agent row behind our back.
func (s *memStore) bumpAgent(id kernel.UUID) {
	a := s.agents[id]
	s.agents[id] = cloneAgent(a, a.Version()+1)
}

func (s *memStore) bumpOrder(id kernel.UUID) {
	o := s.orders[id]
	s.orders[id] = cloneOrder(o, o.Version()+1)
}

func (s *memStore) UoWFactory() commands.UoWFactory                   { return uowFactory{s} }
func (s *memStore) OrderUoWFactory() commands.OrderUoWFactory         { return orderUoWFactory{s} }
func (s *memStore) AgentUoWFactory() commands.AgentUoWFactory         { return agentUoWFactory{s} }
func (s *memStore) ApartmentUoWFactory() commands.ApartmentUoWFactory { return apartmentUoWFactory{s} }

type uowFactory struct{ s *memStore }

func (f uowFactory) Create() commands.UoW { return newMemUoW(f.s) }

type orderUoWFactory struct{ s *memStore }

func (f orderUoWFactory) Create() commands.OrderUoW { return newMemUoW(f.s) }

type agentUoWFactory struct{ s *memStore }

func (f agentUoWFactory) Create() commands.AgentUoW { return newMemUoW(f.s) }

type apartmentUoWFactory struct{ s *memStore }

func (f apartmentUoWFactory) Create() commands.ApartmentUoW { return newMemUoW(f.s) }

type write[T any] struct {
	value  T
	isNew  bool
	dirty  bool
	readAt int64
}

type memUoW struct {
	s          *memStore
	began      bool
	orders     map[kernel.UUID]write[*order.Order]
	agents     map[kernel.UUID]write[*agent.Agent]
	apartments map[kernel.UUID]*apartment.Apartment
	bulkOrders map[string]write[*bulkorder.BulkOrder]
}

func newMemUoW(s *memStore) *memUoW {
	u := &memUoW{s: s}
	u.reset()
	return u
}

func (u *memUoW) reset() {
	u.orders = make(map[kernel.UUID]write[*order.Order])
	u.agents = make(map[kernel.UUID]write[*agent.Agent])
	u.apartments = make(map[kernel.UUID]*apartment.Apartment)
	u.bulkOrders = make(map[string]write[*bulkorder.BulkOrder])
}

func (u *memUoW) Begin(context.Context) error {
	u.began = true
	return nil
}

func (u *memUoW) Rollback(context.Context) error {
	u.began = false
	u.reset()
	return nil
}

func (u *memUoW) Commit(context.Context) error {
	if !u.began {
		return nil
	}
	s := u.s
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.beforeCommit != nil {
		s.beforeCommit(s)
	}

	for id, w := range u.orders {
		if !w.dirty {
			continue
		}
		if err := checkVersion(s.orders[id] != nil, versionOf(s.orders[id]), w.isNew, w.readAt, "order", id.String()); err != nil {
			return err
		}
	}
	for id, w := range u.agents {
		if !w.dirty {
			continue
		}
		if err := checkVersion(s.agents[id] != nil, versionOf(s.agents[id]), w.isNew, w.readAt, "agent", id.String()); err != nil {
			return err
		}
	}
	for key, w := range u.bulkOrders {
		if !w.dirty {
			continue
		}
		if err := checkVersion(s.bulkOrders[key] != nil, versionOf(s.bulkOrders[key]), w.isNew, w.readAt, "bulk order", key); err != nil {
			return err
		}
	}

	var sources []kernel.EventSource
	for id, w := range u.orders {
		if !w.dirty {
			continue
		}
		s.orders[id] = cloneOrder(w.value, w.readAt+1)
		sources = append(sources, w.value)
	}
	for id, w := range u.agents {
		if !w.dirty {
			continue
		}
		s.agents[id] = cloneAgent(w.value, w.readAt+1)
		sources = append(sources, w.value)
	}
	for key, w := range u.bulkOrders {
		if !w.dirty {
			continue
		}
		s.bulkOrders[key] = cloneBulkOrder(w.value, w.readAt+1)
		sources = append(sources, w.value)
	}
	for id, a := range u.apartments {
		s.apartments[id] = a
	}
	for _, src := range sources {
		s.events = append(s.events, src.PullEvents()...)
	}

	u.began = false
	u.reset()
	return nil
}

func (s *memStore) checkStored(aggregate, id string, lookup func(*memStore) (bool, int64), readAt int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.beforeUpdate != nil {
		s.beforeUpdate(s, aggregate, id)
	}
	exists, stored := lookup(s)
	return checkVersion(exists, stored, false, readAt, aggregate, id)
}

type versioned interface{ Version() int64 }

func versionOf[T versioned](v T) int64 {
	var zero T
	if any(v) == any(zero) {
		return 0
	}
	return v.Version()
}

func checkVersion(exists bool, stored int64, isNew bool, readAt int64, aggregate, id string) error {
	if isNew && exists {
		return errs.NewConcurrencyConflictError(aggregate, id)
	}
	if !isNew && (!exists || stored != readAt) {
		return errs.NewConcurrencyConflictError(aggregate, id)
	}
	return nil
}

func (u *memUoW) OrderRepository() ports.OrderRepository         { return memOrderRepo{u} }
func (u *memUoW) AgentRepository() ports.AgentRepository         { return memAgentRepo{u} }
func (u *memUoW) ApartmentRepository() ports.ApartmentRepository { return memApartmentRepo{u} }
func (u *memUoW) BulkOrderRepository() ports.BulkOrderRepository { return memBulkOrderRepo{u} }

type memOrderRepo struct{ u *memUoW }

func (r memOrderRepo) Add(_ context.Context, o *order.Order) error {
	r.u.orders[o.ID()] = write[*order.Order]{value: o, isNew: true, dirty: true, readAt: -1}
	return nil
}

func (r memOrderRepo) Update(_ context.Context, o *order.Order) error {
	w, ok := r.u.orders[o.ID()]
	if !ok {
		w = write[*order.Order]{readAt: o.Version()}
	}
	if !w.isNew {
		if err := r.u.s.checkStored("order", o.ID().String(), func(s *memStore) (bool, int64) {
			stored, exists := s.orders[o.ID()]
			return exists, versionOf(stored)
		}, w.readAt); err != nil {
			return err
		}
	}
	w.value = o
	w.dirty = true
	r.u.orders[o.ID()] = w
	return nil
}

func (r memOrderRepo) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	if w, ok := r.u.orders[id]; ok {
		return w.value, nil
	}
	r.u.s.mu.Lock()
	defer r.u.s.mu.Unlock()
	o, ok := r.u.s.orders[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	c := cloneOrder(o, o.Version())
	r.u.orders[id] = write[*order.Order]{value: c, readAt: o.Version()}
	return c, nil
}

func (r memOrderRepo) all() []*order.Order {
	r.u.s.mu.Lock()
	ids := make([]kernel.UUID, 0, len(r.u.s.orders))
	for id := range r.u.s.orders {
		ids = append(ids, id)
	}
	r.u.s.mu.Unlock()

	out := make([]*order.Order, 0, len(ids))
	for _, id := range ids {
		o, _ := r.Get(context.Background(), id)
		out = append(out, o)
	}
	slices.SortFunc(out, func(a, b *order.Order) int { return a.CreatedAt().Compare(b.CreatedAt()) })
	return out
}

func (r memOrderRepo) FindBatchForAgent(_ context.Context, agentID kernel.UUID) (*kernel.UUID, error) {
	for _, o := range r.all() {
		ds := o.DeliveryStatus()
		if o.AgentID() != nil && o.AgentID().IsEqual(agentID) && o.BatchID() != nil &&
			(ds == order.DeliveryAssigned || ds == order.DeliveryPickedUp) {
			id := *o.BatchID()
			return &id, nil
		}
	}
	return nil, nil
}

func (r memOrderRepo) GetByAgent(_ context.Context, agentID kernel.UUID) ([]*order.Order, error) {
	var out []*order.Order
	for _, o := range r.all() {
		if active := o.ActiveAgentID(); active != nil && active.IsEqual(agentID) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r memOrderRepo) GetReadyUnassigned(_ context.Context, limit int) ([]*order.Order, error) {
	var out []*order.Order
	for _, o := range r.all() {
		if o.Status() == order.StatusReadyForPickup && o.AgentID() == nil && len(out) < limit {
			out = append(out, o)
		}
	}
	return out, nil
}

type memAgentRepo struct{ u *memUoW }

func (r memAgentRepo) Add(_ context.Context, a *agent.Agent) error {
	r.u.agents[a.ID()] = write[*agent.Agent]{value: a, isNew: true, dirty: true, readAt: -1}
	return nil
}

func (r memAgentRepo) Update(_ context.Context, a *agent.Agent) error {
	w, ok := r.u.agents[a.ID()]
	if !ok {
		w = write[*agent.Agent]{readAt: a.Version()}
	}
	if !w.isNew {
		if err := r.u.s.checkStored("agent", a.ID().String(), func(s *memStore) (bool, int64) {
			stored, exists := s.agents[a.ID()]
			return exists, versionOf(stored)
		}, w.readAt); err != nil {
			return err
		}
	}
	w.value = a
	w.dirty = true
	r.u.agents[a.ID()] = w
	return nil
}

func (r memAgentRepo) Get(_ context.Context, id kernel.UUID) (*agent.Agent, error) {
	if w, ok := r.u.agents[id]; ok {
		return w.value, nil
	}
	r.u.s.mu.Lock()
	defer r.u.s.mu.Unlock()
	a, ok := r.u.s.agents[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("agent", id.String())
	}
	c := cloneAgent(a, a.Version())
	r.u.agents[id] = write[*agent.Agent]{value: c, readAt: a.Version()}
	return c, nil
}

func (r memAgentRepo) GetAllEligible(ctx context.Context) ([]*agent.Agent, error) {
	r.u.s.mu.Lock()
	ids := make([]kernel.UUID, 0, len(r.u.s.agents))
	for id := range r.u.s.agents {
		ids = append(ids, id)
	}
	r.u.s.mu.Unlock()

	slices.SortFunc(ids, func(a, b kernel.UUID) int { return strings.Compare(a.String(), b.String()) })
	var out []*agent.Agent
	for _, id := range ids {
		a, err := r.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if a.IsEligible() {
			out = append(out, a)
		}
	}
	return out, nil
}

type memApartmentRepo struct{ u *memUoW }

func (r memApartmentRepo) Add(_ context.Context, a *apartment.Apartment) error {
	r.u.apartments[a.ID()] = a
	return nil
}

func (r memApartmentRepo) Get(_ context.Context, id kernel.UUID) (*apartment.Apartment, error) {
	r.u.s.mu.Lock()
	defer r.u.s.mu.Unlock()
	a, ok := r.u.s.apartments[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("apartment", id.String())
	}
	return a, nil
}

type memBulkOrderRepo struct{ u *memUoW }

func (r memBulkOrderRepo) Add(_ context.Context, b *bulkorder.BulkOrder) error {
	r.u.bulkOrders[b.Key()] = write[*bulkorder.BulkOrder]{value: b, isNew: true, dirty: true, readAt: -1}
	return nil
}

func (r memBulkOrderRepo) Update(_ context.Context, b *bulkorder.BulkOrder) error {
	w, ok := r.u.bulkOrders[b.Key()]
	if !ok {
		w = write[*bulkorder.BulkOrder]{readAt: b.Version()}
	}
	if !w.isNew {
		if err := r.u.s.checkStored("bulk order", b.Key(), func(s *memStore) (bool, int64) {
			stored, exists := s.bulkOrders[b.Key()]
			return exists, versionOf(stored)
		}, w.readAt); err != nil {
			return err
		}
	}
	w.value = b
	w.dirty = true
	r.u.bulkOrders[b.Key()] = w
	return nil
}

func (r memBulkOrderRepo) Get(_ context.Context, key string) (*bulkorder.BulkOrder, error) {
	if w, ok := r.u.bulkOrders[key]; ok {
		return w.value, nil
	}
	r.u.s.mu.Lock()
	defer r.u.s.mu.Unlock()
	b, ok := r.u.s.bulkOrders[key]
	if !ok {
		return nil, errs.NewObjectNotFoundError("bulk order", key)
	}
	c := cloneBulkOrder(b, b.Version())
	r.u.bulkOrders[key] = write[*bulkorder.BulkOrder]{value: c, readAt: b.Version()}
	return c, nil
}

func cloneOrder(o *order.Order, version int64) *order.Order {
	c, err := order.RestoreOrder(order.RestoreState{
		ID:              o.ID(),
		CustomerID:      o.CustomerID(),
		StoreID:         o.StoreID(),
		Status:          o.Status(),
		DeliveryStatus:  o.DeliveryStatus(),
		AgentID:         copyID(o.AgentID()),
		BatchID:         copyID(o.BatchID()),
		PaymentMethod:   o.PaymentMethod(),
		CodConfirmed:    o.CodConfirmed(),
		Items:           o.Items(),
		TotalAmount:     o.TotalAmount(),
		Shop:            o.Shop(),
		CustomerAddress: o.CustomerAddress(),
		History:         o.History(),
		CreatedAt:       o.CreatedAt(),
		Version:         version,
	})
	if err != nil {
		panic(err)
	}
	return c
}

func cloneAgent(a *agent.Agent, version int64) *agent.Agent {
	c, err := agent.RestoreAgent(a.ID(), a.Name(), a.Status(), a.ActiveDeliveries(),
		a.Location(), a.LocationUpdatedAt(), version)
	if err != nil {
		panic(err)
	}
	return c
}

func cloneBulkOrder(b *bulkorder.BulkOrder, version int64) *bulkorder.BulkOrder {
	c, err := bulkorder.RestoreBulkOrder(bulkorder.RestoreState{
		Key:                   b.Key(),
		ApartmentID:           b.ApartmentID(),
		Date:                  b.Date(),
		Status:                b.Status(),
		Participants:          b.Participants(),
		DeliveryFeeDiscount:   b.DeliveryFeeDiscount(),
		AgentID:               copyID(b.AgentID()),
		DeliverySlot:          b.DeliverySlot(),
		EstimatedDeliveryDate: b.EstimatedDeliveryDate(),
		ActualDeliveryDate:    b.ActualDeliveryDate(),
		History:               b.History(),
		CreatedAt:             b.CreatedAt(),
		Version:               version,
	})
	if err != nil {
		panic(err)
	}
	return c
}

func copyID(id *kernel.UUID) *kernel.UUID {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}

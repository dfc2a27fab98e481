// Package agent contains the DeliveryAgent aggregate.
//
// A DeliveryAgent is the delivery capability of a user, keyed by the same
// actor id but stored apart from any user record. It owns the availability
// status, the last known location and the activeDeliveries counter that caps
// how many delivery units (individual orders or bulk orders) may be bound to
// the agent at once.
//
// The counter is changed only through Bind and Release. Persistence adapters
// guard every write with the aggregate version, so two concurrent binds of the
// same agent cannot both succeed.
package agent

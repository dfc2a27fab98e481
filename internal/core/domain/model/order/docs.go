// Package order contains the Order aggregate and its two state machines.
//
// The shop-side machine is driven by the store:
//
//	New ──> Accepted ──> Preparing ──> ReadyForPickup ──> OutForDelivery ──> Delivered
//	 │          │            │               │                  │
//	 └──────────┴────────────┴───────────────┴──────────────────┴──> Cancelled
//
// The delivery sub-machine is driven by the assignment engine and the agent:
//
//	Pending ──> Assigned ──> PickedUp ──> OutForDelivery ──> Delivered
//
// The delivery machine may not pass Assigned while the shop status is still
// before ReadyForPickup, and reaching delivery Delivered on a cash-on-delivery
// order requires the agent to confirm collection. Every applied transition
// appends exactly one entry to the order's history; entries are never
// rewritten or removed.
package order

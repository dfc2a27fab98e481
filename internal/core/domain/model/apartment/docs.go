// Package apartment contains the Apartment entity and its bulk ordering
// windows. Apartments are read-only inputs to fulfillment: they are seeded by
// administrators and only read while customers join bulk orders.
package apartment

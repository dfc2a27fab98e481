// Package bulkorder contains the BulkOrder aggregate: the single consolidated
// order of one apartment for one calendar day.
//
// A BulkOrder is identified by its natural key "<apartmentId>:YYYY-MM-DD",
// the date taken in the marketplace timezone. Participants are appended while
// the order is Pending; the family count, amount and item totals are always
// derived from the participant list and never stored independently.
//
//	Pending ──> Confirmed ──> Preparing ──> Ready ──> OutForDelivery ──> Delivered
//	   └────────────┴────────────┴───────────┴─────────────┴──────────> Cancelled
package bulkorder

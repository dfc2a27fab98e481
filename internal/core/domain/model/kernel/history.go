package kernel

import "time"

// HistoryEntry is one line of an aggregate's append-only status history.
type HistoryEntry struct {
	Label string
	At    time.Time
}

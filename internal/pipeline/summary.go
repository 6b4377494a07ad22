package pipeline

import "time"

// Summary reports the counters of one run. Total always equals
// Accepted + Dropped().
type Summary struct {
	RunID           string        `json:"run_id"`
	Input           string        `json:"input"`
	Output          string        `json:"output"`
	Now             time.Time     `json:"now"`
	Total           int           `json:"total"`
	Accepted        int           `json:"accepted"`
	DroppedNoExpiry int           `json:"dropped_no_expiry"`
	DroppedExpired  int           `json:"dropped_expired"`
	SkippedInvalid  int           `json:"skipped_invalid"`
	Unclassified    int           `json:"unclassified"`
	Duration        time.Duration `json:"duration_ns"`
}

// Dropped returns the number of records read but not written.
func (s Summary) Dropped() int {
	return s.DroppedNoExpiry + s.DroppedExpired + s.SkippedInvalid
}

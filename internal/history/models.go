package history

import (
	"time"

	"scdproc/internal/pipeline"
	"scdproc/internal/services"
)

// Status is the outcome of a recorded run.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Run is one ledger row.
type Run struct {
	ID              string
	StartedAt       time.Time
	ReferenceTime   time.Time
	Input           string
	Output          string
	Status          Status
	Total           int
	Accepted        int
	DroppedNoExpiry int
	DroppedExpired  int
	SkippedInvalid  int
	Unclassified    int
	Duration        time.Duration
	ErrorKind       string
	ErrorStage      string
	ErrorMessage    string
}

// Dropped returns the number of records read but not written.
func (r Run) Dropped() int {
	return r.DroppedNoExpiry + r.DroppedExpired + r.SkippedInvalid
}

// FromSummary builds a ledger row from a run's summary and its terminal error.
func FromSummary(summary pipeline.Summary, startedAt time.Time, runErr error) Run {
	run := Run{
		ID:              summary.RunID,
		StartedAt:       startedAt,
		ReferenceTime:   summary.Now,
		Input:           summary.Input,
		Output:          summary.Output,
		Status:          StatusSucceeded,
		Total:           summary.Total,
		Accepted:        summary.Accepted,
		DroppedNoExpiry: summary.DroppedNoExpiry,
		DroppedExpired:  summary.DroppedExpired,
		SkippedInvalid:  summary.SkippedInvalid,
		Unclassified:    summary.Unclassified,
		Duration:        summary.Duration,
	}
	if runErr != nil {
		run.Status = StatusFailed
		run.ErrorKind = services.Kind(runErr)
		run.ErrorStage = services.StageOf(runErr)
		run.ErrorMessage = runErr.Error()
	}
	return run
}

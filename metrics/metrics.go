package metrics

import "time"

// Placement represents one placed job to be recorded.
type Placement struct {
	RunID       string
	Ref         string
	Urgency     string
	Territory   string
	Day         string
	Session     string
	Sequence    int
	Minutes     int
	PlannedDate time.Time
}

// RunSummary captures whole-run planning statistics.
type RunSummary struct {
	RunID             string
	WeekStart         time.Time
	Placed            int
	Remaining         int
	Sessions          int
	MeanUtilization   float64
	StdDevUtilization float64
}

// Sink records planning results for observability purposes.
type Sink interface {
	RecordPlacements(placements []Placement) error
	RecordRunSummary(sum RunSummary) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordPlacements([]Placement) error { return nil }
func (NopSink) RecordRunSummary(RunSummary) error  { return nil }

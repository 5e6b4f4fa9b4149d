package metrics

// MultiSink fans planning records out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPlacements forwards the records to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordPlacements(placements []Placement) error {
	for _, s := range m.Sinks {
		if err := s.RecordPlacements(placements); err != nil {
			return err
		}
	}
	return nil
}

// RecordRunSummary forwards the summary to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordRunSummary(sum RunSummary) error {
	for _, s := range m.Sinks {
		if err := s.RecordRunSummary(sum); err != nil {
			return err
		}
	}
	return nil
}

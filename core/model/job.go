package model

import "time"

// TerritoryUnknown is the bucket for jobs whose location fields are all empty.
// It is a valid, schedulable territory, not an error state.
const TerritoryUnknown = "Unknown"

// Urgency classifies how soon a job must be visited relative to the planned
// week. Lower values are more urgent.
type Urgency int

const (
	// UrgencyDarkBlue marks jobs in their last schedulable week or already
	// past their completion window.
	UrgencyDarkBlue Urgency = iota
	// UrgencyLightBlue marks jobs one or two weeks before they turn Dark Blue.
	UrgencyLightBlue
	// UrgencyFlexible marks jobs with no near-term deadline pressure.
	UrgencyFlexible
)

func (u Urgency) String() string {
	switch u {
	case UrgencyDarkBlue:
		return "Dark Blue"
	case UrgencyLightBlue:
		return "Light Blue"
	default:
		return "Flexible"
	}
}

// Weight returns the workload weight used when auto-selecting a day's focus
// territory.
func (u Urgency) Weight() int {
	switch u {
	case UrgencyDarkBlue:
		return 100
	case UrgencyLightBlue:
		return 10
	default:
		return 1
	}
}

// Session identifies a half-day work session.
type Session string

const (
	SessionAM Session = "AM"
	SessionPM Session = "PM"
)

// Sessions lists sessions in scheduling order.
var Sessions = []Session{SessionAM, SessionPM}

// LoadMode scales a session's time budget.
type LoadMode string

const (
	LoadLight  LoadMode = "Light"
	LoadNormal LoadMode = "Normal"
	LoadHeavy  LoadMode = "Heavy"
)

// Multiplier returns the budget factor for the load mode. Unknown modes are
// treated as Normal.
func (m LoadMode) Multiplier() float64 {
	switch m {
	case LoadLight:
		return 0.85
	case LoadHeavy:
		return 1.20
	default:
		return 1.00
	}
}

// Weekdays lists planning days in fixed order, Monday first.
var Weekdays = []time.Weekday{
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
	time.Sunday,
}

// MondayOf rounds any date down to the Monday of its week, truncating the
// time of day.
func MondayOf(d time.Time) time.Time {
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// Job is one unit of field work to be visited. Source fields come from the
// imported backlog row; derived fields are computed by the planner before
// scheduling; planned fields are written only when the job is placed into a
// session bucket. Optional dates use the zero time.Time to mean absent.
type Job struct {
	Ref            string `json:"ref,omitempty"`
	Status         string `json:"status,omitempty"`
	Bedrooms       string `json:"bedrooms,omitempty"`
	InspectionType string `json:"inspection_type,omitempty"`
	StreetNumber   string `json:"street_number,omitempty"`
	StreetName     string `json:"street_name,omitempty"`
	Suburb         string `json:"suburb,omitempty"`
	City           string `json:"city,omitempty"`

	TargetDate time.Time `json:"target_date,omitempty"`

	// Derived before scheduling.
	CutoffDate       time.Time `json:"cutoff_date,omitempty"`
	Urgency          Urgency   `json:"urgency"`
	EstimatedMinutes int       `json:"estimated_minutes"`
	Territory        string    `json:"territory"`
	FutileRank       int       `json:"futile_rank"`
	ClusterKey       string    `json:"cluster_key,omitempty"`
	GeoKey           string    `json:"geo_key,omitempty"`
	Label            string    `json:"label"`

	// Assigned once placed into a session bucket.
	PlannedDay      string    `json:"planned_day,omitempty"`
	PlannedDate     time.Time `json:"planned_date,omitempty"`
	PlannedSession  Session   `json:"planned_session,omitempty"`
	PlannedSequence int       `json:"planned_sequence,omitempty"`
}

// Placed reports whether the job has been assigned to a session bucket.
func (j *Job) Placed() bool { return j.PlannedSequence > 0 }

// ClearPlanned resets the placement fields so the job can be rescheduled.
func (j *Job) ClearPlanned() {
	j.PlannedDay = ""
	j.PlannedDate = time.Time{}
	j.PlannedSession = ""
	j.PlannedSequence = 0
}

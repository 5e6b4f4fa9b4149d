package model

import "time"

// DayPlan holds one day's resolved focus territory and session buckets.
type DayPlan struct {
	Date  time.Time `json:"date"`
	Focus string    `json:"focus,omitempty"`
	// Sessions maps AM/PM to the ordered list of placed jobs.
	Sessions map[Session][]*Job `json:"sessions"`
}

// WeekPlan is the output of one scheduling run. It is an explicit value:
// callers hold it and pass it back for reset or re-planning, there is no
// ambient state. Buckets and the remaining backlog partition the input set.
type WeekPlan struct {
	WeekStart time.Time `json:"week_start"`
	// Days holds an entry for every active day of the run, in Weekdays order.
	Days map[time.Weekday]*DayPlan `json:"-"`
	// Remaining is the leftover backlog in priority order.
	Remaining []*Job `json:"-"`
}

// NewWeekPlan creates an empty plan for the week containing start.
func NewWeekPlan(start time.Time) *WeekPlan {
	return &WeekPlan{
		WeekStart: MondayOf(start),
		Days:      make(map[time.Weekday]*DayPlan),
	}
}

// EnsureDay returns the DayPlan for the weekday, creating it with empty
// session buckets if needed.
func (p *WeekPlan) EnsureDay(w time.Weekday, date time.Time) *DayPlan {
	if d, ok := p.Days[w]; ok {
		return d
	}
	d := &DayPlan{
		Date: date,
		Sessions: map[Session][]*Job{
			SessionAM: {},
			SessionPM: {},
		},
	}
	p.Days[w] = d
	return d
}

// Bucket returns the placed jobs of one session, or nil for inactive days.
func (p *WeekPlan) Bucket(w time.Weekday, s Session) []*Job {
	d, ok := p.Days[w]
	if !ok {
		return nil
	}
	return d.Sessions[s]
}

// Placed returns every placed job in deterministic day then session order.
func (p *WeekPlan) Placed() []*Job {
	var out []*Job
	for _, w := range Weekdays {
		d, ok := p.Days[w]
		if !ok {
			continue
		}
		for _, s := range Sessions {
			out = append(out, d.Sessions[s]...)
		}
	}
	return out
}

// ResetDay returns the day's placed jobs to the front of the remaining
// backlog and clears their placement fields. It performs no re-fill: the
// caller is expected to run a fresh scheduling pass afterwards. The number
// of jobs returned to the backlog is reported.
func (p *WeekPlan) ResetDay(w time.Weekday) int {
	d, ok := p.Days[w]
	if !ok {
		return 0
	}
	n := 0
	for _, s := range Sessions {
		jobs := d.Sessions[s]
		if len(jobs) == 0 {
			continue
		}
		for _, j := range jobs {
			j.ClearPlanned()
		}
		p.Remaining = append(append([]*Job{}, jobs...), p.Remaining...)
		d.Sessions[s] = []*Job{}
		n += len(jobs)
	}
	return n
}

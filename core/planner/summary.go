package planner

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/fieldops/weekplan/core/model"
)

// Summary aggregates a finished plan for reporting and metrics sinks.
type Summary struct {
	WeekStart time.Time
	Placed    int
	Remaining int
	// PlacedByUrgency counts placed jobs per band name.
	PlacedByUrgency map[string]int
	// Sessions is the number of filled (non-empty) session buckets.
	Sessions int
	// MeanUtilization and StdDevUtilization describe used/budget across
	// the week's enabled sessions.
	MeanUtilization   float64
	StdDevUtilization float64
	// TerritoryWorkload maps territory to total placed minutes.
	TerritoryWorkload map[string]int
}

// TopTerritories returns the busiest placed territories in descending
// minute order, name-ascending on ties.
func (s Summary) TopTerritories(n int) []string {
	names := make([]string, 0, len(s.TerritoryWorkload))
	for t := range s.TerritoryWorkload {
		names = append(names, t)
	}
	sort.Slice(names, func(i, j int) bool {
		wi, wj := s.TerritoryWorkload[names[i]], s.TerritoryWorkload[names[j]]
		if wi != wj {
			return wi > wj
		}
		return names[i] < names[j]
	})
	if n > 0 && len(names) > n {
		names = names[:n]
	}
	return names
}

// Summarize computes placement counts and budget utilization statistics
// for a finished plan under the configuration that produced it.
func Summarize(cfg model.WeekConfig, plan *model.WeekPlan) Summary {
	sum := Summary{
		WeekStart:         plan.WeekStart,
		Remaining:         len(plan.Remaining),
		PlacedByUrgency:   make(map[string]int),
		TerritoryWorkload: make(map[string]int),
	}

	var utilization []float64
	for _, day := range model.Weekdays {
		dp, ok := plan.Days[day]
		if !ok {
			continue
		}
		dc := cfg.Day(day)
		for _, sess := range model.Sessions {
			sc := dc.Session(sess)
			if !sc.Enabled {
				continue
			}
			bucket := dp.Sessions[sess]
			used := 0
			for _, j := range bucket {
				used += j.EstimatedMinutes
				sum.Placed++
				sum.PlacedByUrgency[j.Urgency.String()]++
				sum.TerritoryWorkload[j.Territory] += j.EstimatedMinutes
			}
			if len(bucket) > 0 {
				sum.Sessions++
			}
			budget := SessionBudget(cfg, day, sess, sc.Load)
			utilization = append(utilization, float64(used)/float64(budget))
		}
	}

	if len(utilization) > 0 {
		sum.MeanUtilization = stat.Mean(utilization, nil)
	}
	if len(utilization) > 1 {
		sum.StdDevUtilization = stat.StdDev(utilization, nil)
	}
	return sum
}

package planner

import (
	"strings"
	"time"

	"github.com/fieldops/weekplan/core/model"
)

// cutoffWindowDays is the length of a job's completion window after its
// target date.
const cutoffWindowDays = 30

// CutoffDate returns the close of a job's completion window, or the zero
// time when the job has no target date.
func CutoffDate(target time.Time) time.Time {
	if target.IsZero() {
		return time.Time{}
	}
	return target.AddDate(0, 0, cutoffWindowDays)
}

// Classify derives the urgency band for a target date against the week
// being planned. Bands are week-granular: weekStart is normalized to its
// Monday and compared to the Monday of the week the window closes in.
// A week at or past that last schedulable week is Dark Blue, so overdue
// jobs land in the same top band as last-chance jobs instead of falling
// out of consideration. Exactly one or two weeks earlier is Light Blue.
func Classify(target, weekStart time.Time) model.Urgency {
	if target.IsZero() {
		return model.UrgencyFlexible
	}
	ws := model.MondayOf(weekStart)
	lastWeekStart := model.MondayOf(CutoffDate(target))
	if !ws.Before(lastWeekStart) {
		return model.UrgencyDarkBlue
	}
	if ws.Equal(lastWeekStart.AddDate(0, 0, -7)) || ws.Equal(lastWeekStart.AddDate(0, 0, -14)) {
		return model.UrgencyLightBlue
	}
	return model.UrgencyFlexible
}

// FutileRank extracts the failed-attempt rank from a raw status value.
// The rank only orders jobs within the Dark Blue tier.
func FutileRank(status string) int {
	s := strings.ToLower(strings.TrimSpace(status))
	switch {
	case strings.Contains(s, "futile 2"), strings.Contains(s, "futile2"):
		return 2
	case strings.Contains(s, "futile 1"), strings.Contains(s, "futile1"):
		return 1
	}
	return 0
}

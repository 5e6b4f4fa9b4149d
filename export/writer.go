// Package export renders finished week plans. Scheduled rows come first,
// ordered by planned date, session and stop sequence, followed by the
// leftover backlog in priority order.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fieldops/weekplan/core/model"
)

var csvHeader = []string{
	"reference",
	"label",
	"territory",
	"urgency",
	"estimated_minutes",
	"cutoff_date",
	"planned_date",
	"planned_day",
	"session",
	"sequence",
	"iso_week",
}

// WriteCSV renders the plan as CSV.
func WriteCSV(w io.Writer, plan *model.WeekPlan) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, j := range plan.Placed() {
		if err := cw.Write(jobRow(j)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	for _, j := range plan.Remaining {
		if err := cw.Write(jobRow(j)); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func jobRow(j *model.Job) []string {
	row := []string{
		j.Ref,
		j.Label,
		j.Territory,
		j.Urgency.String(),
		strconv.Itoa(j.EstimatedMinutes),
		formatDate(j.CutoffDate),
		formatDate(j.PlannedDate),
		j.PlannedDay,
		string(j.PlannedSession),
		"",
		"",
	}
	if j.Placed() {
		row[9] = strconv.Itoa(j.PlannedSequence)
		_, week := j.PlannedDate.ISOWeek()
		row[10] = strconv.Itoa(week)
	}
	return row
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// planView is the JSON rendering of a WeekPlan.
type planView struct {
	WeekStart string       `json:"week_start"`
	Days      []dayView    `json:"days"`
	Remaining []*model.Job `json:"remaining"`
}

type dayView struct {
	Day      string                         `json:"day"`
	Date     string                         `json:"date"`
	Focus    string                         `json:"focus,omitempty"`
	Sessions map[model.Session][]*model.Job `json:"sessions"`
}

// WriteJSON renders the full plan structure, days in weekday order.
func WriteJSON(w io.Writer, plan *model.WeekPlan) error {
	view := planView{
		WeekStart: plan.WeekStart.Format("2006-01-02"),
		Days:      []dayView{},
		Remaining: plan.Remaining,
	}
	for _, day := range model.Weekdays {
		dp, ok := plan.Days[day]
		if !ok {
			continue
		}
		view.Days = append(view.Days, dayView{
			Day:      day.String(),
			Date:     dp.Date.Format("2006-01-02"),
			Focus:    dp.Focus,
			Sessions: dp.Sessions,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(view)
}

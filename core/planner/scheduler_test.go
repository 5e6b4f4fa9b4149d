package planner

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/fieldops/weekplan/core/model"
)

// mondayAMConfig enables a single Monday AM session on the standard
// 08:30-15:30 window (budget 207, overrun ceiling 227).
func mondayAMConfig() model.WeekConfig {
	return model.WeekConfig{
		Mode:   model.ModeInspectionWindow,
		Global: model.TimeBounds{StartFirst: "08:30", LatestArrivalLast: "15:30"},
		Days: map[string]model.DayConfig{
			"monday": {
				Active: true,
				AM:     model.SessionConfig{Enabled: true, Load: model.LoadNormal},
				PM:     model.SessionConfig{Enabled: false, Load: model.LoadNormal},
			},
		},
	}
}

func backlogJob(ref, number, street, suburb, bedrooms string, target time.Time) *model.Job {
	return &model.Job{
		Ref:          ref,
		StreetNumber: number,
		StreetName:   street,
		Suburb:       suburb,
		City:         "Wellington",
		Bedrooms:     bedrooms,
		TargetDate:   target,
	}
}

func TestPlanPartitionAndBudgetCeiling(t *testing.T) {
	ws := date(2025, 3, 3)
	jobs := make([]*model.Job, 0, 20)
	for i := 1; i <= 20; i++ {
		// Distinct street numbers keep every job in its own cluster;
		// two bedrooms estimate to 15 minutes each.
		jobs = append(jobs, backlogJob(
			fmt.Sprintf("J%02d", i), fmt.Sprintf("%d", i), "Disraeli Street", "Karori", "2", time.Time{}))
	}

	sched := New(mondayAMConfig(), nil)
	plan := sched.Plan(jobs, ws)

	bucket := plan.Bucket(time.Monday, model.SessionAM)
	// 15 jobs at 15 minutes use 225 of the 227 minute ceiling; a 16th
	// would overflow it.
	if len(bucket) != 15 {
		t.Fatalf("placed %d jobs, want 15", len(bucket))
	}
	if len(plan.Remaining) != 5 {
		t.Fatalf("remaining %d jobs, want 5", len(plan.Remaining))
	}

	used := 0
	seen := make(map[string]bool)
	for n, j := range bucket {
		used += j.EstimatedMinutes
		seen[j.Ref] = true
		if j.PlannedSequence != n+1 {
			t.Errorf("sequence[%d] = %d, want %d", n, j.PlannedSequence, n+1)
		}
		if j.PlannedDay != "Monday" || j.PlannedSession != model.SessionAM {
			t.Errorf("job %s planned for %s %s", j.Ref, j.PlannedDay, j.PlannedSession)
		}
		if !j.PlannedDate.Equal(ws) {
			t.Errorf("job %s planned date %v, want %v", j.Ref, j.PlannedDate, ws)
		}
	}
	ceiling := 207 * 110 / 100
	if used > ceiling {
		t.Fatalf("session used %d minutes, ceiling %d", used, ceiling)
	}
	for _, j := range plan.Remaining {
		if seen[j.Ref] {
			t.Errorf("job %s both placed and remaining", j.Ref)
		}
		if j.Placed() {
			t.Errorf("remaining job %s carries placement fields", j.Ref)
		}
	}
}

func TestPlanClusterPadding(t *testing.T) {
	ws := date(2025, 3, 3)
	darkTarget := date(2025, 2, 1)  // window closes in the planned week
	lightTarget := date(2025, 2, 8) // window closes one week later
	jobs := []*model.Job{
		backlogJob("dark", "12", "Smith Street", "Karori", "2", darkTarget),
		backlogJob("light", "9", "Jones Road", "Karori", "2", lightTarget),
		backlogJob("flex1", "12", "Smith Street", "Karori", "2", time.Time{}),
		backlogJob("flex2", "12", "Smith Street", "Karori", "2", time.Time{}),
		backlogJob("flex3", "12", "Smith Street", "Karori", "2", time.Time{}),
	}

	plan := New(mondayAMConfig(), nil).Plan(jobs, ws)

	bucket := plan.Bucket(time.Monday, model.SessionAM)
	// Flexible jobs in the anchor's building ride along ahead of the
	// Light Blue job on the other street, but the batch caps at three:
	// the fourth building-mate waits for its own turn.
	want := []string{"dark", "flex1", "flex2", "light", "flex3"}
	if len(bucket) != len(want) {
		t.Fatalf("placed %d jobs, want %d", len(bucket), len(want))
	}
	for i, ref := range want {
		if bucket[i].Ref != ref {
			t.Errorf("bucket[%d] = %s, want %s", i, bucket[i].Ref, ref)
		}
	}
	if got := plan.Days[time.Monday].Focus; got != "Karori" {
		t.Errorf("day focus = %q, want Karori", got)
	}
}

func TestFillSessionAntiStarvation(t *testing.T) {
	// Accepting the 20 minute filler after the first anchor would leave
	// 97 minutes, less than the 100 the remaining Dark Blue job needs.
	mk := func(ref string, u model.Urgency, label string, minutes int) *model.Job {
		return &model.Job{Ref: ref, Territory: "Karori", Urgency: u, Label: label, GeoKey: label, EstimatedMinutes: minutes}
	}
	bl := newBacklog([]*model.Job{
		mk("d1", model.UrgencyDarkBlue, "1 Alpha Road", 15),
		mk("d2", model.UrgencyDarkBlue, "9 Beta Road", 100),
		mk("f1", model.UrgencyFlexible, "1 Alpha Road", 20),
	})

	s := New(model.WeekConfig{}, nil)
	picked, used := s.fillSession(bl, "Karori", 120)

	if len(picked) != 2 || picked[0].Ref != "d1" || picked[1].Ref != "d2" {
		refs := make([]string, len(picked))
		for i, j := range picked {
			refs[i] = j.Ref
		}
		t.Fatalf("picked = %s, want [d1 d2]", strings.Join(refs, " "))
	}
	if used != 115 {
		t.Fatalf("used = %d, want 115", used)
	}
	if bl.len() != 1 {
		t.Fatalf("backlog left %d jobs, want 1", bl.len())
	}
}

func TestPlanFocusValidation(t *testing.T) {
	cfg := mondayAMConfig()
	dc := cfg.Days["monday"]
	dc.Focus = "Nowhere"
	dc.Territories = []string{"Karori"}
	cfg.Days["monday"] = dc

	jobs := []*model.Job{backlogJob("a", "1", "Smith Street", "Karori", "2", time.Time{})}
	plan := New(cfg, nil).Plan(jobs, date(2025, 3, 3))

	if got := plan.Days[time.Monday].Focus; got != "Karori" {
		t.Fatalf("disallowed focus should revert to auto, got %q", got)
	}
	if len(plan.Bucket(time.Monday, model.SessionAM)) != 1 {
		t.Fatalf("expected the Karori job placed")
	}
}

func TestPlanNoEligibleTerritory(t *testing.T) {
	cfg := mondayAMConfig()
	dc := cfg.Days["monday"]
	dc.Territories = []string{"Island Bay"}
	cfg.Days["monday"] = dc

	jobs := []*model.Job{
		backlogJob("a", "1", "Smith Street", "Karori", "2", time.Time{}),
		backlogJob("b", "2", "Smith Street", "Karori", "2", time.Time{}),
	}
	plan := New(cfg, nil).Plan(jobs, date(2025, 3, 3))

	if len(plan.Bucket(time.Monday, model.SessionAM)) != 0 {
		t.Fatalf("restricted day should stay empty")
	}
	if len(plan.Remaining) != 2 {
		t.Fatalf("remaining %d, want 2", len(plan.Remaining))
	}
}

func TestPlanDeterministic(t *testing.T) {
	build := func() []*model.Job {
		suburbs := []string{"Karori", "Newtown", "Hataitai", "Aro Valley"}
		streets := []string{"Smith Street", "Jones Road", "Te Anau Road"}
		bedrooms := []string{"1", "2", "5"}
		ws := date(2025, 3, 3)
		jobs := make([]*model.Job, 0, 30)
		for i := 0; i < 30; i++ {
			var target time.Time
			switch i % 3 {
			case 0:
				target = ws.AddDate(0, 0, -28)
			case 1:
				target = ws.AddDate(0, 0, -21)
			}
			jobs = append(jobs, backlogJob(
				fmt.Sprintf("J%02d", i),
				fmt.Sprintf("%d", i%7+1),
				streets[i%len(streets)],
				suburbs[i%len(suburbs)],
				bedrooms[i%len(bedrooms)],
				target))
		}
		return jobs
	}

	cfg := model.WeekConfig{Mode: model.ModeInspectionWindow}
	cfg.SetDefaults()

	signature := func(plan *model.WeekPlan) string {
		var sb strings.Builder
		for _, j := range plan.Placed() {
			fmt.Fprintf(&sb, "%s/%s/%s/%d;", j.Ref, j.PlannedDay, j.PlannedSession, j.PlannedSequence)
		}
		sb.WriteString("|")
		for _, j := range plan.Remaining {
			sb.WriteString(j.Ref + ";")
		}
		return sb.String()
	}

	a := New(cfg, nil).Plan(build(), date(2025, 3, 5))
	b := New(cfg, nil).Plan(build(), date(2025, 3, 5))

	if !a.WeekStart.Equal(date(2025, 3, 3)) {
		t.Fatalf("week start %v, want Monday 2025-03-03", a.WeekStart)
	}
	if sa, sb := signature(a), signature(b); sa != sb {
		t.Fatalf("identical inputs produced different plans:\n%s\n%s", sa, sb)
	}
	if got := len(a.Placed()) + len(a.Remaining); got != 30 {
		t.Fatalf("placed+remaining = %d, want 30", got)
	}
}

func TestSortJobs(t *testing.T) {
	mk := func(ref string, u model.Urgency, cutoff time.Time, rank int) *model.Job {
		return &model.Job{Ref: ref, Urgency: u, CutoffDate: cutoff, FutileRank: rank}
	}
	jobs := []*model.Job{
		mk("f2", model.UrgencyFlexible, time.Time{}, 0),
		mk("d2", model.UrgencyDarkBlue, date(2024, 1, 31), 2),
		mk("d1", model.UrgencyDarkBlue, date(2024, 1, 31), 0),
		mk("l2", model.UrgencyLightBlue, date(2024, 2, 14), 0),
		mk("l1", model.UrgencyLightBlue, date(2024, 2, 7), 0),
		mk("f1", model.UrgencyFlexible, date(2024, 3, 1), 0),
	}
	SortJobs(jobs)
	want := []string{"d1", "d2", "l1", "l2", "f1", "f2"}
	for i, ref := range want {
		if jobs[i].Ref != ref {
			t.Errorf("jobs[%d] = %s, want %s", i, jobs[i].Ref, ref)
		}
	}
}

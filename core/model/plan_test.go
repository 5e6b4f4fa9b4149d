package model

import (
	"testing"
	"time"
)

func TestMondayOf(t *testing.T) {
	cases := []struct {
		in   time.Time
		want time.Time
	}{
		{time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 2, 4, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)},
		{time.Date(2024, 2, 5, 15, 30, 0, 0, time.UTC), time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)},
	}
	for _, c := range cases {
		if got := MondayOf(c.in); !got.Equal(c.want) {
			t.Errorf("MondayOf(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestWeekPlanResetDay(t *testing.T) {
	monday := time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)
	plan := NewWeekPlan(monday)
	day := plan.EnsureDay(time.Monday, monday)

	am1 := &Job{Ref: "am1", PlannedSequence: 1, PlannedSession: SessionAM}
	am2 := &Job{Ref: "am2", PlannedSequence: 2, PlannedSession: SessionAM}
	pm1 := &Job{Ref: "pm1", PlannedSequence: 1, PlannedSession: SessionPM}
	day.Sessions[SessionAM] = []*Job{am1, am2}
	day.Sessions[SessionPM] = []*Job{pm1}
	plan.Remaining = []*Job{{Ref: "left"}}

	n := plan.ResetDay(time.Monday)
	if n != 3 {
		t.Fatalf("expected 3 jobs returned, got %d", n)
	}
	if len(plan.Bucket(time.Monday, SessionAM)) != 0 || len(plan.Bucket(time.Monday, SessionPM)) != 0 {
		t.Fatalf("expected empty buckets after reset")
	}
	want := []string{"pm1", "am1", "am2", "left"}
	if len(plan.Remaining) != len(want) {
		t.Fatalf("remaining length = %d, want %d", len(plan.Remaining), len(want))
	}
	for i, ref := range want {
		if plan.Remaining[i].Ref != ref {
			t.Errorf("remaining[%d] = %s, want %s", i, plan.Remaining[i].Ref, ref)
		}
	}
	for _, j := range []*Job{am1, am2, pm1} {
		if j.Placed() {
			t.Errorf("job %s still placed after reset", j.Ref)
		}
	}
}

func TestWeekPlanResetDayInactive(t *testing.T) {
	plan := NewWeekPlan(time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC))
	if n := plan.ResetDay(time.Saturday); n != 0 {
		t.Fatalf("expected 0 for inactive day, got %d", n)
	}
}

func TestPlacedOrder(t *testing.T) {
	monday := time.Date(2024, 1, 29, 0, 0, 0, 0, time.UTC)
	plan := NewWeekPlan(monday)
	mon := plan.EnsureDay(time.Monday, monday)
	tue := plan.EnsureDay(time.Tuesday, monday.AddDate(0, 0, 1))
	mon.Sessions[SessionPM] = []*Job{{Ref: "mon-pm"}}
	tue.Sessions[SessionAM] = []*Job{{Ref: "tue-am"}}

	got := plan.Placed()
	want := []string{"mon-pm", "tue-am"}
	if len(got) != len(want) {
		t.Fatalf("placed length = %d, want %d", len(got), len(want))
	}
	for i, ref := range want {
		if got[i].Ref != ref {
			t.Errorf("placed[%d] = %s, want %s", i, got[i].Ref, ref)
		}
	}
}

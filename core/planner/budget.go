package planner

import (
	"time"

	"github.com/fieldops/weekplan/core/model"
)

const (
	// fallbackWindowMinutes is assumed when either time bound is missing
	// or unparsable.
	fallbackWindowMinutes = 240
	amShare               = 0.55
	pmShare               = 0.45
	// safetyFactor is the fixed haircut keeping budgets conservative.
	safetyFactor      = 0.90
	minSessionMinutes = 60
)

// SessionBudget converts a day's time window, session split and load setting
// into a minute budget. Day overrides take precedence over the global bounds.
// The result is deterministic and never below minSessionMinutes.
func SessionBudget(cfg model.WeekConfig, day time.Weekday, sess model.Session, load model.LoadMode) int {
	bounds := cfg.Global
	if dc := cfg.Day(day); dc.Override != nil {
		bounds = *dc.Override
	}
	start, end := bounds.Window(cfg.Mode)

	base := fallbackWindowMinutes
	if m, ok := windowMinutes(start, end); ok {
		base = m
	}

	share := amShare
	if sess == model.SessionPM {
		share = pmShare
	}
	b := int(float64(base) * share)
	b = int(float64(b) * load.Multiplier())
	b = int(float64(b) * safetyFactor)
	if b < minSessionMinutes {
		b = minSessionMinutes
	}
	return b
}

// windowMinutes computes the span between two "HH:MM" bounds. The parse
// anchors both on the same arbitrary date, so only time-of-day arithmetic
// is involved. A window that closes before it opens counts as zero.
func windowMinutes(start, end string) (int, bool) {
	if start == "" || end == "" {
		return 0, false
	}
	t0, err0 := time.Parse("15:04", start)
	t1, err1 := time.Parse("15:04", end)
	if err0 != nil || err1 != nil {
		return 0, false
	}
	m := int(t1.Sub(t0).Minutes())
	if m < 0 {
		m = 0
	}
	return m, true
}

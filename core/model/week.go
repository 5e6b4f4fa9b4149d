package model

import (
	"fmt"
	"strings"
	"time"
)

// TimeMode selects which pair of time bounds applies to a day's window.
type TimeMode string

const (
	// ModeInspectionWindow bounds the day by the first inspection start and
	// the latest arrival at the last inspection.
	ModeInspectionWindow TimeMode = "inspection_window"
	// ModeDepotWindow bounds the day by depot departure and return.
	ModeDepotWindow TimeMode = "depot_window"
)

// TimeBounds holds "HH:MM" times of day. Only the pair selected by the
// configured TimeMode is consulted; missing bounds fall back to a fixed
// default window.
type TimeBounds struct {
	StartFirst        string `json:"start_first"`
	LatestArrivalLast string `json:"latest_arrival_last"`
	DepartDepot       string `json:"depart_depot"`
	ReturnDepot       string `json:"return_depot"`
}

// Window returns the start and end bound for the given mode.
func (b TimeBounds) Window(mode TimeMode) (start, end string) {
	if mode == ModeDepotWindow {
		return b.DepartDepot, b.ReturnDepot
	}
	return b.StartFirst, b.LatestArrivalLast
}

// SessionConfig enables a half-day session and sets its load.
type SessionConfig struct {
	Enabled bool     `json:"enabled"`
	Load    LoadMode `json:"load"`
}

// DayConfig holds per-weekday planning parameters.
type DayConfig struct {
	Active bool          `json:"active"`
	AM     SessionConfig `json:"am"`
	PM     SessionConfig `json:"pm"`
	// Override replaces the global time bounds for this day when set.
	Override *TimeBounds `json:"override,omitempty"`
	// Focus pins the day to one territory. Empty means auto-select.
	Focus string `json:"focus,omitempty"`
	// Territories restricts which territories may be scheduled this day.
	// Empty means unrestricted.
	Territories []string `json:"territories,omitempty"`
}

// Session returns the configuration of the given session.
func (d DayConfig) Session(s Session) SessionConfig {
	if s == SessionPM {
		return d.PM
	}
	return d.AM
}

// WeekConfig is the full planning configuration for one week.
type WeekConfig struct {
	Mode   TimeMode   `json:"mode"`
	Global TimeBounds `json:"global"`
	// Days is keyed by lowercase weekday name ("monday" .. "sunday").
	Days map[string]DayConfig `json:"days"`
}

// Day returns the configuration for the given weekday.
func (c WeekConfig) Day(w time.Weekday) DayConfig {
	return c.Days[strings.ToLower(w.String())]
}

// SetDefaults applies the standard working week: Monday to Friday active,
// both sessions enabled at Normal load, inspection window 08:30 to 15:30.
func (c *WeekConfig) SetDefaults() {
	if c.Mode == "" {
		c.Mode = ModeInspectionWindow
	}
	if c.Mode == ModeInspectionWindow && c.Global.StartFirst == "" && c.Global.LatestArrivalLast == "" {
		c.Global.StartFirst = "08:30"
		c.Global.LatestArrivalLast = "15:30"
	}
	if c.Days == nil {
		c.Days = make(map[string]DayConfig)
		for _, w := range Weekdays[:5] {
			c.Days[strings.ToLower(w.String())] = DayConfig{
				Active: true,
				AM:     SessionConfig{Enabled: true, Load: LoadNormal},
				PM:     SessionConfig{Enabled: true, Load: LoadNormal},
			}
		}
	}
	for name, d := range c.Days {
		if d.AM.Load == "" {
			d.AM.Load = LoadNormal
		}
		if d.PM.Load == "" {
			d.PM.Load = LoadNormal
		}
		c.Days[name] = d
	}
}

// Validate checks mandatory fields.
func (c WeekConfig) Validate() error {
	switch c.Mode {
	case ModeInspectionWindow, ModeDepotWindow:
	default:
		return fmt.Errorf("unknown time mode %q", c.Mode)
	}
	for name, d := range c.Days {
		if _, ok := weekdayNames[name]; !ok {
			return fmt.Errorf("unknown weekday %q", name)
		}
		for _, l := range []LoadMode{d.AM.Load, d.PM.Load} {
			switch l {
			case LoadLight, LoadNormal, LoadHeavy, "":
			default:
				return fmt.Errorf("unknown load mode %q for %s", l, name)
			}
		}
	}
	return nil
}

var weekdayNames = func() map[string]time.Weekday {
	m := make(map[string]time.Weekday, len(Weekdays))
	for _, w := range Weekdays {
		m[strings.ToLower(w.String())] = w
	}
	return m
}()

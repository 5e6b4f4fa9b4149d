package planner

import (
	"sort"
	"time"

	"github.com/fieldops/weekplan/core/logger"
	"github.com/fieldops/weekplan/core/model"
)

const (
	// maxBatchSize caps how many clustered visits are committed together.
	maxBatchSize = 3
	// overrunPercent lets a session run slightly past its budget to absorb
	// estimate imprecision without letting one large job blow far past it.
	overrunPercent = 110
)

// Scheduler fills a week's session buckets from a job backlog.
type Scheduler struct {
	cfg model.WeekConfig
	log logger.Logger
}

// New creates a Scheduler for the given week configuration. A nil logger
// disables logging.
func New(cfg model.WeekConfig, log logger.Logger) *Scheduler {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Scheduler{cfg: cfg, log: log}
}

// Enrich computes the derived planning fields for every job against the
// Monday of the planned week, clearing any previous placement. Malformed
// source fields degrade to defaults; Enrich never fails.
func Enrich(jobs []*model.Job, weekStart time.Time) {
	ws := model.MondayOf(weekStart)
	for _, j := range jobs {
		j.CutoffDate = CutoffDate(j.TargetDate)
		j.Urgency = Classify(j.TargetDate, ws)
		j.EstimatedMinutes = EstimateMinutes(j.Bedrooms, j.InspectionType)
		j.FutileRank = FutileRank(j.Status)
		j.Territory = AssignTerritory(j.Suburb, j.City)
		j.Label = Label(j.StreetNumber, j.StreetName, j.Suburb, j.City)
		j.GeoKey = GeoKey(j.StreetName)
		j.ClusterKey = ClusterKey(j.Label, j.GeoKey)
		j.ClearPlanned()
	}
}

// SortJobs orders jobs into the global priority queue consumed by the
// bucket-fill loop: urgency band first, then oldest cutoff (missing sorts
// last), then the futile tie-break within Dark Blue, then territory, geo
// key and estimated minutes. The sort is stable so equal jobs keep their
// input order.
func SortJobs(jobs []*model.Job) {
	sort.SliceStable(jobs, func(i, k int) bool {
		a, b := jobs[i], jobs[k]
		if a.Urgency != b.Urgency {
			return a.Urgency < b.Urgency
		}
		ac, bc := cutoffSortKey(a.CutoffDate), cutoffSortKey(b.CutoffDate)
		if !ac.Equal(bc) {
			return ac.Before(bc)
		}
		if at, bt := darkTie(a), darkTie(b); at != bt {
			return at < bt
		}
		if a.Territory != b.Territory {
			return a.Territory < b.Territory
		}
		if a.GeoKey != b.GeoKey {
			return a.GeoKey < b.GeoKey
		}
		return a.EstimatedMinutes < b.EstimatedMinutes
	})
}

var latestCutoff = time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)

func cutoffSortKey(t time.Time) time.Time {
	if t.IsZero() {
		return latestCutoff
	}
	return t
}

// darkTie is the futile-attempt rank, but only within the Dark Blue tier.
func darkTie(j *model.Job) int {
	if j.Urgency == model.UrgencyDarkBlue {
		return j.FutileRank
	}
	return 0
}

// Plan runs one full scheduling pass: enrich, sort, then fill every active
// day's enabled sessions in fixed weekday order. The returned WeekPlan owns
// the placement and the leftover backlog; rerunning with identical inputs
// yields identical buckets.
func (s *Scheduler) Plan(jobs []*model.Job, weekStart time.Time) *model.WeekPlan {
	ws := model.MondayOf(weekStart)
	Enrich(jobs, ws)
	SortJobs(jobs)

	plan := model.NewWeekPlan(ws)
	bl := newBacklog(jobs)

	for i, day := range model.Weekdays {
		dc := s.cfg.Day(day)
		if !dc.Active {
			continue
		}
		date := ws.AddDate(0, 0, i)
		dp := plan.EnsureDay(day, date)

		allowed := allowedSet(dc.Territories)
		focus := s.resolveFocus(day, dc.Focus, allowed, bl)
		if focus == "" {
			// Nothing eligible anywhere: leave the day's buckets empty
			// rather than forcing incoherent cross-territory routing.
			continue
		}
		dp.Focus = focus

		for _, sess := range model.Sessions {
			sc := dc.Session(sess)
			if !sc.Enabled {
				continue
			}
			budget := SessionBudget(s.cfg, day, sess, sc.Load)
			picked, used := s.fillSession(bl, focus, budget)
			for n, j := range picked {
				j.PlannedDay = day.String()
				j.PlannedDate = date
				j.PlannedSession = sess
				j.PlannedSequence = n + 1
			}
			dp.Sessions[sess] = picked
			s.log.Debugw("session filled", map[string]any{
				"day":     day.String(),
				"session": string(sess),
				"focus":   focus,
				"budget":  budget,
				"used":    used,
				"placed":  len(picked),
			})
		}
	}

	plan.Remaining = bl.drain()
	s.log.Infof("week planned: %d placed, %d remaining", len(plan.Placed()), len(plan.Remaining))
	return plan
}

// resolveFocus validates a configured focus territory against the day's
// allow-set, silently reverting to auto-selection when it is absent or
// disallowed.
func (s *Scheduler) resolveFocus(day time.Weekday, focus string, allowed map[string]bool, bl *backlog) string {
	if focus != "" && allowed != nil && !allowed[focus] {
		s.log.Warnf("%s: focus territory %q not allowed today, reverting to auto", day, focus)
		focus = ""
	}
	if focus == "" {
		focus = autoTerritory(bl.jobs, allowed)
	}
	return focus
}

// allowedSet converts the allow-list to a lookup set. An empty restriction
// is treated as unrestricted.
func allowedSet(territories []string) map[string]bool {
	if len(territories) == 0 {
		return nil
	}
	set := make(map[string]bool, len(territories))
	for _, t := range territories {
		set[t] = true
	}
	return set
}

// fillSession repeatedly pulls urgency-tiered clusters of jobs from the
// backlog into one session until the budget (plus the overrun allowance)
// is exhausted. Jobs that do not fit are pushed back to the front of the
// backlog for the next session's scan.
func (s *Scheduler) fillSession(bl *backlog, focus string, budget int) ([]*model.Job, int) {
	ceiling := budget * overrunPercent / 100
	picked := []*model.Job{}
	used := 0

	for {
		tier, ok := nextTier(bl, focus)
		if !ok {
			break
		}
		anchor := bl.popFirst(matchTier(focus, tier))
		if anchor == nil {
			break
		}
		if used+anchor.EstimatedMinutes > ceiling {
			// The session is closed: even the highest-priority job left
			// would blow past the overrun allowance.
			bl.pushFront(anchor)
			break
		}

		key := ClusterKey(anchor.Label, anchor.GeoKey)
		batch := []*model.Job{anchor}
		batchMinutes := anchor.EstimatedMinutes

		for len(batch) < maxBatchSize {
			next := bl.popFirst(matchCluster(focus, tier, key))
			if next == nil {
				break
			}
			if used+batchMinutes+next.EstimatedMinutes > ceiling {
				bl.pushFront(next)
				break
			}
			batch = append(batch, next)
			batchMinutes += next.EstimatedMinutes
		}

		if len(batch) < maxBatchSize {
			batch, batchMinutes = s.padBatch(bl, focus, tier, key, batch, batchMinutes, used, ceiling)
		}

		picked = append(picked, batch...)
		used += batchMinutes
	}
	return picked, used
}

// padBatch tops a short batch up from lower urgency tiers sharing the same
// cluster key. Each pad is bounded by the budget ceiling and by the
// anti-starvation rule: filler must not crowd out the next same-tier job.
func (s *Scheduler) padBatch(bl *backlog, focus string, tier model.Urgency, key string, batch []*model.Job, batchMinutes, used, ceiling int) ([]*model.Job, int) {
	for _, lower := range padTiers(tier) {
		for len(batch) < maxBatchSize {
			pad := bl.popFirst(matchCluster(focus, lower, key))
			if pad == nil {
				break
			}
			if used+batchMinutes+pad.EstimatedMinutes > ceiling {
				bl.pushFront(pad)
				break
			}
			left := ceiling - (used + batchMinutes + pad.EstimatedMinutes)
			if wouldStarveTier(bl, focus, tier, left) {
				bl.pushFront(pad)
				break
			}
			batch = append(batch, pad)
			batchMinutes += pad.EstimatedMinutes
		}
		if len(batch) >= maxBatchSize {
			break
		}
	}
	return batch, batchMinutes
}

// padTiers lists which lower tiers may fill out a batch anchored at the
// given tier, in preference order.
func padTiers(tier model.Urgency) []model.Urgency {
	switch tier {
	case model.UrgencyDarkBlue:
		return []model.Urgency{model.UrgencyFlexible, model.UrgencyLightBlue}
	case model.UrgencyLightBlue:
		return []model.Urgency{model.UrgencyFlexible}
	default:
		return nil
	}
}

// wouldStarveTier reports whether accepting a pad would leave less budget
// than the smallest remaining same-tier job in the territory needs.
func wouldStarveTier(bl *backlog, focus string, tier model.Urgency, budgetLeft int) bool {
	if budgetLeft <= 0 {
		return true
	}
	minNeeded, ok := bl.minMinutes(matchTier(focus, tier))
	if !ok {
		return false
	}
	return budgetLeft < minNeeded
}

// nextTier finds the highest-urgency band with an unplaced job left in the
// focus territory.
func nextTier(bl *backlog, focus string) (model.Urgency, bool) {
	for _, tier := range []model.Urgency{model.UrgencyDarkBlue, model.UrgencyLightBlue, model.UrgencyFlexible} {
		if bl.any(matchTier(focus, tier)) {
			return tier, true
		}
	}
	return 0, false
}

func matchTier(focus string, tier model.Urgency) func(*model.Job) bool {
	return func(j *model.Job) bool {
		return j.Territory == focus && j.Urgency == tier
	}
}

func matchCluster(focus string, tier model.Urgency, key string) func(*model.Job) bool {
	return func(j *model.Job) bool {
		return j.Territory == focus && j.Urgency == tier && ClusterKey(j.Label, j.GeoKey) == key
	}
}

package planner

import (
	"strings"

	"github.com/fieldops/weekplan/core/model"
)

// AssignTerritory maps a job to its geographic bucket: the suburb when
// present, else the city, else the Unknown territory. Territories partition
// the job set and are the unit of day-focus planning.
func AssignTerritory(suburb, city string) string {
	if s := strings.TrimSpace(suburb); s != "" {
		return s
	}
	if c := strings.TrimSpace(city); c != "" {
		return c
	}
	return model.TerritoryUnknown
}

// Label builds the display address from the street-level and locality
// fields, eliding whatever is absent.
func Label(number, street, suburb, city string) string {
	var addr []string
	if n := strings.TrimSpace(number); n != "" {
		addr = append(addr, n)
	}
	if s := strings.TrimSpace(street); s != "" {
		addr = append(addr, s)
	}
	var loc []string
	if s := strings.TrimSpace(suburb); s != "" {
		loc = append(loc, s)
	}
	if c := strings.TrimSpace(city); c != "" {
		loc = append(loc, c)
	}
	a := strings.Join(addr, " ")
	l := strings.Join(loc, ", ")
	switch {
	case l == "":
		return a
	case a == "":
		return l
	default:
		return a + " - " + l
	}
}

// GeoKey returns the raw street-level grouping key used when address
// normalization cannot produce a building cluster.
func GeoKey(street string) string {
	if s := strings.TrimSpace(street); s != "" {
		return s
	}
	return model.TerritoryUnknown
}

// autoTerritory picks the territory with the highest urgency-weighted
// remaining workload among the allowed set (nil means unrestricted).
// Ties break on territory name so reruns are stable. An empty result means
// no territory has an eligible job left.
func autoTerritory(jobs []*model.Job, allowed map[string]bool) string {
	score := make(map[string]int)
	for _, j := range jobs {
		if allowed != nil && !allowed[j.Territory] {
			continue
		}
		score[j.Territory] += j.Urgency.Weight()
	}
	best, bestScore := "", 0
	for terr, sc := range score {
		if sc > bestScore || (sc == bestScore && best != "" && terr < best) {
			best, bestScore = terr, sc
		}
	}
	return best
}

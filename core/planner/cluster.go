package planner

import (
	"fmt"
	"regexp"
	"strings"
)

// Address normalization regexes compiled once at package init.
var (
	reUnitPrefix = regexp.MustCompile(`^(unit|apt|apartment|flat)\s*\w+\s*,\s*`)
	reUnitCode   = regexp.MustCompile(`^[a-z0-9]+\s*/\s*`)
	reStreet     = regexp.MustCompile(`^(\d+[a-z]?)\s+([a-z\s]+?)\s+(ave|avenue|rd|road|st|street|cres|crescent|pl|place|dr|drive|tce|terrace|ln|lane)\b`)
	reSpaces     = regexp.MustCompile(`\s+`)
)

// ClusterKey derives a proximity key used to batch nearby visits. Labels
// matching a "number street-name street-type" pattern share a key per
// building or street segment; anything else falls back to the raw geo key.
// This is a cheap heuristic, not verified geocoding: a wrong key degrades
// clustering quality, never correctness.
func ClusterKey(label, geoKey string) string {
	l := strings.ToLower(strings.TrimSpace(label))
	if l == "" {
		return geoFallbackKey(geoKey)
	}
	l = reUnitPrefix.ReplaceAllString(l, "")
	l = reUnitCode.ReplaceAllString(l, "")
	if m := reStreet.FindStringSubmatch(l); m != nil {
		street := reSpaces.ReplaceAllString(strings.TrimSpace(m[2]), " ")
		return fmt.Sprintf("bldg|%s|%s|%s", m[1], street, m[3])
	}
	return geoFallbackKey(geoKey)
}

func geoFallbackKey(geoKey string) string {
	g := strings.ToLower(strings.TrimSpace(geoKey))
	if g == "" {
		g = "unknown"
	}
	return "geo|" + g
}

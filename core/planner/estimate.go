package planner

import (
	"strconv"
	"strings"
)

// fullInspectionFactor scales the base estimate when the inspection type
// indicates a fuller visit.
const fullInspectionFactor = 1.35

// fullInspectionTokens mark inspection-type labels that take longer.
var fullInspectionTokens = []string{"plus", "full", "condition"}

// EstimateMinutes returns a conservative visit duration from the raw
// bedroom count and inspection type. Malformed or missing bedroom values
// fall back to the generic base; the result is always positive.
func EstimateMinutes(bedrooms, inspectionType string) int {
	base := 15
	if b, ok := parseBedrooms(bedrooms); ok {
		switch {
		case b <= 1:
			base = 7
		case b <= 3:
			base = 15
		default:
			base = 40
		}
	}
	t := strings.ToLower(inspectionType)
	for _, tok := range fullInspectionTokens {
		if strings.Contains(t, tok) {
			base = int(float64(base) * fullInspectionFactor)
			break
		}
	}
	return base
}

func parseBedrooms(raw string) (int, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, false
	}
	return int(f), true
}

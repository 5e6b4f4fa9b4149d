// Package ingest reads tabular job backlogs into typed records. It is an
// I/O adapter: the planning engine never depends on it.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fieldops/weekplan/core/model"
)

// Mapping pins backlog columns to job fields by header name. Empty entries
// are auto-detected from the header row.
type Mapping struct {
	Target   string `json:"target"`
	Status   string `json:"status"`
	Bedrooms string `json:"bedrooms"`
	Type     string `json:"type"`
	Ref      string `json:"ref"`
	Number   string `json:"number"`
	Street   string `json:"street"`
	Suburb   string `json:"suburb"`
	City     string `json:"city"`
}

// Candidate header fragments per field, matched case-insensitively by
// containment. The first header containing a candidate wins.
var candidates = map[string][]string{
	"target":   {"target_date", "target date", "due", "target"},
	"status":   {"status", "survey_status", "survey status", "state"},
	"bedrooms": {"bdrm", "bed", "bedroom"},
	"type":     {"inspection type", "type", "visit type"},
	"ref":      {"reference", "property_reference", "property reference", "id"},
	"number":   {"number", "street number", "no."},
	"street":   {"street"},
	"suburb":   {"suburb"},
	"city":     {"city", "town", "region", "area"},
}

// ReadBacklog parses a CSV backlog into jobs. Column positions come from
// the mapping where set, otherwise from header auto-detection. Cell-level
// problems never fail a row: unparsable values are carried as raw strings
// and degrade to defaults during enrichment.
func ReadBacklog(r io.Reader, m Mapping) ([]*model.Job, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := resolveColumns(header, m)

	var jobs []*model.Job
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		cell := func(col int) string {
			if col < 0 || col >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[col])
		}
		jobs = append(jobs, &model.Job{
			Ref:            cell(idx["ref"]),
			Status:         cell(idx["status"]),
			Bedrooms:       cell(idx["bedrooms"]),
			InspectionType: cell(idx["type"]),
			StreetNumber:   cell(idx["number"]),
			StreetName:     cell(idx["street"]),
			Suburb:         cell(idx["suburb"]),
			City:           cell(idx["city"]),
			TargetDate:     ParseDate(cell(idx["target"])),
		})
	}
	return jobs, nil
}

// resolveColumns maps each job field to a column index, -1 when absent.
func resolveColumns(header []string, m Mapping) map[string]int {
	pinned := map[string]string{
		"target":   m.Target,
		"status":   m.Status,
		"bedrooms": m.Bedrooms,
		"type":     m.Type,
		"ref":      m.Ref,
		"number":   m.Number,
		"street":   m.Street,
		"suburb":   m.Suburb,
		"city":     m.City,
	}
	idx := make(map[string]int, len(pinned))
	for field, want := range pinned {
		if want != "" {
			idx[field] = findColumn(header, want)
			continue
		}
		idx[field] = autoDetect(header, candidates[field])
	}
	return idx
}

// findColumn locates an exact header match, case-insensitively.
func findColumn(header []string, name string) int {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// autoDetect returns the first column whose header contains one of the
// candidate fragments.
func autoDetect(header []string, frags []string) int {
	for _, frag := range frags {
		for i, h := range header {
			if strings.Contains(strings.ToLower(h), frag) {
				return i
			}
		}
	}
	return -1
}

// dateLayouts are tried in order when parsing target dates.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseDate parses a backlog date cell, returning the zero time when the
// value is empty or matches no known layout.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		}
	}
	return time.Time{}
}

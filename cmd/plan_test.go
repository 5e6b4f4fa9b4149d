package cmd

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testBacklog = `Reference,Target Date,Status,Bedrooms,Inspection Type,No.,Street,Suburb,City
P-1,,Booked,2,Routine,12,Smith Street,Karori,Wellington
P-2,,Booked,2,Routine,14,Smith Street,Karori,Wellington
P-3,,Booked,1,Routine,9,Jones Road,Karori,Wellington
`

func writeBacklog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "backlog.csv")
	if err := os.WriteFile(path, []byte(testBacklog), 0o644); err != nil {
		t.Fatalf("write backlog: %v", err)
	}
	return path
}

func TestPlanCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "plan.csv")
	rootCmd.SetArgs([]string{"plan", writeBacklog(t), "--week", "2025-03-03", "-o", out})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("plan command: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	// Header plus one row per backlog job, placed or not.
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}
	if rows[1][9] != "1" {
		t.Errorf("first placed row sequence = %q, want 1", rows[1][9])
	}
	for _, row := range rows[1:] {
		if row[7] != "" && row[7] != "Monday" {
			t.Errorf("unexpected planned day %q", row[7])
		}
	}
}

func TestBacklogCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	defer rootCmd.SetOut(nil)

	rootCmd.SetArgs([]string{"backlog", writeBacklog(t), "--week", "2025-03-03"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("backlog command: %v", err)
	}

	got := buf.String()
	if !strings.Contains(got, "Week of 2025-03-03, 3 jobs") {
		t.Errorf("missing summary line in output:\n%s", got)
	}
	if !strings.Contains(got, "Karori") {
		t.Errorf("missing territory workload in output:\n%s", got)
	}
}

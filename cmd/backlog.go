package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fieldops/weekplan/core/model"
	"github.com/fieldops/weekplan/core/planner"
	"github.com/fieldops/weekplan/ingest"
)

var backlogWeekFlag string

var backlogCmd = &cobra.Command{
	Use:   "backlog [backlog.csv]",
	Short: "Show urgency and territory workload for a backlog file",
	Args:  cobra.ExactArgs(1),
	RunE:  runBacklog,
}

func init() {
	backlogCmd.Flags().StringVar(&backlogWeekFlag, "week", "", "any date in the week to classify against (YYYY-MM-DD, default: current week)")
	rootCmd.AddCommand(backlogCmd)
}

func runBacklog(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	weekStart := time.Now()
	if backlogWeekFlag != "" {
		weekStart, err = time.Parse("2006-01-02", backlogWeekFlag)
		if err != nil {
			return fmt.Errorf("parse week date: %w", err)
		}
	}
	weekStart = model.MondayOf(weekStart)

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open backlog: %w", err)
	}
	defer f.Close()
	jobs, err := ingest.ReadBacklog(f, cfg.Mapping)
	if err != nil {
		return fmt.Errorf("read backlog: %w", err)
	}
	planner.Enrich(jobs, weekStart)

	byUrgency := make(map[model.Urgency]int)
	minutes := make(map[string]int)
	for _, j := range jobs {
		byUrgency[j.Urgency]++
		minutes[j.Territory] += j.EstimatedMinutes
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Week of %s, %d jobs\n", weekStart.Format("2006-01-02"), len(jobs))
	fmt.Fprintf(out, "  Dark Blue (must this week): %d\n", byUrgency[model.UrgencyDarkBlue])
	fmt.Fprintf(out, "  Light Blue (warning band):  %d\n", byUrgency[model.UrgencyLightBlue])
	fmt.Fprintf(out, "  Flexible backlog:           %d\n", byUrgency[model.UrgencyFlexible])
	fmt.Fprintf(out, "  Territories detected:       %d\n", len(minutes))

	sum := planner.Summary{TerritoryWorkload: minutes}
	fmt.Fprintln(out, "Workload by territory (top 10):")
	for _, terr := range sum.TopTerritories(10) {
		fmt.Fprintf(out, "  %-24s %4d min\n", terr, minutes[terr])
	}
	return nil
}

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fieldops/weekplan/core/model"
	"github.com/fieldops/weekplan/core/planner"
	"github.com/fieldops/weekplan/export"
	"github.com/fieldops/weekplan/infra/logger"
	"github.com/fieldops/weekplan/infra/mqtt"
	"github.com/fieldops/weekplan/ingest"
	"github.com/fieldops/weekplan/metrics"
)

var (
	weekFlag    string
	outFlag     string
	jsonFlag    bool
	publishFlag bool
)

var planCmd = &cobra.Command{
	Use:   "plan [backlog.csv]",
	Short: "Plan one week of visits from a backlog file",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlan,
}

func init() {
	planCmd.Flags().StringVar(&weekFlag, "week", "", "any date in the week to plan (YYYY-MM-DD, default: current week)")
	planCmd.Flags().StringVarP(&outFlag, "out", "o", "-", "output file, - for stdout")
	planCmd.Flags().BoolVar(&jsonFlag, "json", false, "write the plan as JSON instead of CSV")
	planCmd.Flags().BoolVar(&publishFlag, "publish", false, "publish day plans over MQTT")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logg := logger.New("plan-command")

	weekStart := time.Now()
	if weekFlag != "" {
		weekStart, err = time.Parse("2006-01-02", weekFlag)
		if err != nil {
			return fmt.Errorf("parse week date: %w", err)
		}
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open backlog: %w", err)
	}
	defer f.Close()
	jobs, err := ingest.ReadBacklog(f, cfg.Mapping)
	if err != nil {
		return fmt.Errorf("read backlog: %w", err)
	}
	logg.Infof("backlog loaded: %d jobs", len(jobs))

	sink := buildSink(ctx, cfg.Metrics, logg)

	runID := uuid.NewString()
	sched := planner.New(cfg.Week, logg)
	plan := sched.Plan(jobs, weekStart)
	sum := planner.Summarize(cfg.Week, plan)

	if err := recordRun(sink, runID, plan, sum); err != nil {
		logg.Errorf("record metrics: %v", err)
	}
	logg.Infof("run %s: week of %s, %d placed / %d remaining, mean utilization %.2f",
		runID, plan.WeekStart.Format("2006-01-02"), sum.Placed, sum.Remaining, sum.MeanUtilization)

	if publishFlag || cfg.MQTT.Enabled {
		pub, err := mqtt.NewPublisher(cfg.MQTT)
		if err != nil {
			return fmt.Errorf("mqtt publisher: %w", err)
		}
		defer pub.Close()
		if err := pub.PublishPlan(runID, plan); err != nil {
			return fmt.Errorf("publish plan: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if outFlag != "" && outFlag != "-" {
		of, err := os.Create(outFlag)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer of.Close()
		out = of
	}
	if jsonFlag {
		return export.WriteJSON(out, plan)
	}
	return export.WriteCSV(out, plan)
}

// buildSink assembles the configured metrics sinks, starting the Prometheus
// endpoint when enabled.
func buildSink(ctx context.Context, cfg metrics.Config, logg logger.Logger) metrics.Sink {
	var sinks []metrics.Sink
	if cfg.PrometheusEnabled {
		sink, err := metrics.NewPromSink(nil)
		if err != nil {
			logg.Errorf("prom sink: %v", err)
		} else {
			sinks = append(sinks, sink)
			go func() {
				if err := metrics.StartPromServer(ctx, cfg.PrometheusAddr); err != nil {
					logg.Errorf("prom server: %v", err)
				}
			}()
		}
	}
	if cfg.InfluxEnabled {
		sinks = append(sinks, metrics.NewInfluxSinkWithFallback(cfg))
	}
	switch len(sinks) {
	case 0:
		return metrics.NopSink{}
	case 1:
		return sinks[0]
	default:
		return metrics.NewMultiSink(sinks...)
	}
}

// recordRun converts a finished plan into sink records.
func recordRun(sink metrics.Sink, runID string, plan *model.WeekPlan, sum planner.Summary) error {
	placed := plan.Placed()
	records := make([]metrics.Placement, 0, len(placed))
	for _, j := range placed {
		records = append(records, metrics.Placement{
			RunID:       runID,
			Ref:         j.Ref,
			Urgency:     j.Urgency.String(),
			Territory:   j.Territory,
			Day:         j.PlannedDay,
			Session:     string(j.PlannedSession),
			Sequence:    j.PlannedSequence,
			Minutes:     j.EstimatedMinutes,
			PlannedDate: j.PlannedDate,
		})
	}
	if err := sink.RecordPlacements(records); err != nil {
		return err
	}
	return sink.RecordRunSummary(metrics.RunSummary{
		RunID:             runID,
		WeekStart:         sum.WeekStart,
		Placed:            sum.Placed,
		Remaining:         sum.Remaining,
		Sessions:          sum.Sessions,
		MeanUtilization:   sum.MeanUtilization,
		StdDevUtilization: sum.StdDevUtilization,
	})
}

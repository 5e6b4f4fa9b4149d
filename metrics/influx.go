package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/fieldops/weekplan/infra/logger"
)

// InfluxSink writes planning events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg Config) Sink {
	sink := NewInfluxSink(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return NopSink{}
	}
	return sink
}

// RecordPlacements writes one point per placed job.
func (s *InfluxSink) RecordPlacements(placements []Placement) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, p := range placements {
		pt := write.NewPointWithMeasurement("plan_placement").
			AddTag("run_id", p.RunID).
			AddTag("urgency", p.Urgency).
			AddTag("territory", p.Territory).
			AddTag("day", p.Day).
			AddTag("session", p.Session).
			AddField("sequence", p.Sequence).
			AddField("minutes", p.Minutes).
			AddField("ref", p.Ref).
			SetTime(p.PlannedDate)
		if err := s.writeAPI.WritePoint(ctx, pt); err != nil {
			return err
		}
	}
	return nil
}

// RecordRunSummary writes one point per planning run.
func (s *InfluxSink) RecordRunSummary(sum RunSummary) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pt := write.NewPointWithMeasurement("plan_run").
		AddTag("run_id", sum.RunID).
		AddTag("week_start", sum.WeekStart.Format("2006-01-02")).
		AddField("placed", sum.Placed).
		AddField("remaining", sum.Remaining).
		AddField("sessions", sum.Sessions).
		AddField("mean_utilization", round3(sum.MeanUtilization)).
		AddField("stddev_utilization", round3(sum.StdDevUtilization)).
		SetTime(time.Now())
	return s.writeAPI.WritePoint(ctx, pt)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(f float64) float64 {
	if math.IsNaN(f) {
		return 0
	}
	return math.Round(f*1000) / 1000
}

package metrics

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PromSink records planning results in Prometheus metrics.
type PromSink struct {
	placements  *prometheus.CounterVec
	runs        prometheus.Counter
	leftover    prometheus.Gauge
	utilization prometheus.Histogram
}

// NewPromSink registers planning metrics on the provided Prometheus
// registerer. If reg is nil, the default registerer is used. If the
// collectors are already registered, the existing ones are reused.
func NewPromSink(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	placements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "weekplan_placements_total",
		Help: "Total number of jobs placed into session buckets",
	}, []string{"urgency", "session"})
	runs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "weekplan_runs_total",
		Help: "Total number of planning runs",
	})
	leftover := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "weekplan_remaining_jobs",
		Help: "Jobs left in the backlog after the last planning run",
	})
	utilization := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "weekplan_session_utilization",
		Help:    "Used minutes over budget per enabled session",
		Buckets: prometheus.LinearBuckets(0.1, 0.1, 12),
	})

	sink := &PromSink{placements: placements, runs: runs, leftover: leftover, utilization: utilization}
	for i, c := range []prometheus.Collector{placements, runs, leftover, utilization} {
		if err := reg.Register(c); err != nil {
			are, ok := err.(prometheus.AlreadyRegisteredError)
			if !ok {
				return nil, err
			}
			switch i {
			case 0:
				sink.placements = are.ExistingCollector.(*prometheus.CounterVec)
			case 1:
				sink.runs = are.ExistingCollector.(prometheus.Counter)
			case 2:
				sink.leftover = are.ExistingCollector.(prometheus.Gauge)
			case 3:
				sink.utilization = are.ExistingCollector.(prometheus.Histogram)
			}
		}
	}
	return sink, nil
}

// RecordPlacements increments the placement counter per job.
func (s *PromSink) RecordPlacements(placements []Placement) error {
	for _, p := range placements {
		s.placements.WithLabelValues(p.Urgency, p.Session).Inc()
	}
	return nil
}

// RecordRunSummary records run-level counters and the utilization sample.
func (s *PromSink) RecordRunSummary(sum RunSummary) error {
	s.runs.Inc()
	s.leftover.Set(float64(sum.Remaining))
	s.utilization.Observe(sum.MeanUtilization)
	return nil
}

// StartPromServer starts an HTTP server exposing Prometheus metrics on the
// given address. The server runs until the provided context is canceled.
// A dedicated ServeMux is used to avoid interfering with other handlers.
func StartPromServer(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("prom server shutdown: %v", err)
		}
		cancel()
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

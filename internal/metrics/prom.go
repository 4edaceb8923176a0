package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/alexanderramin/siteplan/internal/contract"
	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PromSink records scheduling runs in Prometheus collectors.
type PromSink struct {
	runs          prometheus.Counter
	duration      prometheus.Histogram
	unschedulable *prometheus.CounterVec
	scheduled     *prometheus.GaugeVec
}

// NewPromSink registers the scheduling collectors on reg. A nil registerer
// defaults to the global one. Collectors that are already registered are
// reused, so building a second sink on the same registry is harmless.
func NewPromSink(reg prometheus.Registerer, namespace string) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "schedule_runs_total",
		Help:      "Total number of scheduling runs",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "schedule_duration_seconds",
		Help:      "Wall time of one scheduling run",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
	})
	unschedulable := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unschedulable_steps_total",
		Help:      "Steps emitted without dates, by task type",
	}, []string{"task_type"})
	scheduled := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scheduled_steps",
		Help:      "Dated steps in the latest plan, by task type and tentativeness",
	}, []string{"task_type", "tentative"})

	var err error
	if runs, err = register(reg, runs); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if unschedulable, err = register(reg, unschedulable); err != nil {
		return nil, err
	}
	if scheduled, err = register(reg, scheduled); err != nil {
		return nil, err
	}
	return &PromSink{runs: runs, duration: duration, unschedulable: unschedulable, scheduled: scheduled}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordRun counts the run and replaces the scheduled-steps gauge with the
// latest plan's totals.
func (s *PromSink) RecordRun(elapsed time.Duration, sites []domain.Site, blockers []contract.ScheduleBlocker) {
	s.runs.Inc()
	s.duration.Observe(elapsed.Seconds())

	for _, b := range blockers {
		s.unschedulable.WithLabelValues(string(b.TaskType)).Inc()
	}

	s.scheduled.Reset()
	for _, site := range sites {
		for _, st := range site.Steps {
			if st.State == domain.StepUnschedulable {
				continue
			}
			s.scheduled.WithLabelValues(string(st.Type), strconv.FormatBool(st.Tentative)).Inc()
		}
	}
}

// Handler serves the collectors of g on /metrics.
func Handler(g prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	return mux
}

package metrics

import (
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusSink implements Sink using the Prometheus client library.
// Registration errors are logged but never propagated.
type PrometheusSink struct {
	// Scheduler metrics
	ticksTotal        prometheus.Counter
	tickErrorsTotal   prometheus.Counter
	meetingsEvaluated prometheus.Counter
	tickDuration      prometheus.Histogram
	triggersFired     *prometheus.CounterVec
	triggersSkipped   *prometheus.CounterVec

	// Recording metrics
	recordingsLive     prometheus.Gauge
	recordingsTotal    *prometheus.CounterVec
	recordingDurations prometheus.Histogram

	// Notification metrics
	notificationsTotal *prometheus.CounterVec
}

// NewPrometheusSink creates a new Prometheus metrics sink.
func NewPrometheusSink(reg prometheus.Registerer) *PrometheusSink {
	s := &PrometheusSink{}
	s.initSchedulerMetrics(reg)
	s.initRecordingMetrics(reg)
	s.initNotificationMetrics(reg)
	return s
}

func (s *PrometheusSink) initSchedulerMetrics(reg prometheus.Registerer) {
	s.ticksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "meetmind_scheduler_ticks_total",
		Help: "Total number of scheduler ticks processed.",
	})
	s.tickErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "meetmind_scheduler_tick_errors_total",
		Help: "Total number of scheduler ticks that failed to load meetings.",
	})
	s.meetingsEvaluated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "meetmind_scheduler_meetings_evaluated_total",
		Help: "Total number of meeting evaluations across ticks.",
	})
	s.tickDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "meetmind_scheduler_tick_duration_seconds",
		Help:    "Duration of each scheduler tick in seconds.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
	})
	s.triggersFired = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "meetmind_scheduler_triggers_fired_total",
		Help: "Triggers acted upon, by kind.",
	}, []string{"kind"})
	s.triggersSkipped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "meetmind_scheduler_triggers_suppressed_total",
		Help: "Due triggers that were not acted upon, by reason.",
	}, []string{"reason"})

	s.register(reg, s.ticksTotal, "meetmind_scheduler_ticks_total")
	s.register(reg, s.tickErrorsTotal, "meetmind_scheduler_tick_errors_total")
	s.register(reg, s.meetingsEvaluated, "meetmind_scheduler_meetings_evaluated_total")
	s.register(reg, s.tickDuration, "meetmind_scheduler_tick_duration_seconds")
	s.register(reg, s.triggersFired, "meetmind_scheduler_triggers_fired_total")
	s.register(reg, s.triggersSkipped, "meetmind_scheduler_triggers_suppressed_total")
}

func (s *PrometheusSink) initRecordingMetrics(reg prometheus.Registerer) {
	s.recordingsLive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "meetmind_recordings_live",
		Help: "Number of bot recordings currently being tracked.",
	})
	s.recordingsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "meetmind_recordings_total",
		Help: "Finished recordings, by outcome.",
	}, []string{"outcome"})
	s.recordingDurations = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "meetmind_recording_duration_seconds",
		Help:    "Wall time from bot launch to outcome in seconds.",
		Buckets: []float64{60, 300, 600, 1200, 1800, 3600, 5400, 7200, 8400},
	})

	s.register(reg, s.recordingsLive, "meetmind_recordings_live")
	s.register(reg, s.recordingsTotal, "meetmind_recordings_total")
	s.register(reg, s.recordingDurations, "meetmind_recording_duration_seconds")
}

func (s *PrometheusSink) initNotificationMetrics(reg prometheus.Registerer) {
	s.notificationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "meetmind_notifications_total",
		Help: "Notification attempts, by kind and result.",
	}, []string{"kind", "result"})

	s.register(reg, s.notificationsTotal, "meetmind_notifications_total")
}

// register attempts to register a collector, logging any errors without propagating them.
func (s *PrometheusSink) register(reg prometheus.Registerer, c prometheus.Collector, name string) {
	if err := reg.Register(c); err != nil {
		log.Printf("metrics: failed to register %s: %v", name, err)
	}
}

// Scheduler metrics implementation

func (s *PrometheusSink) TickStarted() {
	s.ticksTotal.Inc()
}

func (s *PrometheusSink) TickCompleted(duration time.Duration, evaluated int, err error) {
	s.tickDuration.Observe(duration.Seconds())
	s.meetingsEvaluated.Add(float64(evaluated))
	if err != nil {
		s.tickErrorsTotal.Inc()
	}
}

func (s *PrometheusSink) TriggerFired(kind string) {
	s.triggersFired.WithLabelValues(kind).Inc()
}

func (s *PrometheusSink) TriggerSuppressed(reason string) {
	s.triggersSkipped.WithLabelValues(reason).Inc()
}

// Recording metrics implementation

func (s *PrometheusSink) RecordingStarted() {
	s.recordingsLive.Inc()
}

func (s *PrometheusSink) RecordingFinished(outcome string, duration time.Duration) {
	s.recordingsLive.Dec()
	s.recordingsTotal.WithLabelValues(outcome).Inc()
	s.recordingDurations.Observe(duration.Seconds())
}

// Notification metrics implementation

func (s *PrometheusSink) NotificationSent(kind string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	s.notificationsTotal.WithLabelValues(kind, result).Inc()
}

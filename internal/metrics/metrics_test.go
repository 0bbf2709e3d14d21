package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// Verify both sinks implement Sink.
var (
	_ Sink = (*NoopSink)(nil)
	_ Sink = (*PrometheusSink)(nil)
)

func TestNoopSink_AllMethods(t *testing.T) {
	s := NewNoopSink()
	s.TickStarted()
	s.TickCompleted(10*time.Millisecond, 3, nil)
	s.TriggerFired("auto-join")
	s.TriggerSuppressed(ReasonBotNotReady)
	s.RecordingStarted()
	s.RecordingFinished(OutcomeCompleted, time.Minute)
	s.NotificationSent("reminder", nil)
}

func TestPrometheusSink_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewPrometheusSink(reg)

	s.TickStarted()
	s.TickStarted()
	s.TickCompleted(50*time.Millisecond, 4, nil)
	s.TickCompleted(50*time.Millisecond, 0, errors.New("db down"))
	s.TriggerFired("reminder-10")
	s.TriggerFired("auto-join")
	s.TriggerFired("auto-join")
	s.RecordingStarted()
	s.RecordingStarted()
	s.RecordingFinished(OutcomeFailed, time.Minute)
	s.NotificationSent("reminder", nil)
	s.NotificationSent("reminder", errors.New("smtp"))

	assert.Equal(t, 2.0, testutil.ToFloat64(s.ticksTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.tickErrorsTotal))
	assert.Equal(t, 4.0, testutil.ToFloat64(s.meetingsEvaluated))
	assert.Equal(t, 2.0, testutil.ToFloat64(s.triggersFired.WithLabelValues("auto-join")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.recordingsLive))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.recordingsTotal.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.notificationsTotal.WithLabelValues("reminder", "failure")))
}

func TestPrometheusSink_DuplicateRegistrationDoesNotPanic(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheusSink(reg)
	s := NewPrometheusSink(reg)
	s.TickStarted()
}

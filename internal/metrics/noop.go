package metrics

import "time"

// NoopSink is a no-op implementation of Sink.
// Used when metrics are disabled to avoid nil checks.
type NoopSink struct{}

// NewNoopSink returns a no-op metrics sink.
func NewNoopSink() *NoopSink {
	return &NoopSink{}
}

func (n *NoopSink) TickStarted()                                                   {}
func (n *NoopSink) TickCompleted(duration time.Duration, evaluated int, err error) {}
func (n *NoopSink) TriggerFired(kind string)                                       {}
func (n *NoopSink) TriggerSuppressed(reason string)                                {}
func (n *NoopSink) RecordingStarted()                                              {}
func (n *NoopSink) RecordingFinished(outcome string, d time.Duration)              {}
func (n *NoopSink) NotificationSent(kind string, err error)                        {}

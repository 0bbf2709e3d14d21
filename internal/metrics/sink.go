package metrics

import "time"

// Sink records scheduler and recording metrics.
// Implementations must not block or propagate errors.
type Sink interface {
	// Scheduler metrics
	TickStarted()
	TickCompleted(duration time.Duration, meetingsEvaluated int, err error)
	TriggerFired(kind string)
	TriggerSuppressed(reason string)

	// Recording metrics
	RecordingStarted()
	RecordingFinished(outcome string, duration time.Duration)

	// Notification metrics
	NotificationSent(kind string, err error)
}

// Outcome constants for RecordingFinished.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeTimedOut  = "timed_out"
)

// Suppression reasons for TriggerSuppressed.
const (
	ReasonAlreadyFired = "already_fired"
	ReasonBotNotReady  = "bot_not_ready"
	ReasonInProgress   = "in_progress"
)

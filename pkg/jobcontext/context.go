package jobcontext

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type KeyContext string

var (
	keyMeetingID       KeyContext = "meeting_id"
	keyTrigger         KeyContext = "trigger"
	keyDurationSeconds KeyContext = "duration_seconds"
	keyStartTime       KeyContext = "start_time"
	keyDeadline        KeyContext = "deadline"
)

// RecordingMetadata holds metadata for one tracked bot run
type RecordingMetadata struct {
	MeetingID       uuid.UUID
	Trigger         string
	DurationSeconds int
	StartTime       time.Time
	Deadline        time.Time
}

// TrackingWindow is how long a run of durationSeconds is waited on before it is
// considered lost
func TrackingWindow(durationSeconds int, buffer time.Duration) time.Duration {
	if buffer < 0 {
		buffer = 0
	}
	return time.Duration(durationSeconds)*time.Second + buffer
}

// RecordingBegin derives a context carrying the run metadata. start and deadline
// come from the caller's clock; the context expires once deadline-start has elapsed.
func RecordingBegin(parentCtx context.Context, meetingID uuid.UUID, trigger string, durationSeconds int, start, deadline time.Time) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parentCtx, deadline.Sub(start))

	ctx = context.WithValue(ctx, keyMeetingID, meetingID)
	ctx = context.WithValue(ctx, keyTrigger, trigger)
	ctx = context.WithValue(ctx, keyDurationSeconds, durationSeconds)
	ctx = context.WithValue(ctx, keyStartTime, start)
	ctx = context.WithValue(ctx, keyDeadline, deadline)

	return ctx, cancel
}

// WithRecovery runs fn and converts a panic into an error
func WithRecovery(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic recovered: %v", p)
		}
	}()

	if ctx.Err() != nil {
		return fmt.Errorf("context cancelled before execution: %w", ctx.Err())
	}
	return fn(ctx)
}

// GetMeetingID extracts the meeting ID from context
func GetMeetingID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(keyMeetingID).(uuid.UUID)
	return id, ok
}

// GetTrigger extracts what launched the run
func GetTrigger(ctx context.Context) (string, bool) {
	trigger, ok := ctx.Value(keyTrigger).(string)
	return trigger, ok
}

// GetDurationSeconds extracts the requested recording duration
func GetDurationSeconds(ctx context.Context) int {
	d, ok := ctx.Value(keyDurationSeconds).(int)
	if !ok {
		return 0
	}
	return d
}

// GetStartTime extracts the run start time from context
func GetStartTime(ctx context.Context) (time.Time, bool) {
	startTime, ok := ctx.Value(keyStartTime).(time.Time)
	return startTime, ok
}

// GetDeadline extracts the run deadline as seen by the caller's clock
func GetDeadline(ctx context.Context) (time.Time, bool) {
	deadline, ok := ctx.Value(keyDeadline).(time.Time)
	return deadline, ok
}

// GetRecordingMetadata extracts all run metadata from context
func GetRecordingMetadata(ctx context.Context) *RecordingMetadata {
	meetingID, _ := GetMeetingID(ctx)
	trigger, _ := GetTrigger(ctx)
	startTime, _ := GetStartTime(ctx)
	deadline, _ := GetDeadline(ctx)

	return &RecordingMetadata{
		MeetingID:       meetingID,
		Trigger:         trigger,
		DurationSeconds: GetDurationSeconds(ctx),
		StartTime:       startTime,
		Deadline:        deadline,
	}
}

// IsRetryableError checks if an error should trigger a retry.
// Retryable errors include network errors, timeouts, deadlocks and server errors.
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())

	// Context errors (timeout, cancelled)
	if strings.Contains(errStr, "context deadline exceeded") ||
		strings.Contains(errStr, "context canceled") {
		return true
	}

	// Network errors
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "broken pipe") ||
		strings.Contains(errStr, "network unreachable") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "i/o timeout") {
		return true
	}

	// Database deadlock/lock errors (Postgres)
	if strings.Contains(errStr, "deadlock") ||
		strings.Contains(errStr, "40001") || // serialization_failure
		strings.Contains(errStr, "40p01") { // deadlock_detected
		return true
	}

	// Server errors (5xx)
	if strings.Contains(errStr, "status 5") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "service unavailable") ||
		strings.Contains(errStr, "bad gateway") {
		return true
	}

	// Temporary failures
	if strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "try again") {
		return true
	}

	return false
}

package errors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
)

// Meeting errors
var (
	ErrMeetingNotFound    = errors.New("meeting not found")
	ErrMissingMeetingLink = errors.New("meeting has no link to join")
	ErrInvalidSchedule    = errors.New("invalid meeting date or time")
	ErrInvalidStatus      = errors.New("invalid meeting status")
	ErrMeetingCompleted   = errors.New("meeting already completed")
)

// StatusChangeError is a status edit the meeting's current state does not allow
type StatusChangeError struct {
	From string
	To   string
}

func (e *StatusChangeError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidStatus, e.From, e.To)
}

func (e *StatusChangeError) Unwrap() error {
	return ErrInvalidStatus
}

// Recording errors
var (
	ErrRecordingInProgress  = errors.New("recording already in progress")
	ErrRecordingStartFailed = errors.New("failed to start recording")
	ErrBotNotReady          = errors.New("recording bot is not ready")
	ErrInvalidDuration      = errors.New("duration override must be a positive number of seconds")
)

// Summary errors
var (
	ErrSummaryNotFound = errors.New("summary not found")
)

package entities

import "errors"

// Domain errors
var (
	// Meeting errors
	ErrMeetingNotFound    = errors.New("meeting not found")
	ErrInvalidSchedule    = errors.New("invalid meeting date or time")
	ErrInvalidTransition  = errors.New("invalid meeting status transition")
	ErrStatusPrecondition = errors.New("meeting status changed concurrently")

	// Summary errors
	ErrSummaryNotFound = errors.New("summary not found")
)

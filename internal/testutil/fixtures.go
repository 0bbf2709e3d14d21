package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meetmind/internal/domain/entities"
)

// MeetingAt builds an upcoming meeting starting at start, with the civil fields
// rendered in start's location
func MeetingAt(start time.Time, opts ...func(*entities.Meeting)) *entities.Meeting {
	m := entities.NewMeeting(uuid.New(), "Weekly sync", start.Format(entities.DateLayout), start.Format(entities.TimeLayout))
	m.OwnerEmail = "owner@example.com"
	m.OwnerName = "Owner"
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithLink sets the meeting link
func WithLink(link string) func(*entities.Meeting) {
	return func(m *entities.Meeting) { m.MeetingLink = &link }
}

// WithAutoJoin enables auto-join
func WithAutoJoin() func(*entities.Meeting) {
	return func(m *entities.Meeting) { m.AutoJoin = true }
}

// WithReminder enables reminders
func WithReminder() func(*entities.Meeting) {
	return func(m *entities.Meeting) { m.SendReminder = true }
}

// WithExpectedMinutes sets the preset duration; 0 leaves it unset
func WithExpectedMinutes(minutes int) func(*entities.Meeting) {
	return func(m *entities.Meeting) { m.ExpectedDurationMinutes = minutes }
}

// WithStatus sets the status
func WithStatus(status entities.MeetingStatus) func(*entities.Meeting) {
	return func(m *entities.Meeting) { m.Status = status }
}

package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Layouts of the civil date and time-of-day stored on a meeting
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// Expected duration bounds in minutes
const (
	DefaultExpectedDurationMinutes = 60
	MinExpectedDurationMinutes     = 5
	MaxExpectedDurationMinutes     = 120
)

// MeetingStatus represents the lifecycle state of a meeting
type MeetingStatus string

const (
	MeetingStatusUpcoming  MeetingStatus = "upcoming"
	MeetingStatusOngoing   MeetingStatus = "ongoing"
	MeetingStatusCompleted MeetingStatus = "completed"
)

// IsValid reports whether s is a known status
func (s MeetingStatus) IsValid() bool {
	switch s {
	case MeetingStatusUpcoming, MeetingStatusOngoing, MeetingStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is allowed.
// ongoing -> upcoming is only legal as a rollback after a failed bot run.
func (s MeetingStatus) CanTransitionTo(next MeetingStatus) bool {
	switch s {
	case MeetingStatusUpcoming:
		return next == MeetingStatusOngoing || next == MeetingStatusCompleted
	case MeetingStatusOngoing:
		return next == MeetingStatusCompleted || next == MeetingStatusUpcoming
	}
	return false
}

// CanEditTo reports whether a user edit may move s to next.
// Only an upcoming meeting may be closed by hand; every ongoing move belongs to the bot run.
func (s MeetingStatus) CanEditTo(next MeetingStatus) bool {
	if s == next {
		return true
	}
	return s == MeetingStatusUpcoming && next == MeetingStatusCompleted
}

// Meeting represents a scheduled meeting
type Meeting struct {
	ID                      uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID                  uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	OwnerEmail              string        `gorm:"type:varchar(255)" json:"owner_email"`
	OwnerName               string        `gorm:"type:varchar(255)" json:"owner_name"`
	Title                   string        `gorm:"type:varchar(255);not null" json:"title"`
	Description             *string       `gorm:"type:text" json:"description,omitempty"`
	Date                    string        `gorm:"type:varchar(10);not null" json:"date"`
	Time                    string        `gorm:"type:varchar(5);not null" json:"time"`
	ExpectedDurationMinutes int           `gorm:"not null" json:"expected_duration"`
	Status                  MeetingStatus `gorm:"type:varchar(20);not null;default:'upcoming';index" json:"status"`
	Participants            int           `gorm:"default:1" json:"participants"`
	MeetingLink             *string       `gorm:"type:text" json:"meeting_link,omitempty"`
	AutoJoin                bool          `gorm:"default:false" json:"auto_join"`
	SendReminder            bool          `gorm:"default:false" json:"send_reminder"`
	ReminderSent            bool          `gorm:"default:false" json:"reminder_sent"`
	CreatedAt               time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt               time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName specifies the table name for Meeting
func (Meeting) TableName() string {
	return "meetings"
}

// NewMeeting creates an upcoming meeting with defaults applied
func NewMeeting(userID uuid.UUID, title, date, clock string) *Meeting {
	return &Meeting{
		ID:                      uuid.New(),
		UserID:                  userID,
		Title:                   title,
		Date:                    date,
		Time:                    clock,
		ExpectedDurationMinutes: DefaultExpectedDurationMinutes,
		Status:                  MeetingStatusUpcoming,
		Participants:            1,
	}
}

// StartsAt combines the civil date and time-of-day in loc
func (m *Meeting) StartsAt(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout+" "+TimeLayout, strings.TrimSpace(m.Date)+" "+strings.TrimSpace(m.Time), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q %q: %v", ErrInvalidSchedule, m.Date, m.Time, err)
	}
	return t, nil
}

// Link returns the meeting link or an empty string
func (m *Meeting) Link() string {
	if m.MeetingLink == nil {
		return ""
	}
	return strings.TrimSpace(*m.MeetingLink)
}

// HasLink reports whether the meeting can be joined by the bot
func (m *Meeting) HasLink() bool {
	return m.Link() != ""
}

// IsUpcoming checks if the meeting has not started yet
func (m *Meeting) IsUpcoming() bool {
	return m.Status == MeetingStatusUpcoming
}

// IsOngoing checks if the bot is currently in the meeting
func (m *Meeting) IsOngoing() bool {
	return m.Status == MeetingStatusOngoing
}

// IsCompleted checks if the meeting is done
func (m *Meeting) IsCompleted() bool {
	return m.Status == MeetingStatusCompleted
}

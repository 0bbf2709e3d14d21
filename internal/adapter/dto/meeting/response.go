package meeting

import "time"

// MeetingResponse represents a meeting in API responses
type MeetingResponse struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      *string   `json:"description,omitempty"`
	Date             string    `json:"date"`
	Time             string    `json:"time"`
	ExpectedDuration int       `json:"expected_duration"`
	Status           string    `json:"status"`
	Participants     int       `json:"participants"`
	MeetingLink      *string   `json:"meeting_link,omitempty"`
	AutoJoin         bool      `json:"auto_join"`
	SendReminder     bool      `json:"send_reminder"`
	ReminderSent     bool      `json:"reminder_sent"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// MeetingListResponse represents a page of meetings
type MeetingListResponse struct {
	Meetings []*MeetingResponse `json:"meetings"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

// AutoJoinResponse describes a launched recording
type AutoJoinResponse struct {
	MeetingID       string    `json:"meeting_id"`
	DurationSeconds int       `json:"duration_seconds"`
	Duration        string    `json:"duration"`
	StartedAt       time.Time `json:"started_at"`
	Deadline        time.Time `json:"deadline"`
	Message         string    `json:"message"`
}

// BotStatusResponse reports bot readiness and live recordings
type BotStatusResponse struct {
	Ready   bool                `json:"ready"`
	Message string              `json:"message"`
	Running []*AutoJoinResponse `json:"running"`
}

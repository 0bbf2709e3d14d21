package meeting

// CreateMeetingRequest represents the request to create a meeting
type CreateMeetingRequest struct {
	Title            string  `json:"title" validate:"required,min=1,max=255"`
	Description      *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	Date             string  `json:"date" validate:"required,meeting_date"`
	Time             string  `json:"time" validate:"required,meeting_time"`
	ExpectedDuration *int    `json:"expected_duration,omitempty" validate:"omitempty,min=5,max=120"`
	Participants     int     `json:"participants,omitempty" validate:"omitempty,min=1,max=1000"`
	MeetingLink      *string `json:"meeting_link,omitempty"`
	AutoJoin         bool    `json:"auto_join"`
	SendReminder     bool    `json:"send_reminder"`
}

// UpdateMeetingRequest represents the request to update a meeting
type UpdateMeetingRequest struct {
	Title            *string `json:"title,omitempty" validate:"omitempty,min=1,max=255"`
	Description      *string `json:"description,omitempty" validate:"omitempty,max=5000"`
	Date             *string `json:"date,omitempty" validate:"omitempty,meeting_date"`
	Time             *string `json:"time,omitempty" validate:"omitempty,meeting_time"`
	ExpectedDuration *int    `json:"expected_duration,omitempty" validate:"omitempty,min=5,max=120"`
	Participants     *int    `json:"participants,omitempty" validate:"omitempty,min=1,max=1000"`
	MeetingLink      *string `json:"meeting_link,omitempty"`
	AutoJoin         *bool   `json:"auto_join,omitempty"`
	SendReminder     *bool   `json:"send_reminder,omitempty"`
	Status           *string `json:"status,omitempty" validate:"omitempty,oneof=upcoming ongoing completed"`
}

// ListMeetingsRequest represents query parameters for listing meetings
type ListMeetingsRequest struct {
	Status   string `query:"status" validate:"omitempty,oneof=upcoming ongoing completed"`
	Page     int    `query:"page" validate:"omitempty,min=1"`
	PageSize int    `query:"page_size" validate:"omitempty,min=1,max=100"`
}

// AutoJoinRequest optionally overrides the recording duration in seconds
type AutoJoinRequest struct {
	Duration *int `json:"duration,omitempty"`
}

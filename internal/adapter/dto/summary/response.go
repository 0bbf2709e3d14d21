package summary

import "time"

// TranscriptEntry is one utterance of the transcript
type TranscriptEntry struct {
	Speaker   string `json:"speaker"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// ActionItem is a follow-up extracted from the meeting
type ActionItem struct {
	Text       string `json:"text"`
	AssignedTo string `json:"assigned_to,omitempty"`
	Completed  bool   `json:"completed"`
}

// SummaryResponse represents a meeting summary in API responses
type SummaryResponse struct {
	ID              string            `json:"id"`
	MeetingID       string            `json:"meeting_id"`
	Meeting         string            `json:"meeting"`
	Date            string            `json:"date"`
	Duration        string            `json:"duration"`
	Transcript      []TranscriptEntry `json:"transcript"`
	KeyPoints       []string          `json:"key_points"`
	ActionItems     []ActionItem      `json:"action_items"`
	ActionItemCount int               `json:"action_item_count"`
	Transcribed     bool              `json:"transcribed"`
	AudioURL        string            `json:"audio_url,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// SummaryListResponse represents a page of summaries
type SummaryListResponse struct {
	Summaries []*SummaryResponse `json:"summaries"`
	Page      int                `json:"page"`
	PageSize  int                `json:"page_size"`
}

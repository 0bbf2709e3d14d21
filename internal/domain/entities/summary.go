package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DefaultKeyPoint is stored when the bot produced no usable key points
const DefaultKeyPoint = "Meeting recorded successfully"

// BotSpeaker labels transcript entries produced by the recording bot
const BotSpeaker = "Bot"

// TranscriptEntry is one utterance of a meeting transcript
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

// Summary is the result of one completed auto-join cycle
type Summary struct {
	ID              uuid.UUID         `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID       uuid.UUID         `json:"meeting_id" gorm:"type:uuid;not null;index"`
	UserID          uuid.UUID         `json:"user_id" gorm:"type:uuid;not null;index"`
	MeetingTitle    string            `json:"meeting" gorm:"type:varchar(255);not null"`
	Date            string            `json:"date" gorm:"type:varchar(10);not null"`
	Duration        string            `json:"duration" gorm:"type:varchar(32);default:'0 min'"`
	Transcript      []TranscriptEntry `json:"transcript" gorm:"type:jsonb;serializer:json"`
	KeyPoints       []string          `json:"key_points" gorm:"type:jsonb;serializer:json"`
	ActionItems     []ActionItem      `json:"action_items" gorm:"type:jsonb;serializer:json"`
	ActionItemCount int               `json:"action_item_count" gorm:"default:0"`
	Transcribed     bool              `json:"transcribed" gorm:"default:false"`
	AudioFilePath   *string           `json:"audio_file_path,omitempty" gorm:"type:text"`
	RawSections     datatypes.JSONMap `json:"raw_sections,omitempty" gorm:"type:jsonb"`
	CreatedAt       time.Time         `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Summary) TableName() string {
	return "summaries"
}

// NewSummary creates a summary for the given meeting
func NewSummary(m *Meeting, duration string) *Summary {
	return &Summary{
		ID:           uuid.New(),
		MeetingID:    m.ID,
		UserID:       m.UserID,
		MeetingTitle: m.Title,
		Date:         m.Date,
		Duration:     duration,
		Transcript:   []TranscriptEntry{},
		KeyPoints:    []string{},
		ActionItems:  []ActionItem{},
	}
}

// SetActionItems replaces the action items and keeps the count in sync
func (s *Summary) SetActionItems(items []ActionItem) {
	if items == nil {
		items = []ActionItem{}
	}
	s.ActionItems = items
	s.ActionItemCount = len(items)
}

package presenter

import (
	"github.com/johnquangdev/meetmind/internal/adapter/dto/summary"
	meetingUsecase "github.com/johnquangdev/meetmind/internal/usecase/meeting"
)

// ToSummaryResponse converts a summary view to SummaryResponse DTO
func ToSummaryResponse(v *meetingUsecase.SummaryView) *summary.SummaryResponse {
	if v == nil || v.Summary == nil {
		return nil
	}

	transcript := make([]summary.TranscriptEntry, len(v.Transcript))
	for i, t := range v.Transcript {
		transcript[i] = summary.TranscriptEntry{Speaker: t.Speaker, Text: t.Text, Timestamp: t.Timestamp}
	}

	actionItems := make([]summary.ActionItem, len(v.ActionItems))
	for i, a := range v.ActionItems {
		actionItems[i] = summary.ActionItem{Text: a.Text, AssignedTo: a.AssignedTo, Completed: a.Completed}
	}

	keyPoints := v.KeyPoints
	if keyPoints == nil {
		keyPoints = []string{}
	}

	return &summary.SummaryResponse{
		ID:              v.ID.String(),
		MeetingID:       v.MeetingID.String(),
		Meeting:         v.MeetingTitle,
		Date:            v.Date,
		Duration:        v.Duration,
		Transcript:      transcript,
		KeyPoints:       keyPoints,
		ActionItems:     actionItems,
		ActionItemCount: v.ActionItemCount,
		Transcribed:     v.Transcribed,
		AudioURL:        v.AudioURL,
		CreatedAt:       v.CreatedAt,
	}
}

// ToSummaryListResponse converts a page of summaries
func ToSummaryListResponse(views []meetingUsecase.SummaryView, page, pageSize int) *summary.SummaryListResponse {
	responses := make([]*summary.SummaryResponse, len(views))
	for i := range views {
		responses[i] = ToSummaryResponse(&views[i])
	}

	return &summary.SummaryListResponse{
		Summaries: responses,
		Page:      page,
		PageSize:  pageSize,
	}
}

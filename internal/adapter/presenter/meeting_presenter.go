package presenter

import (
	"github.com/johnquangdev/meetmind/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meetmind/internal/domain/entities"
	"github.com/johnquangdev/meetmind/internal/usecase/autojoin"
	meetingUsecase "github.com/johnquangdev/meetmind/internal/usecase/meeting"
)

// ToMeetingResponse converts a Meeting entity to MeetingResponse DTO
func ToMeetingResponse(m *entities.Meeting) *meeting.MeetingResponse {
	if m == nil {
		return nil
	}

	return &meeting.MeetingResponse{
		ID:               m.ID.String(),
		Title:            m.Title,
		Description:      m.Description,
		Date:             m.Date,
		Time:             m.Time,
		ExpectedDuration: m.ExpectedDurationMinutes,
		Status:           string(m.Status),
		Participants:     m.Participants,
		MeetingLink:      m.MeetingLink,
		AutoJoin:         m.AutoJoin,
		SendReminder:     m.SendReminder,
		ReminderSent:     m.ReminderSent,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

// ToMeetingListResponse converts a page of meetings
func ToMeetingListResponse(meetings []*entities.Meeting, page, pageSize int) *meeting.MeetingListResponse {
	responses := make([]*meeting.MeetingResponse, len(meetings))
	for i, m := range meetings {
		responses[i] = ToMeetingResponse(m)
	}

	return &meeting.MeetingListResponse{
		Meetings: responses,
		Page:     page,
		PageSize: pageSize,
	}
}

// ToAutoJoinResponse converts a live recording description
func ToAutoJoinResponse(info autojoin.HandleInfo) *meeting.AutoJoinResponse {
	return &meeting.AutoJoinResponse{
		MeetingID:       info.MeetingID.String(),
		DurationSeconds: info.DurationSeconds,
		Duration:        autojoin.FormatDuration(info.DurationSeconds),
		StartedAt:       info.StartedAt,
		Deadline:        info.Deadline,
		Message:         "Bot is joining the meeting",
	}
}

// ToBotStatusResponse converts the bot status
func ToBotStatusResponse(status meetingUsecase.BotStatus) *meeting.BotStatusResponse {
	running := make([]*meeting.AutoJoinResponse, len(status.Running))
	for i, info := range status.Running {
		running[i] = ToAutoJoinResponse(info)
		running[i].Message = "Recording in progress"
	}

	return &meeting.BotStatusResponse{
		Ready:   status.Ready,
		Message: status.Message,
		Running: running,
	}
}

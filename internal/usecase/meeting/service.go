package meeting

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/johnquangdev/meetmind/internal/domain/entities"
	"github.com/johnquangdev/meetmind/internal/domain/repositories"
	"github.com/johnquangdev/meetmind/internal/usecase/autojoin"
	usecaseErrors "github.com/johnquangdev/meetmind/internal/usecase/errors"
	"github.com/johnquangdev/meetmind/pkg/validator"
)

// Supervisor starts recordings and reports the live ones
type Supervisor interface {
	autojoin.Launcher
	Running() []autojoin.HandleInfo
}

// MeetingService handles meeting business logic
type MeetingService struct {
	meetingRepo repositories.MeetingRepository
	supervisor  Supervisor
	probe       autojoin.ReadinessProbe
	validator   *validator.CustomValidator
}

// NewMeetingService creates a new meeting service
func NewMeetingService(
	meetingRepo repositories.MeetingRepository,
	supervisor Supervisor,
	probe autojoin.ReadinessProbe,
	v *validator.CustomValidator,
) *MeetingService {
	if v == nil {
		v = validator.New()
	}
	return &MeetingService{
		meetingRepo: meetingRepo,
		supervisor:  supervisor,
		probe:       probe,
		validator:   v,
	}
}

// CreateMeetingInput represents input for creating a meeting
type CreateMeetingInput struct {
	UserID           uuid.UUID `validate:"required"`
	OwnerEmail       string    `validate:"omitempty,email"`
	OwnerName        string
	Title            string  `validate:"required,max=255"`
	Description      *string `validate:"omitempty,max=5000"`
	Date             string  `validate:"required,meeting_date"`
	Time             string  `validate:"required,meeting_time"`
	ExpectedDuration *int    `validate:"omitempty,min=5,max=120"`
	Participants     int     `validate:"omitempty,min=1,max=1000"`
	MeetingLink      *string
	AutoJoin         bool
	SendReminder     bool
}

// UpdateMeetingInput carries the fields to change; nil means unchanged
type UpdateMeetingInput struct {
	Title            *string `validate:"omitempty,min=1,max=255"`
	Description      *string `validate:"omitempty,max=5000"`
	Date             *string `validate:"omitempty,meeting_date"`
	Time             *string `validate:"omitempty,meeting_time"`
	ExpectedDuration *int    `validate:"omitempty,min=5,max=120"`
	Participants     *int    `validate:"omitempty,min=1,max=1000"`
	MeetingLink      *string
	AutoJoin         *bool
	SendReminder     *bool
	Status           *string `validate:"omitempty,oneof=upcoming ongoing completed"`
}

// ListMeetingsInput filters a user's meetings
type ListMeetingsInput struct {
	UserID uuid.UUID
	Status string `validate:"omitempty,oneof=upcoming ongoing completed"`
	Limit  int    `validate:"omitempty,min=1,max=100"`
	Offset int    `validate:"omitempty,min=0"`
}

// BotStatus describes the recording bot and its live runs
type BotStatus struct {
	Ready   bool                  `json:"ready"`
	Message string                `json:"message"`
	Running []autojoin.HandleInfo `json:"running"`
}

// CreateMeeting creates a new upcoming meeting
func (s *MeetingService) CreateMeeting(ctx context.Context, input CreateMeetingInput) (*entities.Meeting, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrInvalidInput, err)
	}

	link, err := s.normalizeLink(input.MeetingLink)
	if err != nil {
		return nil, err
	}

	m := entities.NewMeeting(input.UserID, strings.TrimSpace(input.Title), input.Date, input.Time)
	m.OwnerEmail = input.OwnerEmail
	m.OwnerName = input.OwnerName
	m.Description = input.Description
	m.MeetingLink = link
	m.AutoJoin = input.AutoJoin
	m.SendReminder = input.SendReminder
	if input.ExpectedDuration != nil {
		m.ExpectedDurationMinutes = *input.ExpectedDuration
	}
	if input.Participants > 0 {
		m.Participants = input.Participants
	}

	if m.AutoJoin && !m.HasLink() {
		return nil, usecaseErrors.ErrMissingMeetingLink
	}

	if err := s.meetingRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create meeting: %w", err)
	}
	return m, nil
}

// GetMeeting retrieves a meeting owned by userID
func (s *MeetingService) GetMeeting(ctx context.Context, userID, meetingID uuid.UUID) (*entities.Meeting, error) {
	m, err := s.meetingRepo.FindByID(ctx, meetingID)
	if err != nil {
		if errors.Is(err, entities.ErrMeetingNotFound) {
			return nil, usecaseErrors.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}
	// Other users' meetings are reported as missing
	if m.UserID != userID {
		return nil, usecaseErrors.ErrMeetingNotFound
	}
	return m, nil
}

// ListMeetings retrieves a user's meetings ordered by start
func (s *MeetingService) ListMeetings(ctx context.Context, input ListMeetingsInput) ([]*entities.Meeting, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrInvalidInput, err)
	}

	filters := repositories.MeetingFilters{
		UserID: &input.UserID,
		Limit:  input.Limit,
		Offset: input.Offset,
	}
	if filters.Limit == 0 {
		filters.Limit = 20
	}
	if input.Status != "" {
		status := entities.MeetingStatus(input.Status)
		filters.Status = &status
	}

	meetings, err := s.meetingRepo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	return meetings, nil
}

// UpdateMeeting applies a partial update. Status may be set directly; the
// scheduler re-reads the meeting on its next tick.
func (s *MeetingService) UpdateMeeting(ctx context.Context, userID, meetingID uuid.UUID, input UpdateMeetingInput) (*entities.Meeting, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, fmt.Errorf("%w: %v", usecaseErrors.ErrInvalidInput, err)
	}

	m, err := s.GetMeeting(ctx, userID, meetingID)
	if err != nil {
		return nil, err
	}

	rescheduled := false
	if input.Title != nil {
		m.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		m.Description = input.Description
	}
	if input.Date != nil && *input.Date != m.Date {
		m.Date = *input.Date
		rescheduled = true
	}
	if input.Time != nil && *input.Time != m.Time {
		m.Time = *input.Time
		rescheduled = true
	}
	if input.ExpectedDuration != nil {
		m.ExpectedDurationMinutes = *input.ExpectedDuration
	}
	if input.Participants != nil {
		m.Participants = *input.Participants
	}
	if input.MeetingLink != nil {
		link, err := s.normalizeLink(input.MeetingLink)
		if err != nil {
			return nil, err
		}
		m.MeetingLink = link
	}
	if input.AutoJoin != nil {
		m.AutoJoin = *input.AutoJoin
	}
	if input.SendReminder != nil {
		m.SendReminder = *input.SendReminder
	}
	if input.Status != nil {
		next := entities.MeetingStatus(*input.Status)
		if !m.Status.CanEditTo(next) {
			return nil, &usecaseErrors.StatusChangeError{From: string(m.Status), To: string(next)}
		}
		m.Status = next
	}

	// A moved meeting gets a fresh reminder
	if rescheduled && m.IsUpcoming() {
		m.ReminderSent = false
	}
	if m.AutoJoin && !m.HasLink() {
		return nil, usecaseErrors.ErrMissingMeetingLink
	}

	if err := s.meetingRepo.Save(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to update meeting: %w", err)
	}
	return m, nil
}

// DeleteMeeting removes a meeting that is not being recorded
func (s *MeetingService) DeleteMeeting(ctx context.Context, userID, meetingID uuid.UUID) error {
	m, err := s.GetMeeting(ctx, userID, meetingID)
	if err != nil {
		return err
	}
	if m.IsOngoing() {
		return usecaseErrors.ErrRecordingInProgress
	}

	if err := s.meetingRepo.Delete(ctx, meetingID); err != nil {
		if errors.Is(err, entities.ErrMeetingNotFound) {
			return usecaseErrors.ErrMeetingNotFound
		}
		return fmt.Errorf("failed to delete meeting: %w", err)
	}
	return nil
}

// TriggerAutoJoin launches the bot for a meeting now, optionally with an explicit duration
func (s *MeetingService) TriggerAutoJoin(ctx context.Context, userID, meetingID uuid.UUID, durationOverride *int) (*autojoin.HandleInfo, error) {
	// Zero means no override; anything positive is clamped by the resolver
	if durationOverride != nil {
		switch {
		case *durationOverride == 0:
			durationOverride = nil
		case *durationOverride < 0:
			return nil, usecaseErrors.ErrInvalidDuration
		}
	}

	if _, err := s.GetMeeting(ctx, userID, meetingID); err != nil {
		return nil, err
	}

	if s.probe != nil {
		if st := s.probe.Check(ctx); !st.Ready {
			return nil, fmt.Errorf("%w: %s", usecaseErrors.ErrBotNotReady, st.Message)
		}
	}

	handle, err := s.supervisor.Launch(ctx, meetingID, durationOverride)
	if err != nil {
		return nil, err
	}
	info := handle.Info()
	return &info, nil
}

// GetBotStatus reports bot readiness and live recordings
func (s *MeetingService) GetBotStatus(ctx context.Context) BotStatus {
	status := BotStatus{Ready: true, Message: "bot is ready", Running: []autojoin.HandleInfo{}}
	if s.probe != nil {
		st := s.probe.Check(ctx)
		status.Ready, status.Message = st.Ready, st.Message
	}
	if s.supervisor != nil {
		status.Running = s.supervisor.Running()
	}
	return status
}

// normalizeLink trims the link and maps blank to nil
func (s *MeetingService) normalizeLink(link *string) (*string, error) {
	if link == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*link)
	if trimmed == "" {
		return nil, nil
	}
	if err := s.validator.Var(trimmed, "url"); err != nil {
		return nil, fmt.Errorf("%w: meeting link is not a valid URL", usecaseErrors.ErrInvalidInput)
	}
	return &trimmed, nil
}

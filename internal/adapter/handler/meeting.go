package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meetmind/errors"
	"github.com/johnquangdev/meetmind/internal/adapter/dto/common"
	"github.com/johnquangdev/meetmind/internal/adapter/dto/meeting"
	"github.com/johnquangdev/meetmind/internal/adapter/presenter"
	"github.com/johnquangdev/meetmind/internal/infrastructure/http/middleware"
	meetingUsecase "github.com/johnquangdev/meetmind/internal/usecase/meeting"
)

// Meeting handles meeting-related HTTP requests
type Meeting struct {
	meetingService *meetingUsecase.MeetingService
	logger         *zap.Logger
}

// NewMeetingHandler creates a new meeting handler
func NewMeetingHandler(meetingService *meetingUsecase.MeetingService, logger *zap.Logger) *Meeting {
	return &Meeting{
		meetingService: meetingService,
		logger:         logger,
	}
}

// CreateMeeting handles POST /meetings
func (h *Meeting) CreateMeeting(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meeting.CreateMeetingRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	m, err := h.meetingService.CreateMeeting(c.Request().Context(), meetingUsecase.CreateMeetingInput{
		UserID:           userID,
		OwnerEmail:       contextString(c, middleware.ContextUserEmail),
		OwnerName:        contextString(c, middleware.ContextUserName),
		Title:            req.Title,
		Description:      req.Description,
		Date:             req.Date,
		Time:             req.Time,
		ExpectedDuration: req.ExpectedDuration,
		Participants:     req.Participants,
		MeetingLink:      req.MeetingLink,
		AutoJoin:         req.AutoJoin,
		SendReminder:     req.SendReminder,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if h.logger != nil {
		h.logger.Info("📅 Meeting created",
			zap.String("meeting_id", m.ID.String()),
			zap.String("date", m.Date),
			zap.String("time", m.Time),
			zap.Bool("auto_join", m.AutoJoin),
		)
	}

	return HandleStatus(h.logger, c, http.StatusCreated, presenter.ToMeetingResponse(m))
}

// ListMeetings handles GET /meetings
func (h *Meeting) ListMeetings(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meeting.ListMeetingsRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	limit, offset := common.Pagination(req.Page, req.PageSize)
	meetings, err := h.meetingService.ListMeetings(c.Request().Context(), meetingUsecase.ListMeetingsInput{
		UserID: userID,
		Status: req.Status,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToMeetingListResponse(meetings, offset/limit+1, limit))
}

// GetMeeting handles GET /meetings/:id
func (h *Meeting) GetMeeting(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	meetingID, err := pathID(c, ctxMeetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	m, err := h.meetingService.GetMeeting(c.Request().Context(), userID, meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToMeetingResponse(m))
}

// UpdateMeeting handles PUT /meetings/:id
func (h *Meeting) UpdateMeeting(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	meetingID, err := pathID(c, ctxMeetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meeting.UpdateMeetingRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	m, err := h.meetingService.UpdateMeeting(c.Request().Context(), userID, meetingID, meetingUsecase.UpdateMeetingInput{
		Title:            req.Title,
		Description:      req.Description,
		Date:             req.Date,
		Time:             req.Time,
		ExpectedDuration: req.ExpectedDuration,
		Participants:     req.Participants,
		MeetingLink:      req.MeetingLink,
		AutoJoin:         req.AutoJoin,
		SendReminder:     req.SendReminder,
		Status:           req.Status,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToMeetingResponse(m))
}

// DeleteMeeting handles DELETE /meetings/:id
func (h *Meeting) DeleteMeeting(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	meetingID, err := pathID(c, ctxMeetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.meetingService.DeleteMeeting(c.Request().Context(), userID, meetingID); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, map[string]string{"id": meetingID.String()})
}

// AutoJoin handles POST /meetings/:id/auto-join
// The bot runs in the background; the response only confirms the launch.
func (h *Meeting) AutoJoin(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	meetingID, err := pathID(c, ctxMeetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req meeting.AutoJoinRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	info, err := h.meetingService.TriggerAutoJoin(c.Request().Context(), userID, meetingID, req.Duration)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleStatus(h.logger, c, http.StatusAccepted, presenter.ToAutoJoinResponse(*info))
}

// BotStatus handles GET /meetings/bot/status
func (h *Meeting) BotStatus(c echo.Context) error {
	status := h.meetingService.GetBotStatus(c.Request().Context())
	return HandleSuccess(h.logger, c, presenter.ToBotStatusResponse(status))
}

package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meetmind/errors"
	"github.com/johnquangdev/meetmind/internal/adapter/dto/common"
	"github.com/johnquangdev/meetmind/internal/adapter/presenter"
	meetingUsecase "github.com/johnquangdev/meetmind/internal/usecase/meeting"
)

// Summary handles summary-related HTTP requests
type Summary struct {
	summaryService *meetingUsecase.SummaryService
	logger         *zap.Logger
}

// NewSummaryHandler creates a new summary handler
func NewSummaryHandler(summaryService *meetingUsecase.SummaryService, logger *zap.Logger) *Summary {
	return &Summary{
		summaryService: summaryService,
		logger:         logger,
	}
}

type listSummariesQuery struct {
	Page     int `query:"page"`
	PageSize int `query:"page_size"`
}

// ListSummaries handles GET /summaries
func (h *Summary) ListSummaries(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var q listSummariesQuery
	if err := c.Bind(&q); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	limit, offset := common.Pagination(q.Page, q.PageSize)

	views, err := h.summaryService.ListSummaries(c.Request().Context(), userID, limit, offset)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToSummaryListResponse(views, offset/limit+1, limit))
}

// GetSummary handles GET /summaries/:id
func (h *Summary) GetSummary(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	summaryID, err := pathID(c, ctxSummaryID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	view, err := h.summaryService.GetSummary(c.Request().Context(), userID, summaryID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToSummaryResponse(view))
}

// GetMeetingSummary handles GET /meetings/:id/summary
func (h *Summary) GetMeetingSummary(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	meetingID, err := pathID(c, ctxMeetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	view, err := h.summaryService.GetMeetingSummary(c.Request().Context(), userID, meetingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, presenter.ToSummaryResponse(view))
}

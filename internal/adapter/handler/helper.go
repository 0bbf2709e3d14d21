package handler

import (
	stdErrors "errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/johnquangdev/meetmind/errors"
	"github.com/johnquangdev/meetmind/internal/adapter/dto/common"
	"github.com/johnquangdev/meetmind/internal/domain/entities"
	"github.com/johnquangdev/meetmind/internal/infrastructure/http/middleware"
	usecaseErrors "github.com/johnquangdev/meetmind/internal/usecase/errors"
)

// Echo context keys for parsed path ids
const (
	ctxMeetingID = "meeting_id"
	ctxSummaryID = "summary_id"
)

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get("X-Request-ID")
}

// currentUser returns the authenticated user id set by the auth middleware
func currentUser(c echo.Context) (uuid.UUID, error) {
	userID, ok := c.Get(middleware.ContextUserID).(uuid.UUID)
	if !ok {
		return uuid.Nil, usecaseErrors.ErrUnauthorized
	}
	return userID, nil
}

// contextString reads an optional string value from the Echo context
func contextString(c echo.Context, key string) string {
	v, _ := c.Get(key).(string)
	return v
}

// pathID returns the id parsed by the UUIDParam middleware
func pathID(c echo.Context, key string) (uuid.UUID, error) {
	id, ok := c.Get(key).(uuid.UUID)
	if !ok {
		parsed, err := uuid.Parse(c.Param("id"))
		if err != nil {
			return uuid.Nil, errors.ErrInvalidArgument("id must be a valid UUID")
		}
		return parsed, nil
	}
	return id, nil
}

// HandleSuccess writes a standardized 200 response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	return HandleStatus(logger, c, http.StatusOK, data)
}

// HandleStatus writes a standardized success response with the given status
func HandleStatus(logger *zap.Logger, c echo.Context, status int, data interface{}) error {
	resp := common.SuccessResponse{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Int("status", status),
		)
	}

	return c.JSON(status, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	reqID := getRequestID(c)
	err = toAppError(c, err)

	var appErr errors.AppError
	if !stdErrors.As(err, &appErr) {
		appErr = errors.ErrInternal(err)
	}

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", reqID),
			zap.String("path", c.Path()),
			zap.Any("app_code", appErr.Code),
			zap.Error(err),
		)
	}

	info := ""
	if appErr.Raw != nil {
		info = appErr.Raw.Error()
	}

	body := common.ErrorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Info:    info,
		Details: appErr.Details,
	}

	return c.JSON(appErr.HTTPCode, body)
}

// toAppError maps usecase errors to their API representation
func toAppError(c echo.Context, err error) error {
	id := c.Param("id")

	switch {
	case stdErrors.Is(err, usecaseErrors.ErrUnauthorized):
		return errors.ErrUnauthenticated()
	case stdErrors.Is(err, usecaseErrors.ErrInvalidInput),
		stdErrors.Is(err, usecaseErrors.ErrInvalidDuration):
		return errors.ErrInvalidArgument(err.Error())
	case stdErrors.Is(err, entities.ErrInvalidSchedule):
		return errors.ErrMeetingInvalidTime(err)
	case stdErrors.Is(err, usecaseErrors.ErrMeetingNotFound):
		return errors.ErrMeetingNotFound(id)
	case stdErrors.Is(err, usecaseErrors.ErrMissingMeetingLink):
		return errors.ErrMeetingMissingLink(id)
	case stdErrors.Is(err, usecaseErrors.ErrMeetingCompleted):
		return errors.ErrMeetingInvalidState(id, string(entities.MeetingStatusCompleted), string(entities.MeetingStatusUpcoming))
	case stdErrors.Is(err, usecaseErrors.ErrInvalidStatus):
		var change *usecaseErrors.StatusChangeError
		if !stdErrors.As(err, &change) {
			return errors.ErrInvalidArgument(err.Error())
		}
		return errors.ErrMeetingInvalidState(id, change.From, string(entities.MeetingStatusUpcoming)).
			WithDetail("requested_state", change.To)
	case stdErrors.Is(err, usecaseErrors.ErrRecordingStartFailed):
		return errors.ErrRecordingStartFailed(id, err)
	case stdErrors.Is(err, usecaseErrors.ErrRecordingInProgress):
		return errors.ErrRecordingInProgress(id)
	case stdErrors.Is(err, usecaseErrors.ErrBotNotReady):
		reason := strings.TrimPrefix(err.Error(), usecaseErrors.ErrBotNotReady.Error()+": ")
		return errors.ErrBotNotReady(reason)
	case stdErrors.Is(err, usecaseErrors.ErrSummaryNotFound):
		return errors.ErrSummaryNotFound(id)
	}
	return err
}

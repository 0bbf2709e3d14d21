package meeting

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meetmind/internal/domain/entities"
	"github.com/johnquangdev/meetmind/internal/domain/repositories"
	usecaseErrors "github.com/johnquangdev/meetmind/internal/usecase/errors"
)

// AudioLinker turns a stored audio object into a downloadable URL
type AudioLinker interface {
	URL(ctx context.Context, objectName string) (string, error)
}

// SummaryView is a summary with its audio resolved to a URL
type SummaryView struct {
	*entities.Summary
	AudioURL string
}

// SummaryService serves the summaries produced by completed recordings
type SummaryService struct {
	summaryRepo repositories.SummaryRepository
	meetingRepo repositories.MeetingRepository
	audio       AudioLinker
	logger      *zap.Logger
}

// NewSummaryService creates a new summary service
func NewSummaryService(
	summaryRepo repositories.SummaryRepository,
	meetingRepo repositories.MeetingRepository,
	audio AudioLinker,
	logger *zap.Logger,
) *SummaryService {
	return &SummaryService{
		summaryRepo: summaryRepo,
		meetingRepo: meetingRepo,
		audio:       audio,
		logger:      logger,
	}
}

// ListSummaries returns a user's summaries, newest first
func (s *SummaryService) ListSummaries(ctx context.Context, userID uuid.UUID, limit, offset int) ([]SummaryView, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	summaries, err := s.summaryRepo.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list summaries: %w", err)
	}

	views := make([]SummaryView, 0, len(summaries))
	for _, summary := range summaries {
		views = append(views, s.view(ctx, summary))
	}
	return views, nil
}

// GetSummary returns one summary owned by userID
func (s *SummaryService) GetSummary(ctx context.Context, userID, summaryID uuid.UUID) (*SummaryView, error) {
	summary, err := s.summaryRepo.FindByID(ctx, summaryID)
	if err != nil {
		if errors.Is(err, entities.ErrSummaryNotFound) {
			return nil, usecaseErrors.ErrSummaryNotFound
		}
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}
	if summary.UserID != userID {
		return nil, usecaseErrors.ErrSummaryNotFound
	}

	view := s.view(ctx, summary)
	return &view, nil
}

// GetMeetingSummary returns the latest summary of a meeting owned by userID
func (s *SummaryService) GetMeetingSummary(ctx context.Context, userID, meetingID uuid.UUID) (*SummaryView, error) {
	m, err := s.meetingRepo.FindByID(ctx, meetingID)
	if err != nil {
		if errors.Is(err, entities.ErrMeetingNotFound) {
			return nil, usecaseErrors.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}
	if m.UserID != userID {
		return nil, usecaseErrors.ErrMeetingNotFound
	}

	summary, err := s.summaryRepo.FindLatestByMeetingID(ctx, meetingID)
	if err != nil {
		if errors.Is(err, entities.ErrSummaryNotFound) {
			return nil, usecaseErrors.ErrSummaryNotFound
		}
		return nil, fmt.Errorf("failed to get meeting summary: %w", err)
	}

	view := s.view(ctx, summary)
	return &view, nil
}

func (s *SummaryService) view(ctx context.Context, summary *entities.Summary) SummaryView {
	view := SummaryView{Summary: summary}
	if summary.AudioFilePath == nil || s.audio == nil {
		return view
	}

	url, err := s.audio.URL(ctx, *summary.AudioFilePath)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Failed to sign audio URL",
				zap.String("summary_id", summary.ID.String()),
				zap.Error(err),
			)
		}
		return view
	}
	view.AudioURL = url
	return view
}

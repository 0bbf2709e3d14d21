package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/meetmind/internal/domain/entities"
)

// SummaryRepository defines persistence for meeting summaries
type SummaryRepository interface {
	Create(ctx context.Context, summary *entities.Summary) error
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Summary, error)
	FindLatestByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Summary, error)
	ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Summary, error)
}

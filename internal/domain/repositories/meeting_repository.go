package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/johnquangdev/meetmind/internal/domain/entities"
)

// MeetingRepository defines the interface for meeting data access
type MeetingRepository interface {
	// Create creates a new meeting
	Create(ctx context.Context, meeting *entities.Meeting) error

	// FindByID retrieves a meeting by its ID; returns entities.ErrMeetingNotFound when absent
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)

	// FindActive retrieves meetings the scheduler should evaluate (status upcoming)
	FindActive(ctx context.Context) ([]*entities.Meeting, error)

	// List retrieves meetings with filters
	List(ctx context.Context, filters MeetingFilters) ([]*entities.Meeting, error)

	// Save upserts the full meeting document
	Save(ctx context.Context, meeting *entities.Meeting) error

	// TransitionStatus moves a meeting from one status to another only if it is
	// still in the expected status; returns entities.ErrStatusPrecondition otherwise
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entities.MeetingStatus) error

	// Delete removes a meeting
	Delete(ctx context.Context, id uuid.UUID) error
}

// MeetingFilters represents filter options for listing meetings
type MeetingFilters struct {
	UserID *uuid.UUID
	Status *entities.MeetingStatus
	Limit  int
	Offset int
}

package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/johnquangdev/meetmind/internal/domain/entities"
	"github.com/johnquangdev/meetmind/internal/domain/repositories"
)

// summaryRepository handles summary data operations
type summaryRepository struct {
	db *gorm.DB
}

// NewSummaryRepository creates a new summary repository
func NewSummaryRepository(db *gorm.DB) repositories.SummaryRepository {
	return &summaryRepository{db: db}
}

// Create stores a new summary
func (r *summaryRepository) Create(ctx context.Context, summary *entities.Summary) error {
	if summary == nil {
		return errors.New("summary cannot be nil")
	}
	return r.db.WithContext(ctx).Create(summary).Error
}

// FindByID retrieves a summary by ID
func (r *summaryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Summary, error) {
	var summary entities.Summary
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&summary).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrSummaryNotFound
		}
		return nil, err
	}
	return &summary, nil
}

// FindLatestByMeetingID retrieves the newest summary of a meeting
func (r *summaryRepository) FindLatestByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Summary, error) {
	var summary entities.Summary
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at DESC").
		First(&summary).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entities.ErrSummaryNotFound
		}
		return nil, err
	}
	return &summary, nil
}

// ListByUserID retrieves summaries owned by a user, newest first
func (r *summaryRepository) ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Summary, error) {
	var summaries []*entities.Summary
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&summaries).Error
	return summaries, err
}

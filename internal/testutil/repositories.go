// Package testutil provides in-memory fakes for exercising usecases without
// postgres, redis or the recording bot.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/johnquangdev/meetmind/internal/domain/entities"
	"github.com/johnquangdev/meetmind/internal/domain/repositories"
)

// MeetingRepo is an in-memory repositories.MeetingRepository
type MeetingRepo struct {
	mu       sync.Mutex
	meetings map[uuid.UUID]entities.Meeting

	// Err, when set, is returned by every call
	Err error
	// TransitionErr, when set, is returned by TransitionStatus only
	TransitionErr error
	// Transitions records every successful status change
	Transitions []Transition
}

// Transition is one recorded status change
type Transition struct {
	MeetingID uuid.UUID
	From, To  entities.MeetingStatus
}

var _ repositories.MeetingRepository = (*MeetingRepo)(nil)

// NewMeetingRepo creates a repository seeded with meetings
func NewMeetingRepo(meetings ...*entities.Meeting) *MeetingRepo {
	r := &MeetingRepo{meetings: make(map[uuid.UUID]entities.Meeting)}
	for _, m := range meetings {
		r.meetings[m.ID] = *m
	}
	return r
}

func (r *MeetingRepo) Create(_ context.Context, m *entities.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	now := time.Now()
	m.CreatedAt, m.UpdatedAt = now, now
	r.meetings[m.ID] = *m
	return nil
}

func (r *MeetingRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	m, ok := r.meetings[id]
	if !ok {
		return nil, entities.ErrMeetingNotFound
	}
	return &m, nil
}

func (r *MeetingRepo) FindActive(_ context.Context) ([]*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]*entities.Meeting, 0)
	for _, m := range r.meetings {
		if m.Status == entities.MeetingStatusUpcoming {
			out = append(out, &m)
		}
	}
	sortMeetings(out)
	return out, nil
}

func (r *MeetingRepo) List(_ context.Context, f repositories.MeetingFilters) ([]*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]*entities.Meeting, 0)
	for _, m := range r.meetings {
		if f.UserID != nil && m.UserID != *f.UserID {
			continue
		}
		if f.Status != nil && m.Status != *f.Status {
			continue
		}
		out = append(out, &m)
	}
	sortMeetings(out)
	return paginate(out, f.Limit, f.Offset), nil
}

func (r *MeetingRepo) Save(_ context.Context, m *entities.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	m.UpdatedAt = time.Now()
	r.meetings[m.ID] = *m
	return nil
}

func (r *MeetingRepo) TransitionStatus(_ context.Context, id uuid.UUID, from, to entities.MeetingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if r.TransitionErr != nil {
		return r.TransitionErr
	}
	if !from.CanTransitionTo(to) {
		return entities.ErrInvalidTransition
	}
	m, ok := r.meetings[id]
	if !ok || m.Status != from {
		return entities.ErrStatusPrecondition
	}
	m.Status = to
	m.UpdatedAt = time.Now()
	r.meetings[id] = m
	r.Transitions = append(r.Transitions, Transition{MeetingID: id, From: from, To: to})
	return nil
}

func (r *MeetingRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if _, ok := r.meetings[id]; !ok {
		return entities.ErrMeetingNotFound
	}
	delete(r.meetings, id)
	return nil
}

// Get returns a copy of the stored meeting, or nil
func (r *MeetingRepo) Get(id uuid.UUID) *entities.Meeting {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.meetings[id]
	if !ok {
		return nil
	}
	return &m
}

// SetErr makes every following call fail with err
func (r *MeetingRepo) SetErr(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Err = err
}

// TransitionsFor lists recorded status changes of one meeting
func (r *MeetingRepo) TransitionsFor(id uuid.UUID) []Transition {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Transition, 0)
	for _, t := range r.Transitions {
		if t.MeetingID == id {
			out = append(out, t)
		}
	}
	return out
}

func sortMeetings(ms []*entities.Meeting) {
	sort.Slice(ms, func(i, j int) bool {
		if ms[i].Date != ms[j].Date {
			return ms[i].Date < ms[j].Date
		}
		return ms[i].Time < ms[j].Time
	})
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return items[:0]
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

// SummaryRepo is an in-memory repositories.SummaryRepository
type SummaryRepo struct {
	mu        sync.Mutex
	summaries []entities.Summary

	// Err, when set, is returned by every call
	Err error
	// TransitionErr, when set, is returned by TransitionStatus only
	TransitionErr error
}

var _ repositories.SummaryRepository = (*SummaryRepo)(nil)

// NewSummaryRepo creates an empty summary repository
func NewSummaryRepo(summaries ...*entities.Summary) *SummaryRepo {
	r := &SummaryRepo{}
	for _, s := range summaries {
		r.summaries = append(r.summaries, *s)
	}
	return r
}

func (r *SummaryRepo) Create(_ context.Context, s *entities.Summary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	r.summaries = append(r.summaries, *s)
	return nil
}

func (r *SummaryRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for _, s := range r.summaries {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, entities.ErrSummaryNotFound
}

func (r *SummaryRepo) FindLatestByMeetingID(_ context.Context, meetingID uuid.UUID) (*entities.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	for i := len(r.summaries) - 1; i >= 0; i-- {
		if r.summaries[i].MeetingID == meetingID {
			s := r.summaries[i]
			return &s, nil
		}
	}
	return nil, entities.ErrSummaryNotFound
}

func (r *SummaryRepo) ListByUserID(_ context.Context, userID uuid.UUID, limit, offset int) ([]*entities.Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return nil, r.Err
	}
	out := make([]*entities.Summary, 0)
	for i := len(r.summaries) - 1; i >= 0; i-- {
		if r.summaries[i].UserID == userID {
			s := r.summaries[i]
			out = append(out, &s)
		}
	}
	return paginate(out, limit, offset), nil
}

// All returns copies of every stored summary, oldest first
func (r *SummaryRepo) All() []entities.Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entities.Summary(nil), r.summaries...)
}

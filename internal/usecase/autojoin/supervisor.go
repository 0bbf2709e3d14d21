package autojoin

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/johnquangdev/meetmind/internal/domain/entities"
	"github.com/johnquangdev/meetmind/internal/domain/repositories"
	"github.com/johnquangdev/meetmind/internal/infrastructure/external/bot"
	"github.com/johnquangdev/meetmind/internal/infrastructure/external/notify"
	"github.com/johnquangdev/meetmind/internal/infrastructure/storage"
	"github.com/johnquangdev/meetmind/internal/metrics"
	ucerrors "github.com/johnquangdev/meetmind/internal/usecase/errors"
	"github.com/johnquangdev/meetmind/pkg/jobcontext"
)

// Recording failures
var (
	ErrLaunchFailed    = errors.New("recording task could not start")
	ErrTaskFailed      = errors.New("recording task failed")
	ErrNoUsableOutput  = errors.New("recording task produced no usable output")
	ErrTrackingTimeout = errors.New("recording task exceeded its tracking window")
)

// DefaultTrackingBuffer is added to the recording duration before a run is given up on
const DefaultTrackingBuffer = 10 * time.Minute

// Recorder runs the external join-record-transcribe task
type Recorder interface {
	Run(ctx context.Context, req bot.Request) (*bot.Result, error)
}

// ArtifactStore copies a recorded file into durable storage
type ArtifactStore interface {
	Store(ctx context.Context, objectName, localPath string) (string, error)
}

// SupervisorConfig tunes the supervisor
type SupervisorConfig struct {
	Location       *time.Location
	TrackingBuffer time.Duration
	BotName        string
}

// Outcome is the final result of a tracked run
type Outcome struct {
	Status    entities.MeetingStatus
	SummaryID *uuid.UUID
	Err       error
}

// HandleInfo describes a live run
type HandleInfo struct {
	MeetingID       uuid.UUID `json:"meeting_id"`
	DurationSeconds int       `json:"duration_seconds"`
	StartedAt       time.Time `json:"started_at"`
	Deadline        time.Time `json:"deadline"`
}

// Handle tracks one launched recording
type Handle struct {
	info    HandleInfo
	done    chan struct{}
	outcome Outcome
}

// Info returns the run description
func (h *Handle) Info() HandleInfo { return h.info }

// Done is closed once the run has been resolved
func (h *Handle) Done() <-chan struct{} { return h.done }

// Outcome returns the result; only meaningful after Done is closed
func (h *Handle) Outcome() Outcome {
	<-h.done
	return h.outcome
}

// Supervisor launches recording tasks and applies their results to the meeting
type Supervisor struct {
	baseCtx   context.Context
	cfg       SupervisorConfig
	meetings  repositories.MeetingRepository
	summaries repositories.SummaryRepository
	recorder  Recorder
	store     ArtifactStore
	notifier  notify.Notifier
	ledger    Ledger
	logger    *zap.Logger
	metrics   metrics.Sink
	clock     func() time.Time

	persistMaxElapsed time.Duration
	trackingWindow    func(durationSeconds int) time.Duration

	mu      sync.Mutex
	running map[uuid.UUID]*Handle
	wg      sync.WaitGroup
}

// NewSupervisor creates a supervisor. Runs live until ctx is cancelled.
func NewSupervisor(
	ctx context.Context,
	cfg SupervisorConfig,
	meetings repositories.MeetingRepository,
	summaries repositories.SummaryRepository,
	recorder Recorder,
	store ArtifactStore,
	notifier notify.Notifier,
	ledger Ledger,
	logger *zap.Logger,
) *Supervisor {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.TrackingBuffer <= 0 {
		cfg.TrackingBuffer = DefaultTrackingBuffer
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Supervisor{
		baseCtx:           ctx,
		cfg:               cfg,
		meetings:          meetings,
		summaries:         summaries,
		recorder:          recorder,
		store:             store,
		notifier:          notifier,
		ledger:            ledger,
		logger:            logger,
		metrics:           metrics.NewNoopSink(),
		clock:             time.Now,
		persistMaxElapsed: 30 * time.Second,
		running:           make(map[uuid.UUID]*Handle),
	}
	s.trackingWindow = func(durationSeconds int) time.Duration {
		return jobcontext.TrackingWindow(durationSeconds, s.cfg.TrackingBuffer)
	}
	return s
}

// WithMetrics sets the metrics sink
func (s *Supervisor) WithMetrics(sink metrics.Sink) *Supervisor {
	if sink != nil {
		s.metrics = sink
	}
	return s
}

// WithClock replaces the wall clock
func (s *Supervisor) WithClock(clock func() time.Time) *Supervisor {
	if clock != nil {
		s.clock = clock
	}
	return s
}

// Launch marks the meeting ongoing and starts the recording in the background.
// At most one run per meeting is live at a time.
func (s *Supervisor) Launch(ctx context.Context, meetingID uuid.UUID, override *int) (*Handle, error) {
	m, err := s.meetings.FindByID(ctx, meetingID)
	if err != nil {
		if errors.Is(err, entities.ErrMeetingNotFound) {
			return nil, ucerrors.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("load meeting: %w", err)
	}
	if !m.HasLink() {
		return nil, ucerrors.ErrMissingMeetingLink
	}
	switch {
	case m.IsCompleted():
		return nil, ucerrors.ErrMeetingCompleted
	case m.IsOngoing():
		return nil, ucerrors.ErrRecordingInProgress
	}

	if !s.reserve(meetingID) {
		return nil, ucerrors.ErrRecordingInProgress
	}

	if err := s.meetings.TransitionStatus(ctx, meetingID, entities.MeetingStatusUpcoming, entities.MeetingStatusOngoing); err != nil {
		s.unreserve(meetingID)
		if errors.Is(err, entities.ErrStatusPrecondition) {
			return nil, ucerrors.ErrRecordingInProgress
		}
		return nil, fmt.Errorf("%w: mark meeting ongoing: %w", ucerrors.ErrRecordingStartFailed, err)
	}
	m.Status = entities.MeetingStatusOngoing

	now := s.clock()
	duration := ResolveDuration(m, now, s.cfg.Location, override)
	h := &Handle{
		info: HandleInfo{
			MeetingID:       meetingID,
			DurationSeconds: duration,
			StartedAt:       now,
			Deadline:        now.Add(s.trackingWindow(duration)),
		},
		done: make(chan struct{}),
	}

	s.mu.Lock()
	s.running[meetingID] = h
	s.mu.Unlock()

	s.metrics.RecordingStarted()
	s.logger.Info("🚀 Recording launched",
		zap.String("meeting_id", meetingID.String()),
		zap.Int("duration_seconds", duration),
		zap.Time("deadline", h.info.Deadline),
	)

	s.wg.Add(1)
	go s.track(h, m)

	return h, nil
}

// Running lists the live runs, oldest first
func (s *Supervisor) Running() []HandleInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]HandleInfo, 0, len(s.running))
	for _, h := range s.running {
		if h != nil {
			out = append(out, h.info)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out
}

// IsRunning reports whether a run is live for the meeting
func (s *Supervisor) IsRunning(meetingID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.running[meetingID]
	return ok
}

// Wait blocks until every tracked run has been resolved
func (s *Supervisor) Wait() {
	s.wg.Wait()
}

// reserve claims the meeting slot; a nil entry marks a launch in progress
func (s *Supervisor) reserve(meetingID uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.running[meetingID]; busy {
		return false
	}
	s.running[meetingID] = nil
	return true
}

func (s *Supervisor) unreserve(meetingID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, meetingID)
}

type runResult struct {
	res *bot.Result
	err error
}

func (s *Supervisor) track(h *Handle, m *entities.Meeting) {
	defer s.wg.Done()

	log := s.logger.With(zap.String("meeting_id", m.ID.String()))
	trackCtx, cancel := jobcontext.RecordingBegin(s.baseCtx, m.ID, entities.TriggerAutoJoin.String(),
		h.info.DurationSeconds, h.info.StartedAt, h.info.Deadline)
	defer cancel()

	md := jobcontext.GetRecordingMetadata(trackCtx)
	log.Info("🎬 Tracking recording",
		zap.String("trigger", md.Trigger),
		zap.Int("duration_seconds", md.DurationSeconds),
		zap.Time("tracking_deadline", md.Deadline),
	)

	results := make(chan runResult, 1)
	go func() {
		req := bot.Request{
			MeetingID:       m.ID,
			Link:            m.Link(),
			DurationSeconds: h.info.DurationSeconds,
			BotName:         s.cfg.BotName,
		}
		var rr runResult
		rr.err = jobcontext.WithRecovery(s.baseCtx, func(ctx context.Context) error {
			res, err := s.recorder.Run(ctx, req)
			rr.res = res
			return err
		})
		results <- rr
	}()

	var outcome Outcome
	select {
	case rr := <-results:
		if rr.err != nil {
			outcome = s.fail(m, classifyRunError(rr.err), log)
		} else {
			outcome = s.complete(m, h.info.DurationSeconds, rr.res, log)
		}
	case <-trackCtx.Done():
		err := ErrTrackingTimeout
		if s.baseCtx.Err() != nil {
			err = fmt.Errorf("%w: %v", ErrTaskFailed, s.baseCtx.Err())
		}
		outcome = s.fail(m, err, log)
	}

	h.outcome = outcome

	s.mu.Lock()
	delete(s.running, m.ID)
	s.mu.Unlock()
	close(h.done)

	label := metrics.OutcomeCompleted
	switch {
	case errors.Is(outcome.Err, ErrTrackingTimeout):
		label = metrics.OutcomeTimedOut
	case outcome.Err != nil:
		label = metrics.OutcomeFailed
	}
	s.metrics.RecordingFinished(label, s.clock().Sub(h.info.StartedAt))
}

func classifyRunError(err error) error {
	if errors.Is(err, bot.ErrSpawn) {
		return fmt.Errorf("%w: %v", ErrLaunchFailed, err)
	}
	return fmt.Errorf("%w: %v", ErrTaskFailed, err)
}

func (s *Supervisor) complete(m *entities.Meeting, duration int, res *bot.Result, log *zap.Logger) Outcome {
	output := ""
	if res != nil {
		output = res.Output
	}
	sections := ParseOutput(output)
	if !sections.Found {
		return s.fail(m, ErrNoUsableOutput, log)
	}

	ctx, cancel := s.persistContext()
	defer cancel()

	summary := entities.NewSummary(m, FormatDuration(duration))
	if sections.HasSummary() {
		summary.Transcribed = true
		summary.Transcript = []entities.TranscriptEntry{{
			Speaker:   entities.BotSpeaker,
			Text:      sections.Summary,
			Timestamp: s.clock().UTC().Format(time.RFC3339),
		}}
	}
	summary.KeyPoints = ParseKeyPoints(sections.KeyPoints)
	summary.SetActionItems(ParseActionItems(sections.ActionItems))
	summary.RawSections = datatypes.JSONMap(sections.Raw())

	if sections.HasAudio() && s.store != nil {
		objectName := storage.AudioObjectName(m.ID, s.clock(), sections.AudioPath)
		stored, err := s.store.Store(ctx, objectName, sections.AudioPath)
		if err != nil {
			log.Warn("⚠️ Failed to store audio artifact, keeping summary without audio",
				zap.String("audio_path", sections.AudioPath),
				zap.Error(err),
			)
		} else {
			summary.AudioFilePath = &stored
		}
	}

	if err := s.persist(ctx, func() error { return s.summaries.Create(ctx, summary) }); err != nil {
		log.Error("❌ Failed to save summary", zap.Error(err))
		return s.fail(m, fmt.Errorf("save summary: %w", err), log)
	}

	err := s.persist(ctx, func() error {
		return s.meetings.TransitionStatus(ctx, m.ID, entities.MeetingStatusOngoing, entities.MeetingStatusCompleted)
	})
	if err != nil {
		// The summary exists, so the meeting must not be retried
		log.Warn("⚠️ Failed to mark meeting completed", zap.Error(err))
	}
	m.Status = entities.MeetingStatusCompleted

	log.Info("✅ Recording completed",
		zap.String("summary_id", summary.ID.String()),
		zap.String("duration", summary.Duration),
		zap.Int("key_points", len(summary.KeyPoints)),
		zap.Int("action_items", summary.ActionItemCount),
	)

	s.notifySummary(ctx, m, summary, log)

	id := summary.ID
	return Outcome{Status: entities.MeetingStatusCompleted, SummaryID: &id}
}

func (s *Supervisor) fail(m *entities.Meeting, cause error, log *zap.Logger) Outcome {
	log.Error("❌ Recording failed, rolling back", zap.Error(cause))

	ctx, cancel := s.persistContext()
	defer cancel()

	err := s.persist(ctx, func() error {
		return s.meetings.TransitionStatus(ctx, m.ID, entities.MeetingStatusOngoing, entities.MeetingStatusUpcoming)
	})
	if err != nil {
		log.Warn("⚠️ Failed to roll meeting back to upcoming", zap.Error(err))
	}
	m.Status = entities.MeetingStatusUpcoming

	if s.ledger != nil {
		if err := s.ledger.Release(ctx, m.ID, entities.TriggerAutoJoin); err != nil {
			log.Warn("⚠️ Failed to release auto-join mark", zap.Error(err))
		}
	}

	return Outcome{Status: entities.MeetingStatusUpcoming, Err: cause}
}

func (s *Supervisor) notifySummary(ctx context.Context, m *entities.Meeting, summary *entities.Summary, log *zap.Logger) {
	if s.notifier == nil || m.OwnerEmail == "" {
		return
	}
	msg := notify.ForMeeting(notify.KindSummary, m)
	msg.Summary = summary

	err := s.notifier.Send(ctx, msg)
	s.metrics.NotificationSent(string(notify.KindSummary), err)
	if err != nil {
		log.Warn("⚠️ Failed to send summary notification", zap.Error(err))
	}
}

// persistContext outlives the base context so results are written during shutdown
func (s *Supervisor) persistContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(s.baseCtx), s.persistMaxElapsed+15*time.Second)
}

// persist retries fn on transient store errors
func (s *Supervisor) persist(ctx context.Context, fn func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = s.persistMaxElapsed

	return backoff.Retry(func() error {
		err := fn()
		if err != nil && !jobcontext.IsRetryableError(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(bo, ctx))
}

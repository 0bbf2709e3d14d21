package autojoin

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/meetmind/internal/domain/entities"
	"github.com/johnquangdev/meetmind/internal/domain/repositories"
	"github.com/johnquangdev/meetmind/internal/infrastructure/external/bot"
	"github.com/johnquangdev/meetmind/internal/infrastructure/external/notify"
	"github.com/johnquangdev/meetmind/internal/metrics"
	ucerrors "github.com/johnquangdev/meetmind/internal/usecase/errors"
	"github.com/johnquangdev/meetmind/pkg/jobcontext"
)

// DefaultTickInterval is how often the scheduler evaluates meetings
const DefaultTickInterval = 30 * time.Second

// Launcher starts a recording for a meeting
type Launcher interface {
	Launch(ctx context.Context, meetingID uuid.UUID, override *int) (*Handle, error)
}

// ReadinessProbe reports whether the recording bot can be launched
type ReadinessProbe interface {
	Check(ctx context.Context) bot.Status
}

// TickSource returns a channel of ticks and a stop function
type TickSource func(interval time.Duration) (<-chan time.Time, func())

// TickerSource is the wall-clock tick source
func TickerSource(interval time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(interval)
	return t.C, t.Stop
}

// SchedulerConfig tunes the scheduler
type SchedulerConfig struct {
	TickInterval time.Duration
	Location     *time.Location
}

// TickStats summarizes one tick
type TickStats struct {
	Evaluated      int
	Stale          int
	Reminders      int
	AutoJoins      int
	Suppressed     int
	MeetingErrors  int
	LoadFailed     bool
	LoadFailureErr error
}

// Scheduler evaluates upcoming meetings on every tick and dispatches reminders,
// auto-joins and stale completions
type Scheduler struct {
	cfg      SchedulerConfig
	meetings repositories.MeetingRepository
	ledger   Ledger
	launcher Launcher
	probe    ReadinessProbe
	notifier notify.Notifier
	logger   *zap.Logger
	metrics  metrics.Sink
	clock    func() time.Time
	ticks    TickSource

	wg sync.WaitGroup
}

// NewScheduler creates a scheduler
func NewScheduler(
	cfg SchedulerConfig,
	meetings repositories.MeetingRepository,
	ledger Ledger,
	launcher Launcher,
	probe ReadinessProbe,
	notifier notify.Notifier,
	logger *zap.Logger,
) *Scheduler {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cfg:      cfg,
		meetings: meetings,
		ledger:   ledger,
		launcher: launcher,
		probe:    probe,
		notifier: notifier,
		logger:   logger,
		metrics:  metrics.NewNoopSink(),
		clock:    time.Now,
		ticks:    TickerSource,
	}
}

// WithMetrics sets the metrics sink
func (s *Scheduler) WithMetrics(sink metrics.Sink) *Scheduler {
	if sink != nil {
		s.metrics = sink
	}
	return s
}

// WithClock replaces the wall clock
func (s *Scheduler) WithClock(clock func() time.Time) *Scheduler {
	if clock != nil {
		s.clock = clock
	}
	return s
}

// WithTickSource replaces the ticker
func (s *Scheduler) WithTickSource(src TickSource) *Scheduler {
	if src != nil {
		s.ticks = src
	}
	return s
}

// Run ticks until ctx is cancelled. The first tick runs immediately.
func (s *Scheduler) Run(ctx context.Context) error {
	ticks, stop := s.ticks(s.cfg.TickInterval)
	defer stop()

	s.logger.Info("⏰ Scheduler started",
		zap.Duration("tick", s.cfg.TickInterval),
		zap.String("timezone", s.cfg.Location.String()),
	)

	s.Tick(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("🛑 Scheduler stopped")
			return ctx.Err()
		case <-ticks:
			s.Tick(ctx)
		}
	}
}

// Tick evaluates every upcoming meeting once. Reminder sends it dispatches run
// in the background; use Wait to join them.
func (s *Scheduler) Tick(ctx context.Context) TickStats {
	start := time.Now()
	s.metrics.TickStarted()

	var stats TickStats
	meetings, err := s.meetings.FindActive(ctx)
	if err != nil {
		s.logger.Error("❌ Failed to load upcoming meetings", zap.Error(err))
		stats.LoadFailed = true
		stats.LoadFailureErr = err
		s.metrics.TickCompleted(time.Since(start), 0, err)
		return stats
	}

	now := s.clock()
	for _, m := range meetings {
		stats.Evaluated++
		err := jobcontext.WithRecovery(ctx, func(ctx context.Context) error {
			return s.processMeeting(ctx, m, now, &stats)
		})
		if err != nil {
			stats.MeetingErrors++
			s.logger.Error("❌ Failed to process meeting",
				zap.String("meeting_id", m.ID.String()),
				zap.Error(err),
			)
		}
	}

	s.metrics.TickCompleted(time.Since(start), stats.Evaluated, nil)
	return stats
}

// Wait blocks until dispatched reminder sends finish
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

func (s *Scheduler) processMeeting(ctx context.Context, m *entities.Meeting, now time.Time, stats *TickStats) error {
	decision, err := Evaluate(m, now, s.cfg.Location)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}

	switch decision.Action {
	case ActionStaleComplete:
		return s.completeStale(ctx, m, decision, stats)
	case ActionReminderDue:
		return s.dispatchReminder(ctx, m, decision, stats)
	case ActionAutoJoinDue:
		return s.dispatchAutoJoin(ctx, m, stats)
	}
	return nil
}

func (s *Scheduler) completeStale(ctx context.Context, m *entities.Meeting, d Decision, stats *TickStats) error {
	err := s.meetings.TransitionStatus(ctx, m.ID, entities.MeetingStatusUpcoming, entities.MeetingStatusCompleted)
	if errors.Is(err, entities.ErrStatusPrecondition) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("complete stale meeting: %w", err)
	}

	stats.Stale++
	s.logger.Info("🗂️ Stale meeting marked completed",
		zap.String("meeting_id", m.ID.String()),
		zap.Int("minutes_until", d.MinutesUntil),
	)
	return nil
}

func (s *Scheduler) dispatchReminder(ctx context.Context, m *entities.Meeting, d Decision, stats *TickStats) error {
	fired, err := s.ledger.TryFire(ctx, m.ID, d.Kind)
	if err != nil {
		return fmt.Errorf("ledger: %w", err)
	}
	if !fired {
		s.metrics.TriggerSuppressed(metrics.ReasonAlreadyFired)
		return nil
	}

	stats.Reminders++
	s.metrics.TriggerFired(d.Kind.String())

	msg := notify.ForMeeting(notify.KindReminder, m)
	msg.MinutesUntil = d.MinutesUntil

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.sendReminder(context.WithoutCancel(ctx), m.ID, d.Kind, msg)
	}()
	return nil
}

// sendReminder delivers the reminder and records it on the meeting. The ledger
// mark is released when delivery fails so a later threshold can retry.
func (s *Scheduler) sendReminder(ctx context.Context, meetingID uuid.UUID, kind entities.TriggerKind, msg notify.Message) {
	log := s.logger.With(zap.String("meeting_id", meetingID.String()), zap.String("kind", kind.String()))

	err := jobcontext.WithRecovery(ctx, func(ctx context.Context) error {
		return s.notifier.Send(ctx, msg)
	})
	s.metrics.NotificationSent(string(notify.KindReminder), err)
	if err != nil {
		log.Warn("⚠️ Reminder not delivered", zap.Error(err))
		if rerr := s.ledger.Release(ctx, meetingID, kind); rerr != nil {
			log.Warn("⚠️ Failed to release reminder mark", zap.Error(rerr))
		}
		return
	}

	// Re-read so fields changed since the tick are not overwritten
	m, err := s.meetings.FindByID(ctx, meetingID)
	if err != nil {
		log.Warn("⚠️ Reminder sent but meeting could not be reloaded", zap.Error(err))
		return
	}
	m.ReminderSent = true
	if err := s.meetings.Save(ctx, m); err != nil {
		log.Warn("⚠️ Reminder sent but flag could not be saved", zap.Error(err))
		return
	}
	log.Info("📧 Reminder sent", zap.Int("minutes_until", msg.MinutesUntil))
}

func (s *Scheduler) dispatchAutoJoin(ctx context.Context, m *entities.Meeting, stats *TickStats) error {
	if s.probe != nil {
		if st := s.probe.Check(ctx); !st.Ready {
			stats.Suppressed++
			s.metrics.TriggerSuppressed(metrics.ReasonBotNotReady)
			s.logger.Warn("⚠️ Auto-join suppressed, bot not ready",
				zap.String("meeting_id", m.ID.String()),
				zap.String("reason", st.Message),
			)
			return nil
		}
	}

	fired, err := s.ledger.TryFire(ctx, m.ID, entities.TriggerAutoJoin)
	if err != nil {
		return fmt.Errorf("ledger: %w", err)
	}
	if !fired {
		s.metrics.TriggerSuppressed(metrics.ReasonAlreadyFired)
		return nil
	}

	if _, err := s.launcher.Launch(ctx, m.ID, nil); err != nil {
		if rerr := s.ledger.Release(ctx, m.ID, entities.TriggerAutoJoin); rerr != nil {
			s.logger.Warn("⚠️ Failed to release auto-join mark",
				zap.String("meeting_id", m.ID.String()),
				zap.Error(rerr),
			)
		}
		if errors.Is(err, ucerrors.ErrRecordingInProgress) {
			stats.Suppressed++
			s.metrics.TriggerSuppressed(metrics.ReasonInProgress)
			return nil
		}
		return fmt.Errorf("launch: %w", err)
	}

	stats.AutoJoins++
	s.metrics.TriggerFired(entities.TriggerAutoJoin.String())
	return nil
}

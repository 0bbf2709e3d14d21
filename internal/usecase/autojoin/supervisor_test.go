package autojoin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/johnquangdev/meetmind/internal/domain/entities"
	"github.com/johnquangdev/meetmind/internal/infrastructure/cache"
	"github.com/johnquangdev/meetmind/internal/infrastructure/external/bot"
	"github.com/johnquangdev/meetmind/internal/infrastructure/external/notify"
	"github.com/johnquangdev/meetmind/internal/testutil"
	ucerrors "github.com/johnquangdev/meetmind/internal/usecase/errors"
)

var testStart = time.Date(2026, 10, 16, 14, 0, 0, 0, time.UTC)

type harness struct {
	meetings  *testutil.MeetingRepo
	summaries *testutil.SummaryRepo
	recorder  *testutil.Recorder
	store     *testutil.Store
	notifier  *testutil.Notifier
	ledger    *cache.MemoryLedger
	clock     *testutil.Clock
	sup       *Supervisor
}

func newHarness(t *testing.T, output string, meetings ...*entities.Meeting) *harness {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	h := &harness{
		meetings:  testutil.NewMeetingRepo(meetings...),
		summaries: testutil.NewSummaryRepo(),
		recorder:  testutil.NewRecorder(output),
		store:     testutil.NewStore(),
		notifier:  &testutil.Notifier{},
		ledger:    cache.NewMemoryLedger(0),
		clock:     testutil.NewClock(testStart),
	}
	h.sup = NewSupervisor(ctx, SupervisorConfig{Location: time.UTC, BotName: "MeetMind Bot"},
		h.meetings, h.summaries, h.recorder, h.store, h.notifier, h.ledger, nil).
		WithClock(h.clock.Now)
	h.sup.persistMaxElapsed = 50 * time.Millisecond

	t.Cleanup(func() {
		cancel()
		h.sup.Wait()
		_ = h.ledger.Close()
	})
	return h
}

func joinable(opts ...func(*entities.Meeting)) *entities.Meeting {
	base := []func(*entities.Meeting){testutil.WithLink("https://x"), testutil.WithAutoJoin(), testutil.WithExpectedMinutes(0)}
	return testutil.MeetingAt(testStart, append(base, opts...)...)
}

func waitOutcome(t *testing.T, h *Handle) Outcome {
	t.Helper()
	select {
	case <-h.Done():
		return h.Outcome()
	case <-time.After(5 * time.Second):
		t.Fatal("recording was not resolved")
		return Outcome{}
	}
}

func TestSupervisor_LaunchCompletes(t *testing.T) {
	m := joinable()
	h := newHarness(t, botOutput, m)

	handle, err := h.sup.Launch(context.Background(), m.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, 3600, handle.Info().DurationSeconds)
	assert.Equal(t, testStart.Add(70*time.Minute), handle.Info().Deadline)

	out := waitOutcome(t, handle)
	require.NoError(t, out.Err)
	assert.Equal(t, entities.MeetingStatusCompleted, out.Status)
	require.NotNil(t, out.SummaryID)

	assert.Equal(t, entities.MeetingStatusCompleted, h.meetings.Get(m.ID).Status)
	assert.Equal(t, []testutil.Transition{
		{MeetingID: m.ID, From: entities.MeetingStatusUpcoming, To: entities.MeetingStatusOngoing},
		{MeetingID: m.ID, From: entities.MeetingStatusOngoing, To: entities.MeetingStatusCompleted},
	}, h.meetings.TransitionsFor(m.ID))

	summaries := h.summaries.All()
	require.Len(t, summaries, 1)
	s := summaries[0]
	assert.Equal(t, *out.SummaryID, s.ID)
	assert.Equal(t, m.ID, s.MeetingID)
	assert.Equal(t, "60 min", s.Duration)
	assert.True(t, s.Transcribed)
	require.Len(t, s.Transcript, 1)
	assert.Equal(t, entities.BotSpeaker, s.Transcript[0].Speaker)
	assert.Equal(t, []string{"- Release plan approved", "- QA needs two more days"}, s.KeyPoints)
	assert.Equal(t, 2, s.ActionItemCount)
	assert.Equal(t, "/tmp/recordings/meeting_1.wav", s.RawSections["audio_path"])

	require.NotNil(t, s.AudioFilePath)
	assert.True(t, strings.HasPrefix(*s.AudioFilePath, fmt.Sprintf("audio/meeting_%s_", m.ID)))
	assert.Equal(t, "/tmp/recordings/meeting_1.wav", h.store.Objects()[*s.AudioFilePath])

	reqs := h.recorder.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, bot.Request{MeetingID: m.ID, Link: "https://x", DurationSeconds: 3600, BotName: "MeetMind Bot"}, reqs[0])

	sent := h.notifier.SentOfKind(notify.KindSummary)
	require.Len(t, sent, 1)
	assert.Equal(t, m.OwnerEmail, sent[0].To)
	assert.False(t, h.sup.IsRunning(m.ID))
}

func TestSupervisor_Override(t *testing.T) {
	m := joinable(testutil.WithExpectedMinutes(30))
	h := newHarness(t, botOutput, m)

	handle, err := h.sup.Launch(context.Background(), m.ID, intPtr(900))
	require.NoError(t, err)
	assert.Equal(t, 900, handle.Info().DurationSeconds)

	out := waitOutcome(t, handle)
	require.NoError(t, out.Err)
	assert.Equal(t, "15 min", h.summaries.All()[0].Duration)
}

func TestSupervisor_FailureRollsBack(t *testing.T) {
	tests := []struct {
		name    string
		run     func(context.Context, bot.Request) (*bot.Result, error)
		output  string
		wantErr error
	}{
		{
			name:    "non-zero exit",
			run:     func(context.Context, bot.Request) (*bot.Result, error) { return nil, &bot.ExitError{Code: 1, Stderr: "crash"} },
			wantErr: ErrTaskFailed,
		},
		{
			name:    "spawn failure",
			run:     func(context.Context, bot.Request) (*bot.Result, error) { return nil, fmt.Errorf("%w: no python", bot.ErrSpawn) },
			wantErr: ErrLaunchFailed,
		},
		{
			name:    "panic in task",
			run:     func(context.Context, bot.Request) (*bot.Result, error) { panic("bot exploded") },
			wantErr: ErrTaskFailed,
		},
		{
			name:    "no usable output",
			output:  "Traceback (most recent call last):\n",
			wantErr: ErrNoUsableOutput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := joinable()
			h := newHarness(t, tt.output, m)
			h.recorder.RunFunc = tt.run

			// the scheduler marks the key before launching
			fired, err := h.ledger.TryFire(context.Background(), m.ID, entities.TriggerAutoJoin)
			require.NoError(t, err)
			require.True(t, fired)

			handle, err := h.sup.Launch(context.Background(), m.ID, nil)
			require.NoError(t, err)

			out := waitOutcome(t, handle)
			assert.ErrorIs(t, out.Err, tt.wantErr)
			assert.Equal(t, entities.MeetingStatusUpcoming, out.Status)
			assert.Nil(t, out.SummaryID)

			assert.Equal(t, entities.MeetingStatusUpcoming, h.meetings.Get(m.ID).Status)
			assert.Empty(t, h.summaries.All())
			assert.Empty(t, h.notifier.Sent())

			again, err := h.ledger.TryFire(context.Background(), m.ID, entities.TriggerAutoJoin)
			require.NoError(t, err)
			assert.True(t, again, "auto-join key should be released after a failed run")
		})
	}
}

func TestSupervisor_TrackingTimeout(t *testing.T) {
	m := joinable()
	h := newHarness(t, "", m)
	run, release := testutil.BlockingRun(botOutput)
	t.Cleanup(release)
	h.recorder.RunFunc = run
	h.sup.trackingWindow = func(int) time.Duration { return 50 * time.Millisecond }

	handle, err := h.sup.Launch(context.Background(), m.ID, nil)
	require.NoError(t, err)

	out := waitOutcome(t, handle)
	assert.ErrorIs(t, out.Err, ErrTrackingTimeout)
	assert.Equal(t, entities.MeetingStatusUpcoming, h.meetings.Get(m.ID).Status)
	assert.Empty(t, h.summaries.All())
	assert.False(t, h.sup.IsRunning(m.ID))
}

func TestSupervisor_TrackingDeadlineFollowsClock(t *testing.T) {
	m := joinable()
	h := newHarness(t, "", m)
	core, logs := observer.New(zap.InfoLevel)
	h.sup.logger = zap.New(core)
	run, release := testutil.BlockingRun(botOutput)
	t.Cleanup(release)
	h.recorder.RunFunc = run
	h.sup.trackingWindow = func(int) time.Duration { return 80 * time.Millisecond }

	handle, err := h.sup.Launch(context.Background(), m.ID, nil)
	require.NoError(t, err)
	info := handle.Info()
	assert.True(t, info.Deadline.Equal(testStart.Add(80*time.Millisecond)))

	out := waitOutcome(t, handle)
	assert.ErrorIs(t, out.Err, ErrTrackingTimeout)

	entries := logs.FilterMessage("🎬 Tracking recording").All()
	require.Len(t, entries, 1)
	tracked, ok := entries[0].ContextMap()["tracking_deadline"].(time.Time)
	require.True(t, ok)
	assert.True(t, info.Deadline.Equal(tracked), "tracked %s, reported %s", tracked, info.Deadline)
}

func TestSupervisor_OneLiveRunPerMeeting(t *testing.T) {
	m := joinable()
	h := newHarness(t, "", m)
	run, release := testutil.BlockingRun(botOutput)
	t.Cleanup(release)
	h.recorder.RunFunc = run

	const callers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		handles  []*Handle
		conflict int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			handle, err := h.sup.Launch(context.Background(), m.ID, nil)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				assert.ErrorIs(t, err, ucerrors.ErrRecordingInProgress)
				conflict++
				return
			}
			handles = append(handles, handle)
		}()
	}
	wg.Wait()

	require.Len(t, handles, 1)
	assert.Equal(t, callers-1, conflict)
	assert.True(t, h.sup.IsRunning(m.ID))
	require.Len(t, h.sup.Running(), 1)
	assert.Equal(t, m.ID, h.sup.Running()[0].MeetingID)

	release()
	out := waitOutcome(t, handles[0])
	require.NoError(t, out.Err)
	assert.Len(t, h.summaries.All(), 1)
	assert.Len(t, h.recorder.Requests(), 1)
}

func TestSupervisor_LaunchRejections(t *testing.T) {
	noLink := testutil.MeetingAt(testStart, testutil.WithAutoJoin())
	done := joinable(testutil.WithStatus(entities.MeetingStatusCompleted))
	live := joinable(testutil.WithStatus(entities.MeetingStatusOngoing))
	h := newHarness(t, botOutput, noLink, done, live)

	_, err := h.sup.Launch(context.Background(), noLink.ID, nil)
	assert.ErrorIs(t, err, ucerrors.ErrMissingMeetingLink)
	assert.Equal(t, entities.MeetingStatusUpcoming, h.meetings.Get(noLink.ID).Status)

	_, err = h.sup.Launch(context.Background(), done.ID, nil)
	assert.ErrorIs(t, err, ucerrors.ErrMeetingCompleted)

	_, err = h.sup.Launch(context.Background(), live.ID, nil)
	assert.ErrorIs(t, err, ucerrors.ErrRecordingInProgress)

	_, err = h.sup.Launch(context.Background(), joinable().ID, nil)
	assert.ErrorIs(t, err, ucerrors.ErrMeetingNotFound)

	assert.Empty(t, h.recorder.Requests())
}

func TestSupervisor_LaunchStatusWriteFailure(t *testing.T) {
	m := joinable()
	h := newHarness(t, botOutput, m)
	h.meetings.TransitionErr = errors.New("connection reset by peer")

	_, err := h.sup.Launch(context.Background(), m.ID, nil)
	assert.ErrorIs(t, err, ucerrors.ErrRecordingStartFailed)
	assert.Contains(t, err.Error(), "connection reset by peer")
	assert.False(t, h.sup.IsRunning(m.ID))
	assert.Empty(t, h.recorder.Requests())
}

func TestSupervisor_StoreFailureKeepsSummary(t *testing.T) {
	m := joinable()
	h := newHarness(t, botOutput, m)
	h.store.Err = errors.New("bucket unavailable")

	handle, err := h.sup.Launch(context.Background(), m.ID, nil)
	require.NoError(t, err)

	out := waitOutcome(t, handle)
	require.NoError(t, out.Err)
	summaries := h.summaries.All()
	require.Len(t, summaries, 1)
	assert.Nil(t, summaries[0].AudioFilePath)
	assert.Equal(t, entities.MeetingStatusCompleted, h.meetings.Get(m.ID).Status)
}

func TestSupervisor_SummarySaveFailureRollsBack(t *testing.T) {
	m := joinable()
	h := newHarness(t, botOutput, m)
	h.summaries.Err = errors.New("duplicate key value violates unique constraint")

	handle, err := h.sup.Launch(context.Background(), m.ID, nil)
	require.NoError(t, err)

	out := waitOutcome(t, handle)
	require.Error(t, out.Err)
	assert.Equal(t, entities.MeetingStatusUpcoming, h.meetings.Get(m.ID).Status)
	assert.Empty(t, h.notifier.Sent())
}

func TestSupervisor_SummaryNotificationIsBestEffort(t *testing.T) {
	m := joinable()
	h := newHarness(t, botOutput, m)
	h.notifier.SetErr(errors.New("smtp down"))

	handle, err := h.sup.Launch(context.Background(), m.ID, nil)
	require.NoError(t, err)

	out := waitOutcome(t, handle)
	require.NoError(t, out.Err)
	assert.Equal(t, entities.MeetingStatusCompleted, h.meetings.Get(m.ID).Status)
}

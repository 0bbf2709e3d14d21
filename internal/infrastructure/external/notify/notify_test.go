package notify

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"github.com/johnquangdev/meetmind/internal/domain/entities"
	"github.com/johnquangdev/meetmind/pkg/config"
)

type fakeSender struct {
	mu       sync.Mutex
	failures int
	sent     []*mail.Msg
	calls    int
}

func (f *fakeSender) DialAndSendWithContext(_ context.Context, messages ...*mail.Msg) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failures > 0 {
		f.failures--
		return errors.New("421 service not available")
	}
	f.sent = append(f.sent, messages...)
	return nil
}

func testMeeting() *entities.Meeting {
	m := entities.NewMeeting(uuid.New(), "Weekly Sync", "2026-10-16", "09:30")
	m.OwnerEmail = "owner@example.com"
	m.OwnerName = "Sam"
	link := "https://meet.google.com/abc-defg-hij"
	m.MeetingLink = &link
	return m
}

func TestMessage_Validate(t *testing.T) {
	m := testMeeting()

	assert.ErrorIs(t, Message{Kind: KindWelcome}.Validate(), ErrNoRecipient)
	assert.NoError(t, Message{Kind: KindWelcome, To: "a@b.c"}.Validate())
	assert.Error(t, Message{Kind: KindReminder, To: "a@b.c"}.Validate())
	assert.NoError(t, ForMeeting(KindReminder, m).Validate())
	assert.Error(t, ForMeeting(KindSummary, m).Validate())
	assert.Error(t, Message{Kind: "sms", To: "a@b.c"}.Validate())
}

func TestSubjectFor(t *testing.T) {
	msg := ForMeeting(KindReminder, testMeeting())
	msg.MinutesUntil = 5
	assert.Equal(t, "⏰ Reminder: Weekly Sync in 5 minutes", subjectFor(msg))
	assert.Equal(t, "🎉 Welcome to MeetMind!", subjectFor(Message{Kind: KindWelcome}))
}

func TestTemplates_RenderSummary(t *testing.T) {
	m := testMeeting()
	s := entities.NewSummary(m, "60 min")
	s.Transcript = []entities.TranscriptEntry{{Speaker: entities.BotSpeaker, Text: "We agreed on <scope>"}}
	s.KeyPoints = []string{"Ship v2"}
	s.SetActionItems([]entities.ActionItem{{Text: "Write release notes"}})

	msg := ForMeeting(KindSummary, m)
	msg.Summary = s

	var b strings.Builder
	require.NoError(t, templates[KindSummary].Execute(&b, dataFor(msg, "https://app.example.com")))
	html := b.String()
	assert.Contains(t, html, "Weekly Sync")
	assert.Contains(t, html, "60 min")
	assert.Contains(t, html, "We agreed on &lt;scope&gt;")
	assert.Contains(t, html, "<li>Ship v2</li>")
	assert.Contains(t, html, "<li>Write release notes</li>")
}

func TestSMTPNotifier_RetriesTransientFailures(t *testing.T) {
	fake := &fakeSender{failures: 1}
	n := newSMTPNotifier(fake, "MeetMind <no-reply@meetmind.local>", "", nil)
	n.maxElapsed = 5 * time.Second

	msg := ForMeeting(KindReminder, testMeeting())
	msg.MinutesUntil = 10
	require.NoError(t, n.Send(context.Background(), msg))
	assert.Equal(t, 2, fake.calls)
	assert.Len(t, fake.sent, 1)
}

func TestSMTPNotifier_GivesUp(t *testing.T) {
	fake := &fakeSender{failures: 1000}
	n := newSMTPNotifier(fake, "no-reply@meetmind.local", "", nil)
	n.maxElapsed = 1500 * time.Millisecond

	err := n.Send(context.Background(), Message{Kind: KindWelcome, To: "user@example.com"})
	assert.Error(t, err)
	assert.Empty(t, fake.sent)
}

func TestSMTPNotifier_InvalidMessage(t *testing.T) {
	fake := &fakeSender{}
	n := newSMTPNotifier(fake, "no-reply@meetmind.local", "", nil)

	assert.ErrorIs(t, n.Send(context.Background(), Message{Kind: KindWelcome}), ErrNoRecipient)
	assert.Error(t, n.Send(context.Background(), Message{Kind: KindWelcome, To: "not an address"}))
	assert.Zero(t, fake.calls)
}

func TestNew_FallsBackToLog(t *testing.T) {
	n, err := New(config.SMTPConfig{}, nil)
	require.NoError(t, err)
	_, ok := n.(*LogNotifier)
	assert.True(t, ok)
	assert.NoError(t, n.Send(context.Background(), Message{Kind: KindWelcome, To: "user@example.com"}))
}

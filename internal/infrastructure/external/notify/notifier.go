package notify

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/johnquangdev/meetmind/internal/domain/entities"
)

// Kind identifies a notification template
type Kind string

const (
	KindReminder Kind = "reminder"
	KindWelcome  Kind = "welcome"
	KindSummary  Kind = "summary"
)

// Notifier delivers notifications to meeting owners
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// ErrNoRecipient is returned when a message has no address to deliver to
var ErrNoRecipient = errors.New("notification has no recipient")

// Message is one notification to deliver
type Message struct {
	Kind         Kind
	To           string
	Name         string
	Meeting      *entities.Meeting
	Summary      *entities.Summary
	MinutesUntil int
}

// Validate checks the message carries what its kind needs
func (m Message) Validate() error {
	if m.To == "" {
		return ErrNoRecipient
	}
	switch m.Kind {
	case KindWelcome:
		return nil
	case KindReminder:
		if m.Meeting == nil {
			return fmt.Errorf("%s notification requires a meeting", m.Kind)
		}
		return nil
	case KindSummary:
		if m.Meeting == nil || m.Summary == nil {
			return fmt.Errorf("%s notification requires a meeting and a summary", m.Kind)
		}
		return nil
	}
	return fmt.Errorf("unknown notification kind %q", m.Kind)
}

// ForMeeting builds a message addressed to the meeting owner
func ForMeeting(kind Kind, m *entities.Meeting) Message {
	return Message{
		Kind:    kind,
		To:      m.OwnerEmail,
		Name:    m.OwnerName,
		Meeting: m,
	}
}

// LogNotifier only logs notifications. Used when SMTP is not configured.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a log-only notifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Send logs the message and reports success
func (n *LogNotifier) Send(_ context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	fields := []zap.Field{
		zap.String("kind", string(msg.Kind)),
		zap.String("to", msg.To),
	}
	if msg.Meeting != nil {
		fields = append(fields,
			zap.String("meeting_id", msg.Meeting.ID.String()),
			zap.String("title", msg.Meeting.Title),
		)
	}
	if msg.Kind == KindReminder {
		fields = append(fields, zap.Int("minutes_until", msg.MinutesUntil))
	}

	n.logger.Info("📧 Notification (log only)", fields...)
	return nil
}

package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/johnquangdev/meetmind/pkg/config"
)

// sender delivers a composed message; *mail.Client satisfies it
type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// SMTPNotifier renders HTML notifications and delivers them over SMTP
type SMTPNotifier struct {
	client sender
	from   string
	appURL string
	logger *zap.Logger

	maxElapsed time.Duration
}

// NewSMTPNotifier creates an SMTP notifier from configuration
func NewSMTPNotifier(cfg config.SMTPConfig, logger *zap.Logger) (*SMTPNotifier, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(15 * time.Second),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return newSMTPNotifier(client, cfg.From, cfg.AppURL, logger), nil
}

func newSMTPNotifier(client sender, from, appURL string, logger *zap.Logger) *SMTPNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SMTPNotifier{
		client:     client,
		from:       from,
		appURL:     appURL,
		logger:     logger,
		maxElapsed: 30 * time.Second,
	}
}

// Send renders msg and delivers it, retrying transient SMTP failures
func (n *SMTPNotifier) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	m, err := n.compose(msg)
	if err != nil {
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = time.Second
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = n.maxElapsed

	sendFn := func() error {
		return n.client.DialAndSendWithContext(ctx, m)
	}

	if err := backoff.Retry(sendFn, backoff.WithContext(bo, ctx)); err != nil {
		n.logger.Error("❌ Failed to send notification",
			zap.String("kind", string(msg.Kind)),
			zap.String("to", msg.To),
			zap.Error(err),
		)
		return fmt.Errorf("send %s notification: %w", msg.Kind, err)
	}

	n.logger.Info("📧 Notification sent",
		zap.String("kind", string(msg.Kind)),
		zap.String("to", msg.To),
	)
	return nil
}

func (n *SMTPNotifier) compose(msg Message) (*mail.Msg, error) {
	tpl, ok := templates[msg.Kind]
	if !ok {
		return nil, fmt.Errorf("no template for notification kind %q", msg.Kind)
	}

	m := mail.NewMsg()
	if err := m.From(n.from); err != nil {
		return nil, fmt.Errorf("invalid sender address %q: %w", n.from, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address %q: %w", msg.To, err)
	}
	m.Subject(subjectFor(msg))
	if err := m.SetBodyHTMLTemplate(tpl, dataFor(msg, n.appURL)); err != nil {
		return nil, fmt.Errorf("render %s template: %w", msg.Kind, err)
	}
	return m, nil
}

// New returns an SMTP notifier when SMTP_HOST is set, otherwise a log-only one
func New(cfg config.SMTPConfig, logger *zap.Logger) (Notifier, error) {
	if cfg.Host == "" {
		return NewLogNotifier(logger), nil
	}
	n, err := NewSMTPNotifier(cfg, logger)
	if err != nil {
		return nil, err
	}
	return n, nil
}

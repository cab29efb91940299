package notify

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"life-tasks/internal/model"
)

// EmailConfig holds SMTP settings.
type EmailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type mailSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// EmailNotifier sends digests over SMTP.
type EmailNotifier struct {
	from   string
	sender mailSender
}

// NewEmailNotifier builds an SMTP client. The connection is opened per send.
func NewEmailNotifier(cfg EmailConfig) (*EmailNotifier, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
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
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &EmailNotifier{from: cfg.From, sender: client}, nil
}

func (n *EmailNotifier) Channel() string { return "email" }

func (n *EmailNotifier) Enabled(user model.User) bool {
	return user.Preferences.NotifyEmail && user.Email != ""
}

func (n *EmailNotifier) Send(ctx context.Context, d Digest) error {
	msg, err := n.message(d)
	if err != nil {
		return err
	}
	if err := n.sender.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send email to %s: %w", d.User.Email, err)
	}
	return nil
}

func (n *EmailNotifier) message(d Digest) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(n.from); err != nil {
		return nil, fmt.Errorf("email from: %w", err)
	}
	if err := msg.To(d.User.Email); err != nil {
		return nil, fmt.Errorf("email to: %w", err)
	}
	msg.Subject(Subject)
	msg.SetBodyString(mail.TypeTextPlain, RenderText(d))
	msg.AddAlternativeString(mail.TypeTextHTML, RenderHTML(d))
	return msg, nil
}

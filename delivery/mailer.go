package delivery

import (
	"context"
	"path/filepath"
	"time"

	"github.com/mashup-cli/mashup/config"
	"github.com/mashup-cli/mashup/filesystem"
	"github.com/mashup-cli/mashup/log"
	"github.com/wneessen/go-mail"
)

const (
	implicitTLSPort = 465
	defaultTimeout  = 2 * time.Minute
)

// Mail is a plain text message with file attachments.
type Mail struct {
	To          string
	Subject     string
	Body        string
	Attachments []string
}

// Sender delivers a mail.
type Sender interface {
	Send(ctx context.Context, m *Mail) error
}

// Mailer sends mail over SMTP with an explicit configuration.
type Mailer struct {
	SMTP    config.SMTP
	Timeout time.Duration
}

// NewMailer creates a mailer for cfg.
func NewMailer(cfg config.SMTP) *Mailer {
	return &Mailer{SMTP: cfg, Timeout: defaultTimeout}
}

// Send authenticates with PLAIN and transmits m.
// Port 465 uses implicit TLS, every other port requires STARTTLS.
func (m *Mailer) Send(ctx context.Context, msg *Mail) error {
	if !m.SMTP.HasCredentials() {
		return &DeliveryError{To: msg.To, Err: ErrMissingCredentials}
	}

	message, err := m.message(msg)
	if err != nil {
		return &DeliveryError{To: msg.To, Err: err}
	}

	client, err := mail.NewClient(m.SMTP.Server, m.options()...)
	if err != nil {
		return &DeliveryError{To: msg.To, Err: err}
	}

	log.Infof("sending mail to %s via %s:%d", msg.To, m.SMTP.Server, m.SMTP.Port)
	if err := client.DialAndSendWithContext(ctx, message); err != nil {
		return &DeliveryError{To: msg.To, Err: err}
	}

	return nil
}

func (m *Mailer) options() []mail.Option {
	timeout := m.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	options := []mail.Option{
		mail.WithPort(m.SMTP.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(m.SMTP.Username),
		mail.WithPassword(m.SMTP.Password),
		mail.WithTimeout(timeout),
	}

	return append(options, transportSecurity(m.SMTP.Port))
}

// security describes how the connection to the SMTP server is encrypted.
type security struct {
	implicitTLS bool
	policy      mail.TLSPolicy
}

// securityFor picks implicit TLS on port 465 and mandatory STARTTLS everywhere else.
func securityFor(port int) security {
	if port == implicitTLSPort {
		return security{implicitTLS: true}
	}
	return security{policy: mail.TLSMandatory}
}

func transportSecurity(port int) mail.Option {
	s := securityFor(port)
	if s.implicitTLS {
		return mail.WithSSL()
	}
	return mail.WithTLSPolicy(s.policy)
}

func (m *Mailer) message(msg *Mail) (*mail.Msg, error) {
	message := mail.NewMsg()

	if err := message.From(m.SMTP.From); err != nil {
		return nil, err
	}
	if err := message.To(msg.To); err != nil {
		return nil, err
	}

	message.Subject(msg.Subject)
	message.SetBodyString(mail.TypeTextPlain, msg.Body)

	for _, path := range msg.Attachments {
		f, err := filesystem.API().Open(path)
		if err != nil {
			return nil, err
		}

		err = message.AttachReader(filepath.Base(path), f)
		_ = f.Close()
		if err != nil {
			return nil, err
		}
	}

	return message, nil
}

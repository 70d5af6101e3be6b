package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/mail"
	"strconv"

	"contact-relay-backend/internal/domain"

	"gopkg.in/gomail.v2"
)

// SMTPMailer sends contact emails through an SMTP relay using gomail.
// A new connection is dialed for every Verify and Send call.
type SMTPMailer struct {
	dialer *gomail.Dialer
}

// NewSMTPMailer builds a mailer from request-time settings.
// Implicit TLS is used iff the port is 465; other ports upgrade with STARTTLS when offered.
func NewSMTPMailer(s domain.SMTPSettings) (domain.Mailer, error) {
	if s.Host == "" {
		return nil, fmt.Errorf("%w: host is required", ErrInvalidConfig)
	}
	port, err := strconv.Atoi(s.Port)
	if err != nil {
		return nil, fmt.Errorf("%w: port %q is not a number", ErrInvalidConfig, s.Port)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("%w: port must be between 1 and 65535", ErrInvalidConfig)
	}

	d := gomail.NewDialer(s.Host, port, s.Username, s.Password)
	d.SSL = port == 465
	d.TLSConfig = &tls.Config{
		ServerName:         s.Host,
		InsecureSkipVerify: s.InsecureSkipVerify, //nolint:gosec // relays with self-signed certs
	}

	return &SMTPMailer{dialer: d}, nil
}

// Secure reports whether the connection uses implicit TLS.
func (m *SMTPMailer) Secure() bool {
	return m.dialer.SSL
}

// Verify opens and authenticates a connection, then closes it.
func (m *SMTPMailer) Verify(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return classify("verify", err)
	}

	sc, err := m.dialer.Dial()
	if err != nil {
		return classify("verify", err)
	}
	if err := sc.Close(); err != nil {
		return classify("verify", err)
	}
	return nil
}

// Send delivers env to its single recipient.
func (m *SMTPMailer) Send(ctx context.Context, env *domain.Envelope) error {
	if err := ctx.Err(); err != nil {
		return classify("send", err)
	}

	// MAIL_FROM may carry a display name, the SMTP envelope needs the bare address
	from, err := mail.ParseAddress(env.From)
	if err != nil {
		return classify("send", fmt.Errorf("%w: sender %q: %v", ErrInvalidConfig, env.From, err))
	}
	to, err := mail.ParseAddress(env.To)
	if err != nil {
		return classify("send", fmt.Errorf("%w: recipient %q: %v", ErrInvalidConfig, env.To, err))
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", from.Address, from.Name)
	msg.SetAddressHeader("To", to.Address, to.Name)
	msg.SetHeader("Reply-To", env.ReplyTo)
	msg.SetHeader("Subject", env.Subject)
	msg.SetBody("text/plain", env.TextBody)
	msg.AddAlternative("text/html", env.HTMLBody)

	sc, err := m.dialer.Dial()
	if err != nil {
		return classify("send", err)
	}
	defer sc.Close()

	// SendCloser.Send keeps the net/smtp reply error intact for classification
	if err := sc.Send(from.Address, []string{to.Address}, msg); err != nil {
		return classifyEnvelope("send", err)
	}
	return nil
}

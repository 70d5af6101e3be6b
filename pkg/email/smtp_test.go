package email

import (
	"context"
	"errors"
	"io"
	"net"
	"strconv"
	"sync"
	"testing"
	"time"

	"contact-relay-backend/internal/domain"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testUser     = "relay-user"
	testPassword = "relay-secret"
)

// fakeRelay is an in-process SMTP server that requires PLAIN auth.
type fakeRelay struct {
	mu         sync.Mutex
	senders    []string
	recipients []string
	messages   []string
	rejectRcpt bool
}

func (b *fakeRelay) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &relaySession{relay: b}, nil
}

func (b *fakeRelay) received() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.messages...)
}

func (b *fakeRelay) envelope() (senders, recipients []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.senders...), append([]string(nil), b.recipients...)
}

type relaySession struct {
	relay  *fakeRelay
	authed bool
}

func (s *relaySession) AuthMechanisms() []string {
	return []string{sasl.Plain}
}

func (s *relaySession) Auth(mech string) (sasl.Server, error) {
	return sasl.NewPlainServer(func(identity, username, password string) error {
		if username != testUser || password != testPassword {
			return &smtp.SMTPError{
				Code:         535,
				EnhancedCode: smtp.EnhancedCode{5, 7, 8},
				Message:      "Authentication credentials invalid",
			}
		}
		s.authed = true
		return nil
	}), nil
}

func (s *relaySession) Mail(from string, _ *smtp.MailOptions) error {
	if !s.authed {
		return &smtp.SMTPError{Code: 530, EnhancedCode: smtp.EnhancedCode{5, 7, 0}, Message: "Authentication required"}
	}
	s.relay.mu.Lock()
	s.relay.senders = append(s.relay.senders, from)
	s.relay.mu.Unlock()
	return nil
}

func (s *relaySession) Rcpt(to string, _ *smtp.RcptOptions) error {
	if s.relay.rejectRcpt {
		return &smtp.SMTPError{Code: 550, EnhancedCode: smtp.EnhancedCode{5, 1, 1}, Message: "Mailbox unavailable"}
	}
	s.relay.mu.Lock()
	s.relay.recipients = append(s.relay.recipients, to)
	s.relay.mu.Unlock()
	return nil
}

func (s *relaySession) Data(r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.relay.mu.Lock()
	s.relay.messages = append(s.relay.messages, string(b))
	s.relay.mu.Unlock()
	return nil
}

func (s *relaySession) Reset() {}

func (s *relaySession) Logout() error { return nil }

func startRelay(t *testing.T, relay *fakeRelay) string {
	t.Helper()

	srv := smtp.NewServer(relay)
	srv.Domain = "localhost"
	srv.AllowInsecureAuth = true
	srv.ReadTimeout = 5 * time.Second
	srv.WriteTimeout = 5 * time.Second

	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	go func() { _ = srv.Serve(l) }()
	t.Cleanup(func() { _ = srv.Close() })

	return strconv.Itoa(l.Addr().(*net.TCPAddr).Port)
}

func newTestMailer(t *testing.T, port, password string) domain.Mailer {
	t.Helper()
	return newTestMailerAs(t, port, testUser, password)
}

func newTestMailerAs(t *testing.T, port, user, password string) domain.Mailer {
	t.Helper()
	m, err := NewSMTPMailer(domain.SMTPSettings{
		Host:     "127.0.0.1",
		Port:     port,
		Username: user,
		Password: password,
	})
	require.NoError(t, err)
	return m
}

func testEnvelope() *domain.Envelope {
	return &domain.Envelope{
		From:     "no-reply@rdhjunior.com",
		To:       "owner@example.com",
		ReplyTo:  "jane@example.com",
		Subject:  "RDH JUNIOR Contact: Hello",
		TextBody: "Name: Jane",
		HTMLBody: "<p>Name: Jane</p>",
	}
}

func TestNewSMTPMailerRejectsBadSettings(t *testing.T) {
	tests := []struct {
		name     string
		settings domain.SMTPSettings
	}{
		{"missing host", domain.SMTPSettings{Port: "587"}},
		{"non numeric port", domain.SMTPSettings{Host: "smtp.example.com", Port: "smtp"}},
		{"empty port", domain.SMTPSettings{Host: "smtp.example.com"}},
		{"port out of range", domain.SMTPSettings{Host: "smtp.example.com", Port: "70000"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSMTPMailer(tt.settings)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestNewSMTPMailerSecureOnlyOn465(t *testing.T) {
	secure, err := NewSMTPMailer(domain.SMTPSettings{Host: "smtp.example.com", Port: "465"})
	require.NoError(t, err)
	assert.True(t, secure.(*SMTPMailer).Secure())

	plain, err := NewSMTPMailer(domain.SMTPSettings{Host: "smtp.example.com", Port: "587"})
	require.NoError(t, err)
	assert.False(t, plain.(*SMTPMailer).Secure())
}

func TestSMTPMailerVerifyAndSend(t *testing.T) {
	relay := &fakeRelay{}
	m := newTestMailer(t, startRelay(t, relay), testPassword)

	ctx := context.Background()
	require.NoError(t, m.Verify(ctx))
	require.NoError(t, m.Send(ctx, testEnvelope()))

	msgs := relay.received()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "Subject: RDH JUNIOR Contact: Hello")
	assert.Contains(t, msgs[0], "Reply-To: jane@example.com")
	assert.Contains(t, msgs[0], "text/plain")
	assert.Contains(t, msgs[0], "text/html")
}

func TestSMTPMailerDisplayNameSender(t *testing.T) {
	relay := &fakeRelay{}
	m := newTestMailer(t, startRelay(t, relay), testPassword)

	env := testEnvelope()
	env.From = "RDH JUNIOR <no-reply@rdhjunior.com>"
	require.NoError(t, m.Send(context.Background(), env))

	senders, recipients := relay.envelope()
	assert.Equal(t, []string{"no-reply@rdhjunior.com"}, senders)
	assert.Equal(t, []string{"owner@example.com"}, recipients)

	msgs := relay.received()
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0], "RDH JUNIOR")
	assert.Contains(t, msgs[0], "<no-reply@rdhjunior.com>")
}

func TestSMTPMailerInvalidSender(t *testing.T) {
	relay := &fakeRelay{}
	m := newTestMailer(t, startRelay(t, relay), testPassword)

	env := testEnvelope()
	env.From = "not an address"
	err := m.Send(context.Background(), env)

	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.Empty(t, relay.received())
}

func TestSMTPMailerAuthRequiredAtMailFrom(t *testing.T) {
	// No username means gomail skips AUTH and the relay refuses MAIL FROM
	m := newTestMailerAs(t, startRelay(t, &fakeRelay{}), "", "")

	err := m.Send(context.Background(), testEnvelope())

	var se *SendError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, ReasonResponse, se.Reason)
	assert.Equal(t, 530, se.ResponseCode)
	assert.Contains(t, se.Response, "Authentication required")
}

func TestSMTPMailerAuthFailure(t *testing.T) {
	m := newTestMailer(t, startRelay(t, &fakeRelay{}), "wrong")

	err := m.Verify(context.Background())

	var se *SendError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, ReasonAuth, se.Reason)
	assert.Equal(t, 535, se.ResponseCode)
	assert.Equal(t, "verify", se.Op)
}

func TestSMTPMailerRejectedRecipient(t *testing.T) {
	relay := &fakeRelay{rejectRcpt: true}
	m := newTestMailer(t, startRelay(t, relay), testPassword)

	err := m.Send(context.Background(), testEnvelope())

	var se *SendError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, ReasonResponse, se.Reason)
	assert.Equal(t, 550, se.ResponseCode)
	assert.Contains(t, se.Response, "Mailbox unavailable")
	assert.Empty(t, relay.received())
}

func TestSMTPMailerConnectionRefused(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := strconv.Itoa(l.Addr().(*net.TCPAddr).Port)
	require.NoError(t, l.Close())

	err = newTestMailer(t, port, testPassword).Verify(context.Background())

	var se *SendError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, ReasonConnRefused, se.Reason)
}

func TestSMTPMailerCancelledContext(t *testing.T) {
	m := newTestMailer(t, "2525", testPassword)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Send(ctx, testEnvelope())
	assert.ErrorIs(t, err, context.Canceled)
}

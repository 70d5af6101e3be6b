package domain

import "context"

// ContactRequest represents a contact form submission
type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// Envelope is a fully built outbound message. It is not modified after construction.
type Envelope struct {
	From     string
	To       string
	ReplyTo  string
	Subject  string
	TextBody string
	HTMLBody string
}

// SMTPSettings is the transport configuration read at request time.
type SMTPSettings struct {
	Host               string
	Port               string
	Username           string
	Password           string
	InsecureSkipVerify bool
}

// Mailer delivers envelopes to a mail server.
type Mailer interface {
	// Verify checks that a connection can be opened and authenticated.
	Verify(ctx context.Context) error
	Send(ctx context.Context, env *Envelope) error
}

// MailerFactory builds a Mailer. It fails only when the settings are unusable.
type MailerFactory func(settings SMTPSettings) (Mailer, error)

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// SendContactMessage validates and relays a contact form message
	SendContactMessage(ctx context.Context, req *ContactRequest) error
}

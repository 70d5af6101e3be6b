package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"contact-relay-backend/internal/domain"
	"contact-relay-backend/pkg/apperror"
	"contact-relay-backend/pkg/email"
	"contact-relay-backend/pkg/logger"
	"contact-relay-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// ContactConfig holds the fixed, server-side values of every contact email.
type ContactConfig struct {
	MailFrom       string
	RecipientEmail string
	FormName       string
	SMTP           domain.SMTPSettings
}

type contactUsecase struct {
	cfg       ContactConfig
	newMailer domain.MailerFactory
	validate  *validator.Validate
	now       func() time.Time
}

// NewContactUsecase creates a new contact usecase. A nil validate uses the binding-tag validator.
func NewContactUsecase(cfg ContactConfig, newMailer domain.MailerFactory, validate *validator.Validate) domain.ContactUsecase {
	if validate == nil {
		validate = validation.New()
	}
	return &contactUsecase{
		cfg:       cfg,
		newMailer: newMailer,
		validate:  validate,
		now:       time.Now,
	}
}

// SendContactMessage validates the submission, builds a fresh transport and relays the email.
// Every returned error is an *apperror.AppError.
func (uc *contactUsecase) SendContactMessage(ctx context.Context, req *domain.ContactRequest) error {
	if req == nil {
		return apperror.Unexpected(errors.New("nil contact request"))
	}

	if err := uc.validate.Struct(req); err != nil {
		if validation.IsValidationError(err) {
			return apperror.Validation(err)
		}
		return apperror.Unexpected(err)
	}

	mailer, err := uc.newMailer(uc.cfg.SMTP)
	if err != nil {
		return apperror.Configuration(fmt.Errorf("failed to create mail transport: %w", err))
	}

	env, err := email.BuildEnvelope(email.EnvelopeParams{
		From:     uc.cfg.MailFrom,
		To:       uc.cfg.RecipientEmail,
		FormName: uc.cfg.FormName,
	}, req, uc.now())
	if err != nil {
		return apperror.Unexpected(err)
	}

	// Verify and send failures are reported identically
	if err := mailer.Verify(ctx); err != nil {
		return classifyTransportError(err)
	}
	if err := mailer.Send(ctx, env); err != nil {
		return classifyTransportError(err)
	}

	logger.Log.Info("Contact email sent", "subject", env.Subject, "to", env.To)
	return nil
}

func classifyTransportError(err error) *apperror.AppError {
	var se *email.SendError
	if errors.As(err, &se) {
		switch {
		case se.Reason == email.ReasonConnRefused:
			return apperror.Transport(http.StatusInternalServerError, apperror.MsgConnRefused, err)
		case se.Reason == email.ReasonAuth:
			return apperror.Transport(http.StatusServiceUnavailable, apperror.MsgAuthFailed, err)
		case se.ResponseCode >= 400:
			resp := se.Response
			if resp == "" {
				resp = "Unknown error"
			}
			return apperror.Transport(http.StatusInternalServerError, "Email server error: "+resp, err)
		}
	}
	return apperror.Transport(http.StatusInternalServerError, apperror.MsgSendFailed, err)
}

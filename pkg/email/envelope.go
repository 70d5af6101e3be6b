package email

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"contact-relay-backend/internal/domain"
)

// contactEmailTemplate is the HTML body for contact form emails.
// html/template escapes every submitted field.
const contactEmailTemplate = `<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #e0e0e0; border-radius: 10px;">
  <div style="text-align: center; margin-bottom: 20px; padding-bottom: 20px; border-bottom: 1px solid #eaeaea;">
    <table align="center" cellpadding="0" cellspacing="0" border="0" style="margin: 0 auto;">
      <tr>
        <td>
          <div style="width: 50px; height: 50px; background: linear-gradient(135deg, #3b82f6, #60a5fa); border-radius: 8px; display: inline-block; text-align: center; line-height: 50px; color: white; font-weight: bold; position: relative; box-shadow: 0 4px 6px rgba(0, 0, 0, 0.1);">
            RDH
            <div style="position: absolute; bottom: -5px; right: -5px; width: 20px; height: 20px; background: linear-gradient(135deg, #8b5cf6, #ec4899); border-radius: 4px; opacity: 0.8;"></div>
          </div>
        </td>
        <td style="padding-left: 15px; text-align: left;">
          <div style="font-size: 18px; font-weight: bold; color: #333;">Redwan Ahmed Ratul</div>
          <div style="font-size: 12px; color: #666;">Esports Caster</div>
        </td>
      </tr>
    </table>
  </div>

  <h2 style="color: #3b82f6; margin-bottom: 20px;">New Contact Form Submission</h2>
  <p style="font-size: 14px; color: #666; margin-bottom: 20px;">
    The following message was submitted through the {{.FormName}} contact form:
  </p>

  <div style="margin-bottom: 25px;">
    <p style="margin-bottom: 10px;"><strong>Name:</strong> {{.Name}}</p>
    <p style="margin-bottom: 10px;"><strong>Email:</strong> <a href="mailto:{{.Email}}" style="color: #3b82f6; text-decoration: none;">{{.Email}}</a></p>
    <p style="margin-bottom: 10px;"><strong>Subject:</strong> {{.Subject}}</p>
  </div>

  <div style="background-color: #f9fafb; padding: 15px; border-radius: 6px; margin-top: 20px; border-left: 4px solid #3b82f6;">
    <h3 style="margin-top: 0; color: #4b5563; font-size: 16px;">Message:</h3>
    <p style="white-space: pre-line; color: #4b5563; font-size: 14px;">{{.Message}}</p>
  </div>

  <div style="margin-top: 30px; padding-top: 20px; border-top: 1px solid #eaeaea; text-align: center;">
    <p style="margin-top: 10px; font-size: 12px; color: #6b7280;">&copy; {{.Year}} {{.FormName}}. All rights reserved.</p>
    <p style="font-size: 11px; color: #9ca3af;">This is an automated email sent from your portfolio contact form.</p>
  </div>
</div>`

var contactTmpl = template.Must(template.New("contact").Parse(contactEmailTemplate))

// ContactEmailData holds the data for contact form emails
type ContactEmailData struct {
	FormName string
	Name     string
	Email    string
	Subject  string
	Message  string
	Year     int
}

// EnvelopeParams are the fixed, server-side parts of every contact email.
type EnvelopeParams struct {
	From     string
	To       string
	FormName string
}

// BuildEnvelope renders a submission into an outbound envelope.
func BuildEnvelope(p EnvelopeParams, req *domain.ContactRequest, now time.Time) (*domain.Envelope, error) {
	data := ContactEmailData{
		FormName: p.FormName,
		Name:     req.Name,
		Email:    req.Email,
		Subject:  req.Subject,
		Message:  req.Message,
		Year:     now.Year(),
	}

	var html bytes.Buffer
	if err := contactTmpl.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("failed to execute email template: %w", err)
	}

	return &domain.Envelope{
		From:     p.From,
		To:       p.To,
		ReplyTo:  req.Email,
		Subject:  fmt.Sprintf("%s Contact: %s", p.FormName, req.Subject),
		TextBody: textBody(data),
		HTMLBody: html.String(),
	}, nil
}

func textBody(d ContactEmailData) string {
	return fmt.Sprintf("Form: %s\nName: %s\nEmail: %s\nSubject: %s\n\nMessage:\n%s\n",
		d.FormName, d.Name, d.Email, d.Subject, d.Message)
}

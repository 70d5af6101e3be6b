package email

import (
	"errors"
	"fmt"
	"net/textproto"
	"syscall"
)

// ErrInvalidConfig is returned when SMTP settings cannot produce a transport.
var ErrInvalidConfig = errors.New("invalid smtp configuration")

// Reason is the transport's signal for why a verify or send failed.
type Reason string

const (
	ReasonConnRefused Reason = "ECONNREFUSED"
	ReasonAuth        Reason = "EAUTH"
	ReasonResponse    Reason = "EPROTOCOL"
	ReasonUnknown     Reason = "EUNKNOWN"
)

// SendError is a classified verify or send failure.
type SendError struct {
	Op     string // "verify" or "send"
	Reason Reason
	// ResponseCode and Response are set when the server answered with an error reply.
	ResponseCode int
	Response     string
	Err          error
}

func (e *SendError) Error() string {
	if e.ResponseCode > 0 {
		return fmt.Sprintf("smtp %s failed (%s, %d): %v", e.Op, e.Reason, e.ResponseCode, e.Err)
	}
	return fmt.Sprintf("smtp %s failed (%s): %v", e.Op, e.Reason, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// SMTP reply codes that mean the credentials were not accepted.
var authReplyCodes = map[int]bool{
	530: true, // authentication required
	534: true, // mechanism too weak
	535: true, // credentials invalid
}

// classify wraps a raw dial error in a SendError. Dialing covers the
// greeting, STARTTLS and AUTH, so credential reply codes mean EAUTH.
func classify(op string, err error) *SendError {
	return classifyReply(op, err, true)
}

// classifyEnvelope wraps an error from MAIL, RCPT or DATA. AUTH is over by
// then, so every reply of 400 or above is EPROTOCOL.
func classifyEnvelope(op string, err error) *SendError {
	return classifyReply(op, err, false)
}

func classifyReply(op string, err error, duringAuth bool) *SendError {
	var sendErr *SendError
	if errors.As(err, &sendErr) {
		return sendErr
	}

	se := &SendError{Op: op, Reason: ReasonUnknown, Err: err}

	if errors.Is(err, syscall.ECONNREFUSED) {
		se.Reason = ReasonConnRefused
		return se
	}

	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		se.ResponseCode = tpErr.Code
		se.Response = tpErr.Error()
		if duringAuth && authReplyCodes[tpErr.Code] {
			se.Reason = ReasonAuth
		} else if tpErr.Code >= 400 {
			se.Reason = ReasonResponse
		}
	}

	return se
}

package apperror

import "net/http"

// Kind classifies where a request failed.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindConfiguration Kind = "configuration"
	KindTransport     Kind = "transport"
	KindUnexpected    Kind = "unexpected"
)

// User-facing messages. The cause is logged, never returned.
const (
	MsgFieldsRequired = "All fields are required"
	MsgConfiguration  = "Server email configuration error. Please contact the administrator."
	MsgConnRefused    = "Could not connect to email server. Please try again later."
	MsgAuthFailed     = "Email authentication failed. Please contact the administrator."
	MsgSendFailed     = "Failed to send email. Please try again later."
	MsgUnexpected     = "An unexpected error occurred. Please try again later."
)

type AppError struct {
	Kind    Kind   `json:"-"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Validation(err error) *AppError {
	return &AppError{Kind: KindValidation, Code: http.StatusBadRequest, Message: MsgFieldsRequired, Err: err}
}

func Configuration(err error) *AppError {
	return &AppError{Kind: KindConfiguration, Code: http.StatusInternalServerError, Message: MsgConfiguration, Err: err}
}

func Transport(code int, message string, err error) *AppError {
	return &AppError{Kind: KindTransport, Code: code, Message: message, Err: err}
}

func Unexpected(err error) *AppError {
	return &AppError{Kind: KindUnexpected, Code: http.StatusInternalServerError, Message: MsgUnexpected, Err: err}
}

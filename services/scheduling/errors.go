package scheduling

import "fmt"

// WindowError reports a requested time window that violates the bookable
// window policy. Code distinguishes the violated clause so the user can
// be told exactly what to change.
type WindowError struct {
	Code    string
	Message string
}

func (e *WindowError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

const (
	WindowCodeStartTooEarly  = "startBeforeEarliest"
	WindowCodeEndBeforeStart = "endBeforeStart"
	WindowCodeOutsideHours   = "outsideBusinessHours"
)

func NewWindowError(code, msg string) error {
	return &WindowError{Code: code, Message: msg}
}

// BookingError wraps a calendar backend failure during event creation. It
// is recoverable: the orchestrator turns it into a conversational retry
// prompt and keeps session state intact.
type BookingError struct {
	Code    string
	Message string
	Err     error
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BookingError) Unwrap() error {
	return e.Err
}

func NewBookingError(msg string, err error) error {
	return &BookingError{Code: "bookingError", Message: msg, Err: err}
}

package portal

import "errors"

// GenericMessage is shown when the portal gave no usable explanation.
const GenericMessage = "Oops, unknown error occurred, please try again later."

var (
	// ErrUnavailable covers transport failures and responses that could not
	// be understood.
	ErrUnavailable = errors.New("portal unavailable")

	// ErrUnauthorized is a 401/403 answer, typically bad credentials or an
	// expired secret.
	ErrUnauthorized = errors.New("portal rejected credentials")

	// ErrRejected is any other non-2xx answer.
	ErrRejected = errors.New("portal rejected request")
)

// Error is the failure of a single portal call.
//
// Status is "<code> <reason>" when the portal answered, empty otherwise.
type Error struct {
	Status  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status == "" {
		return e.Message
	}
	return e.Status + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Message extracts the user-facing text of err, falling back to
// GenericMessage for errors that did not come from this package.
func Message(err error) string {
	var pe *Error
	if errors.As(err, &pe) && pe.Message != "" {
		return pe.Message
	}
	return GenericMessage
}

func unavailable(status string) *Error {
	return &Error{Status: status, Message: GenericMessage, Err: ErrUnavailable}
}

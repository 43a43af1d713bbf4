package job

import "strings"

// Kind classifies a job failure for the HTTP boundary.
type Kind string

const (
	KindUnprocessable      Kind = "unprocessable"
	KindBadRequest         Kind = "bad_request"
	KindNotFound           Kind = "not_found"
	KindForbidden          Kind = "forbidden"
	KindClientDisconnected Kind = "client_disconnected"
	KindTimedOut           Kind = "timed_out"
	KindRateLimited        Kind = "rate_limited"
	KindInternal           Kind = "internal"
)

// Error carries a failure classification and a fixed user-visible message.
// The wrapped error is internal detail and must never reach the client.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError builds a classified job error.
func NewError(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Classify maps opaque tool output to a taxonomy entry by substring
// matching. Unmatched failures degrade to a generic download error
// rather than leaking raw tool output.
func Classify(err error) *Error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "private"):
		return NewError(KindForbidden, "This video is private or restricted. Cannot download.", err)
	case strings.Contains(msg, "video unavailable"), strings.Contains(msg, "removed by the user"):
		return NewError(KindNotFound, "This video has been removed or is not available.", err)
	case strings.Contains(msg, "unsupported url"), strings.Contains(msg, "is not a valid url"):
		return NewError(KindBadRequest, "Invalid media URL. Please check and try again.", err)
	default:
		return NewError(KindBadRequest, "Unable to download video. It might be restricted.", err)
	}
}

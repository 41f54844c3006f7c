package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a gateway failure.
type Kind string

const (
	KindAuthExpired Kind = "auth_expired"
	KindValidation  Kind = "validation"
	KindRejected    Kind = "rejected"
	KindNetwork     Kind = "network"
)

var (
	ErrAuthExpired = errors.New("authorization expired")
	ErrValidation  = errors.New("validation failed")
	ErrRejected    = errors.New("request rejected")
	ErrNetwork     = errors.New("network failure")

	// ErrMalformedResponse marks network errors caused by a response body
	// that could not be decoded, as opposed to a failed round trip.
	ErrMalformedResponse = errors.New("malformed response")
)

var kindSentinels = map[Kind]error{
	KindAuthExpired: ErrAuthExpired,
	KindValidation:  ErrValidation,
	KindRejected:    ErrRejected,
	KindNetwork:     ErrNetwork,
}

// Error is the only error type returned by the gateway.
type Error struct {
	Kind Kind
	// Status is the HTTP status, or 0 when no response was received or the
	// failure was detected client-side.
	Status int
	// Detail is the backend's "detail" or the client-side validation
	// message. It is empty when the response carried none.
	Detail string
	Err    error
}

func (e *Error) Error() string {
	var prefix string
	if s, ok := kindSentinels[e.Kind]; ok {
		prefix = s.Error()
	} else {
		prefix = string(e.Kind)
	}
	if e.Status != 0 {
		prefix = fmt.Sprintf("%s (%d)", prefix, e.Status)
	}

	switch {
	case e.Detail != "":
		return prefix + ": " + e.Detail
	case e.Err != nil:
		return prefix + ": " + e.Err.Error()
	case e.Status != 0:
		return prefix + ": " + statusText(e.Status)
	default:
		return prefix
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the sentinel of e's kind.
func (e *Error) Is(target error) bool {
	s, ok := kindSentinels[e.Kind]
	return ok && s == target
}

// KindOf returns the kind of the first *Error in err's chain, or "" if
// there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Invalid builds a client-side validation failure. Screens use it for
// missing required fields so callers still branch on one error set.
func Invalid(detail string) error {
	return &Error{Kind: KindValidation, Detail: detail}
}

// Message returns the detail carried by err, or fallback when there is
// none. Status text never counts as detail.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Detail != "" {
		return e.Detail
	}
	return fallback
}

func statusText(status int) string {
	if t := http.StatusText(status); t != "" {
		return t
	}
	return fmt.Sprintf("HTTP %d", status)
}

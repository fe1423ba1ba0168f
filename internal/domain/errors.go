package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies why a lookup failed
type ErrorKind int

const (
	// KindValidation means a required request field was missing or blank
	KindValidation ErrorKind = iota + 1
	// KindUpstream means the upstream API reported a structured failure of its own
	KindUpstream
	// KindTransport covers network failures, timeouts and unusable upstream bodies
	KindTransport
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation_error"
	case KindUpstream:
		return "upstream_error"
	case KindTransport:
		return "transport_error"
	default:
		return "unknown_error"
	}
}

// LookupError is the failure half of every proxy result.
// Message is safe to show to the client; Err is kept for logs only.
type LookupError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *LookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%d): %s: %v", e.Kind, e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}

// NewValidationError builds a 400 error for a rejected request field
func NewValidationError(msg string) *LookupError {
	return &LookupError{Kind: KindValidation, Status: http.StatusBadRequest, Message: msg}
}

// NewUpstreamError forwards a status code and message reported by the upstream
func NewUpstreamError(status int, msg string) *LookupError {
	return &LookupError{Kind: KindUpstream, Status: status, Message: msg}
}

// NewTransportError collapses any unexpected failure into a 500 with a fixed message
func NewTransportError(msg string, err error) *LookupError {
	return &LookupError{Kind: KindTransport, Status: http.StatusInternalServerError, Message: msg, Err: err}
}

// AsLookupError returns err as a *LookupError when it is one, or wraps it
// as a transport error carrying fallback otherwise.
func AsLookupError(err error, fallback string) *LookupError {
	var le *LookupError
	if errors.As(err, &le) {
		return le
	}
	return NewTransportError(fallback, err)
}

// Outcome labels the result of a lookup for metrics and the journal
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var le *LookupError
	if errors.As(err, &le) {
		return le.Kind.String()
	}
	return KindTransport.String()
}

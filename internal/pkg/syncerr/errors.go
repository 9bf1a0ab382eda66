package syncerr

import (
	"errors"
	"fmt"
)

// Kind classifies why a sync call did not succeed
type Kind string

const (
	// KindInvalidState means a local precondition failed; no request was sent
	KindInvalidState Kind = "INVALID_STATE"
	// KindInvalidTransition means the status machine rejected the requested edge
	KindInvalidTransition Kind = "INVALID_TRANSITION"
	// KindTimeout means the request deadline passed before a response arrived
	KindTimeout Kind = "TIMEOUT"
	// KindUnreachable covers connection refused, DNS and other transport failures
	KindUnreachable Kind = "UNREACHABLE"
	// KindClientError is a non-2xx, non-5xx response
	KindClientError Kind = "CLIENT_ERROR"
	// KindServerError is a 5xx response
	KindServerError Kind = "SERVER_ERROR"
	// KindCanceled means the caller or the driver session cancelled the call
	KindCanceled Kind = "CANCELED"
	// KindSuperseded means a newer location sample replaced this one before it was sent
	KindSuperseded Kind = "SUPERSEDED"
)

// SyncError is the failure half of every sync call outcome
type SyncError struct {
	Kind       Kind
	StatusCode int    // set for ClientError and ServerError
	From       string // set for InvalidTransition
	To         string // set for InvalidTransition
	Detail     string
	Err        error
}

func (e *SyncError) Error() string {
	switch e.Kind {
	case KindClientError, KindServerError:
		if e.Detail != "" {
			return fmt.Sprintf("%s(%d): %s", e.Kind, e.StatusCode, e.Detail)
		}
		return fmt.Sprintf("%s(%d)", e.Kind, e.StatusCode)
	case KindInvalidTransition:
		return fmt.Sprintf("%s(%s -> %s)", e.Kind, e.From, e.To)
	}

	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// InvalidState builds a precondition failure
func InvalidState(format string, args ...interface{}) *SyncError {
	return &SyncError{Kind: KindInvalidState, Detail: fmt.Sprintf(format, args...)}
}

// InvalidTransition builds a rejected status edge
func InvalidTransition(from, to string) *SyncError {
	return &SyncError{Kind: KindInvalidTransition, From: from, To: to}
}

// Timeout wraps a deadline failure
func Timeout(err error) *SyncError {
	return &SyncError{Kind: KindTimeout, Err: err}
}

// Unreachable wraps a transport failure
func Unreachable(err error) *SyncError {
	return &SyncError{Kind: KindUnreachable, Err: err}
}

// Canceled wraps a cancellation
func Canceled(err error) *SyncError {
	return &SyncError{Kind: KindCanceled, Err: err}
}

// Superseded reports a location sample dropped in favour of a newer one
func Superseded(seq, latest uint64) *SyncError {
	return &SyncError{
		Kind:   KindSuperseded,
		Detail: fmt.Sprintf("sample %d replaced by %d", seq, latest),
	}
}

// HTTPStatus classifies a non-2xx response status
func HTTPStatus(status int, detail string) *SyncError {
	kind := KindClientError
	if status >= 500 {
		kind = KindServerError
	}
	return &SyncError{Kind: kind, StatusCode: status, Detail: detail}
}

// KindOf returns the kind of the first SyncError in err's chain, or "" if none
func KindOf(err error) Kind {
	var se *SyncError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}

// IsKind reports whether err carries a SyncError of the given kind
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// StatusCodeOf returns the HTTP status carried by err, or 0
func StatusCodeOf(err error) int {
	var se *SyncError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// Retryable reports whether a caller may reasonably retry the call.
// Local validation failures and 4xx responses are never retryable.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindTimeout, KindUnreachable, KindServerError:
		return true
	default:
		return false
	}
}

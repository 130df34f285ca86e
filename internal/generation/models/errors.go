package models

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the client-visible category of a generation failure. The UI
// branches on it, so values and status mapping are stable.
type Kind string

const (
	KindUnavailable    Kind = "generation_unavailable"
	KindRateLimited    Kind = "rate_limited"
	KindQuotaExhausted Kind = "quota_exhausted"
	KindFailed         Kind = "generation_failed"
)

// statusKinds maps provider HTTP statuses to failure kinds. Statuses not
// listed are KindFailed.
var statusKinds = map[int]Kind{
	http.StatusTooManyRequests: KindRateLimited,
	http.StatusPaymentRequired: KindQuotaExhausted,
}

// KindForStatus classifies a non-2xx provider status.
func KindForStatus(status int) Kind {
	if kind, ok := statusKinds[status]; ok {
		return kind
	}
	return KindFailed
}

// ErrNoToolCall is returned by providers when a successful response does not
// carry the forced function call.
var ErrNoToolCall = errors.New("no tool call in response")

// StatusError is a non-2xx provider response. Body is kept for logs only.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Provider, e.StatusCode)
}

// FailureError is the classified outcome of a failed generation.
type FailureError struct {
	Kind Kind
	Err  error
}

func (e *FailureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *FailureError) Unwrap() error { return e.Err }

// KindOf extracts the failure kind from err, or "" when err is not a
// generation failure.
func KindOf(err error) Kind {
	var fe *FailureError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

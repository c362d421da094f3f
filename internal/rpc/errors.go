package rpc

import (
	"context"
	"errors"
	"fmt"
)

// HTTPStatusError is returned when the node answers with a non-2xx status.
type HTTPStatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: http %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: http %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// DecodeError is returned when a 2xx response cannot be decoded.
// Retrying does not help, the node keeps serving the same payload.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// errorType maps an error to the label used by the error counter.
func errorType(err error) string {
	var statusErr *HTTPStatusError
	var decodeErr *DecodeError

	switch {
	case errors.As(err, &statusErr):
		return fmt.Sprintf("http_%d", statusErr.StatusCode)
	case errors.As(err, &decodeErr):
		return "decode"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "transport"
	}
}

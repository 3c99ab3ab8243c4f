package knowledge

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
)

// ErrInvalidResponse marks a payload that could not be decoded or has the
// wrong shape.
var ErrInvalidResponse = errors.New("invalid response format from server")

// StatusError is returned when the service answered with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("bad status %d", e.Code)
	}
	return fmt.Sprintf("bad status %d: %s", e.Code, e.Body)
}

// NoResponseError is returned when the request was sent but nothing came back.
type NoResponseError struct {
	Err error
}

func (e *NoResponseError) Error() string {
	return fmt.Sprintf("no response from server: %v", e.Err)
}

func (e *NoResponseError) Unwrap() error {
	return e.Err
}

// StatusCode extracts the HTTP status carried by err, if any.
func StatusCode(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code, true
	}
	return 0, false
}

func IsNoResponse(err error) bool {
	var nr *NoResponseError
	return errors.As(err, &nr)
}

// transportError wraps err as NoResponseError when it comes from the network
// layer or a cancelled context.
func transportError(err error) error {
	var (
		urlErr *url.Error
		netErr net.Error
	)
	if errors.As(err, &urlErr) || errors.As(err, &netErr) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return &NoResponseError{Err: err}
	}
	return err
}

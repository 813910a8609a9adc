package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Error describes a failed call against the remote task store
type Error struct {
	Op     string // e.g. "PUT /api/tasks/42"
	Status int    // 0 when no response was received
	Err    error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %d: %v", e.Op, e.Status, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Transient reports whether retrying the same request could succeed
func (e *Error) Transient() bool {
	switch {
	case e.Status == 0:
		// No response at all, unless the caller gave up.
		return !errors.Is(e.Err, context.Canceled) && !errors.Is(e.Err, errDecode)
	case e.Status == http.StatusRequestTimeout, e.Status == http.StatusTooManyRequests:
		return true
	case e.Status >= 500:
		return true
	}
	return false
}

// Class returns "transient" or "permanent" for logging
func (e *Error) Class() string {
	if e.Transient() {
		return "transient"
	}
	return "permanent"
}

var errDecode = errors.New("undecodable response body")

// IsTransient reports whether err is an api error worth retrying
func IsTransient(err error) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Transient()
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}

// IsNotFound reports whether the server answered 404
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

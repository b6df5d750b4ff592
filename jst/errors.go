package jst

import (
	"errors"
	"fmt"
)

// ErrFormat is returned when a response body does not match the timestamp
// layout.
var ErrFormat = errors.New("jst: malformed timestamp")

// StatusError is returned when a time authority answers with a non-2xx status.
type StatusError struct {
	URL  string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("jst: %s: status %d: %s", e.URL, e.Code, e.Body)
}

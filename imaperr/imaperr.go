// Package imaperr is the error taxonomy described in spec.md §7: Io,
// ConnectionRefused, Protocol(unexpected), and Bad/No command completions.
// All of them wrap fmt.Errorf-style chains the way pkgs/email/*.go in the
// teacher does, and all support errors.As/errors.Is.
package imaperr

import (
	"errors"
	"fmt"

	"github.com/emx-mail/imapcore/response"
)

// ErrConnectionRefused is returned by idle.Handle.Init when the response
// stream ends before a Continue is observed.
var ErrConnectionRefused = errors.New("imaperr: connection refused before continuation")

// ErrStreamEnded is returned by session.WireSession.CheckOK when the
// response stream is exhausted before the matching tagged Done arrives.
var ErrStreamEnded = errors.New("imaperr: response stream ended before matching Done")

// IOError wraps an underlying transport failure. Once returned, the
// session that produced it is unusable.
type IOError struct {
	Err error
}

func (e *IOError) Error() string { return fmt.Sprintf("imaperr: io: %v", e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

// NewIOError wraps err as an IOError, or returns nil if err is nil.
func NewIOError(err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Err: err}
}

// ProtocolError is returned when a demultiplexer observes a response that
// matches neither the command-specific shape it expects nor a unilateral
// event.
type ProtocolError struct {
	Unexpected response.Response
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("imaperr: protocol violation: unexpected %s response %q",
		e.Unexpected.Parsed().Kind, string(e.Unexpected.Raw()))
}

// CommandError is returned when a tagged completion reports NO or BAD.
type CommandError struct {
	Status      response.Status
	Code        *response.Code
	Information string
}

func (e *CommandError) Error() string {
	if e.Information != "" {
		return fmt.Sprintf("imaperr: %s: %s", e.Status, e.Information)
	}
	return fmt.Sprintf("imaperr: %s", e.Status)
}

// FromDone builds the appropriate error (nil, *CommandError) for a Done
// response's status. OK yields nil; NO, BAD and any other status yield a
// *CommandError.
func FromDone(p response.Parsed) error {
	switch p.Status {
	case response.StatusOK:
		return nil
	case response.StatusNo, response.StatusBad:
		return &CommandError{Status: p.Status, Code: p.Code, Information: p.Information}
	default:
		return &CommandError{Status: p.Status, Code: p.Code, Information: p.Information}
	}
}

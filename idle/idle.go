// Package idle implements the IDLE handle (component E): the client side
// of RFC 2177's IDLE command, which blocks the session on a single
// outstanding command while streaming whatever unilateral updates the
// server pushes.
package idle

import (
	"context"
	"fmt"

	"github.com/emx-mail/imapcore/imaperr"
	"github.com/emx-mail/imapcore/response"
	"github.com/emx-mail/imapcore/session"
)

// state tracks Handle's Fresh → Idling → Done lifecycle. A Handle is only
// useful threaded through Init then Stream/Done in that order; misuse
// panics the way the original's assert! calls do, rather than silently
// returning a zero value.
type state int

const (
	stateFresh state = iota
	stateIdling
	stateDone
)

// Handle lets a caller block waiting for mailbox changes via IDLE. As long
// as a Handle is idling, the underlying session's response stream belongs
// to it exclusively — no other demultiplexer may read from the same
// session.Session until Done returns it.
type Handle struct {
	sess session.Session
	id   session.RequestId
	st   state
}

// New wraps sess in a fresh, uninitialized Handle. Init must be called
// before Stream or Done.
func New(sess session.Session) *Handle {
	return &Handle{sess: sess, st: stateFresh}
}

// Init sends the IDLE command and blocks until the server's continuation
// request ("+ idling") arrives. Any other response observed before the
// continuation is reported to onUnexpected (if non-nil) rather than
// aborting the command — some servers are known to interleave a stray
// untagged line before the continuation, and the original client tolerates
// it by logging and continuing to wait.
func (h *Handle) Init(ctx context.Context, onUnexpected func(response.Response)) error {
	if h.st != stateFresh {
		panic("idle: Init called more than once")
	}

	id, err := h.sess.RunCommand(ctx, "IDLE")
	if err != nil {
		return err
	}
	h.id = id

	src := h.sess.Stream()
	for {
		r, ok, err := src.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return imaperr.ErrConnectionRefused
		}
		if r.Parsed().Kind == response.KindContinue {
			h.st = stateIdling
			return nil
		}
		if onUnexpected != nil {
			onUnexpected(r)
		}
	}
}

// Stream returns the shared response.Source to read unilateral updates
// from while idling. Must be called after Init.
func (h *Handle) Stream() response.Source {
	if h.st != stateIdling {
		panic(fmt.Sprintf("idle: Stream called in state %d, want Idling", h.st))
	}
	return h.sess.Stream()
}

// Done sends "DONE" to end the IDLE command and waits for its tagged
// completion, returning the underlying session for reuse by the next
// command. The Handle must not be used again afterward.
func (h *Handle) Done(ctx context.Context) (session.Session, error) {
	if h.st != stateIdling {
		panic(fmt.Sprintf("idle: Done called in state %d, want Idling", h.st))
	}
	h.st = stateDone

	if err := h.sess.RunCommandUntagged(ctx, "DONE"); err != nil {
		return nil, err
	}
	if err := h.sess.CheckOK(ctx, h.id); err != nil {
		return nil, err
	}
	return h.sess, nil
}

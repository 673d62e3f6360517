// Package session is the façade component (F) every demultiplexer and the
// IDLE handle are built against: it hides tag minting, line framing and the
// underlying transport behind four operations, and owns the single
// response.Source the rest of the module reads from.
package session

import (
	"context"

	"github.com/emx-mail/imapcore/response"
)

// RequestId is the tag a client mints for a command and the server echoes
// back on that command's tagged completion.
type RequestId string

// Session is the façade every demultiplexer and idle.Handle is built
// against. A single Session must never be driven by two demultiplexers (or
// a demultiplexer and an idle.Handle) concurrently — ownership of the
// response stream is exclusive and passes from one active reader to the
// next, never shared, matching the single-active-demultiplexer invariant.
// This is a documented discipline, not one Session enforces with a mutex:
// a mutex would silently serialize concurrent misuse instead of surfacing
// the bug.
type Session interface {
	// RunCommand writes cmd with a freshly minted tag and returns that tag
	// for the caller to match against the eventual Done.
	RunCommand(ctx context.Context, cmd string) (RequestId, error)

	// RunCommandUntagged writes cmd without minting or expecting a tagged
	// completion of its own — used for continuations like "DONE" that
	// complete a command started by an earlier RunCommand.
	RunCommandUntagged(ctx context.Context, cmd string) error

	// CheckOK reads the response stream until id's Done arrives and
	// returns imaperr.FromDone's verdict for it, forwarding any
	// unilateral response observed along the way through Stream's sink.
	CheckOK(ctx context.Context, id RequestId) error

	// Stream returns the shared response.Source. Whoever holds it is the
	// sole reader of server responses until they stop reading.
	Stream() response.Source
}

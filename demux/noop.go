package demux

import (
	"context"

	"github.com/emx-mail/imapcore/classify"
	"github.com/emx-mail/imapcore/imaperr"
	"github.com/emx-mail/imapcore/response"
	"github.com/emx-mail/imapcore/unsolicited"
)

// ParseNoop runs a NOOP (or CHECK) command to completion. NOOP carries no
// result of its own — its only purpose is to let the server flush
// unilateral updates, so every non-Done response observed must be
// classifier-consumed or it is a protocol violation.
func ParseNoop(ctx context.Context, src response.Source, sink *unsolicited.Sink, tag string) error {
	for {
		r, done, err := readStep(ctx, src, tag)
		if err != nil {
			return err
		}
		if done {
			return imaperr.FromDone(r.Parsed())
		}

		consumed, err := classify.Classify(ctx, r, sink)
		if err != nil {
			return err
		}
		if !consumed {
			return &imaperr.ProtocolError{Unexpected: r}
		}
	}
}

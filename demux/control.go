// Package demux implements the seven per-command demultiplexers (component
// D): streaming or awaiting procedures that consume responses up to (and
// including) a command's matching tagged completion and yield a typed
// result, routing anything unilateral to the sink along the way.
package demux

import (
	"context"

	"github.com/emx-mail/imapcore/imaperr"
	"github.com/emx-mail/imapcore/response"
)

// readStep reads one response from src and classifies it against the tag
// discipline every demultiplexer shares (spec.md §4.D steps 1-3):
//
//   - a Done response whose tag matches cmdTag ends the command successfully
//     (done == true);
//   - a Done response with any other tag is impossible under RFC 3501
//     framing and is surfaced as a protocol violation;
//   - anything else is returned for the caller's command-specific matcher.
//
// An exhausted src ends the command as if an OK completion had arrived: lazy
// streams yield no further items and eager parsers return what they have
// accumulated so far.
func readStep(ctx context.Context, src response.Source, cmdTag string) (r response.Response, done bool, err error) {
	resp, ok, err := src.Next(ctx)
	if err != nil {
		return response.Response{}, false, imaperr.NewIOError(err)
	}
	if !ok {
		return response.New(nil, response.Parsed{Kind: response.KindDone, Tag: cmdTag, Status: response.StatusOK}), true, nil
	}

	p := resp.Parsed()
	if p.Kind == response.KindDone {
		if p.Tag == cmdTag {
			return resp, true, nil
		}
		return response.Response{}, false, &imaperr.ProtocolError{Unexpected: resp}
	}
	return resp, false, nil
}

package demux

import (
	"context"

	"github.com/emx-mail/imapcore/classify"
	"github.com/emx-mail/imapcore/imaperr"
	"github.com/emx-mail/imapcore/response"
	"github.com/emx-mail/imapcore/unsolicited"
)

// ParseIDs runs a SEARCH (or UID SEARCH) command to completion and returns
// the set of matched message numbers. SEARCH's result can be split across
// multiple "* SEARCH ..." lines (RFC 3501 §7.2.5 allows, though rarely
// exercises, more than one), so the results are unioned rather than the
// last line winning.
func ParseIDs(ctx context.Context, src response.Source, sink *unsolicited.Sink, tag string) (map[uint32]struct{}, error) {
	ids := make(map[uint32]struct{})

	for {
		r, done, err := readStep(ctx, src, tag)
		if err != nil {
			return nil, err
		}
		if done {
			if cerr := imaperr.FromDone(r.Parsed()); cerr != nil {
				return nil, cerr
			}
			return ids, nil
		}

		p := r.Parsed()
		if p.Kind == response.KindIDs {
			for _, id := range p.IDList {
				ids[id] = struct{}{}
			}
			continue
		}

		consumed, err := classify.Classify(ctx, r, sink)
		if err != nil {
			return nil, err
		}
		if !consumed {
			return nil, &imaperr.ProtocolError{Unexpected: r}
		}
	}
}

package demux

import (
	"context"
	"strings"

	"github.com/emx-mail/imapcore/classify"
	"github.com/emx-mail/imapcore/imaperr"
	"github.com/emx-mail/imapcore/response"
	"github.com/emx-mail/imapcore/unsolicited"
)

// Capabilities is the set of tokens a "* CAPABILITY ..." response carried,
// looked up case-insensitively per RFC 3501 §7.2.1.
type Capabilities map[string]struct{}

// Has reports whether tok (matched case-insensitively) was advertised.
func (c Capabilities) Has(tok string) bool {
	_, ok := c[strings.ToUpper(tok)]
	return ok
}

// Len returns the number of distinct tokens.
func (c Capabilities) Len() int { return len(c) }

// ParseCapabilities runs a CAPABILITY command to completion (an eager
// accumulator per spec.md §4.D — the whole point of the command is the set,
// not a stream of it). Any unilateral response observed along the way is
// routed to sink; anything else is a protocol violation.
func ParseCapabilities(ctx context.Context, src response.Source, sink *unsolicited.Sink, tag string) (Capabilities, error) {
	caps := make(Capabilities)

	for {
		r, done, err := readStep(ctx, src, tag)
		if err != nil {
			return nil, err
		}
		if done {
			if cerr := imaperr.FromDone(r.Parsed()); cerr != nil {
				return nil, cerr
			}
			return caps, nil
		}

		p := r.Parsed()
		if p.Kind == response.KindCapabilities {
			for _, tok := range p.CapabilityTokens {
				caps[strings.ToUpper(tok)] = struct{}{}
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

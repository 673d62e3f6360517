package demux

import (
	"context"

	"github.com/emx-mail/imapcore/classify"
	"github.com/emx-mail/imapcore/imaperr"
	"github.com/emx-mail/imapcore/response"
	"github.com/emx-mail/imapcore/unsolicited"
)

// ExpungeStream lazily yields the message sequence numbers an EXPUNGE
// command reports as removed.
//
// Unlike every other demultiplexer, ExpungeStream's own expected shape
// (KindExpunge) is one the unilateral classifier would also consume, so the
// order matters: it is checked *before* falling through to the classifier.
// Inside an active EXPUNGE command, "* <n> EXPUNGE" is the command's own
// result, not a server-pushed event, even though the same response shape is
// unilateral in every other context.
type ExpungeStream struct {
	src  response.Source
	sink *unsolicited.Sink
	tag  string
	done bool
}

// NewExpungeStream starts a new ExpungeStream reading from src until tag's
// Done.
func NewExpungeStream(src response.Source, sink *unsolicited.Sink, tag string) *ExpungeStream {
	return &ExpungeStream{src: src, sink: sink, tag: tag}
}

// Next returns the next expunged sequence number, or (0, false, nil) once
// the command has completed successfully.
func (s *ExpungeStream) Next(ctx context.Context) (uint32, bool, error) {
	if s.done {
		return 0, false, nil
	}

	for {
		r, done, err := readStep(ctx, s.src, s.tag)
		if err != nil {
			s.done = true
			return 0, false, err
		}
		if done {
			s.done = true
			if cerr := imaperr.FromDone(r.Parsed()); cerr != nil {
				return 0, false, cerr
			}
			return 0, false, nil
		}

		p := r.Parsed()
		if p.Kind == response.KindExpunge {
			return p.Num, true, nil
		}

		consumed, err := classify.Classify(ctx, r, s.sink)
		if err != nil {
			s.done = true
			return 0, false, err
		}
		if !consumed {
			s.done = true
			return 0, false, &imaperr.ProtocolError{Unexpected: r}
		}
	}
}

// Collect drains the stream to completion and returns every expunged
// sequence number observed.
func (s *ExpungeStream) Collect(ctx context.Context) ([]uint32, error) {
	var out []uint32
	for {
		n, ok, err := s.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, n)
	}
}

package demux

import (
	"context"

	"github.com/emersion/go-imap/v2"

	"github.com/emx-mail/imapcore/classify"
	"github.com/emx-mail/imapcore/imaperr"
	"github.com/emx-mail/imapcore/response"
	"github.com/emx-mail/imapcore/unsolicited"
)

// Name is one mailbox name yielded by LIST or LSUB.
type Name struct {
	Attributes []imap.Flag
	Delimiter  string // empty means NIL (no hierarchy delimiter reported)
	Mailbox    string
}

// NameStream lazily yields the Name values a LIST/LSUB command produces, one
// response line at a time, per spec.md §4.D's "streamed, not accumulated"
// requirement for mailbox listings.
type NameStream struct {
	src  response.Source
	sink *unsolicited.Sink
	tag  string
	done bool
}

// NewNameStream starts a new NameStream reading from src until tag's Done.
func NewNameStream(src response.Source, sink *unsolicited.Sink, tag string) *NameStream {
	return &NameStream{src: src, sink: sink, tag: tag}
}

// Next returns the next Name, or (zero, false, nil) once the command has
// completed successfully. Calling Next again after exhaustion (or after an
// error) keeps returning (zero, false, nil).
func (s *NameStream) Next(ctx context.Context) (Name, bool, error) {
	if s.done {
		return Name{}, false, nil
	}

	for {
		r, done, err := readStep(ctx, s.src, s.tag)
		if err != nil {
			s.done = true
			return Name{}, false, err
		}
		if done {
			s.done = true
			if cerr := imaperr.FromDone(r.Parsed()); cerr != nil {
				return Name{}, false, cerr
			}
			return Name{}, false, nil
		}

		p := r.Parsed()
		if p.Kind == response.KindMailboxList {
			return Name{Attributes: p.ListFlags, Delimiter: p.ListDelimiter, Mailbox: p.ListName}, true, nil
		}

		consumed, err := classify.Classify(ctx, r, s.sink)
		if err != nil {
			s.done = true
			return Name{}, false, err
		}
		if !consumed {
			s.done = true
			return Name{}, false, &imaperr.ProtocolError{Unexpected: r}
		}
	}
}

// Collect drains the stream to completion and returns every Name observed.
// Convenience for callers that don't need the lazy form.
func (s *NameStream) Collect(ctx context.Context) ([]Name, error) {
	var names []Name
	for {
		n, ok, err := s.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return names, nil
		}
		names = append(names, n)
	}
}

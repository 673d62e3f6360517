package demux

import (
	"context"

	"github.com/emersion/go-imap/v2"

	"github.com/emx-mail/imapcore/classify"
	"github.com/emx-mail/imapcore/imaperr"
	"github.com/emx-mail/imapcore/response"
	"github.com/emx-mail/imapcore/unsolicited"
)

// Fetch is one "* <n> FETCH (...)" response. Per spec.md's opaque-value
// carve-out, only UID and FLAGS are decoded eagerly; bodydecode or a caller
// can interpret any other attribute from Raw.
type Fetch struct {
	Message uint32

	attrs []response.FetchAttr
	raw   response.Response
}

// UID returns the message's UID, if a UID attribute was present.
func (f Fetch) UID() (imap.UID, bool) {
	for _, a := range f.attrs {
		if a.Name == "UID" {
			return imap.UID(a.UID), true
		}
	}
	return 0, false
}

// Flags returns the message's flags, if a FLAGS attribute was present.
func (f Fetch) Flags() ([]imap.Flag, bool) {
	for _, a := range f.attrs {
		if a.Name == "FLAGS" {
			return a.Flags, true
		}
	}
	return nil, false
}

// Attr returns the raw attribute named name (matched exactly, upper-cased),
// e.g. "BODY[TEXT]", for a caller to decode further.
func (f Fetch) Attr(name string) (response.FetchAttr, bool) {
	for _, a := range f.attrs {
		if a.Name == name {
			return a, true
		}
	}
	return response.FetchAttr{}, false
}

// Raw returns the underlying response this Fetch was built from.
func (f Fetch) Raw() response.Response { return f.raw }

// NewFetch builds a Fetch directly from attrs, for callers (such as
// bodydecode) that need one without reading it off a live response.Source.
func NewFetch(message uint32, attrs []response.FetchAttr) Fetch {
	return Fetch{Message: message, attrs: attrs}
}

// FetchStream lazily yields Fetch values, one response line at a time.
type FetchStream struct {
	src  response.Source
	sink *unsolicited.Sink
	tag  string
	done bool
}

// NewFetchStream starts a new FetchStream reading from src until tag's Done.
func NewFetchStream(src response.Source, sink *unsolicited.Sink, tag string) *FetchStream {
	return &FetchStream{src: src, sink: sink, tag: tag}
}

// Next returns the next Fetch, or (zero, false, nil) once the command has
// completed successfully.
func (s *FetchStream) Next(ctx context.Context) (Fetch, bool, error) {
	if s.done {
		return Fetch{}, false, nil
	}

	for {
		r, done, err := readStep(ctx, s.src, s.tag)
		if err != nil {
			s.done = true
			return Fetch{}, false, err
		}
		if done {
			s.done = true
			if cerr := imaperr.FromDone(r.Parsed()); cerr != nil {
				return Fetch{}, false, cerr
			}
			return Fetch{}, false, nil
		}

		p := r.Parsed()
		if p.Kind == response.KindFetch {
			return Fetch{Message: p.Num, attrs: p.FetchAttrs, raw: r}, true, nil
		}

		consumed, err := classify.Classify(ctx, r, s.sink)
		if err != nil {
			s.done = true
			return Fetch{}, false, err
		}
		if !consumed {
			s.done = true
			return Fetch{}, false, &imaperr.ProtocolError{Unexpected: r}
		}
	}
}

// Collect drains the stream to completion and returns every Fetch observed.
func (s *FetchStream) Collect(ctx context.Context) ([]Fetch, error) {
	var out []Fetch
	for {
		f, ok, err := s.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, f)
	}
}

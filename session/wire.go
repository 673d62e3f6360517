package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/emx-mail/imapcore/classify"
	"github.com/emx-mail/imapcore/imaperr"
	"github.com/emx-mail/imapcore/proto"
	"github.com/emx-mail/imapcore/response"
	"github.com/emx-mail/imapcore/unsolicited"
)

// WireSession is the reference Session implementation over an
// already-dialed io.ReadWriteCloser. It mints tags, frames commands with
// CRLF and turns each incoming line into a response.Response via proto.
// Dialing, TLS and authentication are out of scope here — callers hand
// WireSession a live connection the way imapclient.DialTLS/DialStartTLS
// hand a *imapclient.Client a live connection.
type WireSession struct {
	conn io.ReadWriteCloser
	r    *bufio.Reader
	sink *unsolicited.Sink

	mu      sync.Mutex
	counter uint64
	prefix  string
}

// NewWireSession wraps conn, an already-connected transport. prefix is the
// tag prefix this session mints commands under (e.g. "A"); tags are
// "<prefix><counter>", e.g. "A0001". sink is where CheckOK forwards any
// unilateral response it observes while draining to a tagged completion.
func NewWireSession(conn io.ReadWriteCloser, prefix string, sink *unsolicited.Sink) *WireSession {
	if prefix == "" {
		prefix = "A"
	}
	return &WireSession{
		conn:   conn,
		r:      bufio.NewReader(conn),
		sink:   sink,
		prefix: prefix,
	}
}

func (s *WireSession) nextTag() RequestId {
	n := atomic.AddUint64(&s.counter, 1)
	return RequestId(fmt.Sprintf("%s%04d", s.prefix, n))
}

func (s *WireSession) writeLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := io.WriteString(s.conn, line+"\r\n"); err != nil {
		return fmt.Errorf("session: write %q: %w", line, err)
	}
	return nil
}

// RunCommand mints a tag, writes "<tag> <cmd>" and returns the tag.
func (s *WireSession) RunCommand(ctx context.Context, cmd string) (RequestId, error) {
	tag := s.nextTag()
	if err := s.writeLine(string(tag) + " " + cmd); err != nil {
		return "", imaperr.NewIOError(err)
	}
	return tag, nil
}

// RunCommandUntagged writes cmd verbatim, with no tag of its own.
func (s *WireSession) RunCommandUntagged(ctx context.Context, cmd string) error {
	if err := s.writeLine(cmd); err != nil {
		return imaperr.NewIOError(err)
	}
	return nil
}

// CheckOK drains the stream until id's Done arrives, returning
// imaperr.FromDone's verdict. CheckOK is only meant for commands with no
// response data of their own (e.g. the DONE half of IDLE); a command that
// can carry response data should be read with one of the demux parsers
// instead. Any unilateral response observed while waiting for id's Done is
// forwarded to sink rather than treated as an error, since RFC 3501 §7
// allows a server to push one at any time; anything else is a protocol
// violation.
func (s *WireSession) CheckOK(ctx context.Context, id RequestId) error {
	for {
		r, ok, err := s.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return imaperr.ErrStreamEnded
		}
		p := r.Parsed()
		if p.Kind == response.KindDone {
			if p.Tag != string(id) {
				return &imaperr.ProtocolError{Unexpected: r}
			}
			return imaperr.FromDone(p)
		}
		consumed, cerr := classify.Classify(ctx, r, s.sink)
		if cerr != nil {
			return cerr
		}
		if !consumed {
			return &imaperr.ProtocolError{Unexpected: r}
		}
	}
}

// Stream returns s itself: WireSession is its own response.Source.
func (s *WireSession) Stream() response.Source {
	return s
}

// Next implements response.Source by reading one CRLF-terminated line and
// parsing it.
func (s *WireSession) Next(ctx context.Context) (response.Response, bool, error) {
	if err := ctx.Err(); err != nil {
		return response.Response{}, false, err
	}
	line, err := s.r.ReadBytes('\n')
	if err != nil {
		if err == io.EOF && len(line) == 0 {
			return response.Response{}, false, nil
		}
		return response.Response{}, false, imaperr.NewIOError(fmt.Errorf("session: read: %w", err))
	}
	r, err := proto.Parse(line)
	if err != nil {
		return response.Response{}, false, err
	}
	return r, true, nil
}

// Close closes the underlying transport.
func (s *WireSession) Close() error {
	return s.conn.Close()
}

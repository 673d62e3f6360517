package demux_test

import (
	"context"
	"testing"

	"github.com/emx-mail/imapcore/proto"
	"github.com/emx-mail/imapcore/response"
)

// sliceSource is a response.Source backed by a fixed list of server lines,
// each parsed with the proto package when Next reaches it. It stands in for a live
// session.WireSession the way the original's async_std::stream::from_iter
// fixtures stand in for a live connection.
type sliceSource struct {
	lines []string
	i     int
}

func newSource(t *testing.T, lines ...string) *sliceSource {
	t.Helper()
	return &sliceSource{lines: lines}
}

func (s *sliceSource) Next(ctx context.Context) (response.Response, bool, error) {
	if s.i >= len(s.lines) {
		return response.Response{}, false, nil
	}
	line := s.lines[s.i]
	s.i++
	r, err := proto.Parse([]byte(line))
	if err != nil {
		return response.Response{}, false, err
	}
	return r, true, nil
}

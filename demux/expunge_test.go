package demux_test

import (
	"context"
	"testing"

	"github.com/emx-mail/imapcore/demux"
	"github.com/emx-mail/imapcore/unsolicited"
)

func TestExpungeStream(t *testing.T) {
	src := newSource(t,
		"* 3 EXPUNGE\r\n",
		"* 3 EXPUNGE\r\n",
		"* 5 EXPUNGE\r\n",
		"A0001 OK EXPUNGE completed\r\n",
	)
	sink := unsolicited.NewSink(10)

	ids, err := demux.NewExpungeStream(src, sink, "A0001").Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	want := []uint32{3, 3, 5}
	if len(ids) != len(want) {
		t.Fatalf("got %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %d, want %d", i, ids[i], want[i])
		}
	}
}

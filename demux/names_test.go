package demux_test

import (
	"context"
	"testing"

	"github.com/emersion/go-imap/v2"

	"github.com/emx-mail/imapcore/demux"
	"github.com/emx-mail/imapcore/unsolicited"
)

func TestNameStream(t *testing.T) {
	src := newSource(t,
		`* LIST (\HasNoChildren) "." "INBOX"`+"\r\n",
		"A0001 OK LIST completed\r\n",
	)
	sink := unsolicited.NewSink(10)

	names, err := demux.NewNameStream(src, sink, "A0001").Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(names) != 1 {
		t.Fatalf("got %d names, want 1", len(names))
	}
	n := names[0]
	if len(n.Attributes) != 1 || n.Attributes[0] != imap.Flag(`\HasNoChildren`) {
		t.Errorf("unexpected attributes: %v", n.Attributes)
	}
	if n.Delimiter != "." {
		t.Errorf("delimiter = %q, want %q", n.Delimiter, ".")
	}
	if n.Mailbox != "INBOX" {
		t.Errorf("mailbox = %q, want INBOX", n.Mailbox)
	}
}

func TestNameStreamWithUnilateral(t *testing.T) {
	src := newSource(t,
		`* LIST (\HasNoChildren) "." "INBOX"`+"\r\n",
		"* 4 EXPUNGE\r\n",
		"A0001 OK LIST completed\r\n",
	)
	sink := unsolicited.NewSink(10)

	names, err := demux.NewNameStream(src, sink, "A0001").Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(names) != 1 {
		t.Fatalf("got %d names, want 1", len(names))
	}

	ev, ok, err := sink.Recv(context.Background())
	if err != nil || !ok {
		t.Fatalf("expected Expunge event, got ok=%v err=%v", ok, err)
	}
	if ev.Kind != unsolicited.EventExpunge || ev.Num != 4 {
		t.Errorf("unexpected expunge event: %+v", ev)
	}
}

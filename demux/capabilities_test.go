package demux_test

import (
	"context"
	"testing"

	"github.com/emx-mail/imapcore/demux"
	"github.com/emx-mail/imapcore/unsolicited"
)

func TestParseCapabilities(t *testing.T) {
	src := newSource(t,
		"* CAPABILITY IMAP4rev1 STARTTLS AUTH=GSSAPI LOGINDISABLED\r\n",
		"A0001 OK CAPABILITY completed\r\n",
	)
	sink := unsolicited.NewSink(10)

	caps, err := demux.ParseCapabilities(context.Background(), src, sink, "A0001")
	if err != nil {
		t.Fatalf("ParseCapabilities: %v", err)
	}
	if caps.Len() != 4 {
		t.Fatalf("got %d capabilities, want 4", caps.Len())
	}
	for _, tok := range []string{"IMAP4rev1", "STARTTLS", "AUTH=GSSAPI", "LOGINDISABLED"} {
		if !caps.Has(tok) {
			t.Errorf("missing capability %q", tok)
		}
	}
}

func TestParseCapabilitiesCaseInsensitive(t *testing.T) {
	src := newSource(t,
		"* CAPABILITY IMAP4REV1 STARTTLS\r\n",
		"A0001 OK CAPABILITY completed\r\n",
	)
	sink := unsolicited.NewSink(10)

	caps, err := demux.ParseCapabilities(context.Background(), src, sink, "A0001")
	if err != nil {
		t.Fatalf("ParseCapabilities: %v", err)
	}
	if !caps.Has("imap4rev1") || !caps.Has("STARTTLS") {
		t.Fatalf("case-insensitive lookup failed: %v", caps)
	}
	if caps.Len() != 2 {
		t.Fatalf("got %d capabilities, want 2", caps.Len())
	}
}

func TestParseCapabilitiesWithUnilateral(t *testing.T) {
	src := newSource(t,
		"* CAPABILITY IMAP4rev1 STARTTLS AUTH=GSSAPI LOGINDISABLED\r\n",
		"* STATUS dev.github (MESSAGES 10 UIDNEXT 11 UIDVALIDITY 1408806928 UNSEEN 0)\r\n",
		"* 4 EXISTS\r\n",
		"A0001 OK CAPABILITY completed\r\n",
	)
	sink := unsolicited.NewSink(10)

	caps, err := demux.ParseCapabilities(context.Background(), src, sink, "A0001")
	if err != nil {
		t.Fatalf("ParseCapabilities: %v", err)
	}
	if caps.Len() != 4 {
		t.Fatalf("got %d capabilities, want 4", caps.Len())
	}

	ctx := context.Background()
	ev, ok, err := sink.Recv(ctx)
	if err != nil || !ok {
		t.Fatalf("expected Status event, got ok=%v err=%v", ok, err)
	}
	if ev.Kind != unsolicited.EventStatus || ev.Mailbox != "dev.github" || len(ev.Attrs) != 4 {
		t.Errorf("unexpected status event: %+v", ev)
	}

	ev, ok, err = sink.Recv(ctx)
	if err != nil || !ok {
		t.Fatalf("expected Exists event, got ok=%v err=%v", ok, err)
	}
	if ev.Kind != unsolicited.EventExists || ev.Num != 4 {
		t.Errorf("unexpected exists event: %+v", ev)
	}
}

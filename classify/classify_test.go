package classify_test

import (
	"context"
	"testing"

	"github.com/emx-mail/imapcore/classify"
	"github.com/emx-mail/imapcore/proto"
	"github.com/emx-mail/imapcore/unsolicited"
)

func mustParse(t *testing.T, line string) (consumed bool, ev unsolicited.Event, ok bool, err error) {
	t.Helper()
	r, perr := proto.Parse([]byte(line))
	if perr != nil {
		t.Fatalf("Parse(%q): %v", line, perr)
	}
	sink := unsolicited.NewSink(1)
	consumed, err = classify.Classify(context.Background(), r, sink)
	if consumed {
		ev, ok, _ = sink.Recv(context.Background())
	}
	return consumed, ev, ok, err
}

func TestClassifyConsumesUnilateralShapes(t *testing.T) {
	for _, line := range []string{
		"* 1 EXISTS\r\n",
		"* 1 RECENT\r\n",
		"* 1 EXPUNGE\r\n",
		"* STATUS INBOX (MESSAGES 1)\r\n",
	} {
		consumed, _, ok, err := mustParse(t, line)
		if err != nil {
			t.Fatalf("Classify(%q): %v", line, err)
		}
		if !consumed || !ok {
			t.Fatalf("Classify(%q) consumed=%v ok=%v, want both true", line, consumed, ok)
		}
	}
}

func TestClassifyLeavesOtherShapesUnconsumed(t *testing.T) {
	consumed, _, _, err := mustParse(t, "* CAPABILITY IMAP4rev1\r\n")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if consumed {
		t.Fatal("Classify should not consume a CAPABILITY response")
	}
}

package proto_test

import (
	"testing"

	"github.com/emersion/go-imap/v2"

	"github.com/emx-mail/imapcore/proto"
	"github.com/emx-mail/imapcore/response"
)

func parse(t *testing.T, line string) response.Parsed {
	t.Helper()
	r, err := proto.Parse([]byte(line))
	if err != nil {
		t.Fatalf("Parse(%q): %v", line, err)
	}
	return r.Parsed()
}

func TestParseContinue(t *testing.T) {
	p := parse(t, "+ idling\r\n")
	if p.Kind != response.KindContinue {
		t.Fatalf("Kind = %v, want Continue", p.Kind)
	}
}

func TestParseTaggedDone(t *testing.T) {
	p := parse(t, "A0001 OK LOGIN completed\r\n")
	if p.Kind != response.KindDone || p.Tag != "A0001" || p.Status != response.StatusOK {
		t.Fatalf("unexpected parse: %+v", p)
	}
	if p.Information != "LOGIN completed" {
		t.Fatalf("Information = %q", p.Information)
	}
}

func TestParseTaggedDoneWithCode(t *testing.T) {
	p := parse(t, "A0001 OK [READ-WRITE] SELECT completed\r\n")
	if p.Code == nil || p.Code.Name != "READ-WRITE" {
		t.Fatalf("Code = %+v", p.Code)
	}
	if p.Information != "SELECT completed" {
		t.Fatalf("Information = %q", p.Information)
	}
}

func TestParseCapability(t *testing.T) {
	p := parse(t, "* CAPABILITY IMAP4rev1 STARTTLS AUTH=GSSAPI LOGINDISABLED\r\n")
	if p.Kind != response.KindCapabilities {
		t.Fatalf("Kind = %v, want Capabilities", p.Kind)
	}
	want := []string{"IMAP4rev1", "STARTTLS", "AUTH=GSSAPI", "LOGINDISABLED"}
	if len(p.CapabilityTokens) != len(want) {
		t.Fatalf("tokens = %v, want %v", p.CapabilityTokens, want)
	}
	for i, w := range want {
		if p.CapabilityTokens[i] != w {
			t.Errorf("tokens[%d] = %q, want %q", i, p.CapabilityTokens[i], w)
		}
	}
}

func TestParseList(t *testing.T) {
	p := parse(t, `* LIST (\HasNoChildren) "." "INBOX"`+"\r\n")
	if p.Kind != response.KindMailboxList {
		t.Fatalf("Kind = %v, want MailboxList", p.Kind)
	}
	if len(p.ListFlags) != 1 || p.ListFlags[0] != imap.Flag(`\HasNoChildren`) {
		t.Errorf("ListFlags = %v", p.ListFlags)
	}
	if p.ListDelimiter != "." {
		t.Errorf("ListDelimiter = %q, want .", p.ListDelimiter)
	}
	if p.ListName != "INBOX" {
		t.Errorf("ListName = %q, want INBOX", p.ListName)
	}
}

func TestParseListNilDelimiter(t *testing.T) {
	p := parse(t, `* LIST (\Noselect) NIL "INBOX"`+"\r\n")
	if p.ListDelimiter != "" {
		t.Errorf("ListDelimiter = %q, want empty for NIL", p.ListDelimiter)
	}
}

func TestParseFlags(t *testing.T) {
	p := parse(t, `* FLAGS (\Answered \Flagged \Deleted \Seen \Draft)`+"\r\n")
	if p.Kind != response.KindMailboxFlags {
		t.Fatalf("Kind = %v, want MailboxFlags", p.Kind)
	}
	if len(p.Flags) != 5 {
		t.Fatalf("Flags = %v", p.Flags)
	}
}

func TestParseExistsRecentExpunge(t *testing.T) {
	if p := parse(t, "* 23 EXISTS\r\n"); p.Kind != response.KindMailboxExists || p.Num != 23 {
		t.Fatalf("EXISTS parse = %+v", p)
	}
	if p := parse(t, "* 3 RECENT\r\n"); p.Kind != response.KindMailboxRecent || p.Num != 3 {
		t.Fatalf("RECENT parse = %+v", p)
	}
	if p := parse(t, "* 5 EXPUNGE\r\n"); p.Kind != response.KindExpunge || p.Num != 5 {
		t.Fatalf("EXPUNGE parse = %+v", p)
	}
}

func TestParseFetch(t *testing.T) {
	p := parse(t, `* 24 FETCH (FLAGS (\Seen) UID 4827943)`+"\r\n")
	if p.Kind != response.KindFetch || p.Num != 24 {
		t.Fatalf("unexpected parse: %+v", p)
	}
	if len(p.FetchAttrs) != 2 {
		t.Fatalf("FetchAttrs = %+v", p.FetchAttrs)
	}
	if p.FetchAttrs[0].Name != "FLAGS" || len(p.FetchAttrs[0].Flags) != 1 {
		t.Errorf("FetchAttrs[0] = %+v", p.FetchAttrs[0])
	}
	if p.FetchAttrs[1].Name != "UID" || p.FetchAttrs[1].UID != 4827943 {
		t.Errorf("FetchAttrs[1] = %+v", p.FetchAttrs[1])
	}
}

func TestParseStatus(t *testing.T) {
	p := parse(t, "* STATUS dev.github (MESSAGES 10 UIDNEXT 11 UIDVALIDITY 1408806928 UNSEEN 0)\r\n")
	if p.Kind != response.KindMailboxStatus || p.StatusMailbox != "dev.github" {
		t.Fatalf("unexpected parse: %+v", p)
	}
	if len(p.StatusAttrs) != 4 {
		t.Fatalf("StatusAttrs = %+v", p.StatusAttrs)
	}
}

func TestParseSearchMultiple(t *testing.T) {
	p := parse(t, "* SEARCH 23 42 4711\r\n")
	if p.Kind != response.KindIDs {
		t.Fatalf("Kind = %v, want IDs", p.Kind)
	}
	want := []uint32{23, 42, 4711}
	if len(p.IDList) != len(want) {
		t.Fatalf("IDList = %v", p.IDList)
	}
	for i, w := range want {
		if p.IDList[i] != w {
			t.Errorf("IDList[%d] = %d, want %d", i, p.IDList[i], w)
		}
	}
}

func TestParseSearchEmpty(t *testing.T) {
	p := parse(t, "* SEARCH\r\n")
	if p.Kind != response.KindIDs || len(p.IDList) != 0 {
		t.Fatalf("unexpected parse: %+v", p)
	}
}

func TestParseUIDValidityCode(t *testing.T) {
	p := parse(t, "* OK [UIDVALIDITY 3857529045] UIDs valid\r\n")
	if p.Code == nil || p.Code.Name != "UIDVALIDITY" || p.Code.Num != 3857529045 {
		t.Fatalf("Code = %+v", p.Code)
	}
}

func TestParsePermanentFlagsCode(t *testing.T) {
	p := parse(t, `* OK [PERMANENTFLAGS (\Deleted \Seen \*)] Limited`+"\r\n")
	if p.Code == nil || p.Code.Name != "PERMANENTFLAGS" || len(p.Code.Flags) != 3 {
		t.Fatalf("Code = %+v", p.Code)
	}
}

func TestParseUnrecognizedShapeIsSyntaxError(t *testing.T) {
	_, err := proto.Parse([]byte("* JUNK IMAP4rev1 STARTTLS\r\n"))
	if err == nil {
		t.Fatal("expected a SyntaxError for an unrecognized shape")
	}
	var synErr *proto.SyntaxError
	if se, ok := err.(*proto.SyntaxError); ok {
		synErr = se
	}
	if synErr == nil {
		t.Fatalf("expected *proto.SyntaxError, got %T", err)
	}
}

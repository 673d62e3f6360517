// Package response defines the immutable record that pairs a raw IMAP
// response line with its parsed, typed view. It corresponds to component A
// of the core: every other package consumes values of this type and never
// constructs the raw/parsed pairing itself.
package response

import (
	"context"
	"fmt"

	"github.com/emersion/go-imap/v2"
)

// Kind discriminates the shapes a Response can take. Go has no sum types,
// so Parsed is a single struct carrying only the fields relevant to Kind —
// the same shapes imap_proto::Response distinguishes in the original.
type Kind int

const (
	// KindContinue is a "+ ..." continuation request.
	KindContinue Kind = iota
	// KindDone is a tagged completion line ("<tag> OK/NO/BAD ...").
	KindDone
	// KindData is an untagged status line ("* OK/NO/BAD/PREAUTH/BYE ...").
	KindData
	// KindMailboxList is "* LIST (...) delim name" (or LSUB).
	KindMailboxList
	// KindMailboxFlags is "* FLAGS (...)".
	KindMailboxFlags
	// KindMailboxExists is "* <n> EXISTS".
	KindMailboxExists
	// KindMailboxRecent is "* <n> RECENT".
	KindMailboxRecent
	// KindMailboxStatus is "* STATUS mailbox (...)".
	KindMailboxStatus
	// KindFetch is "* <n> FETCH (...)".
	KindFetch
	// KindExpunge is "* <n> EXPUNGE".
	KindExpunge
	// KindCapabilities is "* CAPABILITY ...".
	KindCapabilities
	// KindIDs is "* SEARCH ...".
	KindIDs
)

func (k Kind) String() string {
	switch k {
	case KindContinue:
		return "Continue"
	case KindDone:
		return "Done"
	case KindData:
		return "Data"
	case KindMailboxList:
		return "MailboxData(List)"
	case KindMailboxFlags:
		return "MailboxData(Flags)"
	case KindMailboxExists:
		return "MailboxData(Exists)"
	case KindMailboxRecent:
		return "MailboxData(Recent)"
	case KindMailboxStatus:
		return "MailboxData(Status)"
	case KindFetch:
		return "Fetch"
	case KindExpunge:
		return "Expunge"
	case KindCapabilities:
		return "Capabilities"
	case KindIDs:
		return "IDs"
	default:
		return "Unknown"
	}
}

// Status is a tagged or untagged completion status word.
type Status string

const (
	StatusOK      Status = "OK"
	StatusNo      Status = "NO"
	StatusBad     Status = "BAD"
	StatusPreAuth Status = "PREAUTH"
	StatusBye     Status = "BYE"
)

// Code is a parenthesized-bracket response code, e.g. "[UIDVALIDITY 123]".
type Code struct {
	Name string // upper-cased, e.g. "UIDVALIDITY", "PERMANENTFLAGS"

	// Num is valid when Name is UIDVALIDITY, UIDNEXT or UNSEEN.
	Num uint32
	// Flags is valid when Name is PERMANENTFLAGS.
	Flags []imap.Flag
}

// StatusAttrKind discriminates the STATUS response's per-attribute values.
type StatusAttrKind int

const (
	StatusAttrMessages StatusAttrKind = iota
	StatusAttrUIDNext
	StatusAttrUIDValidity
	StatusAttrUnseen
	StatusAttrRecent
)

// StatusAttr is one NAME/VALUE pair from "* STATUS mailbox (NAME value ...)".
type StatusAttr struct {
	Kind  StatusAttrKind
	Value uint32
}

// FetchAttr is one NAME/VALUE pair from "* <n> FETCH (...)". Per spec.md's
// "opaque value types" carve-out, only UID and FLAGS are decoded; anything
// else is carried verbatim in Raw for a caller (or the bodydecode package)
// to interpret further.
type FetchAttr struct {
	Name  string // upper-cased attribute name, e.g. "UID", "FLAGS", "BODY[TEXT]"
	UID   uint32 // valid when Name == "UID"
	Flags []imap.Flag
	Raw   string // verbatim token text for anything not specially decoded
}

// Parsed is the typed view of one response line.
type Parsed struct {
	Kind Kind

	// KindDone / KindData
	Tag         string // only set for KindDone
	Status      Status
	Code        *Code
	Information string

	// KindMailboxList
	ListFlags     []imap.Flag
	ListDelimiter string // empty means NIL
	ListName      string

	// KindMailboxFlags
	Flags []imap.Flag

	// KindMailboxExists / KindMailboxRecent / KindExpunge / KindFetch
	Num uint32

	// KindMailboxStatus
	StatusMailbox string
	StatusAttrs   []StatusAttr

	// KindFetch
	FetchAttrs []FetchAttr

	// KindCapabilities
	CapabilityTokens []string

	// KindIDs
	IDList []uint32
}

func (p Parsed) String() string {
	return fmt.Sprintf("%s%+v", p.Kind, struct {
		Tag    string
		Status Status
	}{p.Tag, p.Status})
}

// Response is the immutable pair of raw bytes and parsed view described in
// spec.md §3 / §4.A. It is produced once by the network reader (in this
// module, by the proto package) and consumed exactly once by whichever
// component reads it off the shared stream.
type Response struct {
	raw    []byte
	parsed Parsed
}

// New constructs a Response, copying raw so later mutation of the caller's
// buffer cannot change what Raw() returns.
func New(raw []byte, parsed Parsed) Response {
	cp := make([]byte, len(raw))
	copy(cp, raw)
	return Response{raw: cp, parsed: parsed}
}

// Raw returns the exact bytes of the server line this Response was built
// from, byte-for-byte, so logging/debug tooling can reproduce server
// traffic verbatim.
func (r Response) Raw() []byte {
	return r.raw
}

// Parsed returns the typed view of this response.
func (r Response) Parsed() Parsed {
	return r.parsed
}

// Source is the shared response stream a demultiplexer or the IDLE handle
// reads from. Exactly one component may be draining a given Source at a
// time (spec.md §3's single-active-demultiplexer invariant) — Source
// itself does not enforce that, the session façade does by construction
// (see spec.md §5, §9 "Shared stream vs. ownership").
//
// Next blocks until a response is available, the source is exhausted (ok
// == false, err == nil), or it fails (err != nil).
type Source interface {
	Next(ctx context.Context) (r Response, ok bool, err error)
}


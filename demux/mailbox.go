package demux

import (
	"context"

	"github.com/emersion/go-imap/v2"

	"github.com/emx-mail/imapcore/imaperr"
	"github.com/emx-mail/imapcore/response"
	"github.com/emx-mail/imapcore/unsolicited"
)

// Mailbox accumulates the untagged data a SELECT or EXAMINE command reports
// about the mailbox it just opened (RFC 3501 §6.3.1/§6.3.2).
type Mailbox struct {
	Exists uint32
	Recent uint32

	Flags          map[imap.Flag]struct{}
	PermanentFlags map[imap.Flag]struct{}

	UIDValidity *uint32
	UIDNext     *uint32
	Unseen      *uint32
}

func newMailbox() Mailbox {
	return Mailbox{
		Flags:          make(map[imap.Flag]struct{}),
		PermanentFlags: make(map[imap.Flag]struct{}),
	}
}

// ParseMailbox runs a SELECT/EXAMINE command to completion, folding its
// untagged responses into a Mailbox snapshot. EXISTS and RECENT here are
// plain accumulator updates — they belong to this command's own result, not
// to a unilateral push, so they are never forwarded to sink. STATUS and
// EXPUNGE lines are the exception: they are forwarded to sink and do not
// change the Mailbox, since a server may legitimately interleave them
// during SELECT/EXAMINE the same way it would outside of one.
func ParseMailbox(ctx context.Context, src response.Source, sink *unsolicited.Sink, tag string) (Mailbox, error) {
	mb := newMailbox()

	for {
		r, done, err := readStep(ctx, src, tag)
		if err != nil {
			return Mailbox{}, err
		}
		if done {
			if cerr := imaperr.FromDone(r.Parsed()); cerr != nil {
				return Mailbox{}, cerr
			}
			return mb, nil
		}

		p := r.Parsed()
		switch p.Kind {
		case response.KindData:
			if p.Status != response.StatusOK {
				return Mailbox{}, &imaperr.ProtocolError{Unexpected: r}
			}
			if p.Code == nil {
				continue
			}
			switch p.Code.Name {
			case "UIDVALIDITY":
				n := p.Code.Num
				mb.UIDValidity = &n
			case "UIDNEXT":
				n := p.Code.Num
				mb.UIDNext = &n
			case "UNSEEN":
				n := p.Code.Num
				mb.Unseen = &n
			case "PERMANENTFLAGS":
				for _, f := range p.Code.Flags {
					mb.PermanentFlags[f] = struct{}{}
				}
			}

		case response.KindMailboxFlags:
			for _, f := range p.Flags {
				mb.Flags[f] = struct{}{}
			}

		case response.KindMailboxExists:
			mb.Exists = p.Num

		case response.KindMailboxRecent:
			mb.Recent = p.Num

		case response.KindExpunge:
			if err := sink.Send(ctx, unsolicited.Event{Kind: unsolicited.EventExpunge, Num: p.Num}); err != nil {
				return Mailbox{}, err
			}

		case response.KindMailboxList:
			// LSUB/LIST lines are not valid inside SELECT/EXAMINE; ignore
			// rather than fail, matching the original's lenient handling.

		case response.KindMailboxStatus:
			if err := sink.Send(ctx, unsolicited.Event{Kind: unsolicited.EventStatus, Mailbox: p.StatusMailbox, Attrs: p.StatusAttrs}); err != nil {
				return Mailbox{}, err
			}

		default:
			return Mailbox{}, &imaperr.ProtocolError{Unexpected: r}
		}
	}
}

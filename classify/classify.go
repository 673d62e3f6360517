// Package classify implements the unilateral classifier (component C):
// deciding whether a response is a unilateral (server-pushed) update that
// belongs in the unsolicited sink, or must be handled by the active
// command.
package classify

import (
	"context"

	"github.com/emx-mail/imapcore/response"
	"github.com/emx-mail/imapcore/unsolicited"
)

// Classify inspects r. If it is one of the four unilateral shapes (Status,
// Recent, Exists, Expunge), the corresponding event is sent to sink and
// Classify returns (true, nil) — "consumed". Otherwise it returns (false,
// nil) and the caller must handle r itself.
//
// Sending to sink is the only suspension point inside Classify (spec.md
// §4.C); if ctx is cancelled while the sink is full, Classify returns
// (false, err) so the caller can abort rather than silently dropping a
// command-relevant response.
func Classify(ctx context.Context, r response.Response, sink *unsolicited.Sink) (bool, error) {
	p := r.Parsed()

	var ev unsolicited.Event
	switch p.Kind {
	case response.KindMailboxStatus:
		ev = unsolicited.Event{Kind: unsolicited.EventStatus, Mailbox: p.StatusMailbox, Attrs: p.StatusAttrs}
	case response.KindMailboxRecent:
		ev = unsolicited.Event{Kind: unsolicited.EventRecent, Num: p.Num}
	case response.KindMailboxExists:
		ev = unsolicited.Event{Kind: unsolicited.EventExists, Num: p.Num}
	case response.KindExpunge:
		ev = unsolicited.Event{Kind: unsolicited.EventExpunge, Num: p.Num}
	default:
		return false, nil
	}

	if err := sink.Send(ctx, ev); err != nil {
		return false, err
	}
	return true, nil
}

// Package keepalive adapts the teacher's watchIDLE/reconnect loop to cycle
// an idle.Handle at a safe interval and survive transport failures. It is
// a deliberate non-core addition: spec.md scopes "retry-across-reconnect"
// out of the core demultiplexer/IDLE pieces, but carves out exactly this
// kind of keepalive wrapper as a named exception.
package keepalive

import (
	"context"
	"errors"
	"time"

	"github.com/emx-mail/imapcore/classify"
	"github.com/emx-mail/imapcore/idle"
	"github.com/emx-mail/imapcore/imaperr"
	"github.com/emx-mail/imapcore/session"
	"github.com/emx-mail/imapcore/unsolicited"
)

const (
	// DefaultInterval matches RFC 2177's "terminate IDLE at least every 29
	// minutes" guidance.
	DefaultInterval = 29 * time.Minute
	// MinInterval and MaxInterval bound Interval to a sane RFC 2177 range.
	MinInterval = time.Minute
	MaxInterval = 29 * time.Minute

	// DefaultMaxRetries matches the teacher's reconnect default.
	DefaultMaxRetries = 5
)

// Dialer re-establishes a session.Session after the active one fails with
// an I/O error, mirroring IMAPClient.reconnect's re-dial-and-re-select
// loop in the teacher.
type Dialer func(ctx context.Context) (session.Session, error)

// Runner cycles IDLE/DONE at Interval so a long-lived IDLE session
// survives server inactivity timeouts, classifying every unilateral
// update it observes into Sink. The IDLE handle itself has no opinion on
// how long to idle for; Runner supplies that policy.
type Runner struct {
	Interval   time.Duration
	MaxRetries int
	Dialer     Dialer

	Sink *unsolicited.Sink
}

// NewRunner creates a Runner with an RFC-2177-safe cycle interval (clamped
// to [MinInterval, MaxInterval], defaulting to DefaultInterval) and a sink
// of the given capacity.
func NewRunner(interval time.Duration, sinkCapacity int) *Runner {
	switch {
	case interval <= 0:
		interval = DefaultInterval
	case interval < MinInterval:
		interval = MinInterval
	case interval > MaxInterval:
		interval = MaxInterval
	}
	return &Runner{
		Interval:   interval,
		MaxRetries: DefaultMaxRetries,
		Sink:       unsolicited.NewSink(sinkCapacity),
	}
}

// Run idles on sess until ctx is cancelled, cycling the IDLE command every
// r.Interval. If an idle cycle fails with an I/O error and r.Dialer is
// set, Run reconnects with exponential backoff (capped at 30s, up to
// r.MaxRetries attempts) and resumes; otherwise the error is returned.
func (r *Runner) Run(ctx context.Context, sess session.Session) error {
	defer r.Sink.Close()

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		err := r.idleOnce(ctx, sess)
		if err == nil {
			continue
		}
		if ctx.Err() != nil {
			return nil
		}

		var ioErr *imaperr.IOError
		if !errors.As(err, &ioErr) || r.Dialer == nil {
			return err
		}

		sess, err = r.reconnect(ctx)
		if err != nil {
			return err
		}
	}
}

// idleOnce runs a single IDLE cycle: Init, read unilateral updates for up
// to r.Interval (classifying each into r.Sink), then Done. A cycle ending
// because its own timeout elapsed is not an error -- Run simply starts the
// next cycle.
func (r *Runner) idleOnce(ctx context.Context, sess session.Session) error {
	h := idle.New(sess)
	if err := h.Init(ctx, nil); err != nil {
		return err
	}

	cycleCtx, cancel := context.WithTimeout(ctx, r.Interval)
	defer cancel()

	src := h.Stream()
	for {
		resp, ok, err := src.Next(cycleCtx)
		if err != nil {
			if cycleCtx.Err() != nil && ctx.Err() == nil {
				break
			}
			return err
		}
		if !ok {
			break
		}
		if _, err := classify.Classify(ctx, resp, r.Sink); err != nil {
			return err
		}
	}

	_, err := h.Done(ctx)
	return err
}

func (r *Runner) reconnect(ctx context.Context) (session.Session, error) {
	var lastErr error
	for attempt := 0; attempt < r.MaxRetries; attempt++ {
		wait := time.Duration(1<<uint(attempt)) * time.Second
		if wait > 30*time.Second {
			wait = 30 * time.Second
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}

		sess, err := r.Dialer(ctx)
		if err == nil {
			return sess, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

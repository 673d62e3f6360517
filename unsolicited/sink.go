// Package unsolicited implements the bounded sink that server-pushed
// mailbox events are fanned out into (component B) and the Event sum type
// those pushes carry (spec.md §3 "Unsolicited event").
package unsolicited

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/emx-mail/imapcore/response"
)

// DefaultCapacity is the sink capacity used when a non-positive value is
// requested, matching spec.md §6's "sink_capacity ... default >= 8".
const DefaultCapacity = 8

// EventKind discriminates the four unilateral events RFC 3501 §7 allows a
// server to push at any time.
type EventKind int

const (
	EventStatus EventKind = iota
	EventRecent
	EventExists
	EventExpunge
)

func (k EventKind) String() string {
	switch k {
	case EventStatus:
		return "Status"
	case EventRecent:
		return "Recent"
	case EventExists:
		return "Exists"
	case EventExpunge:
		return "Expunge"
	default:
		return "Unknown"
	}
}

// Event is one unsolicited (server-pushed) mailbox update.
type Event struct {
	Kind EventKind

	// Mailbox and Attrs are set only when Kind == EventStatus.
	Mailbox string
	Attrs   []response.StatusAttr

	// Num is set for Recent, Exists and Expunge.
	Num uint32
}

// Sink is the bounded, multi-producer/single-consumer channel unilateral
// events are routed through. A golang.org/x/sync/semaphore.Weighted gates
// producer capacity so Send can suspend on a full sink in a way that still
// honors caller cancellation (spec.md §5's only in-classifier suspension
// point), and so a closed/gone consumer doesn't wedge producers forever.
type Sink struct {
	capacity int64
	sem      *semaphore.Weighted
	events   chan Event

	closeOnce sync.Once
	done      chan struct{}
}

// NewSink creates a Sink with the given capacity (>= 1; non-positive values
// fall back to DefaultCapacity).
func NewSink(capacity int) *Sink {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Sink{
		capacity: int64(capacity),
		sem:      semaphore.NewWeighted(int64(capacity)),
		events:   make(chan Event, capacity),
		done:     make(chan struct{}),
	}
}

// Capacity returns the configured bound.
func (s *Sink) Capacity() int {
	return int(s.capacity)
}

// Send enqueues ev, suspending the caller while the sink is full. If ctx is
// cancelled while suspended, Send returns ctx.Err() without delivering ev.
// If the sink has been Closed, Send returns nil immediately and silently
// discards ev — per spec.md §4.B, a gone consumer must never deadlock a
// producer.
func (s *Sink) Send(ctx context.Context, ev Event) error {
	acqCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.done:
			cancel()
		case <-acqCtx.Done():
		}
	}()
	if err := s.sem.Acquire(acqCtx, 1); err != nil {
		return ctx.Err() // nil when the wait ended because the sink was closed
	}
	select {
	case <-s.done:
		s.sem.Release(1)
	default:
		s.events <- ev
	}
	return nil
}

// Recv returns the next queued event, blocking until one arrives, the sink
// is closed and drained, or ctx is cancelled.
func (s *Sink) Recv(ctx context.Context) (Event, bool, error) {
	select {
	case ev := <-s.events:
		s.sem.Release(1)
		return ev, true, nil
	case <-ctx.Done():
		return Event{}, false, ctx.Err()
	default:
	}

	select {
	case ev := <-s.events:
		s.sem.Release(1)
		return ev, true, nil
	case <-s.done:
		select {
		case ev := <-s.events:
			s.sem.Release(1)
			return ev, true, nil
		default:
			return Event{}, false, nil
		}
	case <-ctx.Done():
		return Event{}, false, ctx.Err()
	}
}

// Close signals Send to stop blocking. Events already queued remain
// available to Recv until drained.
func (s *Sink) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

package relay

import (
	"context"
	"time"

	"go.uber.org/zap"

	"find-usce-backend/internal/metrics"
)

type EventKind int

const (
	EventFragment EventKind = iota
	EventDone
	EventError
)

type Event struct {
	Kind EventKind
	Text string
	Err  error
}

// Stream is one open chat reply. It is owned by a single goroutine.
type Stream struct {
	ID string

	ctx     context.Context
	cancel  context.CancelFunc
	events  <-chan Event
	pending *Event

	state   State
	acc     Accumulator
	started time.Time
	log     *zap.Logger
	closed  bool
}

// Next returns the next event. After the terminal EventDone or EventError
// it returns false.
func (s *Stream) Next() (Event, bool) {
	ev, ok, _ := s.NextWithin(0)
	return ev, ok
}

// NextWithin is Next with an idle limit: idle is true when no event arrived
// within d. A d of zero or less waits indefinitely.
func (s *Stream) NextWithin(d time.Duration) (ev Event, ok, idle bool) {
	if s.state.Terminal() {
		return Event{}, false, false
	}

	if s.pending != nil {
		ev, s.pending = *s.pending, nil
	} else {
		var timeout <-chan time.Time
		if d > 0 {
			t := time.NewTimer(d)
			defer t.Stop()
			timeout = t.C
		}

		select {
		case e, open := <-s.events:
			if !open {
				e = Event{Kind: EventError, Err: closedErr(s.ctx)}
			}
			ev = e
		case <-timeout:
			return Event{}, false, true
		}
	}

	switch ev.Kind {
	case EventFragment:
		s.acc.Add(ev.Text)
		metrics.ChatFragments.Inc()
	case EventDone:
		s.transition(Completed)
	case EventError:
		s.log.Error("upstream failed while streaming",
			zap.Error(ev.Err),
			zap.Int("fragments_delivered", s.acc.Fragments()))
		s.fail()
	}
	return ev, true, false
}

// Close stops reading from upstream and releases it. Closing a stream that
// has not reached a terminal state (caller disconnected, timeout) marks it
// failed.
func (s *Stream) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.cancel()

	if !s.state.Terminal() {
		s.log.Warn("stream aborted before completion", zap.Int("fragments_delivered", s.acc.Fragments()))
		s.fail()
	}
	if s.state == Completed {
		s.log.Info("stream completed",
			zap.Int("fragments", s.acc.Fragments()),
			zap.Int("reply_length", len(s.acc.Text())),
			zap.Duration("duration", time.Since(s.started)))
	}
	metrics.ChatStreamDuration.Observe(time.Since(s.started).Seconds())
}

func (s *Stream) State() State {
	return s.state
}

// Text is the reply accumulated so far
func (s *Stream) Text() string {
	return s.acc.Text()
}

func (s *Stream) transition(to State) {
	s.state = to
	if to.Terminal() {
		metrics.ChatStreams.WithLabelValues(to.String()).Inc()
	}
}

func (s *Stream) fail() {
	if !s.state.Terminal() {
		s.transition(Failed)
	}
}

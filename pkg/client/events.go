package client

import (
	"context"
	"sync"
)

type AuthEventType string

const (
	EventInitialSession AuthEventType = "INITIAL_SESSION"
	EventSignedIn       AuthEventType = "SIGNED_IN"
	EventSignedOut      AuthEventType = "SIGNED_OUT"
	EventTokenRefreshed AuthEventType = "TOKEN_REFRESHED"
	EventUserUpdated    AuthEventType = "USER_UPDATED"
)

// AuthEvent is pushed to subscribers on every auth state change. Session is
// nil when nobody is signed in.
type AuthEvent struct {
	Type    AuthEventType
	Session *Session
}

// subscription buffers events so the client never blocks on a slow reader
type subscription struct {
	out    chan AuthEvent
	signal chan struct{}

	mu    sync.Mutex
	queue []AuthEvent
}

func newSubscription() *subscription {
	return &subscription{
		out:    make(chan AuthEvent),
		signal: make(chan struct{}, 1),
	}
}

func (s *subscription) push(event AuthEvent) {
	s.mu.Lock()
	s.queue = append(s.queue, event)
	s.mu.Unlock()

	select {
	case s.signal <- struct{}{}:
	default:
	}
}

func (s *subscription) next() (AuthEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return AuthEvent{}, false
	}
	event := s.queue[0]
	s.queue = s.queue[1:]
	return event, true
}

// pump delivers queued events in order until ctx ends, then closes out
func (s *subscription) pump(ctx context.Context, done func()) {
	defer close(s.out)
	defer done()

	for {
		event, ok := s.next()
		if !ok {
			select {
			case <-s.signal:
				continue
			case <-ctx.Done():
				return
			}
		}

		select {
		case s.out <- event:
		case <-ctx.Done():
			return
		}
	}
}

// Subscribe streams auth events until ctx is cancelled. The first event is
// always EventInitialSession carrying the stored session, if any.
func (c *Client) Subscribe(ctx context.Context) <-chan AuthEvent {
	sub := newSubscription()

	c.subMu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = sub
	// queued under the lock so no later event can overtake it
	sub.push(AuthEvent{Type: EventInitialSession, Session: c.currentSession()})
	c.subMu.Unlock()

	go sub.pump(ctx, func() {
		c.subMu.Lock()
		delete(c.subscribers, id)
		c.subMu.Unlock()
	})

	return sub.out
}

func (c *Client) emit(eventType AuthEventType, session *Session) {
	c.subMu.Lock()
	defer c.subMu.Unlock()

	for _, sub := range c.subscribers {
		var copied *Session
		if session != nil {
			s := *session
			copied = &s
		}
		sub.push(AuthEvent{Type: eventType, Session: copied})
	}
}

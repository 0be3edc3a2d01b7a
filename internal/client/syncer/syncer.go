// Package syncer binds a screen's refetch action to the realtime events it
// cares about. A realtime event is a signal to refresh, never a delta to
// apply: on any relevant event the screen refetches its whole list from
// the REST API. That costs one extra round trip and buys freedom from any
// client-side merge or ordering logic.
package syncer

import (
	"context"
	"encoding/json"

	"github.com/homequote/homequote/internal/client/realtime"
	"github.com/homequote/homequote/internal/logging"
)

// Channel is the slice of the realtime channel the syncer needs.
type Channel interface {
	On(event string, fn realtime.Handler) realtime.Subscription
	Off(sub realtime.Subscription)
}

// Syncer re-runs refetch whenever one of its events fires. One Syncer per
// screen; Start when the screen appears, Stop when it is torn down.
type Syncer struct {
	channel Channel
	log     logging.Logger
	refetch func(ctx context.Context)
	events  []string

	subs []realtime.Subscription
}

func New(channel Channel, log logging.Logger, refetch func(ctx context.Context), events ...string) *Syncer {
	return &Syncer{
		channel: channel,
		log:     log.With("component", "syncer"),
		refetch: refetch,
		events:  events,
	}
}

// Start registers one handler per event. Calling Start twice without Stop
// would double the registrations, so it is a no-op while started.
func (s *Syncer) Start() {
	if len(s.subs) > 0 {
		return
	}
	for _, event := range s.events {
		event := event
		sub := s.channel.On(event, func(json.RawMessage) {
			// payload deliberately ignored; its shape is not guaranteed
			s.log.Debug(context.Background(), "refresh signal", "event", event)
			s.refetch(context.Background())
		})
		s.subs = append(s.subs, sub)
	}
}

// Stop removes this syncer's registrations, leaving other screens'
// handlers untouched.
func (s *Syncer) Stop() {
	for _, sub := range s.subs {
		s.channel.Off(sub)
	}
	s.subs = nil
}

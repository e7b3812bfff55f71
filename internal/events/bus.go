package events

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
)

// subscription is one subscriber channel. A nil types set receives everything.
type subscription struct {
	ch     chan Event
	types  map[string]bool
	closed bool // guarded by Bus.mu
}

func (s *subscription) wants(eventType string) bool {
	return s.types == nil || s.types[eventType]
}

// Bus fans events out to subscribers and optionally persists them.
// Delivery never blocks: a full subscriber misses the event.
type Bus struct {
	mu      sync.RWMutex
	subs    []*subscription
	log     *EventLog // may be nil
	logger  *slog.Logger
	closed  bool
	dropped atomic.Int64
}

// NewBus creates a new event bus.
// The EventLog is optional - pass nil to disable persistence.
func NewBus(log *EventLog, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		log:    log,
		logger: logger.With("component", "events"),
	}
}

// Publish persists e and delivers it to matching subscribers.
// Publishing on a closed bus is a no-op.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return nil
	}
	var targets []*subscription
	for _, s := range b.subs {
		if s.wants(e.EventType()) {
			targets = append(targets, s)
		}
	}
	b.mu.RUnlock()

	if b.log != nil {
		if _, err := b.log.Append(ctx, e); err != nil {
			b.logger.Error("failed to persist event", "type", e.EventType(), "error", err)
		}
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}
	for _, s := range targets {
		// Unsubscribe may have closed the channel while the lock was released.
		if s.closed {
			continue
		}
		select {
		case s.ch <- e:
		default:
			b.dropped.Add(1)
			b.logger.Warn("subscriber channel full, dropping event",
				"type", e.EventType(),
				"entity_id", e.EntityID())
		}
	}
	return nil
}

// Subscribe returns a channel receiving the given event types, or every
// event when none are given.
func (b *Bus) Subscribe(bufferSize int, eventTypes ...string) <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := &subscription{ch: make(chan Event, bufferSize)}
	if len(eventTypes) > 0 {
		s.types = make(map[string]bool, len(eventTypes))
		for _, t := range eventTypes {
			s.types[t] = true
		}
	}
	if b.closed {
		close(s.ch)
		return s.ch
	}
	b.subs = append(b.subs, s)
	return s.ch
}

// SubscribeAll returns a channel for all events.
func (b *Bus) SubscribeAll(bufferSize int) <-chan Event {
	return b.Subscribe(bufferSize)
}

// Unsubscribe removes and closes a subscription channel.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := slices.IndexFunc(b.subs, func(s *subscription) bool { return s.ch == ch })
	if i < 0 {
		return
	}
	b.subs[i].closed = true
	close(b.subs[i].ch)
	b.subs = slices.Delete(b.subs, i, i+1)
}

// Dropped reports how many deliveries were skipped because a subscriber was full.
func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}

// Close shuts down the bus and closes all subscriber channels.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for _, s := range b.subs {
		s.closed = true
		close(s.ch)
	}
	b.subs = nil
	return nil
}

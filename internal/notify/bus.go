package notify

import (
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Event is a single progress or result message emitted by an agent while it
// works on a task.
type Event struct {
	ID        string    `json:"id"`
	Agent     string    `json:"agent"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NewEvent stamps an event with an ID and the emission time.
func NewEvent(agent, message string) Event {
	return Event{
		ID:        uuid.NewString(),
		Agent:     agent,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// Subscription is a live feed of events published after Subscribe was called.
// There is no backlog or replay; the channel is closed on Unsubscribe or when
// the bus shuts down.
type Subscription struct {
	C  <-chan Event
	ch chan Event
}

// Bus fans events out to all active subscriptions. Publish never blocks the
// caller: each subscription has a bounded queue and when a subscriber falls
// behind, the newest event is dropped for that subscriber (drop-newest
// policy). Per-subscriber ordering of delivered events matches emission
// order because Publish runs the fan-out under one lock.
type Bus struct {
	mu      sync.Mutex
	subs    map[*Subscription]struct{}
	buffer  int
	closed  bool
	dropped atomic.Uint64
	logger  *log.Logger
}

// DefaultBuffer is the per-subscriber queue depth used when none is configured.
const DefaultBuffer = 64

func NewBus(buffer int, logger *log.Logger) *Bus {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if logger == nil {
		logger = log.New(log.Writer(), "[NOTIFY] ", log.LstdFlags)
	}
	return &Bus{
		subs:   make(map[*Subscription]struct{}),
		buffer: buffer,
		logger: logger,
	}
}

// Publish delivers the event to every active subscription. A full subscriber
// queue drops this event for that subscriber only.
func (b *Bus) Publish(e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for sub := range b.subs {
		select {
		case sub.ch <- e:
		default:
			b.dropped.Add(1)
			b.logger.Printf("subscriber queue full, dropping event from %s", e.Agent)
		}
	}
}

// Subscribe registers a new observer. Events published before this call are
// never delivered.
func (b *Bus) Subscribe() *Subscription {
	ch := make(chan Event, b.buffer)
	sub := &Subscription{C: ch, ch: ch}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return sub
	}
	b.subs[sub] = struct{}{}
	return sub
}

// Unsubscribe stops delivery and closes the subscription channel. Calling it
// more than once is a no-op.
func (b *Bus) Unsubscribe(sub *Subscription) {
	if sub == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[sub]; !ok {
		return
	}
	delete(b.subs, sub)
	close(sub.ch)
}

// Close shuts the bus down and closes all subscription channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subs {
		close(sub.ch)
		delete(b.subs, sub)
	}
}

// Dropped reports how many events were discarded because a subscriber queue
// was full.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}

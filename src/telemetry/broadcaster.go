package telemetry

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"liftsched/src/logger"
)

// Broadcaster queues messages from the scheduler and fans them out to the
// registered sinks on its own goroutine. A full queue drops the message.
type Broadcaster struct {
	queue   chan Message
	dropped atomic.Uint64

	mu    sync.Mutex
	sinks []Sink

	log zerolog.Logger
}

func NewBroadcaster(buffer int) *Broadcaster {
	return &Broadcaster{
		queue: make(chan Message, buffer),
		log:   logger.Component("telemetry"),
	}
}

func (b *Broadcaster) Publish(msg Message) {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	select {
	case b.queue <- msg:
	default:
		b.dropped.Add(1)
	}
}

// Dropped is the number of messages lost to a full queue.
func (b *Broadcaster) Dropped() uint64 {
	return b.dropped.Load()
}

func (b *Broadcaster) Subscribe(s Sink) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks = append(b.sinks, s)
}

// Run delivers queued messages until ctx is done, then flushes whatever is
// still queued.
func (b *Broadcaster) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case msg := <-b.queue:
					b.deliver(msg)
				default:
					return
				}
			}
		case msg := <-b.queue:
			b.deliver(msg)
		}
	}
}

func (b *Broadcaster) deliver(msg Message) {
	frame, err := Encode(msg)
	if err != nil {
		// Logged at debug so the hook does not feed it back into the queue.
		b.log.Debug().Err(err).Str("type", string(msg.Type)).Msg("Dropping unencodable message")
		return
	}
	b.mu.Lock()
	sinks := make([]Sink, len(b.sinks))
	copy(sinks, b.sinks)
	b.mu.Unlock()
	for _, s := range sinks {
		s.Send(frame)
	}
}

package server

import (
	"encoding/json"
	"sync"

	"github.com/stadtaev/escaperoom/internal/game"
)

// Broker is an in-process pub/sub for SSE events, keyed by session token.
// The presentation layer subscribes and reacts; nothing downstream can
// block a game transition.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded events for the
// given session.
func (b *Broker) Subscribe(session string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[session] == nil {
		b.subs[session] = make(map[chan []byte]struct{})
	}
	b.subs[session][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the session's subscribers.
func (b *Broker) Unsubscribe(session string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[session], ch)
	if len(b.subs[session]) == 0 {
		delete(b.subs, session)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given session.
func (b *Broker) Publish(session string, event game.Event) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[session] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}

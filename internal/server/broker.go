package server

import (
	"encoding/json"
	"sync"
)

// message is one published event, already JSON-encoded.
type message struct {
	Event string
	Data  []byte
}

// Broker is an in-process pub/sub for room events, keyed by room code. It
// feeds both the SSE and websocket streams.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan message]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan message]struct{}),
	}
}

// Subscribe returns a channel that receives events for the given room.
func (b *Broker) Subscribe(roomCode string) chan message {
	ch := make(chan message, 16)
	b.mu.Lock()
	if b.subs[roomCode] == nil {
		b.subs[roomCode] = make(map[chan message]struct{})
	}
	b.subs[roomCode][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the room's subscribers.
func (b *Broker) Unsubscribe(roomCode string, ch chan message) {
	b.mu.Lock()
	delete(b.subs[roomCode], ch)
	if len(b.subs[roomCode]) == 0 {
		delete(b.subs, roomCode)
	}
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given room.
func (b *Broker) Publish(roomCode, event string, payload any) {
	data, _ := json.Marshal(payload)
	msg := message{Event: event, Data: data}
	b.mu.RLock()
	for ch := range b.subs[roomCode] {
		select {
		case ch <- msg:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
